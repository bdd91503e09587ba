package filestore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fjgen/internal/config"
)

type fakePutter struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = body
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func newFakePutter() *fakePutter {
	return &fakePutter{objects: map[string][]byte{}, types: map[string]string{}}
}

func TestDir_CreatesDirectoryAndWrites(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "nested", "out")
	store, err := Open(context.Background(), root, config.S3Options{})
	require.NoError(t, err)
	require.IsType(t, &Dir{}, store)

	require.NoError(t, store.Put(context.Background(), "dag_0.yaml", []byte("a: 1\n")))
	got, err := os.ReadFile(filepath.Join(root, "dag_0.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(got))
	assert.Equal(t, filepath.Join(root, "dag_0.yaml"), store.Location("dag_0.yaml"))
}

func TestDir_UnwritablePathFails(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err := NewDir(filepath.Join(file, "sub"))
	assert.ErrorContains(t, err, "failed to create output directory")
}

func TestS3_PutUsesPrefixAndContentType(t *testing.T) {
	t.Parallel()

	fake := newFakePutter()
	store := NewS3(fake, "bench", "runs/a")

	require.NoError(t, store.Put(context.Background(), "dag_0.svg", []byte("<svg/>")))
	assert.Equal(t, []byte("<svg/>"), fake.objects["bench/runs/a/dag_0.svg"])
	assert.Equal(t, "image/svg+xml", fake.types["bench/runs/a/dag_0.svg"])
	assert.Equal(t, "s3://bench/runs/a/dag_0.svg", store.Location("dag_0.svg"))

	bare := NewS3(fake, "bench", "")
	assert.Equal(t, "s3://bench/dag_0.svg", bare.Location("dag_0.svg"))
}

func TestS3_PutWrapsClientError(t *testing.T) {
	t.Parallel()

	boom := errors.New("access denied")
	fake := newFakePutter()
	fake.err = boom
	err := NewS3(fake, "bench", "").Put(context.Background(), "dag_0.json", nil)
	require.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, `failed to upload "s3://bench/dag_0.json"`)
}

func TestParseS3URL(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		dest       string
		wantBucket string
		wantPrefix string
		wantErr    bool
	}{
		{dest: "s3://bench", wantBucket: "bench"},
		{dest: "s3://bench/", wantBucket: "bench"},
		{dest: "s3://bench/runs/2024/", wantBucket: "bench", wantPrefix: "runs/2024"},
		{dest: "s3:///runs", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.dest, func(t *testing.T) {
			bucket, prefix, err := parseS3URL(tc.dest)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantBucket, bucket)
			assert.Equal(t, tc.wantPrefix, prefix)
		})
	}
}

func TestOpen_S3Destination(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "none"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "none"))

	store, err := Open(context.Background(), "s3://bench/runs", config.S3Options{
		Endpoint:        "http://localhost:9000",
		ForcePathStyle:  true,
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
	})
	require.NoError(t, err)
	require.IsType(t, &S3{}, store)
	assert.Equal(t, "s3://bench/runs/x.png", store.Location("x.png"))
}
