package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fjgen/internal/builder"
	"github.com/vk/fjgen/internal/config"
	"github.com/vk/fjgen/internal/filestore"
	"github.com/vk/fjgen/internal/hcl"
)

const benchConfig = `
seed                   = 9
number_of_dags         = 3
fork_depth             = [1, 3]
nr_fork                = [2, 3]
early_termination_prob = [0, 0.3]
number_of_source_nodes = [1, 2]
number_of_sink_nodes   = 1
execution_time         = [1, 20]
communication_time     = [1, 4]
graph_utilization      = 0.5

output {
  formats = ["yaml", "schedule_yaml"]
  figures = ["svg"]
}
`

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(Config{ConfigPath: "x.hcl", LogFormat: "json", LogLevel: "warn"})
	require.NoError(t, err)
	assert.Equal(t, "x.hcl", cfg.ConfigPath)

	_, err = NewConfig(Config{LogFormat: "xml", LogLevel: "loud"})
	assert.ErrorContains(t, err, `invalid log-format "xml"`)
	assert.ErrorContains(t, err, `invalid log-level "loud"`)
}

func TestRun_WritesEveryArtifact(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	cfg := &Config{ConfigPath: writeConfig(t, dir, "bench.hcl", benchConfig), Destination: out}
	a, logs := SetupAppTest(t, cfg, hcl.NewLoader())

	summary, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.DAGs)
	assert.Equal(t, uint64(9), summary.Seed)
	assert.Equal(t, out, summary.Destination)
	assert.Len(t, summary.Artifacts, 9)

	for _, name := range []string{"dag_0.yaml", "dag_1_schedule.yaml", "dag_2.svg"} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.Contains(t, logs.String(), "run_id="+summary.RunID)
	assert.Contains(t, logs.String(), "critical_path_length=")
}

func TestRun_SameSeedSameOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, "bench.hcl", benchConfig)

	run := func(dest string) []byte {
		a, _ := SetupAppTest(t, &Config{ConfigPath: path, Destination: dest}, hcl.NewLoader())
		_, err := a.Run(context.Background())
		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(dest, "dag_2_schedule.yaml"))
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, run(filepath.Join(dir, "a")), run(filepath.Join(dir, "b")))
}

func TestRun_SeedFlagOverridesConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	seed := uint64(12345)
	cfg := &Config{
		ConfigPath:  writeConfig(t, dir, "bench.hcl", benchConfig),
		Destination: filepath.Join(dir, "out"),
		Seed:        &seed,
	}
	a, _ := SetupAppTest(t, cfg, hcl.NewLoader())

	summary, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seed, summary.Seed)
}

func TestRun_InfeasibleConfigWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	cfg := &Config{
		ConfigPath: writeConfig(t, dir, "bad.hcl", `
number_of_dags         = 1
fork_depth             = 2
nr_fork                = 2
number_of_nodes        = 3
number_of_source_nodes = 2
number_of_sink_nodes   = 2
graph_utilization      = 0.5
`),
		Destination: out,
	}
	a, _ := SetupAppTest(t, cfg, hcl.NewLoader())

	_, err := a.Run(context.Background())
	var infeasible *builder.InfeasibleConfigError
	require.ErrorAs(t, err, &infeasible)
	assert.NoDirExists(t, out)
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := &Config{ConfigPath: writeConfig(t, dir, "bench.hcl", benchConfig), Destination: filepath.Join(dir, "out")}
	a, _ := SetupAppTest(t, cfg, hcl.NewLoader())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := a.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.DAGs)
}

func TestRun_StoreFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := &Config{ConfigPath: writeConfig(t, dir, "bench.hcl", benchConfig)}
	a, _ := SetupAppTest(t, cfg, hcl.NewLoader())
	boom := errors.New("no credentials")
	a.openStore = func(context.Context, string, config.S3Options) (filestore.Store, error) {
		return nil, boom
	}

	_, err := a.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "failed to open output destination")
}

func TestRun_MissingConfig(t *testing.T) {
	t.Parallel()

	cfg := &Config{ConfigPath: filepath.Join(t.TempDir(), "absent.hcl")}
	a, _ := SetupAppTest(t, cfg, hcl.NewLoader())

	_, err := a.Run(context.Background())
	assert.ErrorContains(t, err, "failed to load configuration")
}

func TestValidate_ReportsEachFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeConfig(t, dir, "good.hcl", benchConfig)
	bad := writeConfig(t, dir, "bad.hcl", `
number_of_dags         = 1
fork_depth             = 2
nr_fork                = 2
early_termination_prob = 3
graph_utilization      = 0.5
`)
	badFormat := writeConfig(t, dir, "format.hcl", `
number_of_dags    = 1
fork_depth        = 2
nr_fork           = 2
graph_utilization = 0.5
output {
  formats = ["gexf"]
}
`)
	a, logs := SetupAppTest(t, &Config{}, hcl.NewLoader())

	files, err := a.Validate(context.Background(), dir)
	assert.Equal(t, []string{bad, badFormat, good}, files)
	require.Error(t, err)
	assert.ErrorContains(t, err, bad+": infeasible configuration")
	assert.ErrorContains(t, err, badFormat+`: unknown output format "gexf"`)
	assert.NotContains(t, err.Error(), good)
	assert.Contains(t, logs.String(), "Configuration valid.")
}

func TestValidate_NothingFound(t *testing.T) {
	t.Parallel()

	a, _ := SetupAppTest(t, &Config{}, hcl.NewLoader())
	_, err := a.Validate(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "no configuration files found")
}

func TestRun_DryRunPersistsNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	cfg := &Config{ConfigPath: writeConfig(t, dir, "bench.hcl", benchConfig), Destination: out, DryRun: true}
	a, logs := SetupAppTest(t, cfg, hcl.NewLoader())
	a.openStore = func(context.Context, string, config.S3Options) (filestore.Store, error) {
		t.Fatal("a dry run must not open the destination")
		return nil, nil
	}

	summary, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.DryRun)
	assert.Equal(t, 3, summary.DAGs)
	assert.Contains(t, summary.Artifacts, "memory://dag_0.yaml")
	assert.NoDirExists(t, out)
	assert.Contains(t, logs.String(), "Dry run: nothing was persisted.")
}
