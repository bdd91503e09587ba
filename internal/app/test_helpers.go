package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/vk/fjgen/internal/config"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates a new app instance for system testing. The log output
// is printed when FJGEN_TEST_LOGS=true.
func SetupAppTest(t *testing.T, appConfig *Config, loader config.Loader) (*App, *SafeBuffer) {
	t.Helper()

	logBuffer := &SafeBuffer{}
	appConfig.LogLevel = "debug"
	if appConfig.LogFormat == "" {
		appConfig.LogFormat = "text"
	}
	testApp := NewApp(logBuffer, appConfig, loader)

	t.Cleanup(func() {
		if os.Getenv("FJGEN_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
