package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
webpack_config = " ./webpack.config.json "
paths = ["./src", "./test"]
out_dir = "build/jest"
extensions = [".js", ".TSX"]

[exclude]
dirs = [".git", "node_modules", "fixtures*"]
files = ["*.min.js"]

[watch]
debounce = "1s"

[observability]
metrics_addr = "127.0.0.1:9464"
otlp_endpoint = "localhost:4317"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./webpack.config.json", cfg.WebpackConfig)
	assert.Equal(t, []string{"./src", "./test"}, cfg.Paths)
	assert.Equal(t, "build/jest", cfg.OutDir)
	assert.Equal(t, []string{".js", ".tsx"}, cfg.Extensions)
	assert.Equal(t, []string{".git", "node_modules", "fixtures*"}, cfg.Exclude.Dirs)
	assert.Equal(t, []string{"*.min.js"}, cfg.Exclude.Files)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, "127.0.0.1:9464", cfg.Observability.MetricsAddr)
	assert.Equal(t, "localhost:4317", cfg.Observability.OTLPEndpoint)
	assert.Equal(t, "webpackalias", cfg.Observability.ServiceName)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `out_dir = "out"`))
	require.NoError(t, err)

	assert.Equal(t, []string{"."}, cfg.Paths)
	assert.Equal(t, []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"}, cfg.Extensions)
	assert.Equal(t, []string{"node_modules", ".git"}, cfg.Exclude.Dirs)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.Empty(t, cfg.WebpackConfig)
}

func TestLoadEmptyExcludeDirsIsKept(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[exclude]\ndirs = []\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Exclude.Dirs)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, []string{"."}, cfg.Paths)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	require.NoError(t, Validate(cfg))
}

func TestLoadError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.toml"))
	assert.True(t, os.IsNotExist(err), "expected not-exist error, got %v", err)

	_, err = Load(writeConfig(t, "bad = toml = format"))
	assert.Error(t, err, "expected error for malformed TOML")
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("WEBPACKALIAS_OUT_DIR", "tmp/out")
	t.Setenv("WEBPACKALIAS_PATHS", "src"+string(os.PathListSeparator)+" lib ")
	t.Setenv("WEBPACKALIAS_WATCH_DEBOUNCE", "2s")
	t.Setenv("WEBPACKALIAS_OBSERVABILITY_METRICS_ADDR", ":9100")

	cfg := DefaultConfig()
	ApplyEnvOverrides(cfg)

	assert.Equal(t, "tmp/out", cfg.OutDir)
	assert.Equal(t, []string{"src", "lib"}, cfg.Paths)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	assert.Equal(t, ":9100", cfg.Observability.MetricsAddr)
}

func TestApplyEnvOverridesIgnoresBadDuration(t *testing.T) {
	t.Setenv("WEBPACKALIAS_WATCH_DEBOUNCE", "soon")

	cfg := DefaultConfig()
	ApplyEnvOverrides(cfg)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
}
