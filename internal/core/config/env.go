package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

const envPrefix = "WEBPACKALIAS_"

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: WEBPACKALIAS_[SECTION]_[KEY] (e.g., WEBPACKALIAS_WATCH_DEBOUNCE).
func ApplyEnvOverrides(cfg *Config) {
	setEnvString(&cfg.WebpackConfig, envPrefix+"WEBPACK_CONFIG")
	setEnvString(&cfg.OutDir, envPrefix+"OUT_DIR")
	setEnvList(&cfg.Paths, envPrefix+"PATHS")
	setEnvList(&cfg.Extensions, envPrefix+"EXTENSIONS")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, envPrefix+"WATCH_DEBOUNCE")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddr, envPrefix+"OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, envPrefix+"OBSERVABILITY_OTLP_ENDPOINT")
	setEnvString(&cfg.Observability.ServiceName, envPrefix+"OBSERVABILITY_SERVICE_NAME")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

// setEnvList splits on the OS path list separator.
func setEnvList(target *[]string, key string) {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return
	}
	var items []string
	for _, item := range strings.Split(val, string(os.PathListSeparator)) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	slog.Debug("applying env override", "key", key, "value", val)
	*target = items
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
