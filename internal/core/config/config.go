package config

import "time"

const DefaultFileName = "webpackalias.toml"

type Config struct {
	// WebpackConfig pins the bundler configuration. When empty, the
	// configuration nearest to the first processed file is used.
	WebpackConfig string        `toml:"webpack_config"`
	Paths         []string      `toml:"paths"`
	OutDir        string        `toml:"out_dir"`
	Extensions    []string      `toml:"extensions"`
	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`
}

var (
	defaultExtensions  = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"}
	defaultExcludeDirs = []string{"node_modules", ".git"}
)

func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
