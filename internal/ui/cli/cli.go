package cli

import (
	"flag"
	"io"
)

const versionString = "1.0.0"
const defaultConfigPath = "./webpackalias.toml"

type cliOptions struct {
	configPath    string
	outDir        string
	watch         bool
	dryRun        bool
	stdinFilename string
	resolve       string
	from          string
	metricsAddr   string
	verbose       bool
	version       bool
	args          []string
}

func parseOptions(args []string, output io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("webpackalias", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	fs.StringVar(&opts.outDir, "out", "", "Write rewritten files below this directory (overrides out_dir)")
	fs.BoolVar(&opts.watch, "watch", false, "Keep running and rewrite files as they change")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Report rewrites without writing any file")
	fs.StringVar(&opts.stdinFilename, "stdin-filename", "", "Rewrite source read from stdin as if it lived at this path and print it")
	fs.StringVar(&opts.resolve, "resolve", "", "Resolve a single dependency string and print the result (requires --from)")
	fs.StringVar(&opts.from, "from", "", "Referencing file for --resolve")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve /metrics and /health on this address (overrides observability.metrics_addr)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}
