package config

import (
	"fmt"
	"strings"

	"webpackalias/internal/engine/parser"
	"webpackalias/internal/shared/util"

	"github.com/gobwas/glob"
)

func validate(cfg *Config) error {
	if err := validateExtensions(cfg); err != nil {
		return err
	}
	if err := validateExcludes(cfg); err != nil {
		return err
	}
	if err := validateOutDir(cfg); err != nil {
		return err
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", cfg.Watch.Debounce)
	}
	return nil
}

func validateExtensions(cfg *Config) error {
	if len(cfg.Extensions) == 0 {
		return fmt.Errorf("extensions must list at least one source extension")
	}
	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
		if parser.LanguageForPath("file"+ext) == "" {
			return fmt.Errorf("extension %q is not a supported source type (supported: %s)",
				ext, strings.Join(parser.SupportedExtensions(), ", "))
		}
	}
	return nil
}

func validateExcludes(cfg *Config) error {
	for _, p := range cfg.Exclude.Dirs {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
	}
	for _, p := range cfg.Exclude.Files {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
	}
	return nil
}

// validateOutDir rejects an output directory that would overwrite inputs.
// An out_dir nested inside an input path is allowed; scans skip it.
func validateOutDir(cfg *Config) error {
	if cfg.OutDir == "" {
		return nil
	}
	for _, p := range cfg.Paths {
		if !util.IsWithin(p, cfg.OutDir) {
			continue
		}
		if util.IsWithin(cfg.OutDir, p) {
			return fmt.Errorf("out_dir %q must differ from input path %q", cfg.OutDir, p)
		}
		return fmt.Errorf("out_dir %q must not contain input path %q", cfg.OutDir, p)
	}
	return nil
}

// Validate re-checks a config after command-line overrides were applied.
func Validate(cfg *Config) error {
	normalize(cfg)
	return validate(cfg)
}
