package webpack

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"webpackalias/internal/core/errors"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ConfigNames lists the file names Find looks for, in preference order.
var ConfigNames = []string{
	"webpack.config.json",
	"webpack.config.yaml",
	"webpack.config.yml",
	"webpack.config.toml",
}

// Find walks up from the directory of startFile to the filesystem root and
// returns the first bundler configuration it meets.
func Find(startFile string) (string, error) {
	abs, err := filepath.Abs(startFile)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "resolve start path").
			WithContext(errors.CtxPath, startFile)
	}

	current := filepath.Dir(abs)
	for {
		for _, name := range ConfigNames {
			candidate := filepath.Join(current, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", errors.New(errors.CodeNotFound, "no bundler config found").
				WithContext(errors.CtxPath, abs)
		}
		current = parent
	}
}

// Load parses the configuration at path, choosing the decoder by extension.
func Load(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "resolve config path").
			WithContext(errors.CtxConfig, path)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		code := errors.CodeInternal
		if os.IsNotExist(err) {
			code = errors.CodeNotFound
		}
		return nil, errors.Wrap(err, code, "read bundler config").
			WithContext(errors.CtxConfig, abs)
	}

	f := &File{Path: abs}
	ext := strings.ToLower(filepath.Ext(abs))
	switch ext {
	case ".json":
		err = json.Unmarshal(data, f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, f)
	case ".toml":
		_, err = toml.Decode(string(data), f)
	default:
		return nil, errors.New(errors.CodeNotSupported, "unsupported bundler config format").
			WithContext(errors.CtxConfig, abs).
			WithContext(errors.CtxFormat, ext)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "parse bundler config").
			WithContext(errors.CtxConfig, abs)
	}
	f.Path = abs

	slog.Debug("loaded bundler config", "config", abs, "aliases", len(f.Resolve.Alias))
	return f, nil
}

// Read finds and loads the configuration nearest to startFile.
func Read(startFile string) (*File, error) {
	path, err := Find(startFile)
	if err != nil {
		return nil, err
	}
	return Load(path)
}
