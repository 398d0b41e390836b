package webpack

import (
	"os"
	"path/filepath"
	"testing"

	"webpackalias/internal/shared/probe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive_Defaults(t *testing.T) {
	fsys := probe.NewMockFS(
		"/proj/webpack.config.json",
		"/proj/node_modules/",
	)
	cfg := Derive(&File{Path: "/proj/webpack.config.json"}, fsys)

	assert.Empty(t, cfg.Aliases)
	assert.NotNil(t, cfg.Aliases)
	assert.Equal(t, []string{"", ".bundle.js", ".web.js", ".js"}, cfg.Extensions)
	// web_modules does not exist and is dropped.
	assert.Equal(t, []string{"/proj/node_modules"}, cfg.ModuleDirs)
	assert.Equal(t, []string{"/proj/node_modules"}, cfg.NodeModulesDirs)
}

func TestDerive_OrderDedupAndFilter(t *testing.T) {
	fsys := probe.NewMockFS(
		"/proj/src/",
		"/proj/lib/",
		"/proj/node_modules/",
		"/proj/packages/node_modules/",
		"/shared/",
	)
	f := &File{
		Path: "/proj/webpack.config.json",
		Resolve: ResolveSection{
			Alias:              map[string]string{"a": "b"},
			Extensions:         StringList{"", ".a.js", ".js"},
			Root:               StringList{"src", "./src", "missing"},
			ModulesDirectories: StringList{"node_modules", "lib", "packages/node_modules"},
			Fallback:           StringList{"/shared", "src"},
		},
	}

	cfg := Derive(f, fsys)

	assert.Equal(t, map[string]string{"a": "b"}, cfg.Aliases)
	assert.Equal(t, []string{"", ".a.js", ".js"}, cfg.Extensions)
	assert.Equal(t, []string{
		"/proj/src",
		"/proj/node_modules",
		"/proj/lib",
		"/proj/packages/node_modules",
		"/shared",
	}, cfg.ModuleDirs)
	assert.Equal(t, []string{"/proj/node_modules", "/proj/packages/node_modules"}, cfg.NodeModulesDirs)
	assert.True(t, cfg.IsPackageDir("/proj/packages/node_modules"))
	assert.False(t, cfg.IsPackageDir("/proj/lib"))
}

func TestDerive_ExplicitEmptyListsAreHonored(t *testing.T) {
	fsys := probe.NewMockFS("/proj/node_modules/", "/proj/src/")
	f := &File{
		Path: "/proj/webpack.config.json",
		Resolve: ResolveSection{
			Extensions:         StringList{},
			Root:               StringList{"src"},
			ModulesDirectories: StringList{},
		},
	}

	cfg := Derive(f, fsys)
	assert.Empty(t, cfg.Extensions)
	assert.Equal(t, []string{"/proj/src"}, cfg.ModuleDirs)
	assert.Empty(t, cfg.NodeModulesDirs)
}

func TestDerive_DoesNotAliasInput(t *testing.T) {
	f := &File{
		Path:    "/proj/webpack.config.json",
		Resolve: ResolveSection{Alias: map[string]string{"x": "y"}},
	}
	cfg := Derive(f, probe.NewMockFS("/proj/"))
	cfg.Aliases["z"] = "w"
	cfg.Extensions[0] = "changed"

	assert.Len(t, f.Resolve.Alias, 1)
	assert.Equal(t, "", DefaultExtensions[0])
}

func TestNewResolutionConfig_OnDisk(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "webpack.config.json"), `{"resolve": {"root": ["src"], "extensions": ["", ".js"]}}`)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "app"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules"), 0o755))

	cfg, err := NewResolutionConfig(filepath.Join(root, "src", "app", "index.js"), probe.OS())
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "src"), filepath.Join(root, "node_modules")}, cfg.ModuleDirs)
	assert.Equal(t, []string{filepath.Join(root, "node_modules")}, cfg.NodeModulesDirs)
	assert.Equal(t, []string{"", ".js"}, cfg.Extensions)
}
