package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "clang-check", cfg.ClangCheck)
	assert.Equal(t, "build", cfg.BuildPathComponent)
	assert.Equal(t, 2, cfg.BuildPathUp)
	assert.Equal(t, 4, cfg.BuildPathDown)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
clang_check: /opt/llvm/bin/clang-check
build_path: /work/build
debug: true
cache:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/llvm/bin/clang-check", cfg.ClangCheck)
	assert.Equal(t, "/work/build", cfg.BuildPath)
	assert.True(t, cfg.Debug)
	assert.False(t, cfg.Cache.Enabled)
	// untouched keys keep their defaults
	assert.Equal(t, "build", cfg.BuildPathComponent)
	assert.True(t, cfg.Enabled)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "clang_check: [unclosed"},
		{"empty clang_check", `clang_check: ""`},
		{"negative depth", "build_path_down: -1"},
		{"no component", `build_path_component: ""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestExplicitBuildPathNeedsNoComponent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
build_path: /work/build
build_path_component: ""
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	_, err := Load(path)
	assert.NoError(t, err)
}

func TestCachePath(t *testing.T) {
	cfg := Default()
	cfg.Cache.Path = "/var/tmp/doxy.db"
	path, err := cfg.CachePath()
	require.NoError(t, err)
	assert.Equal(t, "/var/tmp/doxy.db", path)

	cfg.Cache.Path = ""
	path, err = cfg.CachePath()
	require.NoError(t, err)
	assert.Contains(t, path, "doxyclang")
}
