package doxygen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eblot/doxyclang/internal/clang"
	"github.com/eblot/doxyclang/internal/config"
)

func TestResolveBuildDirConfigured(t *testing.T) {
	cfg := config.Default()
	cfg.BuildPath = "/work/build"
	e := NewEngine(cfg)

	dir, err := e.ResolveBuildDir("/work/src/a.c")
	require.NoError(t, err)
	assert.Equal(t, "/work/build", dir)
}

func TestResolveBuildDirMemoized(t *testing.T) {
	root := t.TempDir()
	buildDir := filepath.Join(root, "proj", "build")
	srcDir := filepath.Join(root, "proj", "src")
	require.NoError(t, mkTreeWithDB(buildDir, srcDir))

	cfg := config.Default()
	e := NewEngine(cfg)

	dir, err := e.ResolveBuildDir(filepath.Join(srcDir, "a.c"))
	require.NoError(t, err)
	assert.Equal(t, buildDir, dir)

	// memoized answers survive the build tree disappearing
	require.NoError(t, os.RemoveAll(buildDir))
	dir, err = e.ResolveBuildDir(filepath.Join(srcDir, "b.c"))
	require.NoError(t, err)
	assert.Equal(t, buildDir, dir)

	// until invalidated
	e.Invalidate()
	_, err = e.ResolveBuildDir(filepath.Join(srcDir, "c.c"))
	assert.Error(t, err)
}

func TestParamIndexSourceOnly(t *testing.T) {
	e := NewEngine(config.Default())
	idx := e.ParamIndex(`/**
 * @param n element count
 */
void resize(int n);
`)
	desc, ok := idx.Describe("n")
	require.True(t, ok)
	assert.Equal(t, "element count", desc)
}

func mkTreeWithDB(buildDir, srcDir string) error {
	for _, d := range []string{buildDir, srcDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return clang.WriteCompileCommands(buildDir, []clang.CompileCommand{})
}
