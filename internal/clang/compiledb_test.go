package clang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileCommandsRoundtrip(t *testing.T) {
	dir := t.TempDir()
	cmds := []CompileCommand{
		{
			Directory: dir,
			Command:   "cc -c -o main.o main.c",
			File:      "main.c",
		},
		{
			Directory: dir,
			Arguments: []string{"cc", "-c", "util.c"},
			File:      filepath.Join(dir, "util.c"),
		},
	}
	require.NoError(t, WriteCompileCommands(dir, cmds))

	loaded, err := LoadCompileCommands(dir)
	require.NoError(t, err)
	assert.Equal(t, cmds, loaded)
}

func TestLoadCompileCommandsMissing(t *testing.T) {
	_, err := LoadCompileCommands(t.TempDir())
	assert.Error(t, err)
}

func TestLoadCompileCommandsInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t,
		os.WriteFile(filepath.Join(dir, CompileCommandsName), []byte("not json"), 0o644))
	_, err := LoadCompileCommands(dir)
	assert.Error(t, err)
}

func TestEntryFor(t *testing.T) {
	cmds := []CompileCommand{
		{Directory: "/work/build", File: "../src/a.c"},
		{Directory: "/work/build", File: "/work/src/b.c"},
	}

	e, ok := EntryFor(cmds, "/work/src/b.c")
	require.True(t, ok)
	assert.Equal(t, "/work/src/b.c", e.File)

	// relative entry paths resolve against their directory
	e, ok = EntryFor(cmds, "/work/src/a.c")
	require.True(t, ok)
	assert.Equal(t, "../src/a.c", e.File)

	_, ok = EntryFor(cmds, "/work/src/c.c")
	assert.False(t, ok)
}

func TestRewriteForBuffer(t *testing.T) {
	entry := CompileCommand{
		Directory: "/work/build",
		Command:   "cc -c -o a.o /work/src/a.c && size a.o",
		File:      "/work/src/a.c",
	}
	out := RewriteForBuffer(entry, "/work/src/a.c", "/work/src/.a.c")

	assert.Equal(t, "/work/src/.a.c", out.File)
	assert.Equal(t, "cc -c -o a.o /work/src/.a.c", out.Command)
	// chained post-build step must not run against the buffer copy
	assert.NotContains(t, out.Command, "size")
	// input untouched
	assert.Equal(t, "/work/src/a.c", entry.File)
}

func TestRewriteForBufferArguments(t *testing.T) {
	entry := CompileCommand{
		Directory: "/work/build",
		Arguments: []string{"cc", "-c", "/work/src/a.c"},
		File:      "/work/src/a.c",
	}
	out := RewriteForBuffer(entry, "/work/src/a.c", "/tmp/.a.c")
	assert.Equal(t, []string{"cc", "-c", "/tmp/.a.c"}, out.Arguments)
	assert.Equal(t, []string{"cc", "-c", "/work/src/a.c"}, entry.Arguments)
}
