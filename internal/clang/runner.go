package clang

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/eblot/doxyclang/pkg/types"
)

// Runner invokes the external clang-check tool. It is the only place the
// system touches the analysis executable; everything downstream consumes
// raw dump text.
type Runner struct {
	ClangCheck string // executable name or path
	Debug      bool
}

func NewRunner(clangCheck string) *Runner {
	return &Runner{ClangCheck: clangCheck}
}

// Dump runs clang-check --ast-dump against file using the compilation
// database in cmdDir and returns raw dump text. clang-check exits non-zero
// on compile diagnostics while still emitting a usable dump, so only an
// empty dump is treated as failure.
func (r *Runner) Dump(ctx context.Context, file, cmdDir string) ([]byte, error) {
	path, err := exec.LookPath(r.ClangCheck)
	if err != nil {
		return nil, &types.ToolUnavailableError{Tool: "clang-check", Err: err}
	}
	cmd := exec.CommandContext(ctx, path, "--ast-dump", "-p", cmdDir, file)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if r.Debug {
		fmt.Fprintf(os.Stderr, "%s\n", strings.Join(cmd.Args, " "))
	}
	if err := cmd.Run(); err != nil {
		if stdout.Len() == 0 {
			return nil, &types.ToolUnavailableError{
				Tool: "clang-check",
				Err:  fmt.Errorf("%w: %s", err, firstLine(stderr.String())),
			}
		}
	}
	return stdout.Bytes(), nil
}

// DumpBuffer dumps an unsaved editor buffer. The buffer is written to a
// hidden sibling of the real file so relative includes still resolve, and
// the matching compilation database entry is rewritten into a temporary
// directory to point at that copy. Returns the dump and the temporary path
// the dump's locations refer to.
func (r *Runner) DumpBuffer(ctx context.Context, file, src, buildDir string) ([]byte, string, error) {
	cmds, err := LoadCompileCommands(buildDir)
	if err != nil {
		return nil, "", &types.ToolUnavailableError{Tool: "compile database", Err: err}
	}
	entry, ok := EntryFor(cmds, file)
	if !ok {
		return nil, "", &types.ToolUnavailableError{
			Tool: "compile database",
			Err:  fmt.Errorf("no entry for %s in %s", file, buildDir),
		}
	}

	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, "", err
	}
	tmpPath := filepath.Join(filepath.Dir(abs), "."+filepath.Base(abs))

	cmdDir, err := os.MkdirTemp("", "doxyclang-")
	if err != nil {
		return nil, "", err
	}
	defer os.RemoveAll(cmdDir)

	rewritten := RewriteForBuffer(entry, abs, tmpPath)
	if err := WriteCompileCommands(cmdDir, []CompileCommand{rewritten}); err != nil {
		return nil, "", err
	}
	if err := os.WriteFile(tmpPath, []byte(src), 0o600); err != nil {
		return nil, "", err
	}
	defer os.Remove(tmpPath)

	dump, err := r.Dump(ctx, tmpPath, cmdDir)
	if err != nil {
		return nil, "", err
	}
	return dump, tmpPath, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
