package clang

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CompileCommandsName is the compilation database file clang tooling
// expects next to the -p directory.
const CompileCommandsName = "compile_commands.json"

// CompileCommand is one entry of a compilation database.
type CompileCommand struct {
	Directory string   `json:"directory"`
	Command   string   `json:"command,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
	File      string   `json:"file"`
	Output    string   `json:"output,omitempty"`
}

// LoadCompileCommands reads the compilation database found in dir.
func LoadCompileCommands(dir string) ([]CompileCommand, error) {
	data, err := os.ReadFile(filepath.Join(dir, CompileCommandsName))
	if err != nil {
		return nil, err
	}
	var cmds []CompileCommand
	if err := json.Unmarshal(data, &cmds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", CompileCommandsName, err)
	}
	return cmds, nil
}

// WriteCompileCommands writes a database containing the given entries to
// dir/compile_commands.json.
func WriteCompileCommands(dir string, cmds []CompileCommand) error {
	data, err := json.MarshalIndent(cmds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, CompileCommandsName), data, 0o644)
}

// EntryFor locates the database entry compiling file. Entries with a
// relative file path are resolved against their directory.
func EntryFor(cmds []CompileCommand, file string) (CompileCommand, bool) {
	abs, err := filepath.Abs(file)
	if err != nil {
		abs = file
	}
	for _, c := range cmds {
		cf := c.File
		if !filepath.IsAbs(cf) {
			cf = filepath.Join(c.Directory, cf)
		}
		if filepath.Clean(cf) == filepath.Clean(abs) {
			return c, true
		}
	}
	return CompileCommand{}, false
}

// RewriteForBuffer retargets an entry at a temporary copy of the edited
// buffer. Shell-chained post-build steps after && would run against the
// copy, so everything past the first && is dropped.
func RewriteForBuffer(c CompileCommand, orig, tmp string) CompileCommand {
	out := c
	out.File = tmp
	if out.Command != "" {
		cmd := out.Command
		if i := strings.Index(cmd, "&&"); i >= 0 {
			cmd = cmd[:i]
		}
		out.Command = strings.TrimSpace(strings.ReplaceAll(cmd, orig, tmp))
	}
	if len(c.Arguments) > 0 {
		args := make([]string, len(c.Arguments))
		for i, a := range c.Arguments {
			args[i] = strings.ReplaceAll(a, orig, tmp)
		}
		out.Arguments = args
	}
	return out
}
