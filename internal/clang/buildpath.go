package clang

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eblot/doxyclang/pkg/types"
)

// SearchOptions tune the compilation-database discovery heuristic.
type SearchOptions struct {
	Component string // anchor directory name, e.g. "build"
	Up        int    // ancestor levels to climb before searching down
	Down      int    // maximum descent depth
}

// FindBuildDir locates the directory holding compile_commands.json for
// sources under startDir. It climbs Up ancestors, collects directories
// named Component within Down levels, keeps the one sharing the longest
// path prefix with startDir, then searches that subtree for databases and
// ranks them by how closely their tail components mirror startDir's.
// Failure is definite: callers either get a usable path or an unavailable
// condition, never a guess outside the searched tree.
func FindBuildDir(startDir string, opts SearchOptions) (string, error) {
	folder, err := filepath.Abs(startDir)
	if err != nil {
		return "", unavailable(err)
	}

	top := folder
	for i := 0; i < opts.Up; i++ {
		parent := filepath.Dir(top)
		if parent == top {
			break
		}
		top = parent
	}

	anchors := findDirsNamed(top, opts.Component, opts.Down)
	if len(anchors) == 0 {
		return "", unavailable(fmt.Errorf("no %q directory within %d levels of %s", opts.Component, opts.Down, top))
	}
	sort.Strings(anchors)
	anchor := anchors[0]
	bestLen := -1
	for _, d := range anchors {
		if l := commonPrefixLen(folder, d); l > bestLen {
			anchor, bestLen = d, l
		}
	}

	refs := findDirsContaining(anchor, CompileCommandsName, opts.Down)
	if len(refs) == 0 {
		return "", unavailable(fmt.Errorf("no %s below %s", CompileCommandsName, anchor))
	}
	if len(refs) == 1 {
		return refs[0], nil
	}

	// several candidate databases: prefer the one whose trailing path
	// components best mirror the source folder's, matching the build
	// tree layout to the source tree layout
	common := commonPath(refs)
	rfolder := reversePath(folder)
	type ranked struct {
		dir    string
		weight int
	}
	var cands []ranked
	for _, d := range refs {
		rel := strings.Trim(strings.TrimPrefix(d, common), string(os.PathSeparator))
		w := strings.Index(rfolder, reversePath(rel))
		if w >= 0 {
			cands = append(cands, ranked{dir: d, weight: w})
		}
	}
	if len(cands) == 0 {
		return "", unavailable(fmt.Errorf("no %s candidate matches the layout of %s", CompileCommandsName, folder))
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].weight != cands[j].weight {
			return cands[i].weight < cands[j].weight
		}
		return cands[i].dir < cands[j].dir
	})
	return cands[0].dir, nil
}

// findDirsNamed returns directories named name within depth levels of top.
// Hidden directories are pruned.
func findDirsNamed(top, name string, depth int) []string {
	var out []string
	walkLimited(top, depth, func(path string, d fs.DirEntry) {
		if d.Name() == name {
			out = append(out, path)
		}
	})
	return out
}

// findDirsContaining returns directories under top holding a file named
// name, within depth levels.
func findDirsContaining(top, name string, depth int) []string {
	var out []string
	if _, err := os.Stat(filepath.Join(top, name)); err == nil {
		out = append(out, top)
	}
	walkLimited(top, depth, func(path string, d fs.DirEntry) {
		if _, err := os.Stat(filepath.Join(path, name)); err == nil {
			out = append(out, path)
		}
	})
	return out
}

func walkLimited(top string, depth int, fn func(path string, d fs.DirEntry)) {
	base := strings.Count(top, string(os.PathSeparator))
	filepath.WalkDir(top, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path == top {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if strings.Count(path, string(os.PathSeparator))-base > depth {
			return filepath.SkipDir
		}
		fn(path, d)
		return nil
	})
}

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// commonPath is a common prefix working on path components, not chars.
func commonPath(dirs []string) string {
	if len(dirs) == 0 {
		return ""
	}
	parts := strings.Split(filepath.Clean(dirs[0]), string(os.PathSeparator))
	for _, d := range dirs[1:] {
		other := strings.Split(filepath.Clean(d), string(os.PathSeparator))
		n := 0
		for n < len(parts) && n < len(other) && parts[n] == other[n] {
			n++
		}
		parts = parts[:n]
	}
	return strings.Join(parts, string(os.PathSeparator))
}

// reversePath joins a path's components in reverse order, so comparing two
// reversed paths weights the deepest components first.
func reversePath(p string) string {
	parts := strings.Split(filepath.Clean(p), string(os.PathSeparator))
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, string(os.PathSeparator))
}

func unavailable(err error) error {
	return &types.ToolUnavailableError{Tool: "compile database discovery", Err: err}
}
