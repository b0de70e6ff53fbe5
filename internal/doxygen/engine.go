package doxygen

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/eblot/doxyclang/internal/astdump"
	"github.com/eblot/doxyclang/internal/clang"
	"github.com/eblot/doxyclang/internal/config"
	"github.com/eblot/doxyclang/internal/docblock"
	"github.com/eblot/doxyclang/internal/storage"
	"github.com/eblot/doxyclang/pkg/types"
)

// Engine wires the pure core (parser, scanner, index, synthesizer) to its
// collaborators: clang-check invocation, compilation-database discovery and
// the optional result cache. Records are rebuilt from scratch for every
// request; the cache only short-circuits that rebuild when both the source
// text and the dump are byte-identical to a previous run.
type Engine struct {
	cfg    *config.Config
	parser *astdump.Parser
	runner *clang.Runner
	cache  *storage.Cache

	mu        sync.Mutex
	buildDirs map[string]string // source dir -> discovered build dir
}

func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		cfg:       cfg,
		parser:    &astdump.Parser{Debug: cfg.Debug},
		runner:    &clang.Runner{ClangCheck: cfg.ClangCheck, Debug: cfg.Debug},
		buildDirs: make(map[string]string),
	}
}

// SetCache attaches a parse-result cache. Optional; without it every
// request reparses.
func (e *Engine) SetCache(c *storage.Cache) {
	e.cache = c
}

// Result is everything the editor integration needs from one generation
// request.
type Result struct {
	Block     types.GeneratedBlock `json:"block"`
	Proposals []types.Proposal     `json:"proposals,omitempty"`
	Prototype types.Prototype      `json:"prototype"`
}

// GenerateAt produces the documentation block for the prototype at or just
// below line in the given buffer. Any failure yields no output at all:
// either the caller gets a complete block or a reason why nothing was
// inserted.
func (e *Engine) GenerateAt(ctx context.Context, file, src string, line int, style Style) (*Result, error) {
	unit, err := e.parseUnit(ctx, file, src)
	if err != nil {
		return nil, err
	}
	proto, err := astdump.PrototypeAt(unit.Prototypes, line)
	if err != nil {
		return nil, err
	}
	idx := docblock.BuildIndex(unit.Blocks)
	return &Result{
		Block:     Synthesize(src, proto, idx, style),
		Proposals: Proposals(proto, idx),
		Prototype: *proto,
	}, nil
}

// ParamIndex builds the description index for a buffer. Needs only the
// source text, not the AST dump, so it stays cheap enough to run on every
// completion keystroke.
func (e *Engine) ParamIndex(src string) *docblock.Index {
	return docblock.BuildIndex(docblock.Scan(src))
}

// ResolveBuildDir returns the compilation-database directory for a source
// file: the configured path when set, otherwise the memoized result of the
// discovery heuristic.
func (e *Engine) ResolveBuildDir(file string) (string, error) {
	if e.cfg.BuildPath != "" {
		return e.cfg.BuildPath, nil
	}
	dir := filepath.Dir(file)

	e.mu.Lock()
	cached, ok := e.buildDirs[dir]
	e.mu.Unlock()
	if ok {
		return cached, nil
	}

	found, err := clang.FindBuildDir(dir, clang.SearchOptions{
		Component: e.cfg.BuildPathComponent,
		Up:        e.cfg.BuildPathUp,
		Down:      e.cfg.BuildPathDown,
	})
	if err != nil {
		return "", err
	}
	e.mu.Lock()
	e.buildDirs[dir] = found
	e.mu.Unlock()
	return found, nil
}

// Invalidate drops memoized build directories and cached parse results,
// e.g. after the build tree changed.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	e.buildDirs = make(map[string]string)
	e.mu.Unlock()
	if e.cache != nil {
		e.cache.Clear()
	}
}

// parseUnit runs the collaborator pipeline: discover the build dir, dump
// the buffer, parse prototypes, scan doc blocks. Prototypes from included
// headers are dropped so cursor lookup only sees the edited file.
func (e *Engine) parseUnit(ctx context.Context, file, src string) (*storage.Unit, error) {
	buildDir, err := e.ResolveBuildDir(file)
	if err != nil {
		return nil, err
	}
	dump, tmpPath, err := e.runner.DumpBuffer(ctx, file, src, buildDir)
	if err != nil {
		return nil, err
	}

	hash := storage.ContentHash([]byte(src), dump)
	if e.cache != nil {
		if u, ok, err := e.cache.Get(hash); err == nil && ok {
			return u, nil
		}
	}

	protos, err := e.parser.Parse(dump)
	if err != nil {
		return nil, err
	}
	unit := &storage.Unit{
		File:   file,
		Blocks: docblock.Scan(src),
	}
	for _, p := range protos {
		if p.File == "" || p.File == tmpPath {
			p.File = file
			unit.Prototypes = append(unit.Prototypes, p)
		}
	}

	if e.cache != nil {
		e.cache.Put(hash, unit)
	}
	return unit, nil
}
