package docblock

import (
	"sort"
	"strings"

	"github.com/eblot/doxyclang/pkg/types"
)

// Index aggregates parameter descriptions across all documentation blocks
// of a translation unit. For each parameter name the most recently seen
// description is authoritative; older distinct descriptions are retained as
// secondary completion candidates.
type Index struct {
	candidates map[string][]string // most recent first
}

// BuildIndex folds blocks in source order into an index. Pure and total:
// any input, including nil, yields a usable index.
func BuildIndex(blocks []types.DocBlock) *Index {
	ix := &Index{candidates: make(map[string][]string)}
	for _, b := range blocks {
		for _, name := range b.ParamOrder {
			desc := strings.TrimSpace(b.Params[name])
			if desc == "" {
				continue
			}
			ix.add(name, desc)
		}
	}
	return ix
}

// add moves desc to the front of the candidate list, deduplicating.
// Later occurrences in a file are assumed more authoritative than earlier
// ones describing a parameter of the same conventional name.
func (ix *Index) add(name, desc string) {
	out := make([]string, 0, len(ix.candidates[name])+1)
	out = append(out, desc)
	for _, d := range ix.candidates[name] {
		if d != desc {
			out = append(out, d)
		}
	}
	ix.candidates[name] = out
}

// Describe returns the authoritative description for a parameter name.
func (ix *Index) Describe(name string) (string, bool) {
	c := ix.candidates[name]
	if len(c) == 0 {
		return "", false
	}
	return c[0], true
}

// Candidates returns every known description for name, most recent first.
// The returned slice is a copy.
func (ix *Index) Candidates(name string) []string {
	c := ix.candidates[name]
	if len(c) == 0 {
		return nil
	}
	out := make([]string, len(c))
	copy(out, c)
	return out
}

// Names returns all indexed parameter names, sorted.
func (ix *Index) Names() []string {
	names := make([]string, 0, len(ix.candidates))
	for n := range ix.candidates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len reports how many distinct parameter names are indexed.
func (ix *Index) Len() int {
	return len(ix.candidates)
}
