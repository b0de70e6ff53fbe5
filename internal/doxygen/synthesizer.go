package doxygen

import (
	"strings"

	"github.com/eblot/doxyclang/internal/docblock"
	"github.com/eblot/doxyclang/pkg/types"
)

// Style controls the shape of generated blocks.
type Style struct {
	// Directions annotates each @param with [in], [out] or [in,out]
	// derived from the parameter type.
	Directions bool `json:"directions"`
}

func DefaultStyle() Style {
	return Style{Directions: true}
}

// Synthesize produces the documentation block for one prototype. Known
// parameter names are pre-filled verbatim from the index; unknown ones get
// an empty slot for the user to fill interactively. Unnamed parameters have
// nothing to label and are skipped. Output is deterministic: identical
// inputs yield byte-identical text.
func Synthesize(src string, target *types.Prototype, idx *docblock.Index, style Style) types.GeneratedBlock {
	if idx == nil {
		idx = docblock.BuildIndex(nil)
	}
	var b strings.Builder
	b.WriteString("/**\n")
	b.WriteString(" * " + target.Name + "\n")
	b.WriteString(" *\n")
	for _, p := range target.Params {
		if !p.Named() {
			continue
		}
		b.WriteString(" * @param")
		if style.Directions {
			b.WriteString("[" + direction(p.Type) + "]")
		}
		b.WriteString(" " + p.Name)
		if desc, ok := idx.Describe(p.Name); ok {
			b.WriteString(" " + desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(" */\n")
	return types.GeneratedBlock{
		Text:            b.String(),
		InsertionOffset: LineOffset(src, target.Line),
	}
}

// Proposals lists the completion candidates for every named parameter of
// the target, in declaration order. Parameters absent from the index still
// appear, with no candidates, so the editor can offer a free-text slot.
func Proposals(target *types.Prototype, idx *docblock.Index) []types.Proposal {
	if idx == nil {
		idx = docblock.BuildIndex(nil)
	}
	var out []types.Proposal
	for _, p := range target.Params {
		if !p.Named() {
			continue
		}
		out = append(out, types.Proposal{
			Name:       p.Name,
			Candidates: idx.Candidates(p.Name),
		})
	}
	return out
}

// direction guesses the Doxygen parameter direction from the C type:
// mutable pointers are in,out, const pointers and values are in.
func direction(ctype string) string {
	t := strings.TrimSpace(ctype)
	if strings.HasSuffix(t, "*") {
		if strings.HasPrefix(t, "const ") {
			return "in"
		}
		return "in,out"
	}
	return "in"
}

// LineOffset returns the byte offset of the start of a 1-based line, so a
// generated block is always inserted immediately above the declaration.
func LineOffset(src string, line int) int {
	off := 0
	for n := 1; n < line; n++ {
		nl := strings.IndexByte(src[off:], '\n')
		if nl < 0 {
			return len(src)
		}
		off += nl + 1
	}
	return off
}
