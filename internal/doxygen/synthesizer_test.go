package doxygen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eblot/doxyclang/internal/docblock"
	"github.com/eblot/doxyclang/pkg/types"
)

const addSrc = `#include <stdint.h>

int add(int a, int b)
{
    return a + b;
}
`

func addProto() *types.Prototype {
	return &types.Prototype{
		Name:       "add",
		ReturnType: "int",
		Line:       3,
		Params: []types.Parameter{
			{Type: "int", Name: "a"},
			{Type: "int", Name: "b"},
		},
	}
}

func TestSynthesizeEmptySlots(t *testing.T) {
	block := Synthesize(addSrc, addProto(), nil, DefaultStyle())

	expected := "/**\n" +
		" * add\n" +
		" *\n" +
		" * @param[in] a\n" +
		" * @param[in] b\n" +
		" */\n"
	assert.Equal(t, expected, block.Text)
	// insertion point is the start of the declaration line
	assert.Equal(t, strings.Index(addSrc, "int add"), block.InsertionOffset)
	assert.NotContains(t, block.Text, "@return")
}

func TestSynthesizeReusesDescriptions(t *testing.T) {
	src := `/**
 * @param len maximum count of chars
 */
size_t other(size_t len);

size_t measure(const char *buf, size_t len);
`
	idx := docblock.BuildIndex(docblock.Scan(src))
	proto := &types.Prototype{
		Name: "measure",
		Line: 6,
		Params: []types.Parameter{
			{Type: "const char *", Name: "buf"},
			{Type: "size_t", Name: "len"},
		},
	}
	block := Synthesize(src, proto, idx, DefaultStyle())
	assert.Contains(t, block.Text, " * @param[in] buf\n")
	assert.Contains(t, block.Text, " * @param[in] len maximum count of chars\n")
}

func TestSynthesizeDeterministic(t *testing.T) {
	idx := docblock.BuildIndex(nil)
	first := Synthesize(addSrc, addProto(), idx, DefaultStyle())
	second := Synthesize(addSrc, addProto(), idx, DefaultStyle())
	assert.Equal(t, first, second)
}

func TestSynthesizeDirections(t *testing.T) {
	proto := &types.Prototype{
		Name: "transform",
		Line: 1,
		Params: []types.Parameter{
			{Type: "char *", Name: "dst"},
			{Type: "const char *", Name: "src"},
			{Type: "unsigned", Name: "flags"},
		},
	}
	block := Synthesize("", proto, nil, DefaultStyle())
	assert.Contains(t, block.Text, "@param[in,out] dst")
	assert.Contains(t, block.Text, "@param[in] src")
	assert.Contains(t, block.Text, "@param[in] flags")

	plain := Synthesize("", proto, nil, Style{Directions: false})
	assert.NotContains(t, plain.Text, "[in")
	assert.Contains(t, plain.Text, " * @param dst\n")
}

func TestSynthesizeSkipsUnnamedParams(t *testing.T) {
	proto := &types.Prototype{
		Name: "handler",
		Line: 1,
		Params: []types.Parameter{
			{Type: "int", Name: "sig"},
			{Type: "void *", Name: ""},
		},
	}
	block := Synthesize("", proto, nil, DefaultStyle())
	assert.Equal(t, 1, strings.Count(block.Text, "@param"))

	props := Proposals(proto, nil)
	require.Len(t, props, 1)
	assert.Equal(t, "sig", props[0].Name)
}

func TestProposalsDeclarationOrder(t *testing.T) {
	src := `/**
 * @param len buffer capacity
 */
void fill(char *buf, size_t len);
`
	idx := docblock.BuildIndex(docblock.Scan(src))
	proto := &types.Prototype{
		Name: "fill",
		Params: []types.Parameter{
			{Type: "char *", Name: "buf"},
			{Type: "size_t", Name: "len"},
		},
	}
	props := Proposals(proto, idx)
	require.Len(t, props, 2)
	assert.Equal(t, "buf", props[0].Name)
	assert.Empty(t, props[0].Candidates)
	assert.Equal(t, "len", props[1].Name)
	assert.Equal(t, []string{"buffer capacity"}, props[1].Candidates)
}

func TestLineOffset(t *testing.T) {
	src := "one\ntwo\nthree\n"
	assert.Equal(t, 0, LineOffset(src, 1))
	assert.Equal(t, 4, LineOffset(src, 2))
	assert.Equal(t, 8, LineOffset(src, 3))
	// past the end clamps to the end
	assert.Equal(t, len(src), LineOffset(src, 99))
}
