package types

// =============================================================================
// CORE DATA MODEL (doxyclang)
// =============================================================================

// Prototype is a C function prototype extracted from a clang-check AST dump
type Prototype struct {
	Name       string      `json:"name"`
	ReturnType string      `json:"return_type"`
	Params     []Parameter `json:"params,omitempty"`
	Line       int         `json:"line"` // 1-based declaration line
	File       string      `json:"file,omitempty"`
}

// Parameter is one entry of a prototype's ordered parameter list.
// Name is empty for unnamed parameters, e.g. void f(int).
type Parameter struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// Named reports whether the parameter carries a name and therefore gets a
// description slot in generated blocks.
func (p Parameter) Named() bool {
	return p.Name != ""
}

// DocBlock is an existing documentation comment found in source text.
// DeclLine is the line of the declaration the block precedes; ownership is
// recomputed from adjacency on every scan, never stored as a pointer.
type DocBlock struct {
	Summary    string            `json:"summary,omitempty"`
	Params     map[string]string `json:"params,omitempty"`
	ParamOrder []string          `json:"param_order,omitempty"` // source order of @param tags
	Start      int               `json:"start"`                 // raw span byte offsets
	End        int               `json:"end"`
	DeclLine   int               `json:"decl_line"`
}

// GeneratedBlock is the synthesizer output handed to the editor
type GeneratedBlock struct {
	Text            string `json:"text"`
	InsertionOffset int    `json:"insertion_offset"` // start of the declaration's line
}

// Proposal lists autocompletion candidates for one parameter slot,
// most recent description first. Candidates is empty when the parameter
// name was never documented in the translation unit.
type Proposal struct {
	Name       string   `json:"name"`
	Candidates []string `json:"candidates,omitempty"`
}
