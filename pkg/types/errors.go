package types

import "fmt"

// MalformedASTError means the dump text violates the clang-check structural
// grammar in a way that prevents extracting a function declaration. The
// whole parse is aborted; no partial prototypes are returned with it.
type MalformedASTError struct {
	Line   int    // 1-based line in the dump, 0 when not line-specific
	Text   string // offending dump line, truncated
	Reason string
}

func (e *MalformedASTError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed AST dump at line %d: %s: %q", e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("malformed AST dump: %s", e.Reason)
}

// NoPrototypeAtCursorError means the cursor line does not map to a function
// declaration. Callers surface it as a no-op notice, not a crash.
type NoPrototypeAtCursorError struct {
	Line int
}

func (e *NoPrototypeAtCursorError) Error() string {
	return fmt.Sprintf("no function prototype at or near line %d", e.Line)
}

// ToolUnavailableError wraps a collaborator failure (clang-check invocation,
// compile database discovery). It is propagated verbatim and never retried
// by the core.
type ToolUnavailableError struct {
	Tool string
	Err  error
}

func (e *ToolUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Tool, e.Err)
}

func (e *ToolUnavailableError) Unwrap() error {
	return e.Err
}
