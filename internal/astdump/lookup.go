package astdump

import "github.com/eblot/doxyclang/pkg/types"

// maxSeekLine bounds how far below the cursor a declaration may start and
// still be considered "under the cursor".
const maxSeekLine = 4

// PrototypeAt resolves a cursor line to the prototype it targets: an exact
// line match, or the nearest prototype starting within maxSeekLine lines
// below. A cursor inside a function body is past its declaration line and
// therefore does not resolve.
func PrototypeAt(protos []types.Prototype, line int) (*types.Prototype, error) {
	var best *types.Prototype
	for i := range protos {
		p := &protos[i]
		if p.Line == line {
			return p, nil
		}
		if p.Line > line && p.Line <= line+maxSeekLine {
			if best == nil || p.Line < best.Line {
				best = p
			}
		}
	}
	if best == nil {
		return nil, &types.NoPrototypeAtCursorError{Line: line}
	}
	return best, nil
}
