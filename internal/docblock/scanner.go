package docblock

import (
	"regexp"
	"strings"

	"github.com/eblot/doxyclang/pkg/types"
)

var (
	// @param or \param, optional direction annotation, parameter name,
	// then free-text description
	paramTagRE = regexp.MustCompile(`^[@\\]param(?:\[(?:in|out|in,out)\])?\s+(\w+)\s*(.*)$`)
	tagRE      = regexp.MustCompile(`^[@\\][A-Za-z]`)
	identRE    = regexp.MustCompile(`^[A-Za-z_]\w*`)
)

// controlKeywords are statement starters that rule a line out as a function
// declaration even though it may contain parentheses.
var controlKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true,
	"return": true, "do": true, "else": true, "case": true, "goto": true,
}

// Scan extracts documentation blocks from raw source text. Only block
// comments opened with the doubled-asterisk marker ("/**") are considered
// documentation. Scanning is best-effort: malformed or unterminated blocks
// and blocks not followed by a function declaration are dropped, never
// reported.
func Scan(src string) []types.DocBlock {
	var blocks []types.DocBlock
	for i := 0; i < len(src); {
		start := strings.Index(src[i:], "/**")
		if start < 0 {
			break
		}
		start += i
		if strings.HasPrefix(src[start:], "/**/") {
			i = start + 4
			continue
		}
		rel := strings.Index(src[start+3:], "*/")
		if rel < 0 {
			break // unterminated block, nothing more to recover
		}
		end := start + 3 + rel + 2
		block, ok := parseBlock(src, start, end)
		if ok {
			blocks = append(blocks, block)
		}
		i = end
	}
	return blocks
}

// parseBlock parses one recognized comment span and binds it to the nearest
// following declaration. Reports ok=false when the comment does not
// document a function.
func parseBlock(src string, start, end int) (types.DocBlock, bool) {
	block := types.DocBlock{
		Params: map[string]string{},
		Start:  start,
		End:    end,
	}

	body := src[start+3 : end-2]
	var summary []string
	current := "" // param name currently accepting continuation lines
	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		if line == "" {
			current = ""
			continue
		}
		if m := paramTagRE.FindStringSubmatch(line); m != nil {
			name, desc := m[1], strings.TrimSpace(m[2])
			if _, seen := block.Params[name]; !seen {
				block.ParamOrder = append(block.ParamOrder, name)
			}
			block.Params[name] = desc
			current = name
			continue
		}
		if tagRE.MatchString(line) {
			// some other tag (@return, @brief, ...); ends any
			// running description
			current = ""
			continue
		}
		if current != "" {
			// continuation line, joined with a single space
			if block.Params[current] == "" {
				block.Params[current] = line
			} else {
				block.Params[current] += " " + line
			}
			continue
		}
		if len(block.ParamOrder) == 0 {
			summary = append(summary, line)
		}
	}
	block.Summary = strings.Join(summary, " ")

	declOff, ok := nextCodeOffset(src, end)
	if !ok {
		return block, false
	}
	if !looksLikeFunctionDecl(src[declOff:]) {
		return block, false
	}
	block.DeclLine = 1 + strings.Count(src[:declOff], "\n")
	return block, true
}

// nextCodeOffset skips whitespace and comments after a block and returns
// the offset of the first code character.
func nextCodeOffset(src string, from int) (int, bool) {
	i := from
	for i < len(src) {
		switch {
		case src[i] == ' ' || src[i] == '\t' || src[i] == '\n' || src[i] == '\r':
			i++
		case strings.HasPrefix(src[i:], "//"):
			nl := strings.IndexByte(src[i:], '\n')
			if nl < 0 {
				return 0, false
			}
			i += nl + 1
		case strings.HasPrefix(src[i:], "/*"):
			close := strings.Index(src[i+2:], "*/")
			if close < 0 {
				return 0, false
			}
			i += 2 + close + 2
		default:
			return i, true
		}
	}
	return 0, false
}

// looksLikeFunctionDecl applies the adjacency heuristic: an open
// parenthesis before the next statement terminator, and a leading
// identifier that is not a control-flow keyword. Preprocessor lines never
// qualify.
func looksLikeFunctionDecl(code string) bool {
	if strings.HasPrefix(code, "#") {
		return false
	}
	first := identRE.FindString(code)
	if first == "" || controlKeywords[first] {
		return false
	}
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '(':
			return true
		case ';', '{', '}':
			return false
		}
	}
	return false
}
