package astdump

import (
	"bufio"
	"bytes"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/eblot/doxyclang/pkg/types"
)

// clang-check AST dump line grammar. One line per node: an optional depth
// prefix of "| " runs ending in "|-" or "`-", the node kind keyword, a hex
// node ref, an optional parent/prev backref, a <location range>, an optional
// extra location, then free text. Location alternatives need distinct group
// names per occurrence, hence loc(1)/loc(2)/loc(3).
func loc(n int) string {
	return fmt.Sprintf(
		`(?:(?P<path%d>/[\w/\.\-]+:\d+:\d+)|line:(?P<line%d>\d+:\d+)|col:(?P<col%d>\d+)|<invalid sloc>|<scratch space>:\d+:\d+)`,
		n, n, n)
}

var (
	ansiRE = regexp.MustCompile(`\x1b[^m]*m`)

	lineRE = regexp.MustCompile(
		`^(?P<depth>(?:[| ]*)[|` + "`" + `]-)?` +
			`(?:(?P<stmt>[A-Za-z]+)\s(?P<ref>0x[0-9a-f]+)` +
			`(?:\s(?:parent|prev)\s0x[0-9a-f]+)?` +
			`(?:\s<(?:` + loc(1) + `(?:,\s` + loc(2) + `)?)>` +
			`(?:\s` + loc(3) + `)?` +
			`|\s'(?P<fld>\w*)')` +
			`|(?P<null><<<NULL>>>))` +
			`(?:\s(?P<right>.*))?$`)

	// FunctionDecl remainder: optional modifier words, name, quoted signature
	funcRE = regexp.MustCompile(
		`^(?:(?:implicit|used|referenced|extern|static|inline)\s)*(\w+)\s'([^']+)'`)

	// ParmVarDecl remainder: optional "used", optional name, quoted type
	paramRE = regexp.MustCompile(`^(?:used\s)?(?:(\w+)\s)?'([^']+)'`)
)

var (
	idxDepth = lineRE.SubexpIndex("depth")
	idxStmt  = lineRE.SubexpIndex("stmt")
	idxRight = lineRE.SubexpIndex("right")
	idxPath1 = lineRE.SubexpIndex("path1")
	idxLine1 = lineRE.SubexpIndex("line1")
	idxPath2 = lineRE.SubexpIndex("path2")
	idxPath3 = lineRE.SubexpIndex("path3")
)

// Parser converts clang-check --ast-dump output into prototype records.
// The zero value is usable; Debug enables logging of skipped lines.
type Parser struct {
	Debug bool
	Log   *log.Logger
}

func New() *Parser {
	return &Parser{}
}

// funcAcc accumulates one open FunctionDecl until the pass returns to its
// nesting depth.
type funcAcc struct {
	proto types.Prototype
	depth int // stack depth at which the node sits
}

// Parse runs a single forward pass over the dump, maintaining a stack of
// open nodes keyed by nesting depth. Only FunctionDecl nodes that are
// direct children of the root TranslationUnitDecl are emitted; declarations
// nested inside bodies never reach that depth. Forward declarations are
// emitted like definitions since the description index wants to see every
// declaration.
func (p *Parser) Parse(dump []byte) ([]types.Prototype, error) {
	scanner := bufio.NewScanner(bytes.NewReader(dump))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	protos := []types.Prototype{}
	var stack []string
	var open *funcAcc
	file := ""
	lineno := 0

	finalize := func() {
		if open != nil {
			protos = append(protos, open.proto)
			open = nil
		}
	}

	for scanner.Scan() {
		lineno++
		l := strings.TrimRight(ansiRE.ReplaceAllString(scanner.Text(), ""), " \t\r")
		if l == "" {
			continue
		}
		m := lineRE.FindStringSubmatch(l)
		if m == nil {
			// wrapped diagnostics and other stray text; same as the
			// dump tool's own consumers we only report these in debug
			p.logf("dump line %d not recognized: %s", lineno, l)
			continue
		}

		depth := 0
		if d := m[idxDepth]; d != "" {
			depth = len(d) / 2
		}
		file = extractFile(m, file)

		if len(stack) == 0 {
			if depth != 0 {
				return nil, malformed(lineno, l, "first node is nested")
			}
			stack = append(stack, m[idxStmt])
			continue
		}

		// the stack is always one level deeper than the parsed depth
		want := depth + 1
		move := want - len(stack)
		if move > 1 {
			return nil, malformed(lineno, l, "nesting jumps more than one level")
		}
		for move < 0 {
			stack = stack[:len(stack)-1]
			move++
		}
		if move <= 0 {
			// sibling: replace the current top
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, m[idxStmt])
		d := len(stack)

		if open != nil && d <= open.depth {
			finalize()
		}

		switch m[idxStmt] {
		case "FunctionDecl":
			if d != 2 {
				continue // nested or local declaration
			}
			acc, err := p.parseFunctionDecl(m, l, lineno, file)
			if err != nil {
				return nil, err
			}
			if acc != nil {
				acc.depth = d
				open = acc
			}
		case "ParmVarDecl":
			if open == nil || d != open.depth+1 {
				continue
			}
			param, err := parseParam(m, l, lineno)
			if err != nil {
				return nil, err
			}
			open.proto.Params = append(open.proto.Params, param)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(stack) == 0 {
		return nil, &types.MalformedASTError{Reason: "empty dump, no translation unit"}
	}
	finalize()
	return protos, nil
}

// parseFunctionDecl reads name, signature and declaration line from a
// FunctionDecl node. Declarations without a resolvable line (scratch space,
// invalid sloc) are skipped by returning nil; a remainder that does not
// match the name+'signature' grammar aborts the parse.
func (p *Parser) parseFunctionDecl(m []string, l string, lineno int, file string) (*funcAcc, error) {
	right := m[idxRight]
	fm := funcRE.FindStringSubmatch(right)
	if fm == nil {
		return nil, malformed(lineno, l, "function declaration does not match name 'signature'")
	}
	name, sig := fm[1], fm[2]

	line := 0
	if v := m[idxLine1]; v != "" {
		line, _ = strconv.Atoi(strings.SplitN(v, ":", 2)[0])
	} else if v := m[idxPath1]; v != "" {
		parts := strings.Split(v, ":")
		if len(parts) >= 2 {
			line, _ = strconv.Atoi(parts[len(parts)-2])
		}
	}
	if line == 0 {
		p.logf("skipping FunctionDecl %s without source line", name)
		return nil, nil
	}

	ret := sig
	if i := strings.Index(sig, "("); i >= 0 {
		ret = strings.TrimSpace(sig[:i])
	}
	return &funcAcc{proto: types.Prototype{
		Name:       name,
		ReturnType: ret,
		Line:       line,
		File:       file,
	}}, nil
}

func parseParam(m []string, l string, lineno int) (types.Parameter, error) {
	pm := paramRE.FindStringSubmatch(m[idxRight])
	if pm == nil {
		return types.Parameter{}, malformed(lineno, l, "parameter declaration does not match [name] 'type'")
	}
	// pm[1] empty means an unnamed parameter; that is not an error
	return types.Parameter{Name: pm[1], Type: pm[2]}, nil
}

// extractFile keeps track of the file the following nodes belong to. The
// most specific location (the node's own, captured last) wins.
func extractFile(m []string, current string) string {
	for _, idx := range []int{idxPath3, idxPath2, idxPath1} {
		if v := m[idx]; v != "" {
			return v[:strings.Index(v, ":")]
		}
	}
	return current
}

func (p *Parser) logf(format string, args ...interface{}) {
	if !p.Debug {
		return
	}
	if p.Log != nil {
		p.Log.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

func malformed(line int, text, reason string) error {
	if len(text) > 120 {
		text = text[:120]
	}
	return &types.MalformedASTError{Line: line, Text: text, Reason: reason}
}
