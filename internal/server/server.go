package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/eblot/doxyclang/internal/config"
	"github.com/eblot/doxyclang/internal/doxygen"
	"github.com/eblot/doxyclang/internal/storage"
	"github.com/eblot/doxyclang/internal/worker"
	"github.com/eblot/doxyclang/pkg/types"
)

// generateTimeout bounds one clang-check invocation; the server never
// retries, editors re-trigger on the next manual request.
const generateTimeout = 30 * time.Second

// Server exposes documentation generation to editor integrations over
// stdio JSON-RPC (MCP framing). The editor supplies raw buffer text and a
// cursor line; it gets back a block of text and an insertion offset, plus
// completion proposals. Nothing is ever inserted on the server side.
type Server struct {
	engine  *doxygen.Engine
	cfg     *config.Config
	cache   *storage.Cache
	watcher *worker.Watcher
	session string
	tools   map[string]ToolHandler

	in  io.Reader
	out io.Writer
}

// ToolHandler handles a tool call
type ToolHandler func(params json.RawMessage) (interface{}, error)

// Request is a JSON-RPC request
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC response
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error is a JSON-RPC error
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewServer builds a server from configuration: engine, optional cache,
// optional build-directory watcher.
func NewServer(cfg *config.Config) (*Server, error) {
	s := &Server{
		engine:  doxygen.NewEngine(cfg),
		cfg:     cfg,
		session: uuid.NewString(),
		tools:   make(map[string]ToolHandler),
		in:      os.Stdin,
		out:     os.Stdout,
	}

	if cfg.Cache.Enabled {
		path, err := cfg.CachePath()
		if err == nil {
			cache, err := storage.OpenCache(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: cache disabled: %v\n", err)
			} else {
				s.cache = cache
				s.engine.SetCache(cache)
			}
		}
	}

	if cfg.BuildPath != "" {
		w, err := worker.NewWatcher(func(string) { s.engine.Invalidate() })
		if err == nil {
			if err := w.AddDir(cfg.BuildPath); err == nil {
				s.watcher = w
				w.Start()
			} else {
				w.Stop()
			}
		}
	}

	s.registerTools()
	return s, nil
}

func (s *Server) registerTools() {
	s.tools["generate_doc"] = s.handleGenerateDoc
	s.tools["param_candidates"] = s.handleParamCandidates
	s.tools["build_path"] = s.handleBuildPath
	s.tools["reload"] = s.handleReload
}

// Run serves requests until stdin closes.
func (s *Server) Run() {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var req Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			fmt.Fprintf(os.Stderr, "Parse error: %v\n", err)
			continue
		}
		s.handleRequest(&req)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Scanner error: %v\n", err)
	}

	if s.watcher != nil {
		s.watcher.Stop()
	}
	if s.cache != nil {
		s.cache.Close()
	}
}

func (s *Server) handleRequest(req *Request) {
	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "initialized":
		// notification, no response
	case "tools/list":
		s.sendResult(req.ID, map[string]interface{}{"tools": toolInfos()})
	case "tools/call":
		s.handleToolsCall(req)
	default:
		s.sendError(req.ID, -32601, "Method not found", req.Method)
	}
}

func (s *Server) handleInitialize(req *Request) {
	s.sendResult(req.ID, map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"serverInfo": map[string]string{
			"name":    "doxyclang",
			"version": Version,
			"session": s.session,
		},
		"capabilities": map[string]interface{}{
			"tools": map[string]bool{"listChanged": false},
		},
	})
}

func (s *Server) handleToolsCall(req *Request) {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.sendError(req.ID, -32602, "Invalid params", err.Error())
		return
	}
	handler, ok := s.tools[params.Name]
	if !ok {
		s.sendError(req.ID, -32601, "Tool not found", params.Name)
		return
	}

	result, err := handler(params.Arguments)
	if err != nil {
		// "nothing inserted, reason shown": every failure becomes a
		// textual reason, never partial output
		s.sendResult(req.ID, map[string]interface{}{
			"content": []map[string]interface{}{
				{"type": "text", "text": fmt.Sprintf("Error: %v", err)},
			},
			"isError": true,
		})
		return
	}

	resultJSON, _ := json.MarshalIndent(result, "", "  ")
	s.sendResult(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": string(resultJSON)},
		},
	})
}

func (s *Server) sendResult(id interface{}, result interface{}) {
	s.send(Response{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) sendError(id interface{}, code int, message string, data interface{}) {
	if id == nil {
		fmt.Fprintf(os.Stderr, "Error (no id): %s: %v\n", message, data)
		return
	}
	s.send(Response{JSONRPC: "2.0", ID: id, Error: &Error{Code: code, Message: message, Data: data}})
}

func (s *Server) send(resp Response) {
	output, _ := json.Marshal(resp)
	fmt.Fprintln(s.out, string(output))
}

// --- Tool Handlers ---

// GenerateDocArgs are the generate_doc tool arguments. Source carries the
// unsaved buffer text; when empty the file is read from disk.
type GenerateDocArgs struct {
	File       string `json:"file"`
	Line       int    `json:"line"`
	Source     string `json:"source,omitempty"`
	Directions *bool  `json:"directions,omitempty"`
}

func (s *Server) handleGenerateDoc(params json.RawMessage) (interface{}, error) {
	var args GenerateDocArgs
	if err := json.Unmarshal(params, &args); err != nil {
		return nil, err
	}
	if !s.cfg.Enabled {
		return map[string]interface{}{"status": "disabled"}, nil
	}
	src, err := s.sourceFor(args.File, args.Source)
	if err != nil {
		return nil, err
	}

	style := doxygen.DefaultStyle()
	if args.Directions != nil {
		style.Directions = *args.Directions
	}

	ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
	defer cancel()

	res, err := s.engine.GenerateAt(ctx, args.File, src, args.Line, style)
	var noProto *types.NoPrototypeAtCursorError
	if errors.As(err, &noProto) {
		// a no-op for the editor, not a failure
		return map[string]interface{}{
			"status": "no_prototype",
			"reason": noProto.Error(),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"status":           "ok",
		"text":             res.Block.Text,
		"insertion_offset": res.Block.InsertionOffset,
		"proposals":        res.Proposals,
		"prototype":        res.Prototype,
	}, nil
}

// ParamCandidatesArgs select which parameter slots to report. With Name
// empty, the full index is returned.
type ParamCandidatesArgs struct {
	File   string `json:"file"`
	Name   string `json:"name,omitempty"`
	Source string `json:"source,omitempty"`
}

func (s *Server) handleParamCandidates(params json.RawMessage) (interface{}, error) {
	var args ParamCandidatesArgs
	if err := json.Unmarshal(params, &args); err != nil {
		return nil, err
	}
	src, err := s.sourceFor(args.File, args.Source)
	if err != nil {
		return nil, err
	}
	idx := s.engine.ParamIndex(src)

	if args.Name != "" {
		return types.Proposal{Name: args.Name, Candidates: idx.Candidates(args.Name)}, nil
	}
	proposals := []types.Proposal{}
	for _, n := range idx.Names() {
		proposals = append(proposals, types.Proposal{Name: n, Candidates: idx.Candidates(n)})
	}
	return map[string]interface{}{"proposals": proposals}, nil
}

func (s *Server) handleBuildPath(params json.RawMessage) (interface{}, error) {
	var args struct {
		File string `json:"file"`
	}
	if err := json.Unmarshal(params, &args); err != nil {
		return nil, err
	}
	dir, err := s.engine.ResolveBuildDir(args.File)
	if err != nil {
		return nil, err
	}
	return map[string]string{"build_path": dir}, nil
}

func (s *Server) handleReload(json.RawMessage) (interface{}, error) {
	s.engine.Invalidate()
	return map[string]string{"status": "reloaded"}, nil
}

func (s *Server) sourceFor(file, source string) (string, error) {
	if source != "" {
		return source, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
