// Package automation serves headless client sessions over a
// Content-Length framed JSON-RPC stream on stdio. Each session owns its
// own app.App and is driven through the same key dispatcher and state
// machine as the terminal UI.
package automation

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/alexanderramin/vartui/internal/app"
	"github.com/alexanderramin/vartui/internal/toon"
	"github.com/alexanderramin/vartui/internal/version"
)

const (
	// ProtocolVersion is the protocol revision reported by initialize.
	ProtocolVersion = "2024-11-05"
	// ServerName is reported in initialize serverInfo.
	ServerName = "vartui-mcp"

	// DefaultWaitTimeout bounds the initial fetch wait of a new session.
	DefaultWaitTimeout = 10 * time.Second

	instructions = "Headless vartui sessions. Prefer vartui.session.action for fewer tokens and view=tiny|none for minimal responses."
)

type session struct {
	mu  sync.Mutex
	app *app.App
}

// Server multiplexes sessions. Requests are normally handled one at a
// time by Serve; the session map is still guarded so Handle is safe to
// call concurrently.
type Server struct {
	deps        app.Deps
	logger      *slog.Logger
	waitTimeout time.Duration
	newID       func() string

	mu       sync.Mutex
	sessions map[string]*session
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWaitTimeout overrides how long session.create waits for the
// initial fetches.
func WithWaitTimeout(d time.Duration) Option {
	return func(s *Server) { s.waitTimeout = d }
}

// WithIDGenerator replaces the session id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Server) { s.newID = fn }
}

// NewServer returns a server whose sessions are built from deps.
func NewServer(deps app.Deps, opts ...Option) *Server {
	s := &Server{
		deps:        deps,
		logger:      slog.New(slog.DiscardHandler),
		waitTimeout: DefaultWaitTimeout,
		newID:       uuid.NewString,
		sessions:    make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.deps.Logger == nil {
		s.deps.Logger = s.logger
	}
	return s
}

// SessionCount reports how many sessions are open.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Serve reads framed requests from r and writes framed responses to w
// until the input ends, an exit request arrives or ctx is cancelled.
// A malformed frame is answered with an error response and the loop
// moves on to the next one.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := bufio.NewReader(r)
	writer := bufio.NewWriter(w)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := ReadFrame(reader)
		var frameErr *FrameError
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			s.logger.Warn("frame_truncated", "error", err.Error())
			return nil
		case errors.As(err, &frameErr):
			s.logger.Warn("frame_rejected", "error", err.Error())
			resp := s.encode(rpcResponse{ID: nullID, Error: &rpcError{Code: mcp.INVALID_REQUEST, Message: "invalid frame: " + err.Error()}})
			if err := writeResponse(writer, resp); err != nil {
				return err
			}
			continue
		case err != nil:
			s.logger.Error("frame_read_failed", "error", err.Error())
			return fmt.Errorf("reading request: %w", err)
		}

		resp, exit := s.Handle(ctx, payload)
		if resp != nil {
			if err := writeResponse(writer, resp); err != nil {
				return err
			}
		}
		if exit {
			return nil
		}
	}
}

func writeResponse(w *bufio.Writer, resp []byte) error {
	if err := WriteFrame(w, resp); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

type rpcRequest struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

var nullID = json.RawMessage("null")

// hasID treats a missing id and an explicit null alike.
func (r rpcRequest) hasID() bool {
	return len(r.ID) > 0 && !bytes.Equal(bytes.TrimSpace(r.ID), nullID)
}

// Handle processes one request payload. It returns the encoded response,
// or nil for notifications, and whether the loop should stop.
func (s *Server) Handle(ctx context.Context, payload []byte) ([]byte, bool) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, false
	}

	if !utf8.Valid(payload) {
		s.logger.Warn("rpc_parse_failed", "error", "invalid UTF-8")
		return s.encode(rpcResponse{ID: nullID, Error: &rpcError{Code: mcp.PARSE_ERROR, Message: "invalid UTF-8 in request body"}}), false
	}

	var req rpcRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.logger.Warn("rpc_parse_failed", "error", err.Error())
		return s.encode(rpcResponse{ID: nullID, Error: &rpcError{Code: mcp.PARSE_ERROR, Message: "invalid JSON: " + err.Error()}}), false
	}
	if req.Method == "" {
		if !req.hasID() {
			return nil, false
		}
		return s.encode(rpcResponse{ID: req.ID, Error: &rpcError{Code: mcp.INVALID_REQUEST, Message: "invalid request: missing method"}}), false
	}
	s.logger.Debug("rpc_request", "method", req.Method, "notification", !req.hasID())

	var (
		result any
		rerr   *rpcError
		exit   bool
	)
	switch req.Method {
	case "initialize":
		result = initializeResult()
	case "notifications/initialized":
		return nil, false
	case "ping", "shutdown":
		result = struct{}{}
	case "tools/list":
		result = mcp.ListToolsResult{Tools: Tools()}
	case "tools/call":
		// A tools/call without an id is a notification: nobody reads the
		// result, so the call is not executed.
		if !req.hasID() {
			return nil, false
		}
		result = s.callTool(ctx, req.Params)
	case "exit":
		exit = true
	default:
		rerr = &rpcError{Code: mcp.METHOD_NOT_FOUND, Message: "method not supported: " + req.Method}
	}

	if !req.hasID() || (exit && rerr == nil) {
		return nil, exit
	}
	return s.encode(rpcResponse{ID: req.ID, Result: result, Error: rerr}), exit
}

func (s *Server) encode(resp rpcResponse) []byte {
	resp.JSONRPC = mcp.JSONRPC_VERSION
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("rpc_encode_failed", "error", err.Error())
		data, _ = json.Marshal(rpcResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      resp.ID,
			Error:   &rpcError{Code: mcp.INTERNAL_ERROR, Message: "encoding response: " + err.Error()},
		})
	}
	return data
}

type initializeResponse struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    serverCapabilities `json:"capabilities"`
	ServerInfo      mcp.Implementation `json:"serverInfo"`
	Instructions    string             `json:"instructions"`
}

type serverCapabilities struct {
	Tools struct {
		ListChanged bool `json:"listChanged"`
	} `json:"tools"`
}

func initializeResult() initializeResponse {
	return initializeResponse{
		ProtocolVersion: ProtocolVersion,
		ServerInfo:      mcp.Implementation{Name: ServerName, Version: version.String()},
		Instructions:    instructions,
	}
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// callTool never fails at the protocol level; every error becomes an
// error tool result.
func (s *Server) callTool(ctx context.Context, raw json.RawMessage) *mcp.CallToolResult {
	var params callParams
	if len(raw) == 0 || json.Unmarshal(raw, &params) != nil {
		return errorResult(errors.New("tools/call requires object params"))
	}
	if params.Name == "" {
		return errorResult(errors.New("tools/call requires a name"))
	}
	args, err := decodeArgs(params.Arguments)
	if err != nil {
		return errorResult(err)
	}

	var (
		env        toon.Object
		structured bool
	)
	switch canonicalTool(params.Name) {
	case ToolSessionCreate:
		env, structured, err = s.sessionCreate(args)
	case ToolSessionSnapshot:
		env, structured, err = s.sessionSnapshot(args)
	case ToolSessionKey:
		env, structured, err = s.sessionKey(args)
	case ToolSessionAction:
		env, structured, err = s.sessionAction(args)
	case ToolSessionClose:
		env, structured, err = s.sessionClose(args)
	default:
		err = fmt.Errorf("%w: %s. Use tools/list to see options.", ErrUnknownTool, params.Name)
	}
	if err != nil {
		s.logger.Debug("tool_failed", "tool", params.Name, "error", err.Error())
		return errorResult(err)
	}
	s.logger.Debug("tool_called", "tool", params.Name)
	return toolResult(env, structured)
}

func toolResult(env toon.Object, structured bool) *mcp.CallToolResult {
	text, err := toon.Encode(env, toon.Compact())
	if err != nil {
		return errorResult(err)
	}
	res := &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(text)}}
	if structured {
		res.StructuredContent = env
	}
	return res
}

func errorResult(err error) *mcp.CallToolResult {
	env := toon.Object{
		{Key: "e", Value: "er"},
		{Key: "m", Value: clip(err.Error(), clipError)},
	}
	text, encErr := toon.Encode(env, toon.Compact())
	if encErr != nil {
		text = "e: er"
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
		IsError: true,
	}
}

func (s *Server) lookup(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

func (s *Server) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

func (s *Server) sessionCreate(args Args) (toon.Object, bool, error) {
	opts, err := args.responseOptions(ViewTiny)
	if err != nil {
		return nil, false, err
	}

	id := s.newID()
	sess := &session{app: app.NewHeadless(s.deps)}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	if !sess.app.WaitBackgroundLoad(s.waitTimeout) {
		s.logger.Warn("session_initial_load_timeout", "session", id, "timeout", s.waitTimeout.String())
	}
	s.logger.Info("session_created", "session", id)
	return toon.Object{
		{Key: "e", Value: "sc"},
		{Key: "sid", Value: id},
		{Key: "s", Value: buildSnapshot(id, sess.app, opts)},
	}, opts.structured, nil
}

func (s *Server) sessionSnapshot(args Args) (toon.Object, bool, error) {
	opts, err := args.responseOptions(ViewNormal)
	if err != nil {
		return nil, false, err
	}
	id, err := args.sessionID()
	if err != nil {
		return nil, false, err
	}
	sess, err := s.lookup(id)
	if err != nil {
		return nil, false, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.app.CheckBackgroundLoad()
	return toon.Object{
		{Key: "e", Value: "ss"},
		{Key: "sid", Value: id},
		{Key: "s", Value: buildSnapshot(id, sess.app, opts)},
	}, opts.structured, nil
}

func (s *Server) sessionKey(args Args) (toon.Object, bool, error) {
	opts, err := args.responseOptions(ViewTiny)
	if err != nil {
		return nil, false, err
	}
	id, err := args.sessionID()
	if err != nil {
		return nil, false, err
	}
	key, err := args.requiredString("key", "k")
	if err != nil {
		return nil, false, err
	}
	text, hasText := args.optionalString("text", "t")
	seq, err := ParseKeySequence(key, text, hasText)
	if err != nil {
		return nil, false, err
	}
	sess, err := s.lookup(id)
	if err != nil {
		return nil, false, err
	}

	sess.mu.Lock()
	exit := false
	for _, msg := range seq {
		if app.HandleKey(sess.app, msg) {
			exit = true
			break
		}
		sess.app.CheckBackgroundLoad()
	}
	var snap any
	if !exit {
		snap = buildSnapshot(id, sess.app, opts)
	}
	sess.mu.Unlock()

	if exit {
		s.remove(id)
		s.logger.Info("session_exited", "session", id)
	}
	return toon.Object{
		{Key: "e", Value: "sk"},
		{Key: "sid", Value: id},
		{Key: "k", Value: key},
		{Key: "n", Value: len(seq)},
		{Key: "x", Value: exit},
		{Key: "s", Value: snap},
	}, opts.structured, nil
}

func (s *Server) sessionAction(args Args) (toon.Object, bool, error) {
	opts, err := args.responseOptions(ViewTiny)
	if err != nil {
		return nil, false, err
	}
	id, err := args.sessionID()
	if err != nil {
		return nil, false, err
	}
	steps, err := parseSteps(args)
	if err != nil {
		return nil, false, err
	}
	sess, err := s.lookup(id)
	if err != nil {
		return nil, false, err
	}

	sess.mu.Lock()
	var (
		applied int
		exit    bool
		last    string
		names   []string
	)
	for _, st := range steps {
		action := ResolveAction(st.name)
		stepExit, err := applyAction(sess.app, action, st.args)
		if err != nil {
			sess.mu.Unlock()
			return nil, false, err
		}
		applied++
		last = string(action)
		if opts.view >= ViewNormal {
			names = append(names, last)
		}
		if stepExit {
			exit = true
			break
		}
	}
	var snap any
	if !exit {
		snap = buildSnapshot(id, sess.app, opts)
	}
	sess.mu.Unlock()

	if exit {
		s.remove(id)
		s.logger.Info("session_exited", "session", id)
	}
	env := toon.Object{
		{Key: "e", Value: "sa"},
		{Key: "sid", Value: id},
		{Key: "n", Value: applied},
		{Key: "la", Value: last},
		{Key: "x", Value: exit},
		{Key: "s", Value: snap},
	}
	if opts.view >= ViewNormal {
		if names == nil {
			names = []string{}
		}
		env.Set("as", names)
	}
	return env, opts.structured, nil
}

func (s *Server) sessionClose(args Args) (toon.Object, bool, error) {
	structured, err := args.boolean(false, "structured", "stc")
	if err != nil {
		return nil, false, err
	}
	id, err := args.sessionID()
	if err != nil {
		return nil, false, err
	}
	removed := s.remove(id)
	if removed {
		s.logger.Info("session_closed", "session", id)
	}
	return toon.Object{
		{Key: "e", Value: "sx"},
		{Key: "sid", Value: id},
		{Key: "c", Value: removed},
	}, structured, nil
}
