package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/stepsort/internal/logging"
	"github.com/aretw0/stepsort/pkg/sequence"
	"github.com/aretw0/stepsort/pkg/session"
	"github.com/aretw0/stepsort/pkg/sorting"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// AlgorithmsURI is the resource listing every registered algorithm.
const AlgorithmsURI = "stepsort://algorithms"

// Sessions is the session service the tools drive.
type Sessions interface {
	Create(ctx context.Context, p session.CreateParams) (*session.View, error)
	Get(ctx context.Context, sessionID string) (*session.View, error)
	Advance(ctx context.Context, sessionID string, n int) (*session.View, error)
	Reset(ctx context.Context, sessionID string) (*session.View, error)
}

// ViewResponse is the flattened session view returned by every session tool.
type ViewResponse struct {
	SessionID   string `json:"session_id" jsonschema_description:"Session identifier"`
	Algorithm   string `json:"algorithm" jsonschema_description:"Canonical algorithm name"`
	Numbers     []int  `json:"numbers" jsonschema_description:"Numbers in their current order"`
	Step        int    `json:"step" jsonschema_description:"Steps applied so far"`
	Highlight   []int  `json:"highlight" jsonschema_description:"Indices touched by the last step; empty when none"`
	Reason      string `json:"reason" jsonschema_description:"comparing or switching"`
	Status      string `json:"status" jsonschema_description:"start, running or finished"`
	Comparisons int    `json:"comparisons"`
	Swaps       int    `json:"swaps"`
}

type createArgs struct {
	Algorithm string `json:"algorithm"`
	Numbers   string `json:"numbers"`
	Size      *int   `json:"size"`
	Seed      uint64 `json:"seed"`
}

type sessionArgs struct {
	SessionID string `json:"session_id"`
	N         int    `json:"n"`
}

// Server exposes the session service as an MCP server.
type Server struct {
	sessions  Sessions
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates an MCP server named after version.
func NewServer(sessions Sessions, version string, opts ...Option) *Server {
	s := &Server{
		sessions:  sessions,
		mcpServer: server.NewMCPServer("stepsort-mcp", strings.TrimSpace(version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, mainly for tests.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_algorithms",
		mcp.WithDescription("List the sorting algorithms that can be stepped."),
	), s.handleListAlgorithms)

	s.mcpServer.AddTool(mcp.NewTool("create_session",
		mcp.WithDescription("Start a new sorting session. Provide numbers, or a size to generate random values."),
		mcp.WithString("algorithm", mcp.Required(), mcp.Description("Algorithm name, e.g. bubble, heap, odd-even")),
		mcp.WithString("numbers", mcp.Description("Non-negative integers separated by commas or spaces")),
		mcp.WithNumber("size", mcp.Description("How many random values to generate when numbers is omitted")),
		mcp.WithNumber("seed", mcp.Description("Seed for generation and randomized algorithms")),
		mcp.WithOutputSchema[ViewResponse](),
	), mcp.NewStructuredToolHandler(s.handleCreate))

	s.mcpServer.AddTool(mcp.NewTool("step_session",
		mcp.WithDescription("Advance a session by n steps (default 1)."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithNumber("n", mcp.Description("Number of steps to apply")),
		mcp.WithOutputSchema[ViewResponse](),
	), mcp.NewStructuredToolHandler(s.handleStep))

	s.mcpServer.AddTool(mcp.NewTool("view_session",
		mcp.WithDescription("Show the current numbers and last step of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithOutputSchema[ViewResponse](),
	), mcp.NewStructuredToolHandler(s.handleView))

	s.mcpServer.AddTool(mcp.NewTool("reset_session",
		mcp.WithDescription("Restore a session's original numbers and rewind its algorithm."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithOutputSchema[ViewResponse](),
	), mcp.NewStructuredToolHandler(s.handleReset))
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(AlgorithmsURI, "Sorting algorithms",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      AlgorithmsURI,
				MIMEType: "text/plain",
				Text:     algorithmList(),
			},
		}, nil
	})
}

func algorithmList() string {
	algs := sorting.Algorithms()
	names := make([]string, len(algs))
	for i, a := range algs {
		names[i] = string(a)
	}
	return strings.Join(names, "\n")
}

func (s *Server) handleListAlgorithms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(algorithmList()), nil
}

func (s *Server) handleCreate(ctx context.Context, request mcp.CallToolRequest, args createArgs) (ViewResponse, error) {
	var numbers []int
	switch {
	case args.Numbers != "":
		parsed, err := sequence.ParseInput(args.Numbers)
		if err != nil {
			s.logger.Warn("MCP create_session: input rejected", "err", err, "size", len(args.Numbers))
			return ViewResponse{}, fmt.Errorf("input rejected: %w", err)
		}
		numbers = parsed
	default:
		size := sequence.DefaultSize
		if args.Size != nil {
			size = *args.Size
		}
		if size > sequence.MaxLength {
			return ViewResponse{}, fmt.Errorf("%w: size=%d limit=%d", sequence.ErrInputTooLarge, size, sequence.MaxLength)
		}
		generated, err := sequence.Generate(sequence.DefaultFloor, sequence.DefaultCeil, size, sorting.NewSource(args.Seed))
		if err != nil {
			return ViewResponse{}, err
		}
		numbers = generated
	}

	view, err := s.sessions.Create(ctx, session.CreateParams{
		Algorithm: args.Algorithm,
		Numbers:   numbers,
		Seed:      args.Seed,
	})
	if err != nil {
		return ViewResponse{}, fmt.Errorf("create failed: %w", err)
	}
	return toResponse(view), nil
}

func (s *Server) handleStep(ctx context.Context, request mcp.CallToolRequest, args sessionArgs) (ViewResponse, error) {
	n := args.N
	if n == 0 {
		n = 1
	}
	view, err := s.sessions.Advance(ctx, args.SessionID, n)
	if err != nil {
		return ViewResponse{}, fmt.Errorf("step failed: %w", err)
	}
	return toResponse(view), nil
}

func (s *Server) handleView(ctx context.Context, request mcp.CallToolRequest, args sessionArgs) (ViewResponse, error) {
	view, err := s.sessions.Get(ctx, args.SessionID)
	if err != nil {
		return ViewResponse{}, fmt.Errorf("view failed: %w", err)
	}
	return toResponse(view), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest, args sessionArgs) (ViewResponse, error) {
	view, err := s.sessions.Reset(ctx, args.SessionID)
	if err != nil {
		return ViewResponse{}, fmt.Errorf("reset failed: %w", err)
	}
	return toResponse(view), nil
}

func toResponse(v *session.View) ViewResponse {
	highlight := []int{}
	if !v.Frame.Highlight.IsNone() {
		highlight = []int{v.Frame.Highlight.First, v.Frame.Highlight.Second}
	}
	return ViewResponse{
		SessionID:   v.Session.ID,
		Algorithm:   v.Session.Algorithm,
		Numbers:     v.Numbers,
		Step:        v.Frame.Step,
		Highlight:   highlight,
		Reason:      v.Frame.Reason.String(),
		Status:      string(v.Frame.Status),
		Comparisons: v.Frame.Comparisons,
		Swaps:       v.Frame.Swaps,
	}
}
