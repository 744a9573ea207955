package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/stepsort/pkg/adapters/memory"
	"github.com/aretw0/stepsort/pkg/domain"
	"github.com/aretw0/stepsort/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	return NewServer(session.NewManager(memory.NewStore()), "0.0.0-test")
}

func TestServer_ListAlgorithms(t *testing.T) {
	s := newTestServer()
	res, err := s.handleListAlgorithms(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)

	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "bubble\n")
	assert.Contains(t, text.Text, "odd-even")
}

func TestServer_SessionTools(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	created, err := s.handleCreate(ctx, mcp.CallToolRequest{}, createArgs{Algorithm: "selection", Numbers: "3, 1, 2"})
	require.NoError(t, err)
	assert.Equal(t, "selection", created.Algorithm)
	assert.Equal(t, []int{3, 1, 2}, created.Numbers)
	assert.Equal(t, string(domain.StatusStart), created.Status)
	assert.Empty(t, created.Highlight)

	stepped, err := s.handleStep(ctx, mcp.CallToolRequest{}, sessionArgs{SessionID: created.SessionID})
	require.NoError(t, err)
	assert.Equal(t, 1, stepped.Step)
	assert.Len(t, stepped.Highlight, 2)

	done, err := s.handleStep(ctx, mcp.CallToolRequest{}, sessionArgs{SessionID: created.SessionID, N: 100})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusFinished), done.Status)
	assert.Equal(t, []int{1, 2, 3}, done.Numbers)
	assert.Empty(t, done.Highlight)

	viewed, err := s.handleView(ctx, mcp.CallToolRequest{}, sessionArgs{SessionID: created.SessionID})
	require.NoError(t, err)
	assert.Equal(t, done, viewed)

	reset, err := s.handleReset(ctx, mcp.CallToolRequest{}, sessionArgs{SessionID: created.SessionID})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, reset.Numbers)
	assert.Equal(t, 0, reset.Step)
}

func TestServer_CreateGenerated(t *testing.T) {
	s := newTestServer()
	size := 7
	res, err := s.handleCreate(context.Background(), mcp.CallToolRequest{}, createArgs{Algorithm: "comb", Size: &size, Seed: 5})
	require.NoError(t, err)
	assert.Len(t, res.Numbers, 7)
}

func TestServer_Errors(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	_, err := s.handleCreate(ctx, mcp.CallToolRequest{}, createArgs{Algorithm: "bubble", Numbers: "1,-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidSequence)

	_, err = s.handleCreate(ctx, mcp.CallToolRequest{}, createArgs{Algorithm: "stooge", Numbers: "1"})
	assert.ErrorIs(t, err, domain.ErrUnknownAlgorithm)

	_, err = s.handleStep(ctx, mcp.CallToolRequest{}, sessionArgs{SessionID: "missing"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestServer_StructuredHandler(t *testing.T) {
	s := newTestServer()
	handler := mcp.NewStructuredToolHandler(s.handleCreate)

	req := mcp.CallToolRequest{}
	req.Params.Name = "create_session"
	req.Params.Arguments = map[string]any{"algorithm": "gnome", "numbers": "2 1"}

	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.IsError)

	out, ok := res.StructuredContent.(ViewResponse)
	require.True(t, ok)
	assert.Equal(t, []int{2, 1}, out.Numbers)
}
