package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/shoptalk/agent/internal/service/session"
	toolhandler "github.com/shoptalk/agent/tool_handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedGenerator struct {
	turns   []string
	prompts []string
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if len(g.turns) == 0 {
		return "", errors.New("script exhausted")
	}
	turn := g.turns[0]
	g.turns = g.turns[1:]
	return turn, nil
}

type recordingToolHandler struct {
	name     string
	invoked  []toolhandler.ToolRequest
	response toolhandler.ToolResponse
	err      error
}

func (th *recordingToolHandler) Spec() toolhandler.ToolSpec {
	return toolhandler.ToolSpec{Name: th.name, Description: "test tool"}
}

func (th *recordingToolHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	th.invoked = append(th.invoked, req)
	return th.response, th.err
}

func newService(gen *scriptedGenerator, handlers ...toolhandler.ToolHandler) *Service {
	return New(gen, handlers, session.New(20), 5, "")
}

func TestRespondFinalAnswerImmediately(t *testing.T) {
	gen := &scriptedGenerator{turns: []string{
		`{"answer": "The laptop bag costs $25.", "references": [{"id": "B07F9MFVKS", "description": "EZrelia Laptop Bag"}], "final_answer": true, "tool_calls": []}`,
	}}

	svc := newService(gen)
	sessionId := svc.CreateSession(context.Background(), "")

	result, err := svc.Respond(context.Background(), sessionId, "How much is the laptop bag?")
	require.NoError(t, err)
	assert.Equal(t, "The laptop bag costs $25.", result.Answer)
	require.Len(t, result.References, 1)
	assert.Equal(t, "B07F9MFVKS", result.References[0]["id"])
}

func TestRespondDispatchesToolCallsThenFinishes(t *testing.T) {
	gen := &scriptedGenerator{turns: []string{
		"```json\n" + `{"answer": "Looking up items...", "references": [], "final_answer": false, "tool_calls": [{"name": "get_formatted_items_context", "arguments": {"query": "earphones", "top_k": 5}}]}` + "\n```",
		`{"answer": "Found two good options.", "references": [], "final_answer": true, "tool_calls": []}`,
	}}

	items := &recordingToolHandler{
		name:     "get_formatted_items_context",
		response: toolhandler.ToolResponse{Content: "Relevant catalog items:\n1. [X1] Earphones"},
	}

	svc := newService(gen, items)
	sessionId := svc.CreateSession(context.Background(), "")

	result, err := svc.Respond(context.Background(), sessionId, "Any earphones?")
	require.NoError(t, err)
	assert.Equal(t, "Found two good options.", result.Answer)

	require.Len(t, items.invoked, 1)
	assert.Equal(t, map[string]any{"query": "earphones", "top_k": float64(5)}, items.invoked[0].Arguments)

	// The second prompt must carry the tool output forward.
	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[1], "Relevant catalog items")
}

func TestRespondNormalizesParametersVariant(t *testing.T) {
	// A model variant emits "parameters"; the tool still receives arguments.
	gen := &scriptedGenerator{turns: []string{
		`{"answer": "Fetching reviews...", "references": [], "final_answer": false, "tool_calls": [{"name": "get_formatted_reviews_context", "parameters": {"query": "dinosaur headphones", "item_list": ["B0B67M9C9P"], "top_k": 10}}]}`,
		`{"answer": "The reviews are positive.", "references": [], "final_answer": true, "tool_calls": []}`,
	}}

	reviews := &recordingToolHandler{
		name:     "get_formatted_reviews_context",
		response: toolhandler.ToolResponse{Content: "Relevant customer reviews:\n1. [B0B67M9C9P] Great!"},
	}

	svc := newService(gen, reviews)
	sessionId := svc.CreateSession(context.Background(), "")

	result, err := svc.Respond(context.Background(), sessionId, "What do reviews say?")
	require.NoError(t, err)
	assert.Equal(t, "The reviews are positive.", result.Answer)

	require.Len(t, reviews.invoked, 1)
	assert.Equal(t, "dinosaur headphones", reviews.invoked[0].Arguments["query"])
	assert.Equal(t, []any{"B0B67M9C9P"}, reviews.invoked[0].Arguments["item_list"])
}

func TestRespondSurfacesInvalidTurn(t *testing.T) {
	gen := &scriptedGenerator{turns: []string{
		`{"answer": "broken turn", "references": [], "final_answer": false, "tool_calls": [{"name": "get_formatted_items_context"}]}`,
	}}

	svc := newService(gen, &recordingToolHandler{name: "get_formatted_items_context"})
	sessionId := svc.CreateSession(context.Background(), "")

	_, err := svc.Respond(context.Background(), sessionId, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid turn")
	assert.Contains(t, err.Error(), "tool_calls[0]")
}

func TestRespondUnknownTool(t *testing.T) {
	gen := &scriptedGenerator{turns: []string{
		`{"answer": "calling a tool", "references": [], "final_answer": false, "tool_calls": [{"name": "not_a_tool", "arguments": {}}]}`,
	}}

	svc := newService(gen)
	sessionId := svc.CreateSession(context.Background(), "")

	_, err := svc.Respond(context.Background(), sessionId, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool")
}

func TestRespondEmptyInput(t *testing.T) {
	svc := newService(&scriptedGenerator{})
	sessionId := svc.CreateSession(context.Background(), "")

	_, err := svc.Respond(context.Background(), sessionId, "   ")
	require.Error(t, err)
}

func TestRespondStopsAfterMaxTurns(t *testing.T) {
	loop := `{"answer": "still thinking", "references": [], "final_answer": false, "tool_calls": [{"name": "get_formatted_items_context", "arguments": {"query": "x"}}]}`
	gen := &scriptedGenerator{turns: []string{loop, loop, loop, loop, loop}}

	items := &recordingToolHandler{
		name:     "get_formatted_items_context",
		response: toolhandler.ToolResponse{Content: "nothing new"},
	}

	svc := New(gen, []toolhandler.ToolHandler{items}, session.New(50), 3, "")
	sessionId := svc.CreateSession(context.Background(), "")

	_, err := svc.Respond(context.Background(), sessionId, "loop forever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no final answer after 3 turns")
	assert.Len(t, items.invoked, 3)
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("  {\"a\":1}  "))
	// No newline between the language tag and the payload.
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```JSON\n{\"a\":1}\n```"))
	assert.Equal(t, `[1]`, stripCodeFences("```json[1]```"))
	// Fenced plain text is not mistaken for a tagged payload.
	assert.Equal(t, "hello world", stripCodeFences("```\nhello world\n```"))
}
