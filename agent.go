// Package agent wires the shopping-assistant building blocks (generator,
// tool handlers, session history) into one conversational facade.
package agent

import (
	"context"

	"github.com/shoptalk/agent/generator"
	agentservice "github.com/shoptalk/agent/internal/service/agent"
	"github.com/shoptalk/agent/internal/service/session"
	toolhandler "github.com/shoptalk/agent/tool_handler"
)

type Assistant struct {
	agent    *agentservice.Service
	sessions *session.Service
}

// Result is the final outcome of one user request: the complete answer and
// the references the model cited.
type Result struct {
	Answer     string           `json:"answer"`
	References []map[string]any `json:"references"`
}

func (a *Assistant) CreateSession(ctx context.Context, id string) string {
	return a.sessions.CreateSession(ctx, id)
}

func (a *Assistant) ListSessionIds(ctx context.Context) []string {
	return a.sessions.ListSessionIds(ctx)
}

func (a *Assistant) DeleteSession(ctx context.Context, id string) {
	a.sessions.DeleteSession(ctx, id)
}

// Respond runs the agent loop for one user message and returns the final
// answer. Tool dispatch and validation failures surface as errors.
func (a *Assistant) Respond(ctx context.Context, sessionId string, message string) (Result, error) {
	result, err := a.agent.Respond(ctx, sessionId, message)
	if err != nil {
		return Result{}, err
	}
	return Result{Answer: result.Answer, References: result.References}, nil
}

func (a *Assistant) Close() error {
	return nil
}

func New(
	generator generator.Generator,
	toolHandlers []toolhandler.ToolHandler,
	maxTurns int,
	window int,
	systemPrompt string,
) *Assistant {
	sessions := session.New(window)

	agent := agentservice.New(
		generator,
		toolHandlers,
		sessions,
		maxTurns,
		systemPrompt,
	)

	return &Assistant{
		agent:    agent,
		sessions: sessions,
	}
}
