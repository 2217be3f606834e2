package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shoptalk/agent/generator"
	"github.com/shoptalk/agent/internal/service/session"
	"github.com/shoptalk/agent/response"
	toolhandler "github.com/shoptalk/agent/tool_handler"
)

const defaultSystemPrompt = "You are a shopping assistant for an online store. Answer questions about products and their reviews, call the retrieval tools when you need catalog context, and cite the items you relied on as references."

// Service runs the agent loop: build a prompt, generate a turn, validate
// the structured response, dispatch its tool calls, and repeat until the
// model marks a turn as the final answer.
type Service struct {
	generator    generator.Generator
	handlers     map[string]toolhandler.ToolHandler
	specs        []toolhandler.ToolSpec
	sessions     *session.Service
	systemPrompt string
	maxTurns     int
}

// Result is the terminal outcome of one user request.
type Result struct {
	Answer     string           `json:"answer"`
	References []map[string]any `json:"references"`
}

func (s *Service) CreateSession(ctx context.Context, id string) string {
	return s.sessions.CreateSession(ctx, id)
}

func (s *Service) DeleteSession(ctx context.Context, id string) {
	s.sessions.DeleteSession(ctx, id)
}

func (s *Service) Respond(ctx context.Context, sessionId string, userInput string) (Result, error) {
	if len(strings.TrimSpace(userInput)) == 0 {
		return Result{}, errors.New("user input is required")
	}

	s.sessions.Append(ctx, sessionId, "user", userInput, nil)

	for turn := 0; turn < s.maxTurns; turn++ {
		prompt := s.buildPrompt(ctx, sessionId, userInput)

		raw, err := s.generator.Generate(ctx, prompt)
		if err != nil {
			return Result{}, err
		}

		// One decode-then-validate pass. A malformed turn is surfaced to
		// the caller as-is; this loop never retries on validation errors.
		rsp, err := response.ParseAgentResponse([]byte(stripCodeFences(raw)))
		if err != nil {
			return Result{}, fmt.Errorf("model produced an invalid turn: %w", err)
		}

		s.sessions.Append(ctx, sessionId, "assistant", rsp.Answer, nil)

		if rsp.FinalAnswer {
			return Result{Answer: rsp.Answer, References: rsp.References}, nil
		}

		if len(rsp.ToolCalls) == 0 {
			return Result{}, errors.New("model requested another turn without any tool calls")
		}

		if err := s.dispatch(ctx, sessionId, rsp.ToolCalls); err != nil {
			return Result{}, err
		}
	}

	return Result{}, fmt.Errorf("no final answer after %d turns", s.maxTurns)
}

func (s *Service) dispatch(ctx context.Context, sessionId string, calls []response.ToolCall) error {
	for _, call := range calls {
		th, ok := s.handlers[call.Name]
		if !ok {
			return fmt.Errorf("unknown tool: %s", call.Name)
		}

		result, err := th.Invoke(ctx, toolhandler.ToolRequest{
			SessionId: sessionId,
			Arguments: call.Arguments,
		})
		if err != nil {
			s.sessions.Append(ctx, sessionId, "tool", fmt.Sprintf("%s => error: %v", call.Name, err), map[string]string{"tool": call.Name})
			return fmt.Errorf("tool %s: %w", call.Name, err)
		}

		slog.DebugContext(ctx, "tool call completed", "session", sessionId, "tool", call.Name)

		meta := map[string]string{"tool": call.Name}
		for k, v := range result.Metadata {
			if len(strings.TrimSpace(k)) == 0 {
				continue
			}
			meta[k] = v
		}

		s.sessions.Append(ctx, sessionId, "tool", fmt.Sprintf("%s => %s", call.Name, strings.TrimSpace(result.Content)), meta)
	}

	return nil
}

func New(
	generator generator.Generator,
	toolHandlers []toolhandler.ToolHandler,
	sessions *session.Service,
	maxTurns int,
	systemPrompt string,
) *Service {
	if generator == nil {
		panic("generator is required")
	}

	if sessions == nil {
		panic("session service is required")
	}

	if maxTurns <= 0 {
		maxTurns = 5
	}

	if len(strings.TrimSpace(systemPrompt)) == 0 {
		systemPrompt = defaultSystemPrompt
	}

	handlers := make(map[string]toolhandler.ToolHandler, len(toolHandlers))
	specs := make([]toolhandler.ToolSpec, 0, len(toolHandlers))
	for _, th := range toolHandlers {
		spec := th.Spec()
		handlers[spec.Name] = th
		specs = append(specs, spec)
	}

	return &Service{
		generator:    generator,
		handlers:     handlers,
		specs:        specs,
		sessions:     sessions,
		systemPrompt: systemPrompt,
		maxTurns:     maxTurns,
	}
}
