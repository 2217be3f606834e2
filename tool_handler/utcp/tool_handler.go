// Package utcp exposes tools registered with a UTCP client as agent tool
// handlers, so externally hosted tools sit behind the same Spec/Invoke
// surface as the built-in catalog tools.
package utcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	toolhandler "github.com/shoptalk/agent/tool_handler"
)

// ToolCaller is the slice of the UTCP client surface the handler needs.
// utcp.UtcpClientInterface satisfies it.
type ToolCaller interface {
	CallTool(ctx context.Context, toolName string, args map[string]any) (any, error)
}

type utcpToolHandler struct {
	options  toolhandler.Options
	client   ToolCaller
	toolName string
	spec     toolhandler.ToolSpec
}

func (th *utcpToolHandler) Spec() toolhandler.ToolSpec {
	return th.spec
}

func (th *utcpToolHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	if th.client == nil {
		return toolhandler.ToolResponse{}, errors.New("utcp client is not configured")
	}

	raw, err := th.client.CallTool(ctx, th.toolName, req.Arguments)
	if err != nil {
		return toolhandler.ToolResponse{}, fmt.Errorf("utcp tool %s: %w", th.toolName, err)
	}

	return toolhandler.ToolResponse{
		Content: contentFrom(raw),
		Metadata: map[string]string{
			"source": "utcp",
			"tool":   th.toolName,
		},
	}, nil
}

// contentFrom flattens a UTCP result into prompt-ready text. Remote tools
// may return plain strings or arbitrary structured values.
func contentFrom(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", v)
	}
}

func NewToolHandler(opts ...toolhandler.Option) toolhandler.ToolHandler {
	options := toolhandler.NewOptions(opts...)

	th := &utcpToolHandler{
		options: options,
	}

	if client, ok := UtcpClientFrom(options.Context); ok {
		th.client = client
	}

	if name, ok := ToolNameFrom(options.Context); ok {
		th.toolName = name
	}

	if spec, ok := ToolSpecFrom(options.Context); ok {
		th.spec = spec
	} else {
		th.spec = toolhandler.ToolSpec{
			Name:        th.toolName,
			Description: fmt.Sprintf("Remote tool %q served over UTCP.", th.toolName),
		}
	}

	return th
}
