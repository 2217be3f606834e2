package toolhandler

import "context"

type ToolHandler interface {
	Spec() ToolSpec
	Invoke(ctx context.Context, req ToolRequest) (ToolResponse, error)
}

// ToolRequest carries the normalized arguments of a validated tool call.
type ToolRequest struct {
	SessionId string
	Arguments map[string]any
}

type ToolResponse struct {
	Content  string
	Metadata map[string]string
}
