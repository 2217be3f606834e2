package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shoptalk/agent/retriever"
	toolhandler "github.com/shoptalk/agent/tool_handler"
	getsafe "github.com/shoptalk/agent/util/get_safe"
)

const defaultTopK = 5

type itemsToolHandler struct {
	options toolhandler.Options
	spec    toolhandler.ToolSpec
}

func (th *itemsToolHandler) Spec() toolhandler.ToolSpec {
	return th.spec
}

func (th *itemsToolHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	query := strings.TrimSpace(getsafe.String(req.Arguments, "query"))
	if len(query) == 0 {
		return toolhandler.ToolResponse{}, errors.New("query is required")
	}

	topK := getsafe.Int(req.Arguments, "top_k", defaultTopK)

	items, err := th.options.Retriever.SearchItems(ctx, query, retriever.WithLimit(topK))
	if err != nil {
		return toolhandler.ToolResponse{}, fmt.Errorf("item search error: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Relevant catalog items:\n")
	if len(items) == 0 {
		sb.WriteString("(no matching items found)\n")
	}
	for i, item := range items {
		sb.WriteString(fmt.Sprintf(
			"%d. [%s] %s — $%.2f, rated %.1f\n   %s\n",
			i+1, item.Id, item.Title, item.Price, item.Rating, item.Description,
		))
	}

	return toolhandler.ToolResponse{
		Content: sb.String(),
		Metadata: map[string]string{
			"tool":  th.spec.Name,
			"query": query,
		},
	}, nil
}

func NewToolHandler(opts ...toolhandler.Option) toolhandler.ToolHandler {
	options := toolhandler.NewOptions(opts...)

	if options.Retriever == nil {
		panic("retriever is required")
	}

	th := &itemsToolHandler{
		options: options,
		spec: toolhandler.ToolSpec{
			Name:        "get_formatted_items_context",
			Description: "Searches the product catalog and returns a formatted block of the most relevant items.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{"type": "string", "description": "Free-text product search query"},
					"top_k": map[string]any{"type": "integer", "description": "Number of items to return"},
				},
				"required": []string{"query"},
			},
			Examples: []map[string]any{
				{"name": "get_formatted_items_context", "arguments": map[string]any{"query": "earphones", "top_k": 5}},
			},
		},
	}

	return th
}
