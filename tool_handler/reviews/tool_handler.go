package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shoptalk/agent/retriever"
	toolhandler "github.com/shoptalk/agent/tool_handler"
	getsafe "github.com/shoptalk/agent/util/get_safe"
)

const defaultTopK = 10

type reviewsToolHandler struct {
	options toolhandler.Options
	spec    toolhandler.ToolSpec
}

func (th *reviewsToolHandler) Spec() toolhandler.ToolSpec {
	return th.spec
}

func (th *reviewsToolHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	query := strings.TrimSpace(getsafe.String(req.Arguments, "query"))
	if len(query) == 0 {
		return toolhandler.ToolResponse{}, errors.New("query is required")
	}

	topK := getsafe.Int(req.Arguments, "top_k", defaultTopK)
	itemIds := getsafe.StringSlice(req.Arguments, "item_list")

	reviews, err := th.options.Retriever.SearchReviews(
		ctx,
		query,
		retriever.WithLimit(topK),
		retriever.WithItemIds(itemIds...),
	)
	if err != nil {
		return toolhandler.ToolResponse{}, fmt.Errorf("review search error: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Relevant customer reviews:\n")
	if len(reviews) == 0 {
		sb.WriteString("(no matching reviews found)\n")
	}
	for i, review := range reviews {
		sb.WriteString(fmt.Sprintf(
			"%d. [%s] %s (%.1f stars)\n   %s\n",
			i+1, review.ItemId, review.Title, review.Rating, review.Text,
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

	th := &reviewsToolHandler{
		options: options,
		spec: toolhandler.ToolSpec{
			Name:        "get_formatted_reviews_context",
			Description: "Searches customer reviews, optionally scoped to specific item ids, and returns a formatted block.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query":     map[string]any{"type": "string", "description": "Free-text review search query"},
					"item_list": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Item ids to restrict the search to"},
					"top_k":     map[string]any{"type": "integer", "description": "Number of reviews to return"},
				},
				"required": []string{"query"},
			},
			Examples: []map[string]any{
				{"name": "get_formatted_reviews_context", "arguments": map[string]any{"query": "dinosaur headphones", "item_list": []string{"B0B67M9C9P"}, "top_k": 10}},
			},
		},
	}

	return th
}
