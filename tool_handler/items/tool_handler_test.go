package items

import (
	"context"
	"testing"

	"github.com/shoptalk/agent/retriever"
	toolhandler "github.com/shoptalk/agent/tool_handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRetriever struct {
	items     []retriever.Item
	lastQuery string
	lastOpts  retriever.SearchOptions
}

func (r *fakeRetriever) SearchItems(ctx context.Context, query string, opts ...retriever.SearchOption) ([]retriever.Item, error) {
	r.lastQuery = query
	r.lastOpts = retriever.NewSearchOptions(opts...)
	return r.items, nil
}

func (r *fakeRetriever) SearchReviews(ctx context.Context, query string, opts ...retriever.SearchOption) ([]retriever.Review, error) {
	return nil, nil
}

func TestInvokeFormatsItems(t *testing.T) {
	re := &fakeRetriever{items: []retriever.Item{
		{Id: "B0B67M9C9P", Title: "QearFun Dinosaur Headphones", Description: "Wired headphones for kids", Price: 19.99, Rating: 4.6},
	}}

	th := NewToolHandler(toolhandler.WithRetriever(re))
	assert.Equal(t, "get_formatted_items_context", th.Spec().Name)

	// top_k arrives as float64 after JSON decoding.
	rsp, err := th.Invoke(context.Background(), toolhandler.ToolRequest{
		Arguments: map[string]any{"query": "earphones", "top_k": float64(5)},
	})
	require.NoError(t, err)

	assert.Equal(t, "earphones", re.lastQuery)
	assert.Equal(t, 5, re.lastOpts.Limit)
	assert.Contains(t, rsp.Content, "QearFun Dinosaur Headphones")
	assert.Contains(t, rsp.Content, "B0B67M9C9P")
	assert.Equal(t, "get_formatted_items_context", rsp.Metadata["tool"])
}

func TestInvokeDefaultsTopK(t *testing.T) {
	re := &fakeRetriever{}
	th := NewToolHandler(toolhandler.WithRetriever(re))

	rsp, err := th.Invoke(context.Background(), toolhandler.ToolRequest{
		Arguments: map[string]any{"query": "laptop bag"},
	})
	require.NoError(t, err)
	assert.Equal(t, defaultTopK, re.lastOpts.Limit)
	assert.Contains(t, rsp.Content, "no matching items")
}

func TestInvokeRequiresQuery(t *testing.T) {
	th := NewToolHandler(toolhandler.WithRetriever(&fakeRetriever{}))

	_, err := th.Invoke(context.Background(), toolhandler.ToolRequest{Arguments: map[string]any{}})
	require.Error(t, err)
}
