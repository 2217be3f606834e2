package retriever

import "context"

// Retriever finds catalog context relevant to a free-text query. Results
// are ordered by relevance, most relevant first.
type Retriever interface {
	SearchItems(ctx context.Context, query string, opts ...SearchOption) ([]Item, error)
	SearchReviews(ctx context.Context, query string, opts ...SearchOption) ([]Review, error)
}
