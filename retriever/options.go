package retriever

import "context"

type SearchOption func(*SearchOptions)

type SearchOptions struct {
	Limit   int
	ItemIds []string
	Context context.Context
}

func WithLimit(limit int) SearchOption {
	return func(o *SearchOptions) {
		o.Limit = limit
	}
}

// WithItemIds scopes a review search to the given catalog item ids.
func WithItemIds(ids ...string) SearchOption {
	return func(o *SearchOptions) {
		o.ItemIds = ids
	}
}

func NewSearchOptions(opts ...SearchOption) SearchOptions {
	options := SearchOptions{
		Limit:   5,
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
