package toolhandler

import (
	"context"

	"github.com/shoptalk/agent/retriever"
)

type Option func(*Options)

type Options struct {
	Retriever retriever.Retriever
	Context   context.Context
}

func WithRetriever(r retriever.Retriever) Option {
	return func(o *Options) {
		o.Retriever = r
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
