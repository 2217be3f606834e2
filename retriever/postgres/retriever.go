package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/shoptalk/agent/embedder"
	"github.com/shoptalk/agent/retriever"
	"go.nhat.io/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
)

var DRIVER string

func init() {
	driver, err := otelsql.Register(
		"postgres",
		otelsql.TraceQueryWithoutArgs(),
		otelsql.TraceRowsClose(),
		otelsql.TraceRowsAffected(),
		otelsql.WithSystem(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		detail := "failed to register pg retriever with otel"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	DRIVER = driver
}

type postgresRetriever struct {
	conn *sql.DB
	embedder.Embedder
}

func (r *postgresRetriever) SearchItems(ctx context.Context, query string, opts ...retriever.SearchOption) ([]retriever.Item, error) {
	options := retriever.NewSearchOptions(opts...)

	vec, err := r.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	stmt := `
		SELECT id, title, description, price, rating
		FROM items
		ORDER BY embedding <=> $1
		LIMIT $2
	`

	rows, err := r.conn.QueryContext(ctx, stmt, pgvector.NewVector(vec), options.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []retriever.Item
	for rows.Next() {
		var item retriever.Item
		if err := rows.Scan(&item.Id, &item.Title, &item.Description, &item.Price, &item.Rating); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *postgresRetriever) SearchReviews(ctx context.Context, query string, opts ...retriever.SearchOption) ([]retriever.Review, error) {
	options := retriever.NewSearchOptions(opts...)

	vec, err := r.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	stmt := `
		SELECT id, item_id, title, text, rating
		FROM reviews
		WHERE cardinality($2::text[]) = 0 OR item_id = ANY($2)
		ORDER BY embedding <=> $1
		LIMIT $3
	`

	itemIds := options.ItemIds
	if itemIds == nil {
		itemIds = []string{}
	}

	rows, err := r.conn.QueryContext(ctx, stmt, pgvector.NewVector(vec), pq.Array(itemIds), options.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []retriever.Review
	for rows.Next() {
		var review retriever.Review
		if err := rows.Scan(&review.Id, &review.ItemId, &review.Title, &review.Text, &review.Rating); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}

func NewRetriever(location string, embedder embedder.Embedder) (retriever.Retriever, error) {
	conn, err := sql.Open(DRIVER, location)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	r := &postgresRetriever{
		conn:     conn,
		Embedder: embedder,
	}

	return r, nil
}
