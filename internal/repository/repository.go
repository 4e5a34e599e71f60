package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/agegraph/internal/cypher"
	"github.com/vanshika/agegraph/internal/graph"
)

// ErrEmptyResult indicates a query that must yield a row returned none.
var ErrEmptyResult = errors.New("query returned no rows")

// Repository encapsulates graph lifecycle and query operations.
type Repository struct {
	client  graph.Client
	builder cypher.Builder
}

// Option customises a Repository.
type Option func(*Repository)

// WithColumnType sets the type token used in derived column clauses.
func WithColumnType(columnType string) Option {
	return func(r *Repository) {
		if columnType != "" {
			r.builder.ColumnType = columnType
		}
	}
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client, opts ...Option) *Repository {
	r := &Repository{client: client, builder: cypher.DefaultBuilder}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateGraph creates an empty graph.
func (r *Repository) CreateGraph(ctx context.Context, name string) error {
	cmd, err := r.builder.CreateGraph(name)
	if err != nil {
		return err
	}
	if err := r.client.Exec(ctx, cmd); err != nil {
		return fmt.Errorf("create graph %s: %w", name, err)
	}
	return nil
}

// DropGraph removes a graph. Without cascade the call fails while the graph
// still holds labels.
func (r *Repository) DropGraph(ctx context.Context, name string, cascade bool) error {
	cmd, err := r.builder.DropGraph(name, cascade)
	if err != nil {
		return err
	}
	if err := r.client.Exec(ctx, cmd); err != nil {
		return fmt.Errorf("drop graph %s: %w", name, err)
	}
	return nil
}

// GraphExists reports whether the catalog knows a graph called name.
func (r *Repository) GraphExists(ctx context.Context, name string) (bool, error) {
	cmd, err := r.builder.GraphExists(name)
	if err != nil {
		return false, err
	}
	res, err := r.client.Run(ctx, cmd)
	if err != nil {
		return false, fmt.Errorf("check graph %s: %w", name, err)
	}
	if len(res.Records) == 0 || len(res.Columns) == 0 {
		return false, fmt.Errorf("check graph %s: %w", name, ErrEmptyResult)
	}

	cell := res.Records[0][res.Columns[0]]
	if cell == nil {
		return false, nil
	}
	exists, err := cell.Bool()
	if err != nil {
		return false, fmt.Errorf("check graph %s: %w", name, err)
	}
	return exists, nil
}

// Query runs a Cypher query against graphName and returns its raw rows.
func (r *Repository) Query(ctx context.Context, graphName, query string, params map[string]any) (graph.Result, error) {
	cmd, err := r.builder.Query(graphName, query, params)
	if err != nil {
		return graph.Result{}, err
	}
	res, err := r.client.Run(ctx, cmd)
	if err != nil {
		return graph.Result{}, fmt.Errorf("query graph %s: %w", graphName, err)
	}
	return res, nil
}

// Exec runs a Cypher statement against graphName and discards its rows.
func (r *Repository) Exec(ctx context.Context, graphName, statement string, params map[string]any) error {
	cmd, err := r.builder.Query(graphName, statement, params)
	if err != nil {
		return err
	}
	if err := r.client.Exec(ctx, cmd); err != nil {
		return fmt.Errorf("exec on graph %s: %w", graphName, err)
	}
	return nil
}

// Ping verifies the graph backend is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.VerifyConnectivity(ctx)
}
