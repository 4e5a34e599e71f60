package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/agegraph/internal/cypher"
	"github.com/vanshika/agegraph/internal/graphvalue"
)

// Client defines the minimal contract required by the repositories to run
// commands against the underlying graph database.
type Client interface {
	Run(ctx context.Context, cmd cypher.Command) (Result, error)
	Exec(ctx context.Context, cmd cypher.Command) error
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result is a simplified representation of a query response.
type Result struct {
	Columns []string
	Records []Record
}

// Record maps column names to raw graph values. A nil entry is a NULL cell.
type Record map[string]*graphvalue.GraphValue

// Value decodes the cell in column. Missing and NULL cells decode as Null.
func (r Record) Value(column string) (graphvalue.Value, error) {
	cell := r[column]
	if cell == nil {
		return graphvalue.Null{}, nil
	}
	return cell.Value()
}

// Supported backends.
const (
	BackendAGE  = "age"
	BackendBolt = "bolt"
)

// Options configures a graph client implementation.
type Options struct {
	Backend        string
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int

	// LoadFromPlugins loads the extension from $libdir/plugins instead of
	// creating it, for roles without CREATE EXTENSION privileges.
	LoadFromPlugins bool
	SearchPath      string
}

var (
	// ErrMissingURI indicates the graph URI is not provided.
	ErrMissingURI = errors.New("graph URI is required")
	// ErrUnknownBackend indicates Options.Backend names no implementation.
	ErrUnknownBackend = errors.New("unknown graph backend")
	// ErrUnsupportedCommand indicates the backend cannot run a command kind.
	ErrUnsupportedCommand = errors.New("command not supported by graph backend")
)

// New connects to the backend selected by opts.Backend. An empty backend
// selects the PostgreSQL extension.
func New(ctx context.Context, opts Options) (Client, error) {
	switch opts.Backend {
	case "", BackendAGE:
		return NewAGEClient(ctx, opts)
	case BackendBolt:
		return NewNeo4jClient(ctx, opts)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}
