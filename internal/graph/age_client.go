package graph

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vanshika/agegraph/internal/cypher"
	"github.com/vanshika/agegraph/internal/graphvalue"
)

// DefaultSearchPath puts the extension catalog first so its operators and
// the graph-value type resolve unqualified.
const DefaultSearchPath = `ag_catalog, "$user", public`

// NewAGEClient opens a connection pool to PostgreSQL with the graph
// extension. Every physical connection loads the extension and sets the
// search path before it is handed out.
func NewAGEClient(ctx context.Context, opts Options) (Client, error) {
	if opts.URI == "" {
		return nil, ErrMissingURI
	}

	cfg, err := pgxpool.ParseConfig(opts.URI)
	if err != nil {
		return nil, fmt.Errorf("parse graph URI: %w", err)
	}
	if opts.MaxConnections > 0 {
		cfg.MaxConns = int32(opts.MaxConnections)
	}
	if opts.Database != "" {
		cfg.ConnConfig.Database = opts.Database
	}
	if opts.Username != "" {
		cfg.ConnConfig.User = opts.Username
		cfg.ConnConfig.Password = opts.Password
	}

	statements := bootstrapStatements(opts.LoadFromPlugins, opts.SearchPath)
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for _, stmt := range statements {
			if _, err := conn.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("bootstrap graph extension: %w", err)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create graph pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("verify graph connectivity: %w", err)
	}

	return &ageClient{pool: pool}, nil
}

func bootstrapStatements(loadFromPlugins bool, searchPath string) []string {
	var stmts []string
	if loadFromPlugins {
		stmts = append(stmts, "LOAD '$libdir/plugins/age';")
	} else {
		stmts = append(stmts, "CREATE EXTENSION IF NOT EXISTS age;", "LOAD 'age';")
	}
	if searchPath == "" {
		searchPath = DefaultSearchPath
	}
	return append(stmts, "SET search_path = "+searchPath+";")
}

type ageClient struct {
	pool *pgxpool.Pool
}

func (c *ageClient) Run(ctx context.Context, cmd cypher.Command) (Result, error) {
	if cmd.SQL == "" {
		return Result{}, fmt.Errorf("%w: %s without SQL", ErrUnsupportedCommand, cmd.Kind)
	}

	rows, err := c.pool.Query(ctx, cmd.SQL, cmd.Args...)
	if err != nil {
		return Result{}, err
	}
	defer rows.Close()

	return consumeRows(rows)
}

func (c *ageClient) Exec(ctx context.Context, cmd cypher.Command) error {
	if cmd.SQL == "" {
		return fmt.Errorf("%w: %s without SQL", ErrUnsupportedCommand, cmd.Kind)
	}
	_, err := c.pool.Exec(ctx, cmd.SQL, cmd.Args...)
	return err
}

func (c *ageClient) VerifyConnectivity(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *ageClient) Close(context.Context) error {
	c.pool.Close()
	return nil
}

func consumeRows(rows pgx.Rows) (Result, error) {
	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	var records []Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return Result{}, err
		}
		record := make(Record, len(columns))
		for i, v := range values {
			cell, err := cellValue(v)
			if err != nil {
				return Result{}, fmt.Errorf("column %s: %w", columns[i], err)
			}
			record[columns[i]] = cell
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return Result{}, err
	}
	return Result{Columns: columns, Records: records}, nil
}

// cellValue wraps one driver value. Text columns such as the graph-value
// type arrive as strings or bytes and are kept verbatim; other types are
// converted and re-encoded.
func cellValue(v any) (*graphvalue.GraphValue, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		g := graphvalue.New(x)
		return &g, nil
	case []byte:
		g, err := graphvalue.FromBytes(x)
		if err != nil {
			return nil, err
		}
		return &g, nil
	}
	val, err := FromNative(v)
	if err != nil {
		return nil, err
	}
	g := graphvalue.New(val.String())
	return &g, nil
}
