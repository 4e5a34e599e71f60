package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/vanshika/agegraph/internal/cypher"
	"github.com/vanshika/agegraph/internal/graphvalue"
)

// NewNeo4jClient establishes a Bolt connection using the official Neo4j driver.
// Records are converted into the graph-value model so callers decode Bolt and
// PostgreSQL results the same way. Graph lifecycle commands have no Bolt
// equivalent and fail with ErrUnsupportedCommand.
func NewNeo4jClient(ctx context.Context, opts Options) (Client, error) {
	if opts.URI == "" {
		return nil, ErrMissingURI
	}

	auth := neo4j.NoAuth()
	if opts.Username != "" {
		auth = neo4j.BasicAuth(opts.Username, opts.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(opts.URI, auth, func(c *neo4j.Config) {
		if opts.MaxConnections > 0 {
			c.MaxConnectionPoolSize = opts.MaxConnections
		}
	})
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify graph connectivity: %w", err)
	}

	return &neo4jClient{
		driver:   driver,
		database: opts.Database,
	}, nil
}

type neo4jClient struct {
	driver   neo4j.DriverWithContext
	database string
}

func (c *neo4jClient) Run(ctx context.Context, cmd cypher.Command) (Result, error) {
	if cmd.Kind != cypher.KindCypher {
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedCommand, cmd.Kind)
	}

	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.database,
		AccessMode:   neo4j.AccessModeWrite,
	})
	defer session.Close(ctx)

	res, err := session.Run(ctx, cmd.Cypher, cmd.Params)
	if err != nil {
		return Result{}, err
	}

	return consumeResult(ctx, res)
}

func (c *neo4jClient) Exec(ctx context.Context, cmd cypher.Command) error {
	if cmd.Kind != cypher.KindCypher {
		return fmt.Errorf("%w: %s", ErrUnsupportedCommand, cmd.Kind)
	}

	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.database,
		AccessMode:   neo4j.AccessModeWrite,
	})
	defer session.Close(ctx)

	res, err := session.Run(ctx, cmd.Cypher, cmd.Params)
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}

func (c *neo4jClient) VerifyConnectivity(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

func (c *neo4jClient) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

func consumeResult(ctx context.Context, res neo4j.ResultWithContext) (Result, error) {
	keys, err := res.Keys()
	if err != nil {
		return Result{}, err
	}

	var records []Record
	for res.Next(ctx) {
		rec := res.Record()
		record, err := recordFromValues(rec.Keys, rec.Values)
		if err != nil {
			return Result{}, err
		}
		records = append(records, record)
	}
	if err := res.Err(); err != nil {
		return Result{}, err
	}
	return Result{Columns: keys, Records: records}, nil
}

// recordFromValues re-encodes driver values as graph-value payloads.
func recordFromValues(keys []string, values []any) (Record, error) {
	record := make(Record, len(keys))
	for i, key := range keys {
		if values[i] == nil {
			record[key] = nil
			continue
		}
		val, err := FromNative(values[i])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", key, err)
		}
		g := graphvalue.New(val.String())
		record[key] = &g
	}
	return record, nil
}
