package graph

import (
	"context"
	"sync"

	"github.com/vanshika/agegraph/internal/cypher"
	"github.com/vanshika/agegraph/internal/graphvalue"
)

// MemoryClient is a simple in-memory implementation of the Client interface used
// for unit testing repository logic without requiring a running graph database.
type MemoryClient struct {
	mu           sync.Mutex
	runCalls     []cypher.Command
	execCalls    []cypher.Command
	results      []Result
	err          error
	failOn       map[string]error
	connectivity error
	closed       bool
}

// NewMemoryClient instantiates the in-memory client with no canned results.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// WithError configures the client to return the provided error for subsequent calls.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// FailOn makes commands whose Cypher text equals query fail with err.
func (m *MemoryClient) FailOn(query string, err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == nil {
		m.failOn = make(map[string]error)
	}
	m.failOn[query] = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return the supplied error.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// PushResult appends a result that will be returned on the next Run call.
func (m *MemoryClient) PushResult(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, res)
}

// PushRows appends a result built from raw graph-value payloads, one map per
// row. A column missing from a row is a NULL cell.
func (m *MemoryClient) PushRows(columns []string, rows ...map[string]string) {
	res := Result{Columns: append([]string(nil), columns...)}
	for _, row := range rows {
		record := make(Record, len(columns))
		for _, col := range columns {
			raw, ok := row[col]
			if !ok {
				record[col] = nil
				continue
			}
			g := graphvalue.New(raw)
			record[col] = &g
		}
		res.Records = append(res.Records, record)
	}
	m.PushResult(res)
}

func (m *MemoryClient) Run(_ context.Context, cmd cypher.Command) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure(cmd); err != nil {
		return Result{}, err
	}

	m.runCalls = append(m.runCalls, cloneCommand(cmd))

	if len(m.results) == 0 {
		return Result{}, nil
	}

	res := m.results[0]
	m.results = m.results[1:]
	return res, nil
}

func (m *MemoryClient) Exec(_ context.Context, cmd cypher.Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure(cmd); err != nil {
		return err
	}

	m.execCalls = append(m.execCalls, cloneCommand(cmd))
	return nil
}

func (m *MemoryClient) failure(cmd cypher.Command) error {
	if m.err != nil {
		return m.err
	}
	if err, ok := m.failOn[cmd.Cypher]; ok && cmd.Cypher != "" {
		return err
	}
	return nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MemoryClient) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// RunCalls returns a snapshot of commands passed to Run.
func (m *MemoryClient) RunCalls() []cypher.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]cypher.Command(nil), m.runCalls...)
}

// ExecCalls returns a snapshot of commands passed to Exec.
func (m *MemoryClient) ExecCalls() []cypher.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]cypher.Command(nil), m.execCalls...)
}

func cloneCommand(cmd cypher.Command) cypher.Command {
	cmd.Params = cloneMap(cmd.Params)
	cmd.Args = append([]any(nil), cmd.Args...)
	return cmd
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
