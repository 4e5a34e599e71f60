package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// TaskError accumulates multiple errors produced during a batch run.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// StatementError ties a failure to the statement that caused it.
type StatementError struct {
	Index     int
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement %d (%s): %v", e.Index+1, abbreviate(e.Statement, 60), e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

// Executor runs a single Cypher statement against a graph.
type Executor interface {
	Exec(ctx context.Context, graphName, statement string, params map[string]any) error
}

// BatchRunner executes many statements with bounded concurrency.
type BatchRunner struct {
	exec    Executor
	workers int
	logger  *slog.Logger
}

// NewBatchRunner creates a BatchRunner. A single worker runs statements in order.
func NewBatchRunner(exec Executor, workers int, logger *slog.Logger) *BatchRunner {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchRunner{
		exec:    exec,
		workers: workers,
		logger:  logger,
	}
}

// RunScript splits script into statements and runs them. It returns the
// number of statements found.
func (b *BatchRunner) RunScript(ctx context.Context, graphName, script string) (int, error) {
	stmts := SplitStatements(script)
	return len(stmts), b.RunStatements(ctx, graphName, stmts)
}

// RunStatements runs every statement, collecting failures into a *TaskError.
// Cancellation of ctx stops scheduling and is returned as-is.
func (b *BatchRunner) RunStatements(ctx context.Context, graphName string, stmts []string) error {
	if len(stmts) == 0 {
		return nil
	}

	var (
		g       errgroup.Group
		mu      sync.Mutex
		taskErr TaskError
	)
	g.SetLimit(b.workers)

	for i, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			err := b.exec.Exec(ctx, graphName, stmt, nil)
			if err == nil {
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			b.logger.Warn("statement failed", "graph", graphName, "index", i, "error", err)
			taskErr.append(&StatementError{Index: i, Statement: stmt, Err: err})
			return nil
		})
	}
	// Only context failures escape the tasks; the rest are in taskErr.
	waitErr := g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if waitErr != nil {
		return waitErr
	}
	return taskErr.asError()
}

func abbreviate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
