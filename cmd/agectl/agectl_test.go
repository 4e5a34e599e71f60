package main

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/agegraph/internal/config"
	"github.com/vanshika/agegraph/internal/cypher"
	"github.com/vanshika/agegraph/internal/graph"
	"github.com/vanshika/agegraph/internal/graphvalue"
)

// execute runs the CLI with args and returns stdout.
func execute(t *testing.T, a *app, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigFile, "")
	t.Setenv("GRAPH_NAME", "")

	cmd := newRootCmd(a)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func memoryApp(mem *graph.MemoryClient) *app {
	return &app{
		connect: func(context.Context, config.Config) (graph.Client, error) {
			return mem, nil
		},
	}
}

func TestColumnsCommand(t *testing.T) {
	out, err := execute(t, newApp(), "", "columns", "MATCH (n) RETURN n.name AS Name, count(n)")
	require.NoError(t, err)
	assert.Equal(t, "(\"Name\" agtype, count agtype)\n", out)

	out, err = execute(t, newApp(), "", "columns", "--type", "graphvalue", "--json", "CREATE (n)")
	require.NoError(t, err)
	assert.JSONEq(t, `{"clause": "(result graphvalue)", "columns": []}`, out)

	out, err = execute(t, newApp(), "MATCH (n) RETURN n\n", "columns", "-")
	require.NoError(t, err)
	assert.Equal(t, "(n agtype)\n", out)
}

func TestDecodeCommand(t *testing.T) {
	out, err := execute(t, newApp(), "", "decode",
		`{"id": 1, "label": "Person", "properties": {"name": "Ann"}}::vertex`)
	require.NoError(t, err)

	var got decodeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "vertex", got.Kind)
	assert.Equal(t, map[string]any{
		"id":         float64(1),
		"label":      "Person",
		"properties": map[string]any{"name": "Ann"},
	}, got.Value)
}

func TestDecodeCommand_CoerceSpecialFloats(t *testing.T) {
	out, err := execute(t, newApp(), "", "decode", "--as", "list", "--coerce-special-floats", `[1, "-Infinity"]`)
	require.NoError(t, err)

	var got decodeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "list", got.Kind)
	want := graphvalue.List{graphvalue.Int(1), graphvalue.Float(math.Inf(-1))}
	assert.Equal(t, want.String(), got.Wire)

	out, err = execute(t, newApp(), "", "decode", "--as", "list", `[1, "-Infinity"]`)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	want = graphvalue.List{graphvalue.Int(1), graphvalue.String("-Infinity")}
	assert.Equal(t, want.String(), got.Wire)
}

func TestDecodeCommand_Errors(t *testing.T) {
	_, err := execute(t, newApp(), "", "decode", "--as", "vertex",
		`{"id": 2, "label": "KNOWS", "start_id": 1, "end_id": 3, "properties": {}}::edge`)
	var formatErr *graphvalue.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "vertex", formatErr.Target)

	_, err = execute(t, newApp(), "", "decode", "--as", "blob", "1")
	require.ErrorIs(t, err, errUnknownKind)

	out, err := execute(t, newApp(), "", "decode", "--as", "int32", "2147483647")
	require.NoError(t, err)
	assert.Contains(t, out, `"kind":"int"`)

	_, err = execute(t, newApp(), "", "decode", "--as", "int32", "2147483648")
	require.Error(t, err)
}

func TestGraphCommands(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushRows([]string{"exists"}, map[string]string{"exists": "true"})

	_, err := execute(t, memoryApp(mem), "", "graph", "create", "people")
	require.NoError(t, err)
	_, err = execute(t, memoryApp(mem), "", "graph", "drop", "--cascade", "people")
	require.NoError(t, err)
	out, err := execute(t, memoryApp(mem), "", "graph", "exists", "people")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	execs := mem.ExecCalls()
	require.Len(t, execs, 2)
	assert.Equal(t, cypher.KindCreateGraph, execs[0].Kind)
	assert.Equal(t, cypher.KindDropGraph, execs[1].Kind)
	assert.Equal(t, []any{"people", true}, execs[1].Args)
	assert.True(t, mem.Closed())

	_, err = execute(t, memoryApp(mem), "", "graph", "create", "bad name")
	require.ErrorIs(t, err, cypher.ErrInvalidGraphName)
}

func TestQueryCommand(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushRows([]string{"n", "score"}, map[string]string{
		"n":     `{"id": 3, "label": "Person", "properties": {}}::vertex`,
		"score": "NaN",
	})

	out, err := execute(t, memoryApp(mem), "", "query", "--graph", "people",
		"--params", `{"name": "Ann"}`, "MATCH (n {name: $name}) RETURN n, n.score AS score")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"columns": ["n", "score"],
		"rows": [{"n": {"id": 3, "label": "Person", "properties": {}}, "score": "NaN"}]
	}`, out)

	calls := mem.RunCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "people", calls[0].Graph)
	require.Len(t, calls[0].Args, 1)
	assert.JSONEq(t, `{"name": "Ann"}`, calls[0].Args[0].(string))
	assert.Contains(t, calls[0].SQL, "as (n agtype, score agtype);")
}

func TestQueryCommand_RequiresGraph(t *testing.T) {
	_, err := execute(t, memoryApp(graph.NewMemoryClient()), "", "query", "RETURN 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graph name is required")

	_, err = execute(t, memoryApp(graph.NewMemoryClient()), "", "query", "--graph", "g", "--params", "{", "RETURN 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --params")
}

func TestIngestCommand(t *testing.T) {
	script := filepath.Join(t.TempDir(), "seed.cypher")
	require.NoError(t, os.WriteFile(script, []byte("// seed\nCREATE (:A);\nCREATE (:B);\n"), 0o600))

	mem := graph.NewMemoryClient()
	mem.PushRows([]string{"exists"}, map[string]string{"exists": "false"})

	out, err := execute(t, memoryApp(mem), "", "ingest", "--graph", "people", "--file", script, "--workers", "1", "--create-graph")
	require.NoError(t, err)
	assert.Equal(t, "ran 2 statements\n", out)

	execs := mem.ExecCalls()
	require.Len(t, execs, 3)
	assert.Equal(t, cypher.KindCreateGraph, execs[0].Kind)
	assert.Equal(t, "CREATE (:A)", execs[1].Cypher)
	assert.Equal(t, "CREATE (:B)", execs[2].Cypher)
}

func TestIngestCommand_Failure(t *testing.T) {
	script := filepath.Join(t.TempDir(), "seed.cypher")
	require.NoError(t, os.WriteFile(script, []byte("CREATE (:A); CREATE (:B)"), 0o600))

	boom := errors.New("boom")
	mem := graph.NewMemoryClient().FailOn("CREATE (:B)", boom)

	_, err := execute(t, memoryApp(mem), "", "ingest", "--graph", "people", "--file", script)
	require.ErrorIs(t, err, boom)
}

func TestConnectGraphRequiresURI(t *testing.T) {
	_, err := connectGraph(context.Background(), config.Defaults())
	require.ErrorIs(t, err, graph.ErrMissingURI)
}
