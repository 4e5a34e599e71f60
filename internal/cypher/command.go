package cypher

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

// CommandKind identifies what a Command does on the server.
type CommandKind int

const (
	KindCypher CommandKind = iota
	KindCreateGraph
	KindDropGraph
	KindGraphExists
)

func (k CommandKind) String() string {
	switch k {
	case KindCypher:
		return "cypher"
	case KindCreateGraph:
		return "create_graph"
	case KindDropGraph:
		return "drop_graph"
	case KindGraphExists:
		return "graph_exists"
	}
	return fmt.Sprintf("CommandKind(%d)", int(k))
}

var (
	// ErrInvalidGraphName is returned for names the catalog would reject or
	// that cannot be embedded in a cypher() call.
	ErrInvalidGraphName = errors.New("cypher: invalid graph name")
	// ErrDollarQuote is returned for query text containing the $$ delimiter.
	ErrDollarQuote = errors.New("cypher: query contains the $$ delimiter")
)

var graphNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*$`)

const (
	createGraphSQL = "SELECT * FROM ag_catalog.create_graph($1);"
	dropGraphSQL   = "SELECT * FROM ag_catalog.drop_graph($1, $2);"
	graphExistsSQL = "SELECT EXISTS (SELECT 1 FROM ag_catalog.ag_graph WHERE name = $1);"
)

// Command is a ready-to-run statement. SQL and Args target the PostgreSQL
// extension; Cypher and Params carry the raw query for Bolt backends.
type Command struct {
	Kind   CommandKind
	Graph  string
	Cypher string
	Params map[string]any
	SQL    string
	Args   []any
}

// Builder builds commands whose result columns use ColumnType.
type Builder struct {
	ColumnType string
}

// DefaultBuilder uses the package ColumnType.
var DefaultBuilder = Builder{ColumnType: ColumnType}

func (b Builder) columnType() string {
	if b.ColumnType == "" {
		return ColumnType
	}
	return b.ColumnType
}

// CreateGraph builds the catalog call creating graph name.
func CreateGraph(name string) (Command, error) { return DefaultBuilder.CreateGraph(name) }

// DropGraph builds the catalog call dropping graph name. With cascade the
// graph's labels and data are dropped too.
func DropGraph(name string, cascade bool) (Command, error) {
	return DefaultBuilder.DropGraph(name, cascade)
}

// GraphExists builds a query returning one boolean column.
func GraphExists(name string) (Command, error) { return DefaultBuilder.GraphExists(name) }

// Query embeds cypher into a cypher() call against graph.
func Query(graph, cypher string, params map[string]any) (Command, error) {
	return DefaultBuilder.Query(graph, cypher, params)
}

func (b Builder) CreateGraph(name string) (Command, error) {
	if err := validateGraphName(name); err != nil {
		return Command{}, err
	}
	return Command{Kind: KindCreateGraph, Graph: name, SQL: createGraphSQL, Args: []any{name}}, nil
}

func (b Builder) DropGraph(name string, cascade bool) (Command, error) {
	if err := validateGraphName(name); err != nil {
		return Command{}, err
	}
	return Command{Kind: KindDropGraph, Graph: name, SQL: dropGraphSQL, Args: []any{name, cascade}}, nil
}

func (b Builder) GraphExists(name string) (Command, error) {
	if err := validateGraphName(name); err != nil {
		return Command{}, err
	}
	return Command{Kind: KindGraphExists, Graph: name, SQL: graphExistsSQL, Args: []any{name}}, nil
}

// Query builds
//
//	SELECT * FROM cypher('<graph>', $$ <cypher> $$[, $1]) as (<columns>);
//
// Params, when present, are JSON-encoded and passed as the third cypher()
// argument, where the query refers to them as $name.
func (b Builder) Query(graph, cypher string, params map[string]any) (Command, error) {
	if err := validateGraphName(graph); err != nil {
		return Command{}, err
	}
	if strings.Contains(cypher, "$$") {
		return Command{}, ErrDollarQuote
	}

	cmd := Command{Kind: KindCypher, Graph: graph, Cypher: cypher, Params: params}
	var paramArg string
	if len(params) > 0 {
		encoded, err := json.Marshal(params)
		if err != nil {
			return Command{}, fmt.Errorf("encode cypher params: %w", err)
		}
		paramArg = ", $1"
		cmd.Args = []any{string(encoded)}
	}
	cmd.SQL = fmt.Sprintf("SELECT * FROM cypher('%s', $$ %s $$%s) as %s;",
		graph, Escape(cypher), paramArg, ColumnClauseFor(cypher, b.columnType()))
	return cmd, nil
}

// Escape doubles every backslash so the text survives embedding in cypher().
func Escape(cypher string) string {
	return strings.ReplaceAll(cypher, `\`, `\\`)
}

func validateGraphName(name string) error {
	if !graphNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidGraphName, name)
	}
	return nil
}
