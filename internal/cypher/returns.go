// Package cypher derives result-column clauses from Cypher query text and
// builds the SQL commands that embed Cypher in the graph extension's
// cypher() table function.
package cypher

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	// ColumnType is the type token attached to every derived column.
	ColumnType = "graphvalue"

	// FallbackClause is returned for queries without a nameable RETURN clause.
	FallbackClause = "(result " + ColumnType + ")"

	fallbackName = "result"
	numericName  = "num"
)

var (
	returnKeyword   = regexp.MustCompile(`(?i)\bRETURN\s`)
	returnPattern   = regexp.MustCompile(`(?i)^RETURN\s+(.*?)(?:\s+LIMIT\b|\s+SKIP\b|\s+ORDER\b|[\[{]|$)`)
	distinctPattern = regexp.MustCompile(`(?i)^DISTINCT\s+`)
	numericPattern  = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)
	funcPattern     = regexp.MustCompile(`^(\w+)\s*\(.*\)$`)
	aliasPattern    = regexp.MustCompile(`(?i)\s+AS\s+`)
	illegalPattern  = regexp.MustCompile(`[^A-Za-z0-9_]`)
	lineBreaks      = strings.NewReplacer("\r", " ", "\n", " ")
)

// Column is one derived result column.
type Column struct {
	Name string
}

// Quoted returns the name as it must appear in the column clause. Names that
// would be folded to lower case are double-quoted.
func (c Column) Quoted() string {
	if needsQuoting(c.Name) {
		return `"` + c.Name + `"`
	}
	return c.Name
}

func needsQuoting(name string) bool {
	for _, r := range name {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// ReturnColumns derives one column per comma-separated expression of the first
// RETURN clause in query. The analysis is lexical: the clause ends at LIMIT,
// SKIP, ORDER, the first '[' or '{', or the end of the text, and commas nested
// in calls or string literals are not recognized. It returns nil when query
// has no RETURN clause.
func ReturnColumns(query string) []Column {
	body, ok := returnBody(query)
	if !ok {
		return nil
	}

	parts := strings.Split(body, ",")
	columns := make([]Column, 0, len(parts))
	names := newNameSet()
	for _, part := range parts {
		columns = append(columns, Column{Name: names.claim(columnName(part))})
	}
	return columns
}

// ColumnClause renders the column clause for query using ColumnType, e.g.
// "(n graphvalue, name graphvalue)". It never fails; queries without a RETURN
// clause get FallbackClause.
func ColumnClause(query string) string {
	return ColumnClauseFor(query, ColumnType)
}

// ColumnClauseFor is ColumnClause with an explicit column type token.
func ColumnClauseFor(query, columnType string) string {
	columns := ReturnColumns(query)
	if len(columns) == 0 {
		return "(" + fallbackName + " " + columnType + ")"
	}
	var sb strings.Builder
	sb.WriteByte('(')
	for i, c := range columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.Quoted())
		sb.WriteByte(' ')
		sb.WriteString(columnType)
	}
	sb.WriteByte(')')
	return sb.String()
}

// returnBody captures the projection list of the first RETURN clause.
func returnBody(query string) (string, bool) {
	text := lineBreaks.Replace(query)
	loc := returnKeyword.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	m := returnPattern.FindStringSubmatch(text[loc[0]:])
	if m == nil {
		return "", false
	}
	body := strings.TrimSpace(m[1])
	body = distinctPattern.ReplaceAllString(body, "")
	if body == "" {
		return "", false
	}
	return body, true
}

// columnName applies the naming passes in order; each pass sees the output
// of the previous one.
func columnName(expr string) string {
	name := strings.TrimLeft(strings.TrimSpace(expr), "$")
	name = strings.TrimSpace(name)

	if numericPattern.MatchString(name) {
		name = numericName
	}
	if m := funcPattern.FindStringSubmatch(name); m != nil {
		name = m[1]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Trim(name, "`")
	if parts := aliasPattern.Split(name, -1); len(parts) > 1 {
		name = strings.Trim(strings.TrimSpace(parts[len(parts)-1]), "`")
	}
	name = illegalPattern.ReplaceAllString(name, "_")

	if name == "" {
		return fallbackName
	}
	return name
}

// nameSet hands out unique column names: the first claim of a name keeps it,
// later claims get the lowest numeric suffix not already taken.
type nameSet struct {
	used   map[string]struct{}
	counts map[string]int
}

func newNameSet() *nameSet {
	return &nameSet{used: make(map[string]struct{}), counts: make(map[string]int)}
}

func (s *nameSet) claim(name string) string {
	candidate := name
	for {
		if _, taken := s.used[candidate]; !taken {
			break
		}
		s.counts[name]++
		candidate = name + strconv.Itoa(s.counts[name])
	}
	s.used[candidate] = struct{}{}
	return candidate
}
