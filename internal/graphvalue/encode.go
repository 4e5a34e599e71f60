package graphvalue

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Wire suffixes marking annotated values.
const (
	VertexSuffix  = "::vertex"
	EdgeSuffix    = "::edge"
	PathFooter    = "::path"
	NumericSuffix = "::numeric"
)

// Special float tokens as emitted by the database.
const (
	tokenInfinity    = "Infinity"
	tokenNegInfinity = "-Infinity"
	tokenNaN         = "NaN"
)

func (Null) String() string { return "null" }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// String renders f so that it decodes back as a Float: special values use their
// tokens and finite values always carry a fraction or an exponent.
func (f Float) String() string {
	v := float64(f)
	switch {
	case math.IsInf(v, 1):
		return tokenInfinity
	case math.IsInf(v, -1):
		return tokenNegInfinity
	case math.IsNaN(v):
		return tokenNaN
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (d Decimal) String() string { return d.Decimal.String() + NumericSuffix }

func (s String) String() string { return quote(string(s)) }

func (l List) String() string {
	var sb strings.Builder
	writeList(&sb, l)
	return sb.String()
}

func (m Map) String() string {
	var sb strings.Builder
	writeMap(&sb, m)
	return sb.String()
}

func (v Vertex) String() string {
	var sb strings.Builder
	writeVertex(&sb, v)
	return sb.String()
}

func (e Edge) String() string {
	var sb strings.Builder
	writeEdge(&sb, e)
	return sb.String()
}

func (p Path) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range p.Vertices {
		if i > 0 {
			sb.WriteString(", ")
			if i-1 < len(p.Edges) {
				writeEdge(&sb, p.Edges[i-1])
				sb.WriteString(", ")
			}
		}
		writeVertex(&sb, v)
	}
	sb.WriteByte(']')
	sb.WriteString(PathFooter)
	return sb.String()
}

func writeValue(sb *strings.Builder, v Value) {
	if v == nil {
		sb.WriteString("null")
		return
	}
	sb.WriteString(v.String())
}

func writeList(sb *strings.Builder, l List) {
	sb.WriteByte('[')
	for i, v := range l {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeValue(sb, v)
	}
	sb.WriteByte(']')
}

func writeMap(sb *strings.Builder, m Map) {
	sb.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(quote(e.Key))
		sb.WriteString(": ")
		writeValue(sb, e.Value)
	}
	sb.WriteByte('}')
}

func writeVertex(sb *strings.Builder, v Vertex) {
	fmt.Fprintf(sb, `{"id": %d, "label": %s, "properties": `, uint64(v.ID), quote(v.Label))
	writeMap(sb, v.Properties)
	sb.WriteByte('}')
	sb.WriteString(VertexSuffix)
}

func writeEdge(sb *strings.Builder, e Edge) {
	fmt.Fprintf(sb, `{"id": %d, "label": %s, "end_id": %d, "start_id": %d, "properties": `,
		uint64(e.ID), quote(e.Label), uint64(e.EndID), uint64(e.StartID))
	writeMap(sb, e.Properties)
	sb.WriteByte('}')
	sb.WriteString(EdgeSuffix)
}

// quote renders s as a double-quoted string using the escapes the decoder accepts.
func quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
