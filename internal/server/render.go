package server

import (
	"bytes"
	"math"

	"github.com/goccy/go-json"

	"github.com/vanshika/agegraph/internal/graph"
	"github.com/vanshika/agegraph/internal/graphvalue"
)

// object is a JSON object that keeps its keys in insertion order.
type object struct {
	keys   []string
	values []any
}

func (o *object) add(key string, value any) *object {
	o.keys = append(o.keys, key)
	o.values = append(o.values, value)
	return o
}

func (o *object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(o.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RenderValue converts a decoded graph value into JSON-encodable data.
// Special floats and decimals are rendered as strings since JSON numbers
// cannot carry them without loss.
func RenderValue(v graphvalue.Value) any {
	switch x := v.(type) {
	case nil, graphvalue.Null:
		return nil
	case graphvalue.Bool:
		return bool(x)
	case graphvalue.Int:
		return int64(x)
	case graphvalue.Float:
		f := float64(x)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return x.String()
		}
		return f
	case graphvalue.Decimal:
		return x.Decimal.String()
	case graphvalue.String:
		return string(x)
	case graphvalue.List:
		out := make([]any, len(x))
		for i, el := range x {
			out[i] = RenderValue(el)
		}
		return out
	case graphvalue.Map:
		return renderMap(x)
	case graphvalue.Vertex:
		return renderVertex(x)
	case graphvalue.Edge:
		return renderEdge(x)
	case graphvalue.Path:
		vertices := make([]any, len(x.Vertices))
		for i, vertex := range x.Vertices {
			vertices[i] = renderVertex(vertex)
		}
		edges := make([]any, len(x.Edges))
		for i, edge := range x.Edges {
			edges[i] = renderEdge(edge)
		}
		return (&object{}).add("vertices", vertices).add("edges", edges)
	}
	return v.String()
}

func renderMap(m graphvalue.Map) *object {
	o := &object{}
	for _, e := range m.Entries() {
		o.add(e.Key, RenderValue(e.Value))
	}
	return o
}

func renderVertex(v graphvalue.Vertex) *object {
	return (&object{}).
		add("id", uint64(v.ID)).
		add("label", v.Label).
		add("properties", renderMap(v.Properties))
}

func renderEdge(e graphvalue.Edge) *object {
	return (&object{}).
		add("id", uint64(e.ID)).
		add("label", e.Label).
		add("start_id", uint64(e.StartID)).
		add("end_id", uint64(e.EndID)).
		add("properties", renderMap(e.Properties))
}

// RenderRows decodes every cell of res into one JSON object per record,
// keeping column order in each row.
func RenderRows(res graph.Result) ([]any, error) {
	rows := make([]any, 0, len(res.Records))
	for _, record := range res.Records {
		row := &object{}
		for _, col := range res.Columns {
			v, err := record.Value(col)
			if err != nil {
				return nil, err
			}
			row.add(col, RenderValue(v))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
