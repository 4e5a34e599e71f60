package server

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/vanshika/agegraph/internal/graph"
	"github.com/vanshika/agegraph/internal/graphvalue"
)

func TestRenderValue(t *testing.T) {
	props := graphvalue.NewMap(
		graphvalue.Entry{Key: "z", Value: graphvalue.Int(1)},
		graphvalue.Entry{Key: "a", Value: graphvalue.Float(math.Inf(1))},
	)
	v0 := graphvalue.Vertex{ID: 1, Label: "Person", Properties: props}
	v1 := graphvalue.Vertex{ID: 2, Label: "Person", Properties: graphvalue.NewMap()}
	e := graphvalue.Edge{ID: 3, StartID: 1, EndID: 2, Label: "KNOWS", Properties: graphvalue.NewMap()}

	tests := []struct {
		name  string
		value graphvalue.Value
		want  string
	}{
		{"null", graphvalue.Null{}, `null`},
		{"nan", graphvalue.Float(math.NaN()), `"NaN"`},
		{"decimal", graphvalue.NewDecimal(decimal.RequireFromString("12.50")), `"12.5"`},
		{"map keeps order", props, `{"z":1,"a":"Infinity"}`},
		{"edge", e, `{"id":3,"label":"KNOWS","start_id":1,"end_id":2,"properties":{}}`},
		{"path", graphvalue.Path{Vertices: []graphvalue.Vertex{v0, v1}, Edges: []graphvalue.Edge{e}},
			`{"vertices":[{"id":1,"label":"Person","properties":{"z":1,"a":"Infinity"}},{"id":2,"label":"Person","properties":{}}],"edges":[{"id":3,"label":"KNOWS","start_id":1,"end_id":2,"properties":{}}]}`},
		{"list", graphvalue.List{graphvalue.String("a"), graphvalue.Bool(true)}, `["a",true]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(RenderValue(tt.value))
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRenderRows_NullCell(t *testing.T) {
	one := graphvalue.New("1")
	res := graph.Result{
		Columns: []string{"a", "b"},
		Records: []graph.Record{{"a": &one, "b": nil}},
	}

	rows, err := RenderRows(res)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got, err := json.Marshal(rows)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(got) != `[{"a":1,"b":null}]` {
		t.Fatalf("unexpected rows %s", got)
	}
}
