package graphvalue

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireFormatError(t *testing.T, err error) *FormatError {
	t.Helper()
	require.Error(t, err)
	var fe *FormatError
	require.True(t, errors.As(err, &fe), "expected *FormatError, got %T: %v", err, err)
	return fe
}

func TestFromBytes_NilPayload(t *testing.T) {
	_, err := FromBytes(nil)
	assert.ErrorIs(t, err, ErrNoPayload)

	g, err := FromBytes([]byte("1"))
	require.NoError(t, err)
	assert.Equal(t, "1", g.Raw())
}

func TestFromBytes_CopiesPayload(t *testing.T) {
	buf := []byte(`"abc"`)
	g, err := FromBytes(buf)
	require.NoError(t, err)
	buf[1] = 'x'

	s, err := g.Text()
	require.NoError(t, err)
	assert.Equal(t, "abc", s)
}

func TestBool(t *testing.T) {
	for _, raw := range []string{"true", "True", "TRUE", " true "} {
		b, err := New(raw).Bool()
		require.NoError(t, err, raw)
		assert.True(t, b, raw)
	}
	for _, raw := range []string{"false", "False", "FALSE"} {
		b, err := New(raw).Bool()
		require.NoError(t, err, raw)
		assert.False(t, b, raw)
	}
	for _, raw := range []string{"23", "yes", "", `"true"`} {
		_, err := New(raw).Bool()
		requireFormatError(t, err)
	}
}

func TestFloat64(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1.0023e3", 1002.3},
		{"-Infinity", math.Inf(-1)},
		{"Infinity", math.Inf(1)},
		{"2", 2},
		{"-0.5", -0.5},
		{"1.5::float", 1.5},
		{"3.25::numeric", 3.25},
		{"1e400", math.Inf(1)},
		{"-1e400", math.Inf(-1)},
		{"1e-400", 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := New(tt.raw).Float64()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	nan, err := New("NaN").Float64()
	require.NoError(t, err)
	assert.True(t, math.IsNaN(nan))
	assert.False(t, nan == nan)
}

func TestFloat64_Rejects(t *testing.T) {
	for _, raw := range []string{"true", "infinity", "nan", "INF", "0x1p-2", `"1.5"`, "1.", "1e"} {
		t.Run(raw, func(t *testing.T) {
			_, err := New(raw).Float64()
			fe := requireFormatError(t, err)
			assert.Equal(t, "float", fe.Target)
		})
	}
}

func TestIntegers(t *testing.T) {
	i32, err := New("1").Int32()
	require.NoError(t, err)
	assert.Equal(t, int32(1), i32)

	i64, err := New("-9223372036854775808").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), i64)

	_, err = New("true").Int32()
	requireFormatError(t, err)
	_, err = New("true").Int64()
	requireFormatError(t, err)

	_, err = New("2147483648").Int32()
	fe := requireFormatError(t, err)
	assert.Contains(t, fe.Reason, "out of range")

	_, err = New("9223372036854775808").Int64()
	fe = requireFormatError(t, err)
	assert.Contains(t, fe.Reason, "out of range")

	_, err = New("1.5").Int64()
	requireFormatError(t, err)
}

func TestDecimal(t *testing.T) {
	d, err := New("1").Decimal()
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.NewFromInt(1)))

	d, err = New("123456789012345678901234567890.000000001::numeric").Decimal()
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890.000000001", d.String())

	for _, raw := range []string{"true", "NaN", "-Infinity", "1.2.3", ""} {
		_, err := New(raw).Decimal()
		requireFormatError(t, err)
	}
}

func TestText(t *testing.T) {
	s, err := New(`"line\nbreak \"quoted\" é 😀"`).Text()
	require.NoError(t, err)
	assert.Equal(t, "line\nbreak \"quoted\" é 😀", s)

	_, err = New(`"unterminated`).Text()
	requireFormatError(t, err)

	_, err = New("12").Text()
	requireFormatError(t, err)
}

func TestList(t *testing.T) {
	got, err := New(`[1, 2, "string", null]`).List()
	require.NoError(t, err)
	assert.Equal(t, []Value{Int(1), Int(2), String("string"), Null{}}, got)
}

func TestList_Nested(t *testing.T) {
	got, err := New(`[1, 2, "string", null, [1, 2, "string", null]]`).List()
	require.NoError(t, err)
	require.Len(t, got, 5)

	inner := List{Int(1), Int(2), String("string"), Null{}}
	assert.True(t, Equal(inner, got[4]))
}

func TestList_Empty(t *testing.T) {
	got, err := New("[]").List()
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_CoerceSpecialFloats(t *testing.T) {
	got, err := New(`[1, 2, "-Infinity"]`).List(CoerceSpecialFloats())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, Float(math.Inf(-1)), got[2])

	plain, err := New(`[1, 2, "-Infinity"]`).List()
	require.NoError(t, err)
	assert.Equal(t, String("-Infinity"), plain[2])

	nested, err := New(`[["NaN", "Infinity"], "infinity"]`).List(CoerceSpecialFloats())
	require.NoError(t, err)
	inner := nested[0].(List)
	assert.True(t, math.IsNaN(float64(inner[0].(Float))))
	assert.Equal(t, Float(math.Inf(1)), inner[1])
	assert.Equal(t, String("infinity"), nested[1])
}

func TestList_CoerceSkipsObjects(t *testing.T) {
	raw := `[{"id": 1, "label": "NaN", "properties": {"x": "Infinity", "xs": ["NaN"]}}::vertex, {"a": "-Infinity"}, "NaN"]`
	got, err := New(raw).List(CoerceSpecialFloats())
	require.NoError(t, err)
	require.Len(t, got, 3)

	vertex, ok := got[0].(Vertex)
	require.True(t, ok, "expected a vertex, got %s", got[0].Kind())
	assert.Equal(t, "NaN", vertex.Label)
	x, _ := vertex.Properties.Get("x")
	assert.Equal(t, String("Infinity"), x)
	xs, _ := vertex.Properties.Get("xs")
	assert.Equal(t, List{String("NaN")}, xs)

	a, _ := got[1].(Map).Get("a")
	assert.Equal(t, String("-Infinity"), a)

	assert.True(t, math.IsNaN(float64(got[2].(Float))))
}

func TestList_BareSpecialFloats(t *testing.T) {
	got, err := New(`[Infinity, -Infinity, 1.5, 2.0]`).List()
	require.NoError(t, err)
	assert.Equal(t, []Value{Float(math.Inf(1)), Float(math.Inf(-1)), Float(1.5), Float(2)}, got)
}

func TestList_Rejects(t *testing.T) {
	for _, raw := range []string{"[1, 2", "[1,]", "[1 2]", "1", `{"a": 1}`, "[1]x"} {
		t.Run(raw, func(t *testing.T) {
			_, err := New(raw).List()
			requireFormatError(t, err)
		})
	}
}

func TestMap(t *testing.T) {
	m, err := New(`{"b": 1, "a": [true, null], "c": {"d": "e"}}`).Map()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())

	a, ok := m.Get("a")
	require.True(t, ok)
	assert.True(t, Equal(List{Bool(true), Null{}}, a))

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestVertex_RoundTrip(t *testing.T) {
	vertex := Vertex{
		ID:    2343953235,
		Label: "Person",
		Properties: NewMap(
			Entry{Key: "name", Value: String("Emmanuel")},
			Entry{Key: "age", Value: Int(22)},
		),
	}

	got, err := New(vertex.String()).Vertex()
	require.NoError(t, err)
	assert.Equal(t, vertex.ID, got.ID)
	assert.Equal(t, vertex.Label, got.Label)
	assert.True(t, vertex.Properties.Equal(got.Properties))
	assert.True(t, vertex.Equal(got))
}

func TestVertex_DatabaseShape(t *testing.T) {
	raw := `{"id": 844424930131969, "label": "Person", "properties": {"i": 3, "tags": ["a", "b"]}}::vertex`
	got, err := New(raw).Vertex()
	require.NoError(t, err)
	assert.Equal(t, ID(844424930131969), got.ID)
	assert.Equal(t, "844424930131969", got.ID.String())

	i, ok := got.Properties.Get("i")
	require.True(t, ok)
	assert.Equal(t, Int(3), i)
}

func TestVertex_Rejects(t *testing.T) {
	for _, raw := range []string{
		`[1, 2]`,
		`{"label": "Person", "properties": {}}::vertex`,
		`{"id": -1, "label": "Person", "properties": {}}`,
		`{"id": 1, "label": 5, "properties": {}}`,
		`{"id": 1, "label": "Person"}`,
		`{"id": 1, "label": "E", "start_id": 1, "end_id": 2, "properties": {}}::vertex`,
		`{"id": 1, "label": "Person", "properties": {}}::edge`,
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := New(raw).Vertex()
			requireFormatError(t, err)
		})
	}
}

func TestEdge_RoundTrip(t *testing.T) {
	edge := Edge{
		ID:         2,
		StartID:    0,
		EndID:      1,
		Label:      "Edge_label",
		Properties: NewMap(Entry{Key: "colour", Value: String("red")}),
	}

	got, err := New(edge.String()).Edge()
	require.NoError(t, err)
	assert.Equal(t, edge.ID, got.ID)
	assert.Equal(t, edge.StartID, got.StartID)
	assert.Equal(t, edge.EndID, got.EndID)
	assert.Equal(t, edge.Label, got.Label)
	assert.True(t, edge.Properties.Equal(got.Properties))
}

func TestEdge_Rejects(t *testing.T) {
	_, err := New(`{"id": 2, "label": "E", "start_id": 0, "properties": {}}::edge`).Edge()
	fe := requireFormatError(t, err)
	assert.Contains(t, fe.Reason, "end_id")

	_, err = New(`"edge"`).Edge()
	requireFormatError(t, err)
}

func pathFixture() ([]Vertex, Edge) {
	vertices := []Vertex{
		{ID: 0, Label: "Label_name_1", Properties: NewMap(Entry{Key: "i", Value: Int(0)})},
		{ID: 2, Label: "Label_name_1", Properties: NewMap()},
	}
	edge := Edge{
		ID:         2,
		StartID:    vertices[0].ID,
		EndID:      vertices[1].ID,
		Label:      "Edge_label",
		Properties: NewMap(),
	}
	return vertices, edge
}

func TestPath(t *testing.T) {
	vertices, edge := pathFixture()
	raw := fmt.Sprintf("[%s, %s, %s]%s", vertices[0], edge, vertices[1], PathFooter)

	path, err := New(raw).Path()
	require.NoError(t, err)
	assert.Equal(t, 1, path.Len())
	require.Len(t, path.Vertices, 2)
	require.Len(t, path.Edges, 1)
	assert.True(t, path.Vertices[0].Equal(vertices[0]))
	assert.True(t, path.Vertices[1].Equal(vertices[1]))
	assert.True(t, path.Edges[0].Equal(edge))
	assert.True(t, path.Valid())
}

func TestPath_MissingFooter(t *testing.T) {
	vertices, edge := pathFixture()
	raw := fmt.Sprintf("[%s, %s, %s]", vertices[0], edge, vertices[1])

	_, err := New(raw).Path()
	fe := requireFormatError(t, err)
	assert.Contains(t, fe.Reason, PathFooter)
}

func TestPath_ClassifiesByShape(t *testing.T) {
	raw := `[{"id": 1, "label": "A", "properties": {}}, ` +
		`{"id": 9, "label": "R", "start_id": 1, "end_id": 2, "properties": {}}, ` +
		`{"id": 2, "label": "B", "properties": {}}]::path`

	path, err := New(raw).Path()
	require.NoError(t, err)
	assert.Equal(t, []ID{1, 2}, []ID{path.Vertices[0].ID, path.Vertices[1].ID})
	assert.Equal(t, ID(9), path.Edges[0].ID)
}

func TestPath_RejectsBrokenAlternation(t *testing.T) {
	vertices, edge := pathFixture()
	tests := map[string]string{
		"two vertices":   fmt.Sprintf("[%s, %s]::path", vertices[0], vertices[1]),
		"vertex vertex":  fmt.Sprintf("[%s, %s, %s]::path", vertices[0], vertices[1], vertices[0]),
		"starts on edge": fmt.Sprintf("[%s, %s, %s]::path", edge, vertices[0], edge),
		"empty":          "[]::path",
		"scalar element": fmt.Sprintf("[%s, 1, %s]::path", vertices[0], vertices[1]),
		"footer on map":  `{"a": 1}::path`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := New(raw).Path()
			requireFormatError(t, err)
		})
	}
}

func TestPath_RoundTrip(t *testing.T) {
	vertices, edge := pathFixture()
	path := Path{Vertices: vertices, Edges: []Edge{edge}}

	got, err := New(path.String()).Path()
	require.NoError(t, err)
	assert.True(t, path.Equal(got))
}

func TestValue_Generic(t *testing.T) {
	tests := []struct {
		raw  string
		kind Kind
	}{
		{"null", KindNull},
		{"true", KindBool},
		{"42", KindInt},
		{"4.2", KindFloat},
		{"4.2::numeric", KindDecimal},
		{"99999999999999999999", KindDecimal},
		{`"x"`, KindString},
		{"[]", KindList},
		{"{}", KindMap},
		{`{"id": 1, "label": "A", "properties": {}}::vertex`, KindVertex},
		{`{"id": 1, "label": "A", "start_id": 1, "end_id": 1, "properties": {}}::edge`, KindEdge},
		{`[{"id": 1, "label": "A", "properties": {}}::vertex]::path`, KindPath},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := New(tt.raw).Value()
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind())
		})
	}
}

func TestValue_UnknownAnnotation(t *testing.T) {
	_, err := New(`"abc"::text`).Value()
	fe := requireFormatError(t, err)
	assert.Contains(t, fe.Reason, "::text")
}

func TestEncode_RoundTripsEveryKind(t *testing.T) {
	values := []Value{
		Null{},
		Bool(true),
		Int(-7),
		Float(2),
		Float(1e21),
		Float(math.Inf(-1)),
		NewDecimal(decimal.RequireFromString("1.10")),
		String("tab\tquote\" backslash\\ \x01"),
		List{Int(1), List{}, Null{}},
		NewMap(Entry{Key: "k", Value: List{String("v")}}),
	}
	for _, v := range values {
		t.Run(v.String(), func(t *testing.T) {
			got, err := New(v.String()).Value()
			require.NoError(t, err)
			assert.True(t, Equal(v, got), "want %s, got %s", v, got)
		})
	}
}

func TestFormatError_TruncatesPayload(t *testing.T) {
	raw := "[" + strings.Repeat("1, ", 100) + "x]"
	_, err := New(raw).List()
	fe := requireFormatError(t, err)
	assert.LessOrEqual(t, len(fe.Payload), maxFragment)
	assert.Contains(t, fe.Payload, "x")
	assert.Contains(t, fe.Error(), "list")
}

func TestEqual(t *testing.T) {
	a := NewMap(Entry{Key: "x", Value: Int(1)}, Entry{Key: "y", Value: Int(2)})
	b := NewMap(Entry{Key: "y", Value: Int(2)}, Entry{Key: "x", Value: Int(1)})
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(Int(1), Float(1)))
	assert.False(t, Equal(Float(math.NaN()), Float(math.NaN())))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, Null{}))
}
