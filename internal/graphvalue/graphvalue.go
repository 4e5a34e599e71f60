// Package graphvalue decodes the textual graph-value wire type returned by the
// graph extension into typed scalars, lists, maps, vertices, edges and paths.
//
// A GraphValue holds the raw payload and decodes nothing until one of its
// accessors is called. Every accessor either returns a fully materialized value
// that shares no memory with the payload or fails with a *FormatError.
package graphvalue

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// GraphValue wraps one raw graph-value payload.
type GraphValue struct {
	raw string
}

// New wraps raw without decoding it.
func New(raw string) GraphValue {
	return GraphValue{raw: raw}
}

// FromBytes copies raw into a GraphValue. A nil slice is an absent payload
// and yields ErrNoPayload.
func FromBytes(raw []byte) (GraphValue, error) {
	if raw == nil {
		return GraphValue{}, ErrNoPayload
	}
	return GraphValue{raw: string(raw)}, nil
}

// Raw returns the undecoded payload.
func (g GraphValue) Raw() string { return g.raw }

func (g GraphValue) String() string { return g.raw }

// IsNull reports whether the payload is the null literal.
func (g GraphValue) IsNull() bool {
	return strings.EqualFold(strings.TrimSpace(g.raw), "null")
}

// Bool accepts true or false in any letter case.
func (g GraphValue) Bool() (bool, error) {
	s := strings.TrimSpace(g.raw)
	switch {
	case strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "false"):
		return false, nil
	}
	return false, formatErr("bool", g.raw, 0, "")
}

// Float64 decodes a numeric literal or one of the tokens Infinity, -Infinity
// and NaN. The tokens are case-sensitive.
func (g GraphValue) Float64() (float64, error) {
	v, err := decode(g.raw, "float", false)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case Float:
		return float64(x), nil
	case Int:
		return float64(x), nil
	case Decimal:
		f, _ := x.Float64()
		return f, nil
	}
	return 0, mismatch("float", g.raw, v)
}

// Int64 decodes a base-10 integer literal.
func (g GraphValue) Int64() (int64, error) {
	return g.integer("int64", math.MinInt64, math.MaxInt64)
}

// Int32 decodes a base-10 integer literal within the int32 range.
func (g GraphValue) Int32() (int32, error) {
	i, err := g.integer("int32", math.MinInt32, math.MaxInt32)
	return int32(i), err
}

func (g GraphValue) integer(target string, lo, hi int64) (int64, error) {
	v, err := decode(g.raw, target, false)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case Int:
		if int64(x) < lo || int64(x) > hi {
			return 0, formatErr(target, g.raw, 0, "integer out of range")
		}
		return int64(x), nil
	case Decimal:
		if x.IsInteger() {
			bi := x.BigInt()
			if bi.IsInt64() && bi.Int64() >= lo && bi.Int64() <= hi {
				return bi.Int64(), nil
			}
			return 0, formatErr(target, g.raw, 0, "integer out of range")
		}
	}
	return 0, mismatch(target, g.raw, v)
}

// Decimal decodes a finite numeric literal, optionally annotated ::numeric,
// without passing through float64.
func (g GraphValue) Decimal() (decimal.Decimal, error) {
	s := strings.TrimSpace(g.raw)
	s = strings.TrimSuffix(s, NumericSuffix)
	d := &decoder{src: s, target: "decimal"}
	lit, err := d.numberLiteral()
	if err != nil {
		return decimal.Decimal{}, formatErr("decimal", g.raw, d.pos, "not a numeric literal")
	}
	if !d.eof() || lit == tokenNegInfinity {
		return decimal.Decimal{}, formatErr("decimal", g.raw, d.pos, "not a finite numeric literal")
	}
	dec, err := decimal.NewFromString(lit)
	if err != nil {
		return decimal.Decimal{}, formatErr("decimal", g.raw, 0, err.Error())
	}
	return dec, nil
}

// Text decodes a double-quoted string.
func (g GraphValue) Text() (string, error) {
	v, err := decode(g.raw, "string", false)
	if err != nil {
		return "", err
	}
	s, ok := v.(String)
	if !ok {
		return "", mismatch("string", g.raw, v)
	}
	return string(s), nil
}

// ListOption adjusts list decoding.
type ListOption func(*listOptions)

type listOptions struct {
	coerceSpecialFloats bool
}

// CoerceSpecialFloats decodes string elements spelling Infinity, -Infinity or
// NaN as Float. Some encoders stringify special floats inside lists.
func CoerceSpecialFloats() ListOption {
	return func(o *listOptions) { o.coerceSpecialFloats = true }
}

// List decodes a [...] sequence. Elements are decoded recursively; an empty
// list yields an empty, non-nil slice.
func (g GraphValue) List(opts ...ListOption) ([]Value, error) {
	var o listOptions
	for _, opt := range opts {
		opt(&o)
	}
	v, err := decode(g.raw, "list", o.coerceSpecialFloats)
	if err != nil {
		return nil, err
	}
	l, ok := v.(List)
	if !ok {
		return nil, mismatch("list", g.raw, v)
	}
	return l, nil
}

// Map decodes an object that carries no graph annotation.
func (g GraphValue) Map() (Map, error) {
	v, err := decode(g.raw, "map", false)
	if err != nil {
		return Map{}, err
	}
	m, ok := v.(Map)
	if !ok {
		return Map{}, mismatch("map", g.raw, v)
	}
	return m, nil
}

// Vertex decodes an object with id, label and properties. The ::vertex
// suffix is optional.
func (g GraphValue) Vertex() (Vertex, error) {
	v, err := decode(g.raw, "vertex", false)
	if err != nil {
		return Vertex{}, err
	}
	switch x := v.(type) {
	case Vertex:
		return x, nil
	case Map:
		vertex, err := vertexFromMap(x)
		if err != nil {
			return Vertex{}, formatErr("vertex", g.raw, 0, err.Error())
		}
		return vertex, nil
	}
	return Vertex{}, mismatch("vertex", g.raw, v)
}

// Edge decodes an object with id, start_id, end_id, label and properties.
// The ::edge suffix is optional.
func (g GraphValue) Edge() (Edge, error) {
	v, err := decode(g.raw, "edge", false)
	if err != nil {
		return Edge{}, err
	}
	switch x := v.(type) {
	case Edge:
		return x, nil
	case Map:
		edge, err := edgeFromMap(x)
		if err != nil {
			return Edge{}, formatErr("edge", g.raw, 0, err.Error())
		}
		return edge, nil
	}
	return Edge{}, mismatch("edge", g.raw, v)
}

// Path decodes [vertex, edge, vertex, ...] terminated by the ::path footer.
// A list without the footer is rejected rather than read as a path.
func (g GraphValue) Path() (Path, error) {
	v, err := decode(g.raw, "path", false)
	if err != nil {
		return Path{}, err
	}
	switch x := v.(type) {
	case Path:
		return x, nil
	case List:
		return Path{}, formatErr("path", g.raw, len(g.raw), "missing "+PathFooter+" footer")
	}
	return Path{}, mismatch("path", g.raw, v)
}

// Value decodes the payload into whichever case it holds.
func (g GraphValue) Value() (Value, error) {
	return decode(g.raw, "value", false)
}
