package graphvalue

import (
	"github.com/shopspring/decimal"
)

// Kind identifies which case of the Value variant is held.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDecimal
	KindString
	KindList
	KindMap
	KindVertex
	KindEdge
	KindPath
)

var kindNames = [...]string{
	KindNull:    "null",
	KindBool:    "bool",
	KindInt:     "int",
	KindFloat:   "float",
	KindDecimal: "decimal",
	KindString:  "string",
	KindList:    "list",
	KindMap:     "map",
	KindVertex:  "vertex",
	KindEdge:    "edge",
	KindPath:    "path",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is a decoded graph value. The set of implementations is closed:
// Null, Bool, Int, Float, Decimal, String, List, Map, Vertex, Edge and Path.
// String renders the value back to its wire form.
type Value interface {
	Kind() Kind
	String() string
	value()
}

// Null is the graph null.
type Null struct{}

// Bool is a boolean scalar.
type Bool bool

// Int is a 64-bit signed integer scalar.
type Int int64

// Float is a double-precision scalar, including the IEEE special values.
type Float float64

// Decimal is an arbitrary-precision numeric scalar.
type Decimal struct {
	decimal.Decimal
}

// String is a text scalar.
type String string

// List is an ordered, heterogeneous sequence of values.
type List []Value

func (Null) Kind() Kind    { return KindNull }
func (Bool) Kind() Kind    { return KindBool }
func (Int) Kind() Kind     { return KindInt }
func (Float) Kind() Kind   { return KindFloat }
func (Decimal) Kind() Kind { return KindDecimal }
func (String) Kind() Kind  { return KindString }
func (List) Kind() Kind    { return KindList }
func (Map) Kind() Kind     { return KindMap }
func (Vertex) Kind() Kind  { return KindVertex }
func (Edge) Kind() Kind    { return KindEdge }
func (Path) Kind() Kind    { return KindPath }

func (Null) value()    {}
func (Bool) value()    {}
func (Int) value()     {}
func (Float) value()   {}
func (Decimal) value() {}
func (String) value()  {}
func (List) value()    {}
func (Map) value()     {}
func (Vertex) value()  {}
func (Edge) value()    {}
func (Path) value()    {}

// NewDecimal wraps d as a Value.
func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{Decimal: d}
}

// Equal reports whether a and b hold the same case with equal contents.
// NaN floats are never equal, as in IEEE arithmetic. A nil Value equals only nil.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Null:
		return true
	case Bool:
		return x == b.(Bool)
	case Int:
		return x == b.(Int)
	case Float:
		return x == b.(Float)
	case Decimal:
		return x.Decimal.Equal(b.(Decimal).Decimal)
	case String:
		return x == b.(String)
	case List:
		return x.Equal(b.(List))
	case Map:
		return x.Equal(b.(Map))
	case Vertex:
		return x.Equal(b.(Vertex))
	case Edge:
		return x.Equal(b.(Edge))
	case Path:
		return x.Equal(b.(Path))
	}
	return false
}

// Equal reports whether both lists hold equal values in the same order.
func (l List) Equal(o List) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if !Equal(l[i], o[i]) {
			return false
		}
	}
	return true
}
