package graphvalue

import (
	"strconv"
)

// ID identifies a vertex or an edge.
type ID uint64

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   string
	Value Value
}

// Map is an ordered mapping from string keys to values. Keys keep the order
// in which they were first inserted; a repeated key replaces the earlier value.
type Map struct {
	entries []Entry
	index   map[string]int
}

// NewMap builds a Map from entries in order.
func NewMap(entries ...Entry) Map {
	var m Map
	for _, e := range entries {
		m.set(e.Key, e.Value)
	}
	return m
}

func (m *Map) set(key string, v Value) {
	if i, ok := m.index[key]; ok {
		m.entries[i].Value = v
		return
	}
	if m.index == nil {
		m.index = make(map[string]int)
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: v})
}

// Len returns the number of keys.
func (m Map) Len() int { return len(m.entries) }

// Get returns the value stored under key.
func (m Map) Get(key string) (Value, bool) {
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Has reports whether key is present.
func (m Map) Has(key string) bool {
	_, ok := m.index[key]
	return ok
}

// Keys returns the keys in insertion order.
func (m Map) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in insertion order.
func (m Map) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}

// Equal compares two maps as mappings; key order is not significant.
func (m Map) Equal(o Map) bool {
	if len(m.entries) != len(o.entries) {
		return false
	}
	for _, e := range m.entries {
		v, ok := o.Get(e.Key)
		if !ok || !Equal(e.Value, v) {
			return false
		}
	}
	return true
}

// Vertex is a graph node.
type Vertex struct {
	ID         ID
	Label      string
	Properties Map
}

// Equal reports whether both vertices carry the same id, label and properties.
func (v Vertex) Equal(o Vertex) bool {
	return v.ID == o.ID && v.Label == o.Label && v.Properties.Equal(o.Properties)
}

// Edge is a directed connection between two vertices.
type Edge struct {
	ID         ID
	StartID    ID
	EndID      ID
	Label      string
	Properties Map
}

// Equal reports whether both edges carry the same ids, label and properties.
func (e Edge) Equal(o Edge) bool {
	return e.ID == o.ID &&
		e.StartID == o.StartID &&
		e.EndID == o.EndID &&
		e.Label == o.Label &&
		e.Properties.Equal(o.Properties)
}

// Path is an alternating sequence vertex, edge, vertex, ...
// A well-formed path has exactly one more vertex than it has edges.
type Path struct {
	Vertices []Vertex
	Edges    []Edge
}

// Len returns the number of edges in the path.
func (p Path) Len() int { return len(p.Edges) }

// Valid reports whether the vertex and edge counts form a path.
func (p Path) Valid() bool {
	return len(p.Vertices) == len(p.Edges)+1
}

// Equal reports whether both paths hold equal vertices and edges in order.
func (p Path) Equal(o Path) bool {
	if len(p.Vertices) != len(o.Vertices) || len(p.Edges) != len(o.Edges) {
		return false
	}
	for i := range p.Vertices {
		if !p.Vertices[i].Equal(o.Vertices[i]) {
			return false
		}
	}
	for i := range p.Edges {
		if !p.Edges[i].Equal(o.Edges[i]) {
			return false
		}
	}
	return true
}
