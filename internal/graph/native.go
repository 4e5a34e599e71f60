package graph

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/vanshika/agegraph/internal/graphvalue"
)

// ErrUnsupportedValue indicates a driver value with no graph-value form.
var ErrUnsupportedValue = errors.New("unsupported driver value")

// FromNative converts a value produced by a database driver into the
// graph-value model. Map keys are sorted since Go maps carry no order.
func FromNative(v any) (graphvalue.Value, error) {
	switch x := v.(type) {
	case nil:
		return graphvalue.Null{}, nil
	case graphvalue.Value:
		return x, nil
	case graphvalue.GraphValue:
		return x.Value()
	case bool:
		return graphvalue.Bool(x), nil
	case string:
		return graphvalue.String(x), nil
	case []byte:
		return graphvalue.String(x), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		i, err := cast.ToInt64E(x)
		if err != nil {
			return nil, err
		}
		return graphvalue.Int(i), nil
	case uint64:
		if x > math.MaxInt64 {
			return graphvalue.NewDecimal(decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0)), nil
		}
		return graphvalue.Int(int64(x)), nil
	case float32, float64:
		f, err := cast.ToFloat64E(x)
		if err != nil {
			return nil, err
		}
		return graphvalue.Float(f), nil
	case decimal.Decimal:
		return graphvalue.NewDecimal(x), nil
	case pgtype.Numeric:
		return numericValue(x)
	case []any:
		list := make(graphvalue.List, len(x))
		for i, el := range x {
			val, err := FromNative(el)
			if err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
			list[i] = val
		}
		return list, nil
	case map[string]any:
		return mapFromNative(x)
	case neo4j.Node:
		return vertexFromNode(x)
	case neo4j.Relationship:
		return edgeFromRelationship(x)
	case neo4j.Path:
		return pathFromNative(x)
	case time.Time:
		return graphvalue.String(x.Format(time.RFC3339Nano)), nil
	case neo4j.Date:
		return graphvalue.String(time.Time(x).Format(time.DateOnly)), nil
	case neo4j.LocalDateTime:
		return graphvalue.String(time.Time(x).Format("2006-01-02T15:04:05.999999999")), nil
	case neo4j.LocalTime:
		return graphvalue.String(time.Time(x).Format("15:04:05.999999999")), nil
	case neo4j.Time:
		return graphvalue.String(time.Time(x).Format("15:04:05.999999999Z07:00")), nil
	case fmt.Stringer:
		return graphvalue.String(x.String()), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

func mapFromNative(m map[string]any) (graphvalue.Map, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]graphvalue.Entry, 0, len(keys))
	for _, k := range keys {
		val, err := FromNative(m[k])
		if err != nil {
			return graphvalue.Map{}, fmt.Errorf("key %s: %w", k, err)
		}
		entries = append(entries, graphvalue.Entry{Key: k, Value: val})
	}
	return graphvalue.NewMap(entries...), nil
}

func numericValue(n pgtype.Numeric) (graphvalue.Value, error) {
	switch {
	case !n.Valid:
		return graphvalue.Null{}, nil
	case n.NaN:
		return graphvalue.Float(math.NaN()), nil
	case n.InfinityModifier == pgtype.Infinity:
		return graphvalue.Float(math.Inf(1)), nil
	case n.InfinityModifier == pgtype.NegativeInfinity:
		return graphvalue.Float(math.Inf(-1)), nil
	case n.Int == nil:
		return graphvalue.NewDecimal(decimal.Zero), nil
	}
	return graphvalue.NewDecimal(decimal.NewFromBigInt(n.Int, n.Exp)), nil
}

func nativeID(id int64) (graphvalue.ID, error) {
	u, err := cast.ToUint64E(id)
	if err != nil {
		return 0, fmt.Errorf("element id %d: %w", id, err)
	}
	return graphvalue.ID(u), nil
}

func vertexFromNode(n neo4j.Node) (graphvalue.Vertex, error) {
	id, err := nativeID(n.Id)
	if err != nil {
		return graphvalue.Vertex{}, err
	}
	props, err := mapFromNative(n.Props)
	if err != nil {
		return graphvalue.Vertex{}, err
	}
	return graphvalue.Vertex{ID: id, Label: strings.Join(n.Labels, ":"), Properties: props}, nil
}

func edgeFromRelationship(r neo4j.Relationship) (graphvalue.Edge, error) {
	id, err := nativeID(r.Id)
	if err != nil {
		return graphvalue.Edge{}, err
	}
	start, err := nativeID(r.StartId)
	if err != nil {
		return graphvalue.Edge{}, err
	}
	end, err := nativeID(r.EndId)
	if err != nil {
		return graphvalue.Edge{}, err
	}
	props, err := mapFromNative(r.Props)
	if err != nil {
		return graphvalue.Edge{}, err
	}
	return graphvalue.Edge{ID: id, StartID: start, EndID: end, Label: r.Type, Properties: props}, nil
}

func pathFromNative(p neo4j.Path) (graphvalue.Path, error) {
	path := graphvalue.Path{
		Vertices: make([]graphvalue.Vertex, 0, len(p.Nodes)),
		Edges:    make([]graphvalue.Edge, 0, len(p.Relationships)),
	}
	for _, n := range p.Nodes {
		v, err := vertexFromNode(n)
		if err != nil {
			return graphvalue.Path{}, err
		}
		path.Vertices = append(path.Vertices, v)
	}
	for _, r := range p.Relationships {
		e, err := edgeFromRelationship(r)
		if err != nil {
			return graphvalue.Path{}, err
		}
		path.Edges = append(path.Edges, e)
	}
	if !path.Valid() {
		return graphvalue.Path{}, fmt.Errorf("path with %d nodes and %d relationships", len(p.Nodes), len(p.Relationships))
	}
	return path, nil
}
