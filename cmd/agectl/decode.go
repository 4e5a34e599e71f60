package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanshika/agegraph/internal/graphvalue"
	"github.com/vanshika/agegraph/internal/server"
)

var errUnknownKind = errors.New("unknown value kind")

type decodeOutput struct {
	Kind  string `json:"kind"`
	Value any    `json:"value"`
	Wire  string `json:"wire"`
}

func newDecodeCmd(_ *app) *cobra.Command {
	var (
		kind   string
		coerce bool
	)

	cmd := &cobra.Command{
		Use:   "decode <payload|->",
		Short: "Decode a graph-value payload",
		Long: `Decode a graph-value payload and print its kind, a JSON rendering and the
re-encoded wire form.

--as selects the accessor: auto, bool, float, int, int32, decimal, string,
list, map, vertex, edge or path.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := inputArg(cmd, args[0])
			if err != nil {
				return err
			}

			v, err := decodeAs(graphvalue.New(payload), kind, coerce)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), decodeOutput{
				Kind:  v.Kind().String(),
				Value: server.RenderValue(v),
				Wire:  v.String(),
			})
		},
	}

	cmd.Flags().StringVar(&kind, "as", "auto", "Accessor to decode with")
	cmd.Flags().BoolVar(&coerce, "coerce-special-floats", false, `Decode list strings "Infinity", "-Infinity" and "NaN" as floats (with --as list)`)
	return cmd
}

func decodeAs(g graphvalue.GraphValue, kind string, coerce bool) (graphvalue.Value, error) {
	switch strings.ToLower(kind) {
	case "", "auto":
		return g.Value()
	case "bool":
		b, err := g.Bool()
		if err != nil {
			return nil, err
		}
		return graphvalue.Bool(b), nil
	case "float":
		f, err := g.Float64()
		if err != nil {
			return nil, err
		}
		return graphvalue.Float(f), nil
	case "int", "int64":
		i, err := g.Int64()
		if err != nil {
			return nil, err
		}
		return graphvalue.Int(i), nil
	case "int32":
		i, err := g.Int32()
		if err != nil {
			return nil, err
		}
		return graphvalue.Int(i), nil
	case "decimal":
		d, err := g.Decimal()
		if err != nil {
			return nil, err
		}
		return graphvalue.NewDecimal(d), nil
	case "string":
		s, err := g.Text()
		if err != nil {
			return nil, err
		}
		return graphvalue.String(s), nil
	case "list":
		var opts []graphvalue.ListOption
		if coerce {
			opts = append(opts, graphvalue.CoerceSpecialFloats())
		}
		l, err := g.List(opts...)
		if err != nil {
			return nil, err
		}
		return graphvalue.List(l), nil
	case "map":
		return g.Map()
	case "vertex":
		return g.Vertex()
	case "edge":
		return g.Edge()
	case "path":
		return g.Path()
	}
	return nil, fmt.Errorf("%w: %q", errUnknownKind, kind)
}
