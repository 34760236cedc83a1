package builtins

import (
	"io"
	"sort"

	"github.com/phillarmonic/crush/internal/cmdctx"
	"github.com/phillarmonic/crush/internal/crusherrors"
	"github.com/phillarmonic/crush/internal/registry"
	"github.com/phillarmonic/crush/internal/value"
)

func registerCore(reg *registry.Registry) {
	reg.Register(echoCommand())
	reg.Register(reverseCommand())
	reg.Register(sortCommand())
	reg.Register(castCommand())
}

var echoColumns = []value.ColumnType{{Name: "value", Type: value.Simple(value.KindString)}}

// echo emits every positional argument as its own single-column row on
// a real table stream, so `echo 1 2 3 | reverse`/`| sort` type-check
// against the next stage's Table input (spec §8 scenario 2). A job
// that echoes exactly one value and is itself used as a value
// collapses back to that scalar in materialize (spec §8 scenario 4).
func echoCommand() *registry.Command {
	return &registry.Command{
		Name_: "echo",
		Short: "Output its arguments",
		Params: []registry.Parameter{
			{Name: "values", Rest: true},
		},
		Output:   registry.Known(value.TableType(echoColumns)),
		CanBlock: false,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			if ctx.Output.Table == nil {
				return crusherrors.NewGeneric("echo: no table sink available")
			}
			values, _ := ctx.Arg("values")
			for _, v := range values.AsList().Snapshot() {
				if err := ctx.Output.Table.Send(value.NewRow(value.String(v.String()))); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// reverse reads every input row and re-emits them in reverse order.
func reverseCommand() *registry.Command {
	return &registry.Command{
		Name_:    "reverse",
		Short:    "Reverse the order of rows",
		Output:   registry.Passthrough(),
		CanBlock: false,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			if ctx.Input.Table == nil {
				return crusherrors.NewTypeError("reverse requires a table input")
			}
			var rows []value.Row
			for {
				row, err := ctx.Input.Table.Read()
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}
				rows = append(rows, row)
			}
			for i := len(rows) - 1; i >= 0; i-- {
				if err := ctx.Output.Table.Send(rows[i]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// sort orders rows by the named column's natural Compare order (spec
// §3: "comparable" kinds admit a total order).
func sortCommand() *registry.Command {
	return &registry.Command{
		Name_: "sort",
		Short: "Sort rows by a column",
		Params: []registry.Parameter{
			{Name: "column", Type: value.Simple(value.KindField)},
		},
		Output:   registry.Passthrough(),
		CanBlock: false,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			if ctx.Input.Table == nil {
				return crusherrors.NewTypeError("sort requires a table input")
			}
			fieldV, ok := ctx.Arg("column")
			if !ok {
				return crusherrors.NewArgumentError("sort: missing required parameter %q", "column")
			}
			path := fieldV.AsField()
			if len(path) != 1 {
				return crusherrors.NewArgumentError("sort: column must name a single field")
			}
			name := path[0]

			cols := ctx.Input.Table.Columns()
			idx := -1
			for i, c := range cols {
				if c.Name == name {
					idx = i
					break
				}
			}
			if idx < 0 {
				return crusherrors.NewArgumentError("sort: no such column %q", name)
			}

			var rows []value.Row
			for {
				row, err := ctx.Input.Table.Read()
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}
				rows = append(rows, row)
			}
			sort.SliceStable(rows, func(i, j int) bool {
				return value.Compare(rows[i].Cells[idx], rows[j].Cells[idx]) < 0
			})
			for _, row := range rows {
				if err := ctx.Output.Table.Send(row); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// cast coerces a single value to the named type, per the uniform
// skip-on-failure tolerance policy described in the expanded
// specification's error-handling section.
func castCommand() *registry.Command {
	return &registry.Command{
		Name_: "cast",
		Short: "Cast a value to another type",
		Params: []registry.Parameter{
			{Name: "type", Type: value.Simple(value.KindType)},
			{Name: "value"},
		},
		Output:   registry.Unknown(),
		CanBlock: false,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			targetV, ok := ctx.Arg("type")
			if !ok {
				return crusherrors.NewArgumentError("cast: missing required parameter %q", "type")
			}
			v, ok := ctx.Arg("value")
			if !ok {
				return crusherrors.NewArgumentError("cast: missing required parameter %q", "value")
			}
			out, ok := value.Cast(v, targetV.AsType())
			if !ok {
				return nil
			}
			return ctx.Output.Value.Send(out)
		},
	}
}
