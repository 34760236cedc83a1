package registry

import (
	"github.com/phillarmonic/crush/internal/crusherrors"
	"github.com/phillarmonic/crush/internal/value"
)

// Bind validates a raw argument vector against a command's declared
// parameter list (spec §4.3, "Signature binding"): named arguments match
// by name; remaining unnamed arguments fill positional slots in
// declaration order; a trailing Rest parameter collects all leftover
// unnamed arguments. Optional parameters absent from the call are simply
// omitted from the returned map rather than erroring. A parameter declared
// without a type accepts a value of any type.
func (c *Command) Bind(args []value.Argument) (map[string]value.Value, error) {
	bound := make(map[string]value.Value)
	named := make(map[string]bool)

	var unnamed []value.Argument
	for _, a := range args {
		if a.Name == "" {
			unnamed = append(unnamed, a)
			continue
		}
		param, ok := c.paramByName(a.Name)
		if !ok {
			return nil, crusherrors.NewArgumentErrorAt(a.Pos, "%s: unknown parameter %q", c.Name_, a.Name)
		}
		if param.Type.Kind != value.KindEmpty && !a.Value.Type().Equal(param.Type) {
			return nil, crusherrors.NewArgumentErrorAt(a.Pos,
				"%s: parameter %q expects %s, got %s", c.Name_, a.Name, param.Type, a.Value.Type())
		}
		bound[a.Name] = a.Value
		named[a.Name] = true
	}

	posIdx := 0
	for _, param := range c.Params {
		if named[param.Name] || param.Rest {
			continue
		}
		if posIdx >= len(unnamed) {
			if !param.Optional {
				return nil, crusherrors.NewArgumentError("%s: missing required parameter %q", c.Name_, param.Name)
			}
			continue
		}
		a := unnamed[posIdx]
		if param.Type.Kind != value.KindEmpty && !a.Value.Type().Equal(param.Type) {
			return nil, crusherrors.NewArgumentErrorAt(a.Pos,
				"%s: parameter %q expects %s, got %s", c.Name_, param.Name, param.Type, a.Value.Type())
		}
		bound[param.Name] = a.Value
		posIdx++
	}

	if rest, ok := c.restParam(); ok {
		remaining := unnamed[posIdx:]
		items := make([]value.Value, 0, len(remaining))
		for _, a := range remaining {
			items = append(items, a.Value)
		}
		bound[rest.Name] = value.ListValue(value.NewList(value.Simple(value.KindString), items...))
	} else if posIdx < len(unnamed) {
		return nil, crusherrors.NewArgumentErrorAt(unnamed[posIdx].Pos,
			"%s: too many unnamed arguments", c.Name_)
	}

	return bound, nil
}

func (c *Command) paramByName(name string) (Parameter, bool) {
	for _, p := range c.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

func (c *Command) restParam() (Parameter, bool) {
	for _, p := range c.Params {
		if p.Rest {
			return p, true
		}
	}
	return Parameter{}, false
}
