package builtins

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/phillarmonic/crush/internal/cmdctx"
	"github.com/phillarmonic/crush/internal/crusherrors"
	"github.com/phillarmonic/crush/internal/registry"
	"github.com/phillarmonic/crush/internal/value"
)

func registerData(reg *registry.Registry) {
	reg.Register(fromYAMLCommand())
	reg.Register(toYAMLCommand())
	reg.Register(fromJSONCommand())
	reg.Register(toJSONCommand())
}

func fromYAMLCommand() *registry.Command {
	return &registry.Command{
		Name_:    "from_yaml",
		Short:    "Decode YAML into a struct",
		Output:   registry.Unknown(),
		CanBlock: false,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			data, err := readScalarOrBinary(ctx)
			if err != nil {
				return err
			}
			var decoded map[string]any
			if err := yaml.Unmarshal(data, &decoded); err != nil {
				return crusherrors.NewInvalidData("from_yaml: %v", err)
			}
			return ctx.Output.Value.Send(value.StructValue(structFromMap(decoded)))
		},
	}
}

func toYAMLCommand() *registry.Command {
	return &registry.Command{
		Name_:    "to_yaml",
		Short:    "Encode a struct as YAML",
		Output:   registry.Known(value.Simple(value.KindString)),
		CanBlock: false,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			v, err := readScalarValue(ctx)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(mapFromValue(v))
			if err != nil {
				return crusherrors.NewInvalidData("to_yaml: %v", err)
			}
			return ctx.Output.Value.Send(value.String(string(out)))
		},
	}
}

func fromJSONCommand() *registry.Command {
	return &registry.Command{
		Name_:    "from_json",
		Short:    "Decode JSON into a struct",
		Output:   registry.Unknown(),
		CanBlock: false,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			data, err := readScalarOrBinary(ctx)
			if err != nil {
				return err
			}
			var decoded map[string]any
			if err := json.Unmarshal(data, &decoded); err != nil {
				return crusherrors.NewInvalidData("from_json: %v", err)
			}
			return ctx.Output.Value.Send(value.StructValue(structFromMap(decoded)))
		},
	}
}

func toJSONCommand() *registry.Command {
	return &registry.Command{
		Name_:    "to_json",
		Short:    "Encode a struct as JSON",
		Output:   registry.Known(value.Simple(value.KindString)),
		CanBlock: false,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			v, err := readScalarValue(ctx)
			if err != nil {
				return err
			}
			out, err := json.Marshal(mapFromValue(v))
			if err != nil {
				return crusherrors.NewInvalidData("to_json: %v", err)
			}
			return ctx.Output.Value.Send(value.String(string(out)))
		},
	}
}

func readScalarValue(ctx *cmdctx.CommandContext) (value.Value, error) {
	if ctx.Input.Value == nil {
		return value.Value{}, crusherrors.NewTypeError("expected a single value on input")
	}
	return ctx.Input.Value.Recv()
}

// readScalarOrBinary accepts either a binary stream or a string value on
// input, since a decode command's source may come from a file read (binary)
// or a prior string-producing stage.
func readScalarOrBinary(ctx *cmdctx.CommandContext) ([]byte, error) {
	if ctx.Input.Binary != nil {
		var buf []byte
		chunk := make([]byte, 4096)
		for {
			n, err := ctx.Input.Binary.Read(chunk)
			buf = append(buf, chunk[:n]...)
			if err != nil {
				break
			}
		}
		return buf, nil
	}
	v, err := readScalarValue(ctx)
	if err != nil {
		return nil, err
	}
	return []byte(v.String()), nil
}

// structFromMap converts a decoded map into a value.Struct, the bridge
// between codec libraries' native map[string]any and crush's typed
// struct representation.
func structFromMap(m map[string]any) *value.Struct {
	names := make([]string, 0, len(m))
	values := make([]value.Value, 0, len(m))
	for k, v := range m {
		names = append(names, k)
		values = append(values, valueFromAny(v))
	}
	return value.NewStruct(names, values, nil)
}

func valueFromAny(v any) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Empty()
	case bool:
		return value.Bool(t)
	case string:
		return value.String(t)
	case int:
		return value.Int(int64(t))
	case int64:
		return value.Int(t)
	case float64:
		return value.Float(t)
	case map[string]any:
		return value.StructValue(structFromMap(t))
	case []any:
		items := make([]value.Value, len(t))
		for i, e := range t {
			items[i] = valueFromAny(e)
		}
		return value.ListValue(value.NewList(value.Simple(value.KindString), items...))
	default:
		return value.String("")
	}
}

// mapFromValue is to_yaml/to_json's inverse bridge: a struct's fields
// flattened back into a map the codec libraries know how to serialize.
func mapFromValue(v value.Value) map[string]any {
	if v.Kind != value.KindStruct {
		return map[string]any{"value": v.String()}
	}
	s := v.AsStruct()
	out := make(map[string]any)
	for _, name := range s.FieldNames() {
		fv, _ := s.Get(name)
		out[name] = anyFromValue(fv)
	}
	return out
}

func anyFromValue(v value.Value) any {
	switch v.Kind {
	case value.KindBool:
		return v.AsBool()
	case value.KindInt:
		return v.AsInt().String()
	case value.KindFloat:
		return v.AsFloat()
	case value.KindStruct:
		return mapFromValue(v)
	case value.KindList:
		items := v.AsList().Snapshot()
		out := make([]any, len(items))
		for i, e := range items {
			out[i] = anyFromValue(e)
		}
		return out
	default:
		return v.String()
	}
}
