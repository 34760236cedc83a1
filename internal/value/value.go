package value

import (
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Command is the invocation-contract marker every command handle value
// satisfies, whether it wraps a closure, a native command, or a bound
// method (spec §9, "Command polymorphism"). The actual Invoke dispatch
// lives in the engine package, which type-switches on the concrete type;
// keeping only a tiny marker interface here avoids value importing
// engine/registry.
type Command interface {
	Name() string
	CanBlock() bool
}

// ScopeHandle is the minimal surface a Scope exposes to the value layer,
// e.g. for Value{Kind: KindScope}. The full Scope API lives in package
// scope, which implements this interface.
type ScopeHandle interface {
	Get(name string) (Value, bool)
}

// TableStreamReader is a reader handle over a sequence of Rows, one FIFO
// per spec §4.6. Read returns io.EOF once the sender has closed and all
// buffered rows are drained.
type TableStreamReader interface {
	Read() (Row, error)
	Columns() []ColumnType
	Close() error
}

// Value is the tagged sum of spec §3. Only the field(s) matching Kind are
// meaningful; accessing the wrong field is a programmer error, same as
// matching the wrong arm of an enum.
type Value struct {
	Kind Kind

	boolV  bool
	intV   *big.Int
	floatV float64
	strV   string // string / file path / glob source

	durationV time.Duration
	timeV     time.Time

	regexSrc string
	regexRe  *regexp.Regexp

	fieldPath []string

	cmd Command

	typeV *ValueType

	list        *List
	dict        *Dict
	structV     *Struct
	table       *Table
	tableStream TableStreamReader

	binary       []byte
	binaryStream io.ReadCloser

	scope ScopeHandle
}

func Empty() Value { return Value{Kind: KindEmpty} }

func Bool(b bool) Value { return Value{Kind: KindBool, boolV: b} }

func Int(i int64) Value { return Value{Kind: KindInt, intV: big.NewInt(i)} }

func BigInt(i *big.Int) Value { return Value{Kind: KindInt, intV: i} }

func Float(f float64) Value { return Value{Kind: KindFloat, floatV: f} }

func String(s string) Value { return Value{Kind: KindString, strV: s} }

func File(path string) Value { return Value{Kind: KindFile, strV: path} }

func Duration(d time.Duration) Value { return Value{Kind: KindDuration, durationV: d} }

func Time(t time.Time) Value { return Value{Kind: KindTime, timeV: t} }

func Glob(pattern string) Value { return Value{Kind: KindGlob, strV: pattern} }

func Regex(src string) (Value, error) {
	re, err := regexp.Compile(src)
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindRegex, regexSrc: src, regexRe: re}, nil
}

func Field(path []string) Value {
	return Value{Kind: KindField, fieldPath: append([]string(nil), path...)}
}

func CommandValue(c Command) Value { return Value{Kind: KindCommand, cmd: c} }

func TypeValue(t ValueType) Value { return Value{Kind: KindType, typeV: &t} }

func ListValue(l *List) Value { return Value{Kind: KindList, list: l} }

func DictValue(d *Dict) Value { return Value{Kind: KindDict, dict: d} }

func StructValue(s *Struct) Value { return Value{Kind: KindStruct, structV: s} }

func TableValue(t *Table) Value { return Value{Kind: KindTable, table: t} }

func TableStreamValue(r TableStreamReader) Value {
	return Value{Kind: KindTableStream, tableStream: r}
}

func Binary(b []byte) Value { return Value{Kind: KindBinary, binary: b} }

func BinaryStreamValue(r io.ReadCloser) Value {
	return Value{Kind: KindBinaryStream, binaryStream: r}
}

func ScopeValue(s ScopeHandle) Value { return Value{Kind: KindScope, scope: s} }

// Accessors. Each panics if called against the wrong Kind, matching the
// "pattern-match at call sites" guidance: callers are expected to switch
// on Kind first.

func (v Value) AsBool() bool            { v.mustBe(KindBool); return v.boolV }
func (v Value) AsInt() *big.Int         { v.mustBe(KindInt); return v.intV }
func (v Value) AsFloat() float64        { v.mustBe(KindFloat); return v.floatV }
func (v Value) AsString() string        { v.mustBeAnyOf(KindString, KindFile, KindGlob); return v.strV }
func (v Value) AsDuration() time.Duration { v.mustBe(KindDuration); return v.durationV }
func (v Value) AsTime() time.Time       { v.mustBe(KindTime); return v.timeV }
func (v Value) AsRegexSource() string   { v.mustBe(KindRegex); return v.regexSrc }
func (v Value) AsRegex() *regexp.Regexp { v.mustBe(KindRegex); return v.regexRe }
func (v Value) AsField() []string       { v.mustBe(KindField); return v.fieldPath }
func (v Value) AsCommand() Command      { v.mustBe(KindCommand); return v.cmd }
func (v Value) AsType() ValueType       { v.mustBe(KindType); return *v.typeV }
func (v Value) AsList() *List           { v.mustBe(KindList); return v.list }
func (v Value) AsDict() *Dict           { v.mustBe(KindDict); return v.dict }
func (v Value) AsStruct() *Struct       { v.mustBe(KindStruct); return v.structV }
func (v Value) AsTable() *Table         { v.mustBe(KindTable); return v.table }
func (v Value) AsTableStream() TableStreamReader {
	v.mustBe(KindTableStream)
	return v.tableStream
}
func (v Value) AsBinary() []byte { v.mustBe(KindBinary); return v.binary }
func (v Value) AsBinaryStream() io.ReadCloser {
	v.mustBe(KindBinaryStream)
	return v.binaryStream
}
func (v Value) AsScope() ScopeHandle { v.mustBe(KindScope); return v.scope }

func (v Value) mustBe(k Kind) {
	if v.Kind != k {
		panic(fmt.Sprintf("value: expected kind %s, got %s", k, v.Kind))
	}
}

func (v Value) mustBeAnyOf(ks ...Kind) {
	for _, k := range ks {
		if v.Kind == k {
			return
		}
	}
	panic(fmt.Sprintf("value: kind %s not among %v", v.Kind, ks))
}

// Type returns the structural ValueType describing this Value.
func (v Value) Type() ValueType {
	switch v.Kind {
	case KindList:
		return ListType(v.list.ElemType)
	case KindDict:
		return DictType(v.dict.KeyType, v.dict.ValType)
	case KindStruct:
		return StructType(v.structV.FieldNames())
	case KindTable:
		return TableType(v.table.Columns)
	case KindTableStream:
		return TableStreamType(v.tableStream.Columns())
	default:
		return Simple(v.Kind)
	}
}

// String renders a human-readable form, used by the printer and by
// text-producing commands (to_string, echo's default sink, etc).
func (v Value) String() string {
	switch v.Kind {
	case KindEmpty:
		return ""
	case KindBool:
		return strconv.FormatBool(v.boolV)
	case KindInt:
		return v.intV.String()
	case KindFloat:
		return strconv.FormatFloat(v.floatV, 'g', -1, 64)
	case KindString, KindFile, KindGlob:
		return v.strV
	case KindDuration:
		return v.durationV.String()
	case KindTime:
		return v.timeV.Format(time.RFC3339)
	case KindRegex:
		return v.regexSrc
	case KindField:
		return "^" + strings.Join(v.fieldPath, ".")
	case KindCommand:
		return "command " + v.cmd.Name()
	case KindType:
		return v.typeV.String()
	case KindList:
		return v.list.String()
	case KindDict:
		return v.dict.String()
	case KindStruct:
		return v.structV.String()
	case KindTable:
		return fmt.Sprintf("table<%d rows>", len(v.table.Rows))
	case KindTableStream:
		return "table_stream"
	case KindBinary:
		return fmt.Sprintf("binary<%d bytes>", len(v.binary))
	case KindBinaryStream:
		return "binary_stream"
	case KindScope:
		return "scope"
	default:
		return v.Kind.String()
	}
}

// Compare orders two comparable values (spec §3: "comparable" kinds admit
// a total order). Callers must check Type().Comparable() and matching
// types first; mismatched kinds panic.
func Compare(a, b Value) int {
	if a.Kind != b.Kind {
		panic("value: Compare of mismatched kinds")
	}
	switch a.Kind {
	case KindInt:
		return a.intV.Cmp(b.intV)
	case KindFloat:
		switch {
		case a.floatV < b.floatV:
			return -1
		case a.floatV > b.floatV:
			return 1
		default:
			return 0
		}
	case KindString, KindFile:
		return strings.Compare(a.strV, b.strV)
	case KindBool:
		if a.boolV == b.boolV {
			return 0
		}
		if !a.boolV {
			return -1
		}
		return 1
	case KindDuration:
		return int(a.durationV - b.durationV)
	case KindTime:
		if a.timeV.Before(b.timeV) {
			return -1
		}
		if a.timeV.After(b.timeV) {
			return 1
		}
		return 0
	default:
		panic(fmt.Sprintf("value: kind %s is not comparable", a.Kind))
	}
}

// Cast attempts to coerce v into target, used by the cast command. It
// reports ok=false rather than an error
// on failure so callers can implement the uniform skip-on-failure policy
// of spec §7.
func Cast(v Value, target ValueType) (Value, bool) {
	if v.Type().Equal(target) {
		return v, true
	}
	switch target.Kind {
	case KindString:
		switch v.Kind {
		case KindInt, KindFloat, KindBool, KindFile, KindGlob, KindDuration, KindTime:
			return String(v.String()), true
		}
	case KindInt:
		switch v.Kind {
		case KindFloat:
			bi, _ := big.NewFloat(v.floatV).Int(nil)
			return BigInt(bi), true
		case KindString:
			bi, ok := new(big.Int).SetString(strings.TrimSpace(v.strV), 10)
			if !ok {
				return Value{}, false
			}
			return BigInt(bi), true
		case KindBool:
			if v.boolV {
				return Int(1), true
			}
			return Int(0), true
		}
	case KindFloat:
		switch v.Kind {
		case KindInt:
			f := new(big.Float).SetInt(v.intV)
			fv, _ := f.Float64()
			return Float(fv), true
		case KindString:
			fv, err := strconv.ParseFloat(strings.TrimSpace(v.strV), 64)
			if err != nil {
				return Value{}, false
			}
			return Float(fv), true
		}
	case KindBool:
		if v.Kind == KindString {
			switch strings.ToLower(strings.TrimSpace(v.strV)) {
			case "true":
				return Bool(true), true
			case "false":
				return Bool(false), true
			}
			return Value{}, false
		}
	case KindFile:
		if v.Kind == KindString {
			return File(v.strV), true
		}
	}
	return Value{}, false
}
