// Package value implements the runtime Value/ValueType universe of spec §3:
// a tagged sum of scalar and container variants, plus the structural
// column/row types used by tables and table streams.
package value

import (
	"fmt"
	"strings"
)

// Kind tags every Value and ValueType variant.
type Kind int

const (
	KindEmpty Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindFile
	KindDuration
	KindTime
	KindGlob
	KindRegex
	KindField
	KindCommand
	KindType
	KindList
	KindDict
	KindStruct
	KindTable
	KindTableStream
	KindBinary
	KindBinaryStream
	KindScope
)

var kindNames = [...]string{
	"empty", "bool", "integer", "float", "string", "file", "duration",
	"time", "glob", "regex", "field", "command", "type", "list", "dict",
	"struct", "table", "table_stream", "binary", "binary_stream", "scope",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// comparableKinds admit a total order (spec §3: "A type is comparable if
// its variant admits a total order").
var comparableKinds = map[Kind]bool{
	KindInt: true, KindFloat: true, KindString: true, KindTime: true,
	KindDuration: true, KindFile: true, KindBool: true,
}

// ValueType identifies the shape of a Value. Composite kinds carry
// descriptors for their elements/columns; equality is structural.
type ValueType struct {
	Kind Kind

	// KindList / KindBinaryStream element type (BinaryStream has none).
	Elem *ValueType
	// KindDict
	Key *ValueType
	Val *ValueType
	// KindStruct field names in order (types are per-field Values, so a
	// struct's "type" is just its field name list for structural purposes).
	Fields []string
	// KindTable / KindTableStream
	Columns []ColumnType
}

func Simple(k Kind) ValueType { return ValueType{Kind: k} }

func ListType(elem ValueType) ValueType { return ValueType{Kind: KindList, Elem: &elem} }

func DictType(key, val ValueType) ValueType {
	return ValueType{Kind: KindDict, Key: &key, Val: &val}
}

func StructType(fields []string) ValueType {
	return ValueType{Kind: KindStruct, Fields: append([]string(nil), fields...)}
}

func TableType(cols []ColumnType) ValueType {
	return ValueType{Kind: KindTable, Columns: append([]ColumnType(nil), cols...)}
}

func TableStreamType(cols []ColumnType) ValueType {
	return ValueType{Kind: KindTableStream, Columns: append([]ColumnType(nil), cols...)}
}

// Comparable reports whether two values of this type admit a total order.
func (t ValueType) Comparable() bool { return comparableKinds[t.Kind] }

// Equal reports structural equality, per spec §3.
func (t ValueType) Equal(o ValueType) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindList:
		return t.Elem.Equal(*o.Elem)
	case KindDict:
		return t.Key.Equal(*o.Key) && t.Val.Equal(*o.Val)
	case KindStruct:
		return stringsEqual(t.Fields, o.Fields)
	case KindTable, KindTableStream:
		return columnsEqual(t.Columns, o.Columns)
	default:
		return true
	}
}

func (t ValueType) String() string {
	switch t.Kind {
	case KindList:
		return "list<" + t.Elem.String() + ">"
	case KindDict:
		return "dict<" + t.Key.String() + ", " + t.Val.String() + ">"
	case KindStruct:
		return "struct<" + strings.Join(t.Fields, ", ") + ">"
	case KindTable, KindTableStream:
		parts := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			parts[i] = c.Name + ": " + c.Type.String()
		}
		suffix := ""
		if t.Kind == KindTableStream {
			suffix = "_stream"
		}
		return "table" + suffix + "<" + strings.Join(parts, ", ") + ">"
	default:
		return t.Kind.String()
	}
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func columnsEqual(a, b []ColumnType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !a[i].Type.Equal(b[i].Type) {
			return false
		}
	}
	return true
}

// ColumnType is (name, ValueType); equality is structural (spec §3).
type ColumnType struct {
	Name string
	Type ValueType
}

// UniqueNames reports whether every column name in cols is distinct, the
// invariant a table/stream signature must hold.
func UniqueNames(cols []ColumnType) bool {
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if seen[c.Name] {
			return false
		}
		seen[c.Name] = true
	}
	return true
}
