package value

import (
	"fmt"
	"strings"
	"sync"
)

// List, Dict, Struct and Table are the mutable containers of spec §3:
// immutable once constructed is the default for Value, but these wrap an
// inherently mutable collection shared by reference across workers, each
// serializing its own mutation with an exclusive lock (spec §5).

type List struct {
	mu       sync.Mutex
	ElemType ValueType
	items    []Value
}

func NewList(elem ValueType, items ...Value) *List {
	return &List{ElemType: elem, items: append([]Value(nil), items...)}
}

func (l *List) Append(v Value) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, v)
}

func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (l *List) Get(i int) (Value, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.items) {
		return Value{}, false
	}
	return l.items[i], true
}

// Snapshot returns a stable copy of the current contents for iteration.
func (l *List) Snapshot() []Value {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Value, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List) String() string {
	parts := make([]string, 0, l.Len())
	for _, v := range l.Snapshot() {
		parts = append(parts, v.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Dict preserves insertion order for iteration while keying lookups by the
// string rendering of the key Value (spec calls only for structural
// equality on types, not a hashing scheme for arbitrary key values).
type Dict struct {
	mu      sync.Mutex
	KeyType ValueType
	ValType ValueType
	keys    []Value
	index   map[string]int
	values  []Value
}

func NewDict(keyT, valT ValueType) *Dict {
	return &Dict{KeyType: keyT, ValType: valT, index: make(map[string]int)}
}

func (d *Dict) Set(key, val Value) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := key.String()
	if i, ok := d.index[k]; ok {
		d.values[i] = val
		return
	}
	d.index[k] = len(d.keys)
	d.keys = append(d.keys, key)
	d.values = append(d.values, val)
}

func (d *Dict) Get(key Value) (Value, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i, ok := d.index[key.String()]
	if !ok {
		return Value{}, false
	}
	return d.values[i], true
}

func (d *Dict) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.keys)
}

// Entries returns a stable (key, value) snapshot in insertion order.
func (d *Dict) Entries() ([]Value, []Value) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ks := make([]Value, len(d.keys))
	vs := make([]Value, len(d.values))
	copy(ks, d.keys)
	copy(vs, d.values)
	return ks, vs
}

func (d *Dict) String() string {
	ks, vs := d.Entries()
	parts := make([]string, len(ks))
	for i := range ks {
		parts[i] = ks[i].String() + ": " + vs[i].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Struct is an ordered set of named fields with an optional parent struct
// for inherited lookup (spec §3).
type Struct struct {
	mu     sync.Mutex
	names  []string
	values []Value
	Parent *Struct
}

func NewStruct(names []string, values []Value, parent *Struct) *Struct {
	return &Struct{
		names:  append([]string(nil), names...),
		values: append([]Value(nil), values...),
		Parent: parent,
	}
}

func (s *Struct) FieldNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...)
}

func (s *Struct) Get(name string) (Value, bool) {
	s.mu.Lock()
	for i, n := range s.names {
		if n == name {
			v := s.values[i]
			s.mu.Unlock()
			return v, true
		}
	}
	parent := s.Parent
	s.mu.Unlock()
	if parent != nil {
		return parent.Get(name)
	}
	return Value{}, false
}

func (s *Struct) Set(name string, v Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.names {
		if n == name {
			s.values[i] = v
			return
		}
	}
	s.names = append(s.names, name)
	s.values = append(s.values, v)
}

func (s *Struct) String() string {
	s.mu.Lock()
	names := append([]string(nil), s.names...)
	values := append([]Value(nil), s.values...)
	s.mu.Unlock()
	parts := make([]string, len(names))
	for i := range names {
		parts[i] = fmt.Sprintf("%s=%s", names[i], values[i].String())
	}
	return "struct<" + strings.Join(parts, ", ") + ">"
}

// Table is a fully materialized table value: a column signature plus a
// row vector (spec §3). A TableStream is the streaming counterpart.
type Table struct {
	mu      sync.Mutex
	Columns []ColumnType
	Rows    []Row
}

func NewTable(cols []ColumnType, rows ...Row) *Table {
	return &Table{Columns: append([]ColumnType(nil), cols...), Rows: append([]Row(nil), rows...)}
}

func (t *Table) Append(r Row) error {
	if err := r.CheckTypes(t.Columns); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Rows = append(t.Rows, r)
	return nil
}

func (t *Table) Snapshot() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Row, len(t.Rows))
	copy(out, t.Rows)
	return out
}
