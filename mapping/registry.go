package mapping

import (
	"fmt"
	"reflect"

	"github.com/hatlonely/fakemodel/schema"
)

// UnmappedTypeError 列类型既没有精确匹配也没有祖先匹配
type UnmappedTypeError struct {
	Column *schema.Column
	Type   reflect.Type
}

func (e *UnmappedTypeError) Error() string {
	if e.Column != nil {
		return fmt.Sprintf("unmapped column type found for column: %v", e.Column)
	}
	return fmt.Sprintf("unmapped column type: %v", e.Type)
}

type Entry struct {
	Type      ColumnType
	Generator Generator
}

// Registry 列类型到生成器的映射，不可变，修改返回新的 Registry，可以并发读
type Registry struct {
	entries []Entry
	index   map[ColumnType]int
}

func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{index: make(map[ColumnType]int, len(entries))}
	for _, e := range entries {
		r.set(e.Type, e.Generator)
	}
	return r
}

// WithOverride 返回一个新的 Registry，t 已存在时原位替换，否则追加到末尾
func (r *Registry) WithOverride(t ColumnType, g Generator) *Registry {
	n := &Registry{
		entries: make([]Entry, len(r.entries), len(r.entries)+1),
		index:   make(map[ColumnType]int, len(r.index)+1),
	}
	copy(n.entries, r.entries)
	for k, v := range r.index {
		n.index[k] = v
	}
	n.set(t, g)
	return n
}

func (r *Registry) set(t ColumnType, g Generator) {
	if t == nil || g == nil {
		panic("mapping: nil column type or generator")
	}
	if i, ok := r.index[t]; ok {
		r.entries[i].Generator = g
		return
	}
	r.index[t] = len(r.entries)
	r.entries = append(r.entries, Entry{Type: t, Generator: g})
}

// Lookup 先精确匹配，再按注册顺序查找第一个祖先类型
func (r *Registry) Lookup(t reflect.Type) (Generator, bool) {
	if t == nil {
		return nil, false
	}
	if i, ok := r.index[goType{t: t}]; ok {
		return r.entries[i].Generator, true
	}
	for _, e := range r.entries {
		if e.Type.Contains(t) {
			return e.Generator, true
		}
	}
	return nil, false
}

// Resolve 为列查找生成器，找不到时返回 *UnmappedTypeError
func (r *Registry) Resolve(col *schema.Column) (Generator, error) {
	if col == nil {
		return nil, &UnmappedTypeError{}
	}
	if g, ok := r.Lookup(col.Type); ok {
		return g, nil
	}
	return nil, &UnmappedTypeError{Column: col, Type: col.Type}
}

// Entries 按注册顺序返回映射快照
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

func (r *Registry) Len() int {
	return len(r.entries)
}
