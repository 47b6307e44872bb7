package mapping

import (
	"reflect"
)

// ColumnType 注册表中的列类型标识
// Contains 判断运行时类型是否属于该类型（祖先匹配）
type ColumnType interface {
	String() string
	Contains(t reflect.Type) bool
}

// goType 具体的 Go 类型，既可以精确匹配，也可以作为祖先匹配
type goType struct {
	t reflect.Type
}

// TypeOf 返回 T 对应的列类型，T 可以是接口类型
func TypeOf[T any]() ColumnType {
	return TypeFor(reflect.TypeOf((*T)(nil)).Elem())
}

func TypeFor(t reflect.Type) ColumnType {
	if t == nil {
		panic("mapping: TypeFor called with nil reflect.Type")
	}
	return goType{t: t}
}

func (g goType) String() string {
	return g.t.String()
}

func (g goType) Contains(t reflect.Type) bool {
	return IsAncestor(g.t, t)
}

// IsAncestor 判断 ancestor 是否为 t 的祖先类型：
// - 同一类型
// - ancestor 为接口且 t 或 *t 实现了它
// - 同一类别（整数、浮点、字符串等）且 t 可以转换为 ancestor，即 t 是在 ancestor 之上声明的命名类型
func IsAncestor(ancestor, t reflect.Type) bool {
	if ancestor == nil || t == nil {
		return false
	}
	if ancestor == t {
		return true
	}
	if ancestor.Kind() == reflect.Interface {
		if t.Implements(ancestor) {
			return true
		}
		return t.Kind() != reflect.Ptr && t.Kind() != reflect.Interface && reflect.PointerTo(t).Implements(ancestor)
	}
	if kindFamily(t.Kind()) != kindFamily(ancestor.Kind()) {
		return false
	}
	return t.ConvertibleTo(ancestor)
}

func kindFamily(k reflect.Kind) reflect.Kind {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return reflect.Int
	case reflect.Float32, reflect.Float64:
		return reflect.Float64
	case reflect.Complex64, reflect.Complex128:
		return reflect.Complex128
	default:
		return k
	}
}

// Category 抽象的类型类别，只参与祖先匹配，不会被精确匹配命中
type Category struct {
	name  string
	match func(t reflect.Type) bool
}

func NewCategory(name string, match func(t reflect.Type) bool) *Category {
	if match == nil {
		panic("mapping: NewCategory called with nil match")
	}
	return &Category{name: name, match: match}
}

// KindCategory 按 reflect.Kind 划分的类别
func KindCategory(name string, kinds ...reflect.Kind) *Category {
	set := make(map[reflect.Kind]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return NewCategory(name, func(t reflect.Type) bool {
		_, ok := set[t.Kind()]
		return ok
	})
}

func (c *Category) String() string {
	return c.name
}

func (c *Category) Contains(t reflect.Type) bool {
	return t != nil && c.match(t)
}
