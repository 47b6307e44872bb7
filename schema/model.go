package schema

import (
	"fmt"
	"reflect"
)

// Column 模型中一个数据字段的只读描述
type Column struct {
	Name       string       // 属性名，即 Go 字段名
	DBName     string       // 列名
	Type       reflect.Type // 声明类型，已去掉指针
	FieldType  reflect.Type // 原始字段类型
	Index      []int        // 字段索引路径，负数表示指针嵌入 (-i-1)
	PrimaryKey bool
	ForeignKey bool
	DataType   string // 数据库类型，如 int / string / date / json
	Size       int
}

func (c *Column) String() string {
	if c == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%s %v)", c.Name, c.DBName, c.Type)
}

// RelationKind 关联类型
type RelationKind string

const (
	RelationHasOne    RelationKind = "has_one"
	RelationHasMany   RelationKind = "has_many"
	RelationBelongsTo RelationKind = "belongs_to"
	RelationMany2Many RelationKind = "many_to_many"
)

// Relationship 指向另一个模型的属性
type Relationship struct {
	Name      string
	Kind      RelationKind
	Target    reflect.Type // 目标模型的结构体类型
	FieldType reflect.Type // 原始字段类型，*T / T / []T / []*T
	Index     []int
	// has one / has many 时目标模型上指向本模型的外键属性名
	ForeignKeys []string
}

// Model 模型的列与关联描述
type Model struct {
	Name          string
	Table         string
	Type          reflect.Type
	Columns       []*Column
	Relationships []*Relationship
}

// Column 按属性名或列名查找列
func (m *Model) Column(name string) *Column {
	for _, c := range m.Columns {
		if c.Name == name {
			return c
		}
	}
	for _, c := range m.Columns {
		if c.DBName == name {
			return c
		}
	}
	return nil
}

// Relationship 按属性名查找关联
func (m *Model) Relationship(name string) *Relationship {
	for _, r := range m.Relationships {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// Inspector 模型元数据内省服务
type Inspector interface {
	Inspect(t reflect.Type) (*Model, error)
}

// Preloader 预先登记模型，使其关联目标上的外键在单独内省目标时也能被识别
type Preloader interface {
	Preload(models ...any) error
}

// Indirect 去掉所有指针层
func Indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// ModelType 从模型值、指针或 reflect.Type 中得到结构体类型
func ModelType(model any) (reflect.Type, error) {
	if model == nil {
		return nil, fmt.Errorf("model cannot be nil")
	}
	t, ok := model.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(model)
	}
	t = Indirect(t)
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected struct, got %v", t)
	}
	return t, nil
}
