package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// TagInspector 从 rdb tag 中解析模型，不依赖 gorm
// 支持的 tag 格式：
// - `rdb:"column_name,type=string,size=255,primary,fk"`
// - `rdb:"-"` 忽略字段
// - `rdb:",rel"` 关联字段，字段类型为 *T / T / []T / []*T
// - `table:"table_name"` 用于指定表名（在任意字段上）
type TagInspector struct{}

func NewTagInspector() *TagInspector {
	return &TagInspector{}
}

func (i *TagInspector) Inspect(t reflect.Type) (*Model, error) {
	t = Indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected struct type, got %v", t)
	}

	model := &Model{
		Name:  t.Name(),
		Table: i.tableName(t),
		Type:  t,
	}

	for k := 0; k < t.NumField(); k++ {
		field := t.Field(k)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("rdb")
		if tag == "-" {
			continue
		}

		column, isRelation, err := i.parseFieldTag(field, tag)
		if err != nil {
			return nil, fmt.Errorf("failed to parse field %s: %v", field.Name, err)
		}

		if isRelation {
			target := relationTarget(field.Type)
			if target == nil {
				return nil, fmt.Errorf("field %s: relation must be a struct, pointer or slice of struct, got %v", field.Name, field.Type)
			}
			kind := RelationBelongsTo
			if Indirect(field.Type).Kind() == reflect.Slice {
				kind = RelationHasMany
			}
			model.Relationships = append(model.Relationships, &Relationship{
				Name:      field.Name,
				Kind:      kind,
				Target:    target,
				FieldType: field.Type,
				Index:     field.Index,
			})
			continue
		}

		model.Columns = append(model.Columns, column)
	}

	return model, nil
}

// tableName Table() 方法优先，其次 table tag，最后使用结构体名的小写形式
func (i *TagInspector) tableName(t reflect.Type) string {
	if tabler, ok := reflect.New(t).Interface().(interface{ Table() string }); ok {
		return tabler.Table()
	}
	for k := 0; k < t.NumField(); k++ {
		if tableTag := t.Field(k).Tag.Get("table"); tableTag != "" {
			return tableTag
		}
	}
	return strings.ToLower(t.Name())
}

// parseFieldTag 解析字段的 rdb tag
func (i *TagInspector) parseFieldTag(field reflect.StructField, tag string) (*Column, bool, error) {
	column := &Column{
		Name:      field.Name,
		DBName:    field.Name,
		Type:      Indirect(field.Type),
		FieldType: field.Type,
		Index:     field.Index,
		DataType:  inferDataType(field.Type),
	}

	if tag == "" {
		return column, false, nil
	}

	parts := strings.Split(tag, ",")

	// 第一部分是列名（如果指定）
	if parts[0] != "" && !strings.Contains(parts[0], "=") {
		column.DBName = strings.TrimSpace(parts[0])
		parts = parts[1:]
	}

	var isRelation bool
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if strings.Contains(part, "=") {
			kv := strings.SplitN(part, "=", 2)
			key := strings.TrimSpace(kv[0])
			value := strings.TrimSpace(kv[1])

			switch key {
			case "type":
				column.DataType = value
			case "size":
				size, err := strconv.Atoi(value)
				if err != nil {
					return nil, false, fmt.Errorf("invalid size %q", value)
				}
				column.Size = size
			}
			continue
		}

		switch part {
		case "primary", "pk":
			column.PrimaryKey = true
		case "fk", "foreign":
			column.ForeignKey = true
		case "rel", "relation":
			isRelation = true
		}
	}

	return column, isRelation, nil
}

var timeType = reflect.TypeOf(time.Time{})

// inferDataType 从 Go 类型推断数据库类型
func inferDataType(t reflect.Type) string {
	t = Indirect(t)

	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Bool:
		return "bool"
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return "bytes"
		}
	}
	if t.ConvertibleTo(timeType) {
		return "time"
	}
	return "json"
}

func relationTarget(t reflect.Type) reflect.Type {
	t = Indirect(t)
	if t.Kind() == reflect.Slice {
		t = Indirect(t.Elem())
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return t
}
