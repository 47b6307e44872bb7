package schema

import (
	"reflect"
	"sort"
	"sync"

	"github.com/pkg/errors"
	gschema "gorm.io/gorm/schema"
)

// GormInspectorOptions gorm 内省选项
type GormInspectorOptions struct {
	// 表名前缀，与 gorm.Config.NamingStrategy 保持一致
	TablePrefix string `cfg:"tablePrefix" yaml:"tablePrefix"`
	// 是否使用单数表名
	SingularTable bool `cfg:"singularTable" yaml:"singularTable"`
}

// GormInspector 基于 gorm schema 解析的内省服务
type GormInspector struct {
	namer gschema.Namer
	cache *sync.Map
}

func NewGormInspectorWithOptions(options *GormInspectorOptions) *GormInspector {
	if options == nil {
		options = &GormInspectorOptions{}
	}
	return &GormInspector{
		namer: gschema.NamingStrategy{
			TablePrefix:   options.TablePrefix,
			SingularTable: options.SingularTable,
		},
		cache: &sync.Map{},
	}
}

func (i *GormInspector) Inspect(t reflect.Type) (*Model, error) {
	t = Indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, errors.Errorf("expected struct type, got %v", t)
	}

	sch, err := gschema.Parse(reflect.New(t).Interface(), i.cache, i.namer)
	if err != nil {
		return nil, errors.Wrapf(err, "parse gorm schema of %v failed", t)
	}

	// 外键：本表上作为引用外键出现的字段。解析 has one / has many 的父模型时，
	// gorm 会把反向关联加到子模型的 schema 上，所以父模型需要先被解析（见 Preload）
	sch.Relationships.Mux.RLock()
	relations := make([]*gschema.Relationship, 0, len(sch.Relationships.Relations))
	for _, rel := range sch.Relationships.Relations {
		relations = append(relations, rel)
	}
	sch.Relationships.Mux.RUnlock()

	foreignKeys := map[string]bool{}
	for _, rel := range relations {
		for _, ref := range rel.References {
			if ref.ForeignKey != nil && ref.ForeignKey.Schema != nil && ref.ForeignKey.Schema.ModelType == sch.ModelType {
				foreignKeys[ref.ForeignKey.Name] = true
			}
		}
	}

	model := &Model{
		Name:  sch.Name,
		Table: sch.Table,
		Type:  t,
	}

	for _, field := range sch.Fields {
		if field.DBName == "" || !(field.Creatable || field.Updatable || field.Readable) {
			continue
		}
		model.Columns = append(model.Columns, &Column{
			Name:       field.Name,
			DBName:     field.DBName,
			Type:       Indirect(field.FieldType),
			FieldType:  field.FieldType,
			Index:      field.StructField.Index,
			PrimaryKey: field.PrimaryKey,
			ForeignKey: foreignKeys[field.Name],
			DataType:   string(field.DataType),
			Size:       field.Size,
		})
	}

	for _, rel := range relations {
		// 反向关联的字段属于父模型
		if rel.Field == nil || rel.FieldSchema == nil || rel.Schema != sch {
			continue
		}
		var targetKeys []string
		for _, ref := range rel.References {
			if ref.ForeignKey != nil && ref.ForeignKey.Schema != nil && ref.ForeignKey.Schema.ModelType == rel.FieldSchema.ModelType && rel.FieldSchema.ModelType != sch.ModelType {
				targetKeys = append(targetKeys, ref.ForeignKey.Name)
			}
		}
		model.Relationships = append(model.Relationships, &Relationship{
			Name:        rel.Name,
			Kind:        RelationKind(rel.Type),
			Target:      rel.FieldSchema.ModelType,
			FieldType:   rel.Field.FieldType,
			Index:       rel.Field.StructField.Index,
			ForeignKeys: targetKeys,
		})
	}
	// Relations 是 map，按字段声明顺序排序
	sort.Slice(model.Relationships, func(a, b int) bool {
		return lessIndex(model.Relationships[a].Index, model.Relationships[b].Index)
	})

	return model, nil
}

// Preload 解析 models 及其关联目标，之后单独内省 has one / has many 的目标模型时外键也会被标记
func (i *GormInspector) Preload(models ...any) error {
	for _, model := range models {
		t, err := ModelType(model)
		if err != nil {
			return errors.WithMessage(err, "ModelType failed")
		}
		if _, err := gschema.Parse(reflect.New(t).Interface(), i.cache, i.namer); err != nil {
			return errors.Wrapf(err, "parse gorm schema of %v failed", t)
		}
	}
	return nil
}

func lessIndex(a, b []int) bool {
	for k := 0; k < len(a) && k < len(b); k++ {
		x, y := a[k], b[k]
		if x < 0 {
			x = -x - 1
		}
		if y < 0 {
			y = -y - 1
		}
		if x != y {
			return x < y
		}
	}
	return len(a) < len(b)
}
