package schema

import (
	"reflect"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"gorm.io/gorm"
)

type Category struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

type Widget struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:64"`
	Weight     *float64
	CategoryID *uint
	Category   *Category
	Parts      []Part
	Ignored    string `gorm:"-"`
}

type Part struct {
	ID       uint `gorm:"primaryKey"`
	WidgetID uint
	Label    string
}

type Node struct {
	ID       uint `gorm:"primaryKey"`
	Value    string
	ParentID *uint
	Parent   *Node
	Children []Node `gorm:"foreignKey:ParentID"`
}

type Audited struct {
	gorm.Model
	Note      string
	CheckedAt time.Time
}

func TestGormInspector(t *testing.T) {
	Convey("GormInspector", t, func() {
		inspector := NewGormInspectorWithOptions(nil)

		Convey("列与主键", func() {
			model, err := inspector.Inspect(reflect.TypeOf(Widget{}))
			So(err, ShouldBeNil)
			So(model.Table, ShouldEqual, "widgets")
			So(model.Type, ShouldEqual, reflect.TypeOf(Widget{}))

			var names []string
			for _, c := range model.Columns {
				names = append(names, c.Name)
			}
			So(names, ShouldResemble, []string{"ID", "Name", "Weight", "CategoryID"})

			So(model.Column("ID").PrimaryKey, ShouldBeTrue)
			So(model.Column("name").DBName, ShouldEqual, "name")
			So(model.Column("Name").Size, ShouldEqual, 64)
			So(model.Column("Weight").Type, ShouldEqual, reflect.TypeOf(float64(0)))
			So(model.Column("Weight").FieldType, ShouldEqual, reflect.TypeOf((*float64)(nil)))
		})

		Convey("外键只标记本表字段", func() {
			model, err := inspector.Inspect(reflect.TypeOf(&Widget{}))
			So(err, ShouldBeNil)
			So(model.Column("CategoryID").ForeignKey, ShouldBeTrue)
			So(model.Column("ID").ForeignKey, ShouldBeFalse)
			So(model.Column("Name").ForeignKey, ShouldBeFalse)
		})

		Convey("关联按声明顺序排列", func() {
			model, err := inspector.Inspect(reflect.TypeOf(Widget{}))
			So(err, ShouldBeNil)
			So(len(model.Relationships), ShouldEqual, 2)

			So(model.Relationships[0].Name, ShouldEqual, "Category")
			So(model.Relationships[0].Kind, ShouldEqual, RelationBelongsTo)
			So(model.Relationships[0].Target, ShouldEqual, reflect.TypeOf(Category{}))

			So(model.Relationships[1].Name, ShouldEqual, "Parts")
			So(model.Relationships[1].Kind, ShouldEqual, RelationHasMany)
			So(model.Relationships[1].Target, ShouldEqual, reflect.TypeOf(Part{}))
			So(model.Relationships[1].ForeignKeys, ShouldResemble, []string{"WidgetID"})
			So(model.Relationships[0].ForeignKeys, ShouldBeEmpty)
		})

		Convey("has many 目标的外键", func() {
			// 父模型未解析时子模型自身的 schema 不包含外键信息
			model, err := inspector.Inspect(reflect.TypeOf(Part{}))
			So(err, ShouldBeNil)
			So(model.Column("WidgetID").ForeignKey, ShouldBeFalse)

			So(inspector.Preload(Widget{}), ShouldBeNil)
			model, err = inspector.Inspect(reflect.TypeOf(Part{}))
			So(err, ShouldBeNil)
			So(model.Column("WidgetID").ForeignKey, ShouldBeTrue)
			So(model.Column("Label").ForeignKey, ShouldBeFalse)
			// 反向关联不是 Part 的属性
			So(model.Relationships, ShouldBeEmpty)

			So(inspector.Preload(1), ShouldNotBeNil)
		})

		Convey("自引用模型", func() {
			model, err := inspector.Inspect(reflect.TypeOf(Node{}))
			So(err, ShouldBeNil)
			So(model.Column("ParentID").ForeignKey, ShouldBeTrue)
			So(model.Relationship("Parent").Target, ShouldEqual, reflect.TypeOf(Node{}))
			So(model.Relationship("Children").Kind, ShouldEqual, RelationHasMany)
		})

		Convey("嵌入字段的索引路径", func() {
			model, err := inspector.Inspect(reflect.TypeOf(Audited{}))
			So(err, ShouldBeNil)
			So(model.Column("ID").Index, ShouldResemble, []int{0, 0})
			So(model.Column("ID").PrimaryKey, ShouldBeTrue)
			So(model.Column("Note").Index, ShouldResemble, []int{1})
			So(model.Column("CheckedAt").Type, ShouldEqual, reflect.TypeOf(time.Time{}))
		})

		Convey("表名前缀与单数表名", func() {
			inspector := NewGormInspectorWithOptions(&GormInspectorOptions{TablePrefix: "t_", SingularTable: true})
			model, err := inspector.Inspect(reflect.TypeOf(Category{}))
			So(err, ShouldBeNil)
			So(model.Table, ShouldEqual, "t_category")
		})

		Convey("非结构体类型", func() {
			_, err := inspector.Inspect(reflect.TypeOf(""))
			So(err, ShouldNotBeNil)
		})
	})
}
