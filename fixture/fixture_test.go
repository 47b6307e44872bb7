package fixture

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/hatlonely/fakemodel/log"
	"github.com/hatlonely/fakemodel/materializer"
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
}

type Part struct {
	ID       uint `gorm:"primaryKey" json:"id" yaml:"id" msgpack:"id"`
	WidgetID uint `json:"widgetID" yaml:"widgetID" msgpack:"widgetID"`
	Label    string `json:"label" yaml:"label" msgpack:"label"`
}

type Tag struct {
	Code  string `gorm:"primaryKey;size:36"`
	Label string
}

func openDB(t *testing.T) *gorm.DB {
	db, err := Open(&DBOptions{DSN: filepath.Join(t.TempDir(), "fixture.db")})
	So(err, ShouldBeNil)
	return db
}

func newMaterializer() *materializer.Materializer {
	m, err := materializer.NewMaterializerWithOptions(&materializer.Options{LoggerImpl: log.Discard()})
	So(err, ShouldBeNil)
	return m
}

func TestOpen(t *testing.T) {
	Convey("Open", t, func() {
		_, err := Open(nil)
		So(err, ShouldNotBeNil)

		_, err = Open(&DBOptions{})
		So(err, ShouldNotBeNil)

		_, err = Open(&DBOptions{Driver: "postgres", DSN: "host=localhost"})
		So(err, ShouldNotBeNil)

		db := openDB(t)
		So(db.Dialector.Name(), ShouldEqual, "sqlite")
	})
}

func TestSeeder(t *testing.T) {
	Convey("Seeder", t, func() {
		ctx := context.Background()
		db := openDB(t)
		m := newMaterializer()

		Convey("自动建表并由数据库生成主键", func() {
			seeder, err := NewSeederWithOptions(db, m, &SeederOptions{AutoMigrate: true, Logger: log.Discard()})
			So(err, ShouldBeNil)

			widgets, err := SeedT[Widget](ctx, seeder, 3)
			So(err, ShouldBeNil)
			So(widgets, ShouldHaveLength, 3)
			for _, w := range widgets {
				So(w.ID, ShouldBeGreaterThan, uint(0))
				So(w.Name, ShouldNotBeEmpty)
				So(w.CategoryID, ShouldBeNil)
			}

			var count int64
			So(db.Model(&Widget{}).Count(&count).Error, ShouldBeNil)
			So(count, ShouldEqual, int64(3))

			var stored Widget
			So(db.First(&stored, widgets[0].ID).Error, ShouldBeNil)
			So(stored.Name, ShouldEqual, widgets[0].Name)
		})

		Convey("关联一并写入", func() {
			So(db.AutoMigrate(&Category{}, &Widget{}, &Part{}), ShouldBeNil)
			seeder, err := NewSeederWithOptions(db, m, &SeederOptions{Logger: log.Discard()})
			So(err, ShouldBeNil)

			widgets, err := SeedT[Widget](ctx, seeder, 2, materializer.WithRelated())
			So(err, ShouldBeNil)
			So(widgets[0].Category, ShouldNotBeNil)
			So(widgets[0].CategoryID, ShouldNotBeNil)
			So(*widgets[0].CategoryID, ShouldEqual, widgets[0].Category.ID)

			var categories, parts int64
			So(db.Model(&Category{}).Count(&categories).Error, ShouldBeNil)
			So(db.Model(&Part{}).Count(&parts).Error, ShouldBeNil)
			So(categories, ShouldEqual, int64(2))
			So(parts, ShouldEqual, int64(2))

			var part Part
			So(db.Where("widget_id = ?", widgets[1].ID).First(&part).Error, ShouldBeNil)
			So(part.Label, ShouldEqual, widgets[1].Parts[0].Label)
		})

		Convey("snowflake 主键", func() {
			seeder, err := NewSeederWithOptions(db, m, &SeederOptions{AutoMigrate: true, PrimaryKey: "snowflake", BatchSize: 2, Logger: log.Discard()})
			So(err, ShouldBeNil)

			widgets, err := SeedT[Widget](ctx, seeder, 5)
			So(err, ShouldBeNil)
			ids := map[uint]bool{}
			for _, w := range widgets {
				ids[w.ID] = true
			}
			So(ids, ShouldHaveLength, 5)

			tags, err := SeedT[Tag](ctx, seeder, 2)
			So(err, ShouldBeNil)
			_, err = uuid.Parse(tags[0].Code)
			So(err, ShouldBeNil)

			// 调用方的覆盖值优先
			tags, err = SeedT[Tag](ctx, seeder, 1, materializer.WithOverride("Code", "fixed"))
			So(err, ShouldBeNil)
			So(tags[0].Code, ShouldEqual, "fixed")
		})

		Convey("Seed 返回切片", func() {
			seeder, err := NewSeederWithOptions(db, nil, &SeederOptions{AutoMigrate: true, Logger: log.Discard()})
			So(err, ShouldBeNil)

			rows, err := seeder.Seed(ctx, &Part{}, 0)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveSameTypeAs, []*Part{})

			_, err = seeder.Seed(ctx, 1, 1)
			So(err, ShouldNotBeNil)

			_, err = SeedT[Widget](ctx, seeder, 1, materializer.WithOverride("Missing", 1))
			So(err, ShouldNotBeNil)
		})

		Convey("非法选项", func() {
			_, err := NewSeederWithOptions(nil, m, nil)
			So(err, ShouldNotBeNil)
			_, err = NewSeederWithOptions(db, m, &SeederOptions{PrimaryKey: "random"})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSerializer(t *testing.T) {
	Convey("Serializer", t, func() {
		m := newMaterializer()
		part, err := materializer.Fake[Part](m, materializer.WithPrimaryKeys())
		So(err, ShouldBeNil)

		for _, format := range []string{"json", "yaml", "msgpack"} {
			data, err := Encode(format, part)
			So(err, ShouldBeNil)
			decoded, err := Decode[*Part](format, data)
			So(err, ShouldBeNil)
			So(decoded, ShouldResemble, part)
		}

		_, err = Encode("xml", part)
		So(err, ShouldNotBeNil)
		_, err = Decode[Part]("json", []byte("{"))
		So(err, ShouldNotBeNil)
	})
}
