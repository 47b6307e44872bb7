package schema

import (
	"reflect"
	"testing"
	"time"
)

// 测试用的结构体
type User struct {
	ID       int64     `rdb:"id,primary"`
	Username string    `rdb:"username,size=50"`
	Age      int       `rdb:"age"`
	IsActive bool      `rdb:"is_active"`
	Score    *float64  `rdb:"score"`
	CreateAt time.Time `rdb:"created_at"`
	Avatar   []byte    `rdb:"avatar"`
	// 忽略的字段
	TempData string `rdb:"-"`
	internal string
}

type Post struct {
	ID       int64   `rdb:"id,pk"`
	AuthorID int64   `rdb:"author_id,fk"`
	Title    string  `rdb:"title,type=text"`
	Author   *User   `rdb:",rel"`
	Readers  []*User `rdb:",rel"`
}

type CustomTableStruct struct {
	ID   int64  `rdb:"id,primary"`
	Name string `rdb:"name"`
}

func (CustomTableStruct) Table() string {
	return "custom_table_name"
}

type BadRelation struct {
	Tags []string `rdb:",rel"`
}

func TestTagInspector_Inspect(t *testing.T) {
	inspector := NewTagInspector()

	t.Run("User struct", func(t *testing.T) {
		model, err := inspector.Inspect(reflect.TypeOf(User{}))
		if err != nil {
			t.Fatalf("Failed to inspect model: %v", err)
		}

		if model.Table != "user" {
			t.Errorf("Expected table name user, got %s", model.Table)
		}

		// id, username, age, is_active, score, created_at, avatar
		if len(model.Columns) != 7 {
			t.Fatalf("Expected 7 columns, got %d", len(model.Columns))
		}
		if len(model.Relationships) != 0 {
			t.Errorf("Expected no relationships, got %d", len(model.Relationships))
		}

		id := model.Column("id")
		if id == nil || !id.PrimaryKey || id.Name != "ID" {
			t.Errorf("Expected primary key column ID, got %v", id)
		}

		username := model.Column("Username")
		if username == nil || username.Size != 50 || username.DataType != "string" {
			t.Errorf("Unexpected username column %+v", username)
		}

		score := model.Column("score")
		if score.Type != reflect.TypeOf(float64(0)) {
			t.Errorf("Expected score type to be indirected to float64, got %v", score.Type)
		}
		if score.FieldType != reflect.TypeOf((*float64)(nil)) {
			t.Errorf("Expected score field type *float64, got %v", score.FieldType)
		}

		if model.Column("created_at").DataType != "time" {
			t.Errorf("Expected created_at data type time, got %s", model.Column("created_at").DataType)
		}
		if model.Column("avatar").DataType != "bytes" {
			t.Errorf("Expected avatar data type bytes, got %s", model.Column("avatar").DataType)
		}
		if model.Column("TempData") != nil {
			t.Error("Expected TempData to be ignored")
		}
	})

	t.Run("Post struct with relations", func(t *testing.T) {
		model, err := inspector.Inspect(reflect.TypeOf(&Post{}))
		if err != nil {
			t.Fatalf("Failed to inspect model: %v", err)
		}

		if len(model.Columns) != 3 {
			t.Fatalf("Expected 3 columns, got %d", len(model.Columns))
		}
		if !model.Column("author_id").ForeignKey {
			t.Error("Expected author_id to be a foreign key")
		}
		if model.Column("title").DataType != "text" {
			t.Errorf("Expected title data type text, got %s", model.Column("title").DataType)
		}

		if len(model.Relationships) != 2 {
			t.Fatalf("Expected 2 relationships, got %d", len(model.Relationships))
		}
		author := model.Relationship("Author")
		if author.Target != reflect.TypeOf(User{}) || author.Kind != RelationBelongsTo {
			t.Errorf("Unexpected author relationship %+v", author)
		}
		readers := model.Relationship("Readers")
		if readers.Target != reflect.TypeOf(User{}) || readers.Kind != RelationHasMany {
			t.Errorf("Unexpected readers relationship %+v", readers)
		}
	})

	t.Run("Custom table name", func(t *testing.T) {
		model, err := inspector.Inspect(reflect.TypeOf(CustomTableStruct{}))
		if err != nil {
			t.Fatalf("Failed to inspect model: %v", err)
		}
		if model.Table != "custom_table_name" {
			t.Errorf("Expected table name custom_table_name, got %s", model.Table)
		}
	})

	t.Run("Invalid relation", func(t *testing.T) {
		if _, err := inspector.Inspect(reflect.TypeOf(BadRelation{})); err == nil {
			t.Error("Expected error for non-struct relation")
		}
	})

	t.Run("Not a struct", func(t *testing.T) {
		if _, err := inspector.Inspect(reflect.TypeOf(1)); err == nil {
			t.Error("Expected error for non-struct type")
		}
	})
}

func TestModelType(t *testing.T) {
	for _, model := range []any{User{}, &User{}, reflect.TypeOf(User{}), reflect.TypeOf(&User{})} {
		mt, err := ModelType(model)
		if err != nil {
			t.Fatalf("ModelType(%T) failed: %v", model, err)
		}
		if mt != reflect.TypeOf(User{}) {
			t.Errorf("Expected User, got %v", mt)
		}
	}

	if _, err := ModelType(nil); err == nil {
		t.Error("Expected error for nil model")
	}
	if _, err := ModelType("string"); err == nil {
		t.Error("Expected error for non-struct model")
	}
}
