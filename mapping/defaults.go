package mapping

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/hatlonely/fakemodel/coltype"
	"github.com/hatlonely/fakemodel/faker"
	"github.com/hatlonely/fakemodel/schema"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

// 默认映射使用的列类型
var (
	BigInteger   = TypeOf[int64]()
	Boolean      = TypeOf[bool]()
	Date         = TypeOf[datatypes.Date]()
	DateTime     = TypeOf[time.Time]()
	Float        = TypeOf[float64]()
	Integer      = TypeOf[int]()
	Interval     = TypeOf[time.Duration]()
	JSON         = TypeOf[datatypes.JSON]()
	LargeBinary  = TypeOf[[]byte]()
	Numeric      = TypeOf[coltype.Numeric]()
	SmallInteger = TypeOf[int16]()
	String       = TypeOf[string]()
	Time         = TypeOf[datatypes.Time]()
	Unicode      = TypeOf[coltype.Unicode]()
	UnicodeText  = TypeOf[coltype.UnicodeText]()
	JSONMap      = TypeOf[datatypes.JSONMap]()
	UUID         = TypeOf[uuid.UUID]()
)

const (
	smallJSONEntries = 10
	smallBinarySize  = 100
)

// 派生生成器
var (
	CalendarDate    = Func(generateCalendarDate)
	TimeOfDay       = Func(generateTimeOfDay)
	SmallJSONObject = Func(generateSmallJSONObject)
	SmallBinary     = Func(generateSmallBinary)
	UUIDValue       = Func(generateUUID)
)

// DefaultEntries 内置映射，顺序决定祖先匹配的优先级
func DefaultEntries() []Entry {
	return []Entry{
		{BigInteger, Named("Int")},
		{Boolean, Named("Bool")},
		{Date, CalendarDate},
		{DateTime, Named("DateTime")},
		{Float, Named("Float")},
		{Integer, Named("Int")},
		{Interval, Named("Duration")},
		{JSON, SmallJSONObject},
		{LargeBinary, SmallBinary},
		{Numeric, Named("Float")},
		{SmallInteger, Named("Int")},
		{String, Named("Str")},
		{Time, TimeOfDay},
		{Unicode, Named("Str")},
		{UnicodeText, Named("Str")},
		{JSONMap, SmallJSONObject},
		{UUID, UUIDValue},
	}
}

var defaultRegistry = NewRegistry(DefaultEntries()...)

// Default 内置映射，Registry 不可变，可以直接共享
func Default() *Registry {
	return defaultRegistry
}

func generateCalendarDate(f faker.Faker, _ *schema.Column) (any, error) {
	dt := f.DateTime()
	y, m, d := dt.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, dt.Location())), nil
}

func generateTimeOfDay(f faker.Faker, _ *schema.Column) (any, error) {
	dt := f.DateTime()
	return datatypes.NewTime(dt.Hour(), dt.Minute(), dt.Second(), dt.Nanosecond()), nil
}

// generateSmallJSONObject map 类型的列直接返回字典，字符串列返回 JSON 文本，其余返回 JSON 字节
func generateSmallJSONObject(f faker.Faker, col *schema.Column) (any, error) {
	dict := f.Dict(smallJSONEntries)
	if col != nil && col.Type != nil {
		switch col.Type.Kind() {
		case reflect.Map:
			return datatypes.JSONMap(dict), nil
		case reflect.String:
			buf, err := json.Marshal(dict)
			if err != nil {
				return nil, errors.Wrap(err, "json.Marshal failed")
			}
			return string(buf), nil
		}
	}
	buf, err := json.Marshal(dict)
	if err != nil {
		return nil, errors.Wrap(err, "json.Marshal failed")
	}
	return datatypes.JSON(buf), nil
}

func generateSmallBinary(f faker.Faker, _ *schema.Column) (any, error) {
	return f.Binary(smallBinarySize), nil
}

func generateUUID(f faker.Faker, _ *schema.Column) (any, error) {
	u, err := uuid.Parse(f.UUID())
	if err != nil {
		return nil, errors.Wrap(err, "uuid.Parse failed")
	}
	return u, nil
}
