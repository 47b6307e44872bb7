package faker

import (
	"time"
)

// Faker 随机值生成服务
// 零参数方法可以通过名字被 mapping.Named 引用
type Faker interface {
	Int() int64
	Bool() bool
	Float() float64
	Str() string
	DateTime() time.Time
	Duration() time.Duration
	UUID() string
	// ID 唯一的递增整数，适合作为主键
	ID() int64
	Word() string
	Sentence() string
	Name() string
	Email() string

	// Binary 生成 n 个字节的随机二进制
	Binary(n int) []byte
	// Dict 生成最多 n 个条目的字典，键为字符串，值为 string / int64 / bool
	Dict(n int) map[string]any
}
