package faker

import (
	"math/rand/v2"
	"time"

	gofaker "github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/hatlonely/fakemodel/cfg"
	"github.com/pkg/errors"
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

type GoFakerOptions struct {
	// 随机种子，0 表示随机；只影响数值、字符串、时间类的生成
	Seed uint64 `cfg:"seed"`

	IntMin int64 `cfg:"intMin" yaml:"intMin" def:"0"`
	IntMax int64 `cfg:"intMax" yaml:"intMax" def:"9999" validate:"gtefield=IntMin"`

	StrLength int `cfg:"strLength" yaml:"strLength" def:"20" validate:"gte=1"`

	// 浮点数取值范围 [-FloatMax, FloatMax)
	FloatMax float64 `cfg:"floatMax" yaml:"floatMax" def:"10000" validate:"gt=0"`

	MaxDuration time.Duration `cfg:"maxDuration" yaml:"maxDuration" def:"720h" validate:"gt=0"`

	// 时间范围 [Since, now)
	Since time.Time `cfg:"since" yaml:"since" def:"1970-01-01T00:00:00Z"`

	UUIDVersion string `cfg:"uuidVersion" yaml:"uuidVersion" def:"v4" validate:"oneof=v1 v4 v6 v7"`

	// ID() 使用的 snowflake 配置
	Snowflake SnowflakeOptions `cfg:"snowflake" yaml:"snowflake"`
}

// GoFaker 基于 go-faker 与 math/rand 的 Faker 实现，非并发安全
type GoFaker struct {
	rnd       *rand.Rand
	snowflake *Snowflake
	options   GoFakerOptions
}

func NewGoFakerWithOptions(options *GoFakerOptions) (*GoFaker, error) {
	if options == nil {
		options = &GoFakerOptions{}
	}
	opts := *options
	if err := cfg.SetDefaults(&opts); err != nil {
		return nil, errors.WithMessage(err, "cfg.SetDefaults failed")
	}
	if err := cfg.Validate(&opts); err != nil {
		return nil, errors.WithMessage(err, "cfg.Validate failed")
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	return &GoFaker{
		rnd:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		snowflake: NewSnowflakeWithOptions(&opts.Snowflake),
		options:   opts,
	}, nil
}

// Int [IntMin, IntMax] 内的整数，区间跨度按 uint64 计算，覆盖整个 int64 时直接取随机数
func (f *GoFaker) Int() int64 {
	span := uint64(f.options.IntMax) - uint64(f.options.IntMin) + 1
	if span == 0 {
		return int64(f.rnd.Uint64())
	}
	return f.options.IntMin + int64(f.rnd.Uint64N(span))
}

func (f *GoFaker) Bool() bool {
	return f.rnd.IntN(2) == 1
}

func (f *GoFaker) Float() float64 {
	return (f.rnd.Float64()*2 - 1) * f.options.FloatMax
}

func (f *GoFaker) Str() string {
	buf := make([]byte, f.options.StrLength)
	for i := range buf {
		buf[i] = letters[f.rnd.IntN(len(letters))]
	}
	return string(buf)
}

func (f *GoFaker) DateTime() time.Time {
	since := f.options.Since.Unix()
	now := time.Now().Unix()
	if now <= since {
		return time.Unix(since, 0).UTC()
	}
	return time.Unix(since+f.rnd.Int64N(now-since), 0).UTC()
}

func (f *GoFaker) Duration() time.Duration {
	return time.Duration(f.rnd.Int64N(int64(f.options.MaxDuration)))
}

func (f *GoFaker) UUID() string {
	var u uuid.UUID
	var err error
	switch f.options.UUIDVersion {
	case "v1":
		u, err = uuid.NewUUID()
	case "v6":
		u, err = uuid.NewV6()
	case "v7":
		u, err = uuid.NewV7()
	default:
		u, err = uuid.NewRandom()
	}
	if err != nil {
		return uuid.NewString()
	}
	return u.String()
}

// ID 全局唯一的递增整数，不受 Seed 影响
func (f *GoFaker) ID() int64 {
	return f.snowflake.Next()
}

func (f *GoFaker) Word() string {
	return gofaker.Word()
}

func (f *GoFaker) Sentence() string {
	return gofaker.Sentence()
}

func (f *GoFaker) Name() string {
	return gofaker.Name()
}

func (f *GoFaker) Email() string {
	return gofaker.Email()
}

func (f *GoFaker) Binary(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(f.rnd.Uint32())
	}
	return buf
}

func (f *GoFaker) Dict(n int) map[string]any {
	dict := map[string]any{}
	if n <= 0 {
		return dict
	}
	// 键重复时覆盖，条目数可能少于 size
	size := 1 + f.rnd.IntN(n)
	for i := 0; i < size; i++ {
		key := gofaker.Word()
		switch f.rnd.IntN(3) {
		case 0:
			dict[key] = f.Str()
		case 1:
			dict[key] = f.Int()
		default:
			dict[key] = f.Bool()
		}
	}
	return dict
}
