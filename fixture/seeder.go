package fixture

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/hatlonely/fakemodel/cfg"
	"github.com/hatlonely/fakemodel/faker"
	"github.com/hatlonely/fakemodel/log"
	"github.com/hatlonely/fakemodel/materializer"
	"github.com/hatlonely/fakemodel/schema"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type SeederOptions struct {
	// 写入前自动建表，每个模型只迁移一次
	AutoMigrate bool `cfg:"autoMigrate" yaml:"autoMigrate"`

	BatchSize int `cfg:"batchSize" yaml:"batchSize" def:"100" validate:"gte=1"`

	// 主键来源：db 由数据库生成；snowflake 为整数主键写入 snowflake ID，为字符串主键写入 UUID
	PrimaryKey string `cfg:"primaryKey" yaml:"primaryKey" def:"db" validate:"oneof=db snowflake"`

	Snowflake faker.SnowflakeOptions `cfg:"snowflake" yaml:"snowflake"`

	Logger log.Logger `cfg:"-" yaml:"-" json:"-" toml:"-" validate:"-"`
}

// Seeder 生成模型实例并写入数据库
type Seeder struct {
	db           *gorm.DB
	materializer *materializer.Materializer
	snowflake    *faker.Snowflake
	logger       log.Logger
	options      SeederOptions
	migrated     sync.Map
}

// NewSeederWithOptions m 为空时使用 materializer.Default()
func NewSeederWithOptions(db *gorm.DB, m *materializer.Materializer, options *SeederOptions) (*Seeder, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	if m == nil {
		m = materializer.Default()
	}
	if options == nil {
		options = &SeederOptions{}
	}
	opts := *options
	if err := cfg.SetDefaults(&opts); err != nil {
		return nil, errors.WithMessage(err, "cfg.SetDefaults failed")
	}
	if err := cfg.Validate(&opts); err != nil {
		return nil, errors.WithMessage(err, "cfg.Validate failed")
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Seeder{
		db:           db,
		materializer: m,
		snowflake:    faker.NewSnowflakeWithOptions(&opts.Snowflake),
		logger:       logger.With("module", "seeder"),
		options:      opts,
	}, nil
}

// Seed 生成 n 个 model 实例并批量写入，返回 []*T
// opts 与 Materialize 相同，WithRelated 生成的关联由 gorm 一并写入
func (s *Seeder) Seed(ctx context.Context, model any, n int, opts ...materializer.Option) (any, error) {
	t, err := schema.ModelType(model)
	if err != nil {
		return nil, errors.WithMessage(err, "schema.ModelType failed")
	}

	rows := reflect.MakeSlice(reflect.SliceOf(reflect.PointerTo(t)), 0, max(n, 0))
	if n <= 0 {
		return rows.Interface(), nil
	}

	if s.options.AutoMigrate {
		if _, ok := s.migrated.Load(t); !ok {
			if err := s.db.WithContext(ctx).AutoMigrate(reflect.New(t).Interface()); err != nil {
				return nil, errors.Wrapf(err, "auto migrate %v failed", t)
			}
			s.migrated.Store(t, true)
		}
	}

	var primaryKeys []*schema.Column
	if s.options.PrimaryKey == "snowflake" {
		md, err := s.materializer.Inspect(t)
		if err != nil {
			return nil, errors.WithMessage(err, "materializer.Inspect failed")
		}
		for _, col := range md.Columns {
			if col.PrimaryKey {
				primaryKeys = append(primaryKeys, col)
			}
		}
	}

	for i := 0; i < n; i++ {
		// 主键覆盖在前，调用方的覆盖值优先
		callOpts := append(s.primaryKeyOverrides(primaryKeys), opts...)
		v, err := s.materializer.MaterializeContext(ctx, t, callOpts...)
		if err != nil {
			return nil, errors.WithMessagef(err, "materialize %v failed", t)
		}
		rows = reflect.Append(rows, reflect.ValueOf(v))
	}

	if err := s.db.WithContext(ctx).CreateInBatches(rows.Interface(), s.options.BatchSize).Error; err != nil {
		return nil, errors.Wrapf(err, "create %v failed", t)
	}
	s.logger.InfoContext(ctx, "seed models", "model", t.Name(), "count", n)

	return rows.Interface(), nil
}

func (s *Seeder) primaryKeyOverrides(columns []*schema.Column) []materializer.Option {
	var opts []materializer.Option
	for _, col := range columns {
		switch col.Type.Kind() {
		case reflect.String:
			opts = append(opts, materializer.WithOverride(col.Name, uuid.NewString()))
		case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
			opts = append(opts, materializer.WithOverride(col.Name, s.snowflake.Next()))
		}
	}
	return opts
}

// SeedT 同 Seed，返回类型化的结果
func SeedT[T any](ctx context.Context, s *Seeder, n int, opts ...materializer.Option) ([]*T, error) {
	rows, err := s.Seed(ctx, reflect.TypeOf((*T)(nil)).Elem(), n, opts...)
	if err != nil {
		return nil, err
	}
	result, ok := rows.([]*T)
	if !ok {
		return nil, errors.Errorf("expected []*%v, got %T", reflect.TypeOf((*T)(nil)).Elem(), rows)
	}
	return result, nil
}
