package materializer

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync/atomic"
	"time"

	"github.com/hatlonely/fakemodel/cfg"
	"github.com/hatlonely/fakemodel/faker"
	"github.com/hatlonely/fakemodel/log"
	"github.com/hatlonely/fakemodel/mapping"
	"github.com/hatlonely/fakemodel/schema"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Options struct {
	// 组件名称，作为指标名前缀与 span 的 component 属性
	Name string `cfg:"name" yaml:"name" json:"name" toml:"name" def:"fakemodel" validate:"required"`

	// 是否为每次 Materialize 创建 span
	EnableTracing bool `cfg:"enableTracing" yaml:"enableTracing" json:"enableTracing" toml:"enableTracing"`

	Faker faker.GoFakerOptions `cfg:"faker" yaml:"faker" json:"faker" toml:"faker"`

	// 模型内省方式：gorm 使用 gorm 的 schema 解析，tag 使用 rdb tag
	Inspector string                      `cfg:"inspector" yaml:"inspector" json:"inspector" toml:"inspector" def:"gorm" validate:"oneof=gorm tag"`
	Gorm      schema.GormInspectorOptions `cfg:"gorm" yaml:"gorm" json:"gorm" toml:"gorm"`

	// 关联递归的最大深度，0 表示不限制，环总是会被截断
	MaxDepth int `cfg:"maxDepth" yaml:"maxDepth" json:"maxDepth" toml:"maxDepth" validate:"gte=0"`

	// 为空时使用 log.Default()
	Logger *log.Options `cfg:"logger" yaml:"logger" json:"logger" toml:"logger"`

	// 以下字段只能在代码中注入，非空时优先于上面的配置
	Registry      *mapping.Registry     `cfg:"-" yaml:"-" json:"-" toml:"-" validate:"-"`
	FakerImpl     faker.Faker           `cfg:"-" yaml:"-" json:"-" toml:"-" validate:"-"`
	InspectorImpl schema.Inspector      `cfg:"-" yaml:"-" json:"-" toml:"-" validate:"-"`
	LoggerImpl    log.Logger            `cfg:"-" yaml:"-" json:"-" toml:"-" validate:"-"`
	Registerer    prometheus.Registerer `cfg:"-" yaml:"-" json:"-" toml:"-" validate:"-"`

	// 预先登记的模型，作为 has one / has many 目标的模型单独生成时外键也不会被生成
	Models []any `cfg:"-" yaml:"-" json:"-" toml:"-" validate:"-"`
}

// Materializer 根据模型的列类型生成属性值并构造模型实例
//
// 类型映射保存在一个原子替换的快照里，一次 Materialize 调用自始至终使用同一个快照，
// Register/Reset 不会影响正在进行的调用。Faker 默认实现不是并发安全的，
// 并发使用时需要每个 goroutine 各自创建 Materializer
type Materializer struct {
	registry  atomic.Pointer[mapping.Registry]
	faker     faker.Faker
	inspector schema.Inspector
	logger    log.Logger
	maxDepth  int
	metrics   *metrics
	tracer    trace.Tracer
	name      string
}

func NewMaterializerWithOptions(options *Options) (*Materializer, error) {
	if options == nil {
		options = &Options{}
	}
	opts := *options
	if opts.Logger != nil {
		loggerOptions := *opts.Logger
		opts.Logger = &loggerOptions
	}
	if err := cfg.SetDefaults(&opts); err != nil {
		return nil, errors.WithMessage(err, "cfg.SetDefaults failed")
	}
	if err := cfg.Validate(&opts); err != nil {
		return nil, errors.WithMessage(err, "cfg.Validate failed")
	}

	f := opts.FakerImpl
	if f == nil {
		gf, err := faker.NewGoFakerWithOptions(&opts.Faker)
		if err != nil {
			return nil, errors.WithMessage(err, "faker.NewGoFakerWithOptions failed")
		}
		f = gf
	}

	inspector := opts.InspectorImpl
	if inspector == nil {
		switch opts.Inspector {
		case "tag":
			inspector = schema.NewTagInspector()
		default:
			inspector = schema.NewGormInspectorWithOptions(&opts.Gorm)
		}
	}
	if preloader, ok := inspector.(schema.Preloader); ok && len(opts.Models) > 0 {
		if err := preloader.Preload(opts.Models...); err != nil {
			return nil, errors.WithMessage(err, "inspector.Preload failed")
		}
	}

	logger := opts.LoggerImpl
	if logger == nil && opts.Logger != nil {
		l, err := log.NewLogWithOptions(opts.Logger)
		if err != nil {
			return nil, errors.WithMessage(err, "log.NewLogWithOptions failed")
		}
		logger = l
	}
	if logger == nil {
		logger = log.Default()
	}

	metrics, err := newMetrics(opts.Name, opts.Registerer)
	if err != nil {
		return nil, errors.WithMessage(err, "newMetrics failed")
	}

	registry := opts.Registry
	if registry == nil {
		registry = mapping.Default()
	}

	m := &Materializer{
		faker:     f,
		inspector: inspector,
		logger:    logger.With("module", "materializer"),
		maxDepth:  opts.MaxDepth,
		metrics:   metrics,
		name:      opts.Name,
	}
	if opts.EnableTracing {
		m.tracer = otel.Tracer(fmt.Sprintf("materializer.%s", opts.Name))
	}
	m.registry.Store(registry)

	return m, nil
}

// Registry 当前的类型映射快照
func (m *Materializer) Registry() *mapping.Registry {
	return m.registry.Load()
}

// SetRegistry 整体替换类型映射
func (m *Materializer) SetRegistry(r *mapping.Registry) {
	if r == nil {
		r = mapping.Default()
	}
	m.registry.Store(r)
}

// Register 替换或追加一条映射，之后开始的调用可见
func (m *Materializer) Register(t mapping.ColumnType, g mapping.Generator) {
	for {
		old := m.registry.Load()
		if m.registry.CompareAndSwap(old, old.WithOverride(t, g)) {
			return
		}
	}
}

// Reset 恢复为内置的默认映射
func (m *Materializer) Reset() {
	m.registry.Store(mapping.Default())
}

// Null 可以通过 mapping.Named("Null") 引用的生成器，总是返回空值，对应列保持零值
func (m *Materializer) Null() any {
	return nil
}

// Inspect 返回 model 的列与关联描述
func (m *Materializer) Inspect(model any) (*schema.Model, error) {
	t, err := schema.ModelType(model)
	if err != nil {
		return nil, errors.WithMessage(err, "schema.ModelType failed")
	}
	return m.inspector.Inspect(t)
}

// ColumnValue 用当前映射为单个列生成一个值
func (m *Materializer) ColumnValue(col *schema.Column) (any, error) {
	return m.columnValue(m.Registry(), col)
}

func (m *Materializer) columnValue(registry *mapping.Registry, col *schema.Column) (any, error) {
	g, err := registry.Resolve(col)
	if err != nil {
		return nil, err
	}
	v, err := mapping.Invoke(g, m.faker, m, col)
	if err != nil {
		return nil, errors.WithMessagef(err, "generate column %v with %v failed", col, g)
	}
	m.metrics.valueCounter.WithLabelValues(g.String()).Inc()
	return v, nil
}

// Materialize 生成 model 的一个实例，返回指向新实例的指针
//
// model 可以是结构体值、结构体指针或 reflect.Type。默认不生成主键与外键列，不生成关联；
// 同时要求生成主键与关联时返回 InvalidOptionsError。覆盖值按属性名或列名匹配，原样赋值，
// 对覆盖值的名字不属于模型时返回 InstanceConstructionError
func (m *Materializer) Materialize(model any, opts ...Option) (any, error) {
	return m.MaterializeContext(context.Background(), model, opts...)
}

// MaterializeContext 同 Materialize，ctx 只用于 tracing
func (m *Materializer) MaterializeContext(ctx context.Context, model any, opts ...Option) (any, error) {
	o := &MaterializeOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.GeneratePrimaryKeys && o.GenerateRelated {
		return nil, &InvalidOptionsError{Reason: "cannot generate primary keys and related models at the same time"}
	}

	t, err := schema.ModelType(model)
	if err != nil {
		return nil, errors.WithMessage(err, "schema.ModelType failed")
	}

	var span trace.Span
	if m.tracer != nil {
		_, span = m.tracer.Start(ctx, "materializer.Materialize",
			trace.WithAttributes(
				attribute.String("component", m.name),
				attribute.String("model", t.String()),
				attribute.Bool("primaryKeys", o.GeneratePrimaryKeys),
				attribute.Bool("related", o.GenerateRelated),
			),
		)
		defer span.End()
	}

	// 0 沿用 Materializer 的配置，负数表示本次调用不限制深度
	maxDepth := o.MaxDepth
	if maxDepth == 0 {
		maxDepth = m.maxDepth
	}
	if maxDepth < 0 {
		maxDepth = 0
	}

	start := time.Now()
	s := &session{
		materializer: m,
		registry:     m.Registry(),
		maxDepth:     maxDepth,
	}
	v, err := s.materialize(t, o, nil, nil)

	status := "success"
	if err != nil {
		status = "error"
	}
	m.metrics.materializeCounter.WithLabelValues(t.Name(), status).Inc()
	m.metrics.materializeDuration.WithLabelValues(t.Name()).Observe(time.Since(start).Seconds())
	if span != nil {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}
	if err != nil {
		return nil, err
	}

	return v.Interface(), nil
}

// Fake 生成 T 的一个实例，m 为 nil 时使用默认的 Materializer
func Fake[T any](m *Materializer, opts ...Option) (*T, error) {
	if m == nil {
		m = Default()
	}
	v, err := m.Materialize(reflect.TypeOf((*T)(nil)).Elem(), opts...)
	if err != nil {
		return nil, err
	}
	ptr, ok := v.(*T)
	if !ok {
		return nil, fmt.Errorf("expected %T, got %T", ptr, v)
	}
	return ptr, nil
}

// session 一次 Materialize 调用的状态
type session struct {
	materializer *Materializer
	registry     *mapping.Registry
	maxDepth     int
}

// materialize path 为当前递归路径上的模型类型，用于截断环；
// foreignKeys 为上层关联指向本模型的外键属性，与模型自身标记的外键一样不生成
func (s *session) materialize(t reflect.Type, o *MaterializeOptions, path []reflect.Type, foreignKeys []string) (reflect.Value, error) {
	m := s.materializer

	model, err := m.inspector.Inspect(t)
	if err != nil {
		return reflect.Value{}, errors.WithMessagef(err, "inspect %v failed", t)
	}

	used := map[string]bool{}
	override := func(names ...string) (any, bool) {
		for _, name := range names {
			if v, ok := o.Overrides[name]; ok {
				used[name] = true
				return v, true
			}
		}
		return nil, false
	}

	assignments := make([]assignment, 0, len(model.Columns)+len(model.Relationships))
	for _, col := range model.Columns {
		if v, ok := override(col.Name, col.DBName); ok {
			assignments = append(assignments, assignment{name: col.Name, index: col.Index, value: v})
			continue
		}
		if col.PrimaryKey && !o.GeneratePrimaryKeys {
			continue
		}
		if col.ForeignKey || slices.Contains(foreignKeys, col.Name) {
			continue
		}
		v, err := s.materializer.columnValue(s.registry, col)
		if err != nil {
			return reflect.Value{}, err
		}
		assignments = append(assignments, assignment{name: col.Name, index: col.Index, value: v})
	}

	path = append(path, t)
	for _, rel := range model.Relationships {
		if v, ok := override(rel.Name); ok {
			assignments = append(assignments, assignment{name: rel.Name, index: rel.Index, value: v})
			continue
		}
		if !o.GenerateRelated {
			continue
		}
		if containsType(path, rel.Target) {
			m.logger.Debug("skip cyclic relationship", "model", model.Name, "relationship", rel.Name, "target", rel.Target.String())
			continue
		}
		if s.maxDepth > 0 && len(path) > s.maxDepth {
			m.logger.Debug("skip relationship beyond max depth", "model", model.Name, "relationship", rel.Name, "maxDepth", s.maxDepth)
			continue
		}

		// 关联模型不生成主键，也不继承覆盖值
		child, err := s.materialize(rel.Target, &MaterializeOptions{GenerateRelated: true}, path, rel.ForeignKeys)
		if err != nil {
			return reflect.Value{}, errors.WithMessagef(err, "materialize relationship %s.%s failed", model.Name, rel.Name)
		}
		assignments = append(assignments, assignment{name: rel.Name, index: rel.Index, value: child.Interface()})
	}

	for name := range o.Overrides {
		if !used[name] {
			return reflect.Value{}, &InstanceConstructionError{Model: t, Attribute: name, Err: fmt.Errorf("unexpected attribute")}
		}
	}

	v, err := construct(t, assignments)
	if err != nil {
		return reflect.Value{}, err
	}
	m.logger.Debug("materialize model", "model", model.Name, "depth", len(path)-1, "attributes", len(assignments))

	return v, nil
}

func containsType(types []reflect.Type, t reflect.Type) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}
