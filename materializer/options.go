package materializer

// MaterializeOptions 单次调用的选项
type MaterializeOptions struct {
	// 生成主键列，默认不生成
	GeneratePrimaryKeys bool
	// 递归生成关联模型，默认不生成，与 GeneratePrimaryKeys 互斥
	GenerateRelated bool
	// 属性名（或列名）到值的覆盖，原样赋值，不做类型检查
	Overrides map[string]any
	// 关联递归的最大深度，0 表示使用 Materializer 的配置，负数表示不限制
	MaxDepth int
}

type Option func(*MaterializeOptions)

func WithPrimaryKeys() Option {
	return func(o *MaterializeOptions) {
		o.GeneratePrimaryKeys = true
	}
}

func WithRelated() Option {
	return func(o *MaterializeOptions) {
		o.GenerateRelated = true
	}
}

func WithOverride(name string, value any) Option {
	return func(o *MaterializeOptions) {
		if o.Overrides == nil {
			o.Overrides = map[string]any{}
		}
		o.Overrides[name] = value
	}
}

func WithOverrides(overrides map[string]any) Option {
	return func(o *MaterializeOptions) {
		for name, value := range overrides {
			WithOverride(name, value)(o)
		}
	}
}

func WithMaxDepth(depth int) Option {
	return func(o *MaterializeOptions) {
		o.MaxDepth = depth
	}
}
