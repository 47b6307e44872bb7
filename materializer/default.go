package materializer

import (
	"sync/atomic"

	"github.com/hatlonely/fakemodel/mapping"
)

var defaultMaterializer atomic.Pointer[Materializer]

func init() {
	m, err := NewMaterializerWithOptions(nil)
	if err != nil {
		panic(err)
	}
	defaultMaterializer.Store(m)
}

// Default 进程级别的 Materializer，包级函数都作用于它
func Default() *Materializer {
	return defaultMaterializer.Load()
}

func SetDefault(m *Materializer) {
	if m != nil {
		defaultMaterializer.Store(m)
	}
}

func Register(t mapping.ColumnType, g mapping.Generator) {
	Default().Register(t, g)
}

func Reset() {
	Default().Reset()
}

func Materialize(model any, opts ...Option) (any, error) {
	return Default().Materialize(model, opts...)
}
