package mapping

import (
	"reflect"

	"github.com/hatlonely/fakemodel/faker"
	"github.com/hatlonely/fakemodel/schema"
	"github.com/pkg/errors"
)

var ErrCapabilityNotFound = errors.New("generator capability not found")

// Generator 生成器规格，只有 Named 和 Func 两种
type Generator interface {
	String() string
	isGenerator()
}

// Named 按名字引用 Faker 上的零参数方法，Faker 上没有时回退到调用方提供的对象上
type Named string

func (n Named) String() string {
	return string(n)
}

func (Named) isGenerator() {}

// Func 接收 Faker 和列描述的生成函数
type Func func(f faker.Faker, col *schema.Column) (any, error)

func (Func) String() string {
	return "func"
}

func (Func) isGenerator() {}

// Invoke 调用生成器
func Invoke(g Generator, f faker.Faker, fallback any, col *schema.Column) (any, error) {
	switch g := g.(type) {
	case Named:
		c, err := findCapability(string(g), f, fallback)
		if err != nil {
			return nil, err
		}
		return c.call()
	case Func:
		if g == nil {
			return nil, errors.New("nil generator func")
		}
		return g(f, col)
	default:
		return nil, errors.Errorf("unsupported generator %T", g)
	}
}

type capability struct {
	name         string
	method       reflect.Value
	returnsError bool
}

func findCapability(name string, targets ...any) (*capability, error) {
	for _, target := range targets {
		if target == nil {
			continue
		}
		rv := reflect.ValueOf(target)
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			continue
		}
		method := rv.MethodByName(name)
		if !method.IsValid() {
			continue
		}
		// 找到同名方法后不再回退，签名不符直接报错
		return newCapability(name, method)
	}
	return nil, errors.WithMessagef(ErrCapabilityNotFound, "capability %q", name)
}

func newCapability(name string, method reflect.Value) (*capability, error) {
	methodType := method.Type()

	if methodType.NumIn() != 0 {
		return nil, errors.Errorf("capability %q must have no input parameters, got %d", name, methodType.NumIn())
	}

	// 1 个返回值，或者 (value, error)
	numOut := methodType.NumOut()
	if numOut != 1 && numOut != 2 {
		return nil, errors.Errorf("capability %q must have 1 or 2 return values, got %d", name, numOut)
	}

	returnsError := false
	if numOut == 2 {
		errorInterface := reflect.TypeOf((*error)(nil)).Elem()
		if !methodType.Out(1).Implements(errorInterface) {
			return nil, errors.Errorf("capability %q: second return value must be error type", name)
		}
		returnsError = true
	}

	return &capability{name: name, method: method, returnsError: returnsError}, nil
}

func (c *capability) call() (any, error) {
	results := c.method.Call(nil)

	if c.returnsError {
		if errResult := results[1].Interface(); errResult != nil {
			return nil, errors.Wrapf(errResult.(error), "capability %q failed", c.name)
		}
	}

	return results[0].Interface(), nil
}
