package materializer

import (
	"fmt"
	"reflect"
)

// assignment 待写入实例的一个属性
type assignment struct {
	name  string
	index []int
	value any
}

// construct 创建 *t 并写入所有属性，失败时不返回部分实例
func construct(t reflect.Type, assignments []assignment) (reflect.Value, error) {
	ptr := reflect.New(t)
	for _, a := range assignments {
		if a.value == nil {
			continue
		}
		field := fieldByIndex(ptr.Elem(), a.index)
		if !field.CanSet() {
			return reflect.Value{}, &InstanceConstructionError{Model: t, Attribute: a.name, Err: fmt.Errorf("field is not settable")}
		}
		if err := assign(field, reflect.ValueOf(a.value)); err != nil {
			return reflect.Value{}, &InstanceConstructionError{Model: t, Attribute: a.name, Err: err}
		}
	}
	return ptr, nil
}

// fieldByIndex 负数索引 -i-1 表示指针嵌入的第 i 个字段，nil 指针会被分配
func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if x < 0 {
			x = -x - 1
		}
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

func assign(field reflect.Value, v reflect.Value) error {
	ft := field.Type()

	switch {
	case v.Type().AssignableTo(ft):
		field.Set(v)
	case ft.Kind() == reflect.Ptr:
		if v.Kind() == reflect.Ptr && v.IsNil() {
			return nil
		}
		elem := reflect.New(ft.Elem())
		if err := assign(elem.Elem(), v); err != nil {
			return err
		}
		field.Set(elem)
	case ft.Kind() == reflect.Slice && v.Kind() != reflect.Slice:
		// has many 关联：单个实例放入切片
		slice := reflect.MakeSlice(ft, 1, 1)
		if err := assign(slice.Index(0), v); err != nil {
			return err
		}
		field.Set(slice)
	case v.Kind() == reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		return assign(field, v.Elem())
	case convertible(v.Type(), ft):
		field.Set(v.Convert(ft))
	default:
		return fmt.Errorf("cannot assign %v to %v", v.Type(), ft)
	}
	return nil
}

// convertible 排除整数到字符串、切片到数组这类语义不对或可能 panic 的转换
func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	if to.Kind() == reflect.String && from.Kind() != reflect.String && !isBytesOrRunes(from) {
		return false
	}
	if from.Kind() == reflect.Slice && (to.Kind() == reflect.Array || to.Kind() == reflect.Ptr) {
		return false
	}
	return true
}

func isBytesOrRunes(t reflect.Type) bool {
	if t.Kind() != reflect.Slice {
		return false
	}
	k := t.Elem().Kind()
	return k == reflect.Uint8 || k == reflect.Int32
}
