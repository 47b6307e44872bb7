package cfg

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	durationType = reflect.TypeOf(time.Duration(0))
	timeType     = reflect.TypeOf(time.Time{})
)

// SetDefaults 根据 def tag 为结构体的零值字段设置默认值，嵌套结构体递归处理
func SetDefaults(object any) error {
	rv := reflect.ValueOf(object)
	if !rv.IsValid() || rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("object must be a non-nil pointer, got %T", object)
	}
	return setDefaults(rv.Elem())
}

func setDefaults(rv reflect.Value) error {
	if rv.Kind() != reflect.Struct || rv.Type() == timeType {
		return nil
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		fv := rv.Field(i)
		if !fv.CanSet() || field.Tag.Get("cfg") == "-" {
			continue
		}

		// 嵌套结构体，非 nil 的结构体指针也会被处理
		switch {
		case fv.Kind() == reflect.Struct:
			if err := setDefaults(fv); err != nil {
				return fmt.Errorf("%s.%v", field.Name, err)
			}
		case fv.Kind() == reflect.Ptr && !fv.IsNil() && fv.Elem().Kind() == reflect.Struct:
			if err := setDefaults(fv.Elem()); err != nil {
				return fmt.Errorf("%s.%v", field.Name, err)
			}
		}

		def, ok := field.Tag.Lookup("def")
		if !ok || def == "" || !fv.IsZero() {
			continue
		}
		if err := setValue(fv, def); err != nil {
			return fmt.Errorf("%s: %v", field.Name, err)
		}
	}

	return nil
}

func setValue(rv reflect.Value, def string) error {
	switch {
	case rv.Type() == durationType:
		d, err := time.ParseDuration(def)
		if err != nil {
			return fmt.Errorf("invalid duration value %q: %v", def, err)
		}
		rv.SetInt(int64(d))
		return nil
	case rv.Type() == timeType:
		t, err := time.Parse(time.RFC3339, def)
		if err != nil {
			return fmt.Errorf("invalid time value %q: %v", def, err)
		}
		rv.Set(reflect.ValueOf(t))
		return nil
	}

	switch rv.Kind() {
	case reflect.String:
		rv.SetString(def)
	case reflect.Bool:
		v, err := strconv.ParseBool(def)
		if err != nil {
			return fmt.Errorf("invalid bool value %q: %v", def, err)
		}
		rv.SetBool(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(def, 0, rv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q: %v", def, err)
		}
		rv.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(def, 0, rv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q: %v", def, err)
		}
		rv.SetUint(v)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(def, rv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float value %q: %v", def, err)
		}
		rv.SetFloat(v)
	case reflect.Slice:
		// 逗号分隔
		parts := strings.Split(def, ",")
		slice := reflect.MakeSlice(rv.Type(), len(parts), len(parts))
		for i, part := range parts {
			if err := setValue(slice.Index(i), strings.TrimSpace(part)); err != nil {
				return fmt.Errorf("slice element %d: %v", i, err)
			}
		}
		rv.Set(slice)
	case reflect.Ptr:
		elem := reflect.New(rv.Type().Elem())
		if err := setValue(elem.Elem(), def); err != nil {
			return err
		}
		rv.Set(elem)
	default:
		return fmt.Errorf("unsupported type %v", rv.Type())
	}
	return nil
}
