package materializer

import (
	"fmt"
	"reflect"
)

// InvalidOptionsError 选项互相冲突，在任何生成工作之前返回
type InvalidOptionsError struct {
	Reason string
}

func (e *InvalidOptionsError) Error() string {
	return "invalid materialize options: " + e.Reason
}

// InstanceConstructionError 组装好的属性无法构造出模型实例
type InstanceConstructionError struct {
	Model     reflect.Type
	Attribute string
	Err       error
}

func (e *InstanceConstructionError) Error() string {
	if e.Attribute == "" {
		return fmt.Sprintf("construct %v failed: %v", e.Model, e.Err)
	}
	return fmt.Sprintf("construct %v failed: attribute %s: %v", e.Model, e.Attribute, e.Err)
}

func (e *InstanceConstructionError) Unwrap() error {
	return e.Err
}
