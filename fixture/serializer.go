package fixture

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Serializer 生成的模型实例与字节之间的转换
type Serializer[T any] interface {
	Serialize(from T) ([]byte, error)
	Deserialize(data []byte) (T, error)
}

// NewSerializer 支持 json, yaml, msgpack
func NewSerializer[T any](format string) (Serializer[T], error) {
	switch format {
	case "json":
		return &JSONSerializer[T]{}, nil
	case "yaml", "yml":
		return &YAMLSerializer[T]{}, nil
	case "msgpack":
		return &MsgPackSerializer[T]{}, nil
	default:
		return nil, errors.Errorf("unsupported serializer format %q", format)
	}
}

// Encode 按 format 编码 fixture
func Encode[T any](format string, from T) ([]byte, error) {
	s, err := NewSerializer[T](format)
	if err != nil {
		return nil, err
	}
	data, err := s.Serialize(from)
	if err != nil {
		return nil, errors.Wrapf(err, "%s serialize failed", format)
	}
	return data, nil
}

// Decode 按 format 解码 fixture
func Decode[T any](format string, data []byte) (T, error) {
	s, err := NewSerializer[T](format)
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := s.Deserialize(data)
	if err != nil {
		return v, errors.Wrapf(err, "%s deserialize failed", format)
	}
	return v, nil
}

type JSONSerializer[T any] struct{}

func (s *JSONSerializer[T]) Serialize(from T) ([]byte, error) {
	return json.Marshal(from)
}

func (s *JSONSerializer[T]) Deserialize(data []byte) (T, error) {
	var result T
	err := json.Unmarshal(data, &result)
	return result, err
}

type YAMLSerializer[T any] struct{}

func (s *YAMLSerializer[T]) Serialize(from T) ([]byte, error) {
	return yaml.Marshal(from)
}

func (s *YAMLSerializer[T]) Deserialize(data []byte) (T, error) {
	var result T
	err := yaml.Unmarshal(data, &result)
	return result, err
}

type MsgPackSerializer[T any] struct{}

func (s *MsgPackSerializer[T]) Serialize(from T) ([]byte, error) {
	return msgpack.Marshal(from)
}

func (s *MsgPackSerializer[T]) Deserialize(data []byte) (T, error) {
	var result T
	err := msgpack.Unmarshal(data, &result)
	return result, err
}
