package cfg

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load 从文件加载选项，根据文件后缀选择解码器：
//
//	.json -> encoding/json
//	.yaml/.yml -> yaml.v3
//	.toml -> BurntSushi/toml
//
// 解码后依次设置默认值并校验
func Load(filename string, object any) error {
	if filename == "" {
		return errors.New("filename cannot be empty")
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "read file %s failed", filename)
	}

	return Decode(strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."), data, object)
}

// Decode 按格式解码数据，format 为 json / yaml / yml / toml
func Decode(format string, data []byte, object any) error {
	switch format {
	case "json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(object); err != nil {
			return errors.Wrap(err, "json decode failed")
		}
	case "yaml", "yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(object); err != nil {
			return errors.Wrap(err, "yaml decode failed")
		}
	case "toml":
		if _, err := toml.Decode(string(data), object); err != nil {
			return errors.Wrap(err, "toml decode failed")
		}
	default:
		return errors.Errorf("unsupported format: %s", format)
	}

	if err := SetDefaults(object); err != nil {
		return errors.WithMessage(err, "SetDefaults failed")
	}
	if err := Validate(object); err != nil {
		return errors.WithMessage(err, "Validate failed")
	}
	return nil
}
