package serializer

import (
	"encoding/json"
	"fmt"
)

// Serializer 快照编解码
type Serializer interface {
	Serialize(v any) ([]byte, error)
	Deserialize(data []byte, v any) error
	Name() string
}

// Type 编码类型，对应配置 store.codec
type Type string

const (
	TypeMsgpack Type = "msgpack"
	TypeJSON    Type = "json"
)

// New 空字符串视为 msgpack
func New(t Type) (Serializer, error) {
	switch t {
	case TypeMsgpack, "":
		return Msgpack{}, nil
	case TypeJSON:
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("unsupported serializer type: %s", t)
	}
}

// JSON 便于直接在 redis-cli 中查看
type JSON struct{}

func (JSON) Serialize(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSON) Deserialize(data []byte, v any) error { return json.Unmarshal(data, v) }
func (JSON) Name() string                         { return string(TypeJSON) }

// Msgpack 默认编码
type Msgpack struct{}

func (Msgpack) Serialize(v any) ([]byte, error)      { return Encode(v) }
func (Msgpack) Deserialize(data []byte, v any) error { return Decode(data, v) }
func (Msgpack) Name() string                         { return string(TypeMsgpack) }
