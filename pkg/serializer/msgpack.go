package serializer

import (
	"bytes"
	"reflect"

	"github.com/hashicorp/go-msgpack/v2/codec"
	"github.com/lk2023060901/xdooria-lootpity/pkg/pool/bytebuff"
)

// 结构体字段使用 codec tag，未声明时回退到字段名
// Canonical 对 map key 排序，相同内容的编码结果逐字节一致
var msgpackHandle = &codec.MsgpackHandle{}

func init() {
	msgpackHandle.MapType = reflect.TypeOf(map[string]interface{}{})
	msgpackHandle.RawToString = true
	msgpackHandle.WriteExt = true
	msgpackHandle.Canonical = true
}

// Encode 返回的切片不与缓冲池共享
func Encode(v any) ([]byte, error) {
	buf := bytebuff.Get()
	defer bytebuff.Put(buf)

	if err := codec.NewEncoder(buf, msgpackHandle).Encode(v); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

func Decode(data []byte, v any) error {
	return codec.NewDecoder(bytes.NewReader(data), msgpackHandle).Decode(v)
}
