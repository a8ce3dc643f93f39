package model

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// Extra 保存模型未声明的 JSON 字段，写回时原样输出
type Extra map[string]json.RawMessage

// Clone 深拷贝
func (e Extra) Clone() Extra {
	if e == nil {
		return nil
	}
	out := make(Extra, len(e))
	for k, v := range e {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

var knownKeys sync.Map // reflect.Type -> []string

// jsonKeys 返回结构体已声明的 json 字段名
func jsonKeys(t reflect.Type) []string {
	if v, ok := knownKeys.Load(t); ok {
		return v.([]string)
	}
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = f.Name
		}
		keys = append(keys, name)
	}
	knownKeys.Store(t, keys)
	return keys
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// splitExtra 将 data 解码到 plain，并返回 plain 未声明的字段
// plain 必须是结构体指针；字段名匹配与 encoding/json 一致，不区分大小写
func splitExtra(data []byte, plain any) (Extra, error) {
	if err := json.Unmarshal(data, plain); err != nil {
		return nil, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	keys := jsonKeys(reflect.TypeOf(plain).Elem())
	for k := range all {
		for _, known := range keys {
			if strings.EqualFold(k, known) {
				delete(all, k)
				break
			}
		}
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// joinExtra 编码 plain 并补回 extra 中的字段，已声明字段优先
func joinExtra(plain any, extra Extra) ([]byte, error) {
	data, err := json.Marshal(plain)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := all[k]; !ok {
			all[k] = v
		}
	}
	return json.Marshal(all)
}
