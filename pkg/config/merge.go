package config

import (
	"reflect"

	"github.com/cockroachdb/errors"
)

// MergeConfig 把 src 中的非零值写入 dst 并返回 dst
//
// 零值视为未配置，所以 false、0、"" 无法通过 src 关闭默认开启的选项。
// 只有一方为 nil 时直接返回另一方。
func MergeConfig[T any](dst, src *T) (*T, error) {
	switch {
	case dst == nil && src == nil:
		return nil, errors.Wrap(ErrMergeFailed, "both dst and src are nil")
	case dst == nil:
		return src, nil
	case src == nil:
		return dst, nil
	}

	if err := overlay(reflect.ValueOf(dst).Elem(), reflect.ValueOf(src).Elem()); err != nil {
		return nil, errors.Mark(err, ErrMergeFailed)
	}
	return dst, nil
}

func overlay(dst, src reflect.Value) error {
	if !src.IsValid() || unset(src) {
		return nil
	}

	switch dst.Kind() {
	case reflect.Struct:
		for i, n := 0, src.NumField(); i < n; i++ {
			sf := src.Type().Field(i)
			if !sf.IsExported() {
				continue
			}
			df := dst.FieldByName(sf.Name)
			if !df.IsValid() || !df.CanSet() {
				continue
			}
			if err := overlay(df, src.Field(i)); err != nil {
				return errors.Wrapf(err, "field %s", sf.Name)
			}
		}
		return nil

	case reflect.Map:
		return overlayMap(dst, src)

	case reflect.Ptr:
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return overlay(dst.Elem(), src.Elem())
	}

	// 标量和切片整体替换
	if dst.CanSet() {
		dst.Set(src)
	}
	return nil
}

// overlayMap 已存在的 key 递归合并，新 key 直接写入
func overlayMap(dst, src reflect.Value) error {
	if dst.IsNil() {
		dst.Set(reflect.MakeMap(dst.Type()))
	}
	for it := src.MapRange(); it.Next(); {
		cur := dst.MapIndex(it.Key())
		if !cur.IsValid() {
			dst.SetMapIndex(it.Key(), it.Value())
			continue
		}
		// map 元素不可寻址，先复制出来
		tmp := reflect.New(cur.Type()).Elem()
		tmp.Set(cur)
		if err := overlay(tmp, it.Value()); err != nil {
			return errors.Wrapf(err, "key %v", it.Key().Interface())
		}
		dst.SetMapIndex(it.Key(), tmp)
	}
	return nil
}

// unset 结构体需要所有字段都是零值
func unset(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Func:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	}
	return v.IsZero()
}
