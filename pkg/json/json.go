package json

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// 与标准库行为一致，但不转义HTML字符，数据原样输出
var api = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// Marshal 序列化
func Marshal(v interface{}) ([]byte, error) {
	return api.Marshal(v)
}

// MarshalIndent 带缩进序列化
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}

// Unmarshal 反序列化
func Unmarshal(data []byte, v interface{}) error {
	return api.Unmarshal(data, v)
}

// DecodeObject 按键出现的顺序遍历JSON对象
func DecodeObject(data []byte, fn func(key string, value interface{})) error {
	iter := jsoniter.ParseBytes(api, data)
	if iter.WhatIsNext() != jsoniter.ObjectValue {
		return fmt.Errorf("json: expected object")
	}
	iter.ReadMapCB(func(it *jsoniter.Iterator, key string) bool {
		fn(key, it.Read())
		return it.Error == nil
	})
	if iter.Error != nil && iter.Error != io.EOF {
		return iter.Error
	}
	return nil
}
