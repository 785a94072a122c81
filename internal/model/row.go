package model

import (
	"bytes"
	"fmt"

	"SqliteViewer/pkg/json"
)

// Row 有序的 字段名 -> 值 映射
// 字段集合来自查询结果的列，既可以按名称也可以按位置访问
type Row struct {
	columns []string
	values  []interface{}
}

// NewRow 创建数据行，columns 与 values 长度必须一致
func NewRow(columns []string, values []interface{}) Row {
	if len(columns) != len(values) {
		panic(fmt.Sprintf("row: %d columns but %d values", len(columns), len(values)))
	}
	return Row{columns: columns, values: values}
}

// Columns 返回字段名（结果集顺序）
func (r Row) Columns() []string {
	return r.columns
}

// Values 返回字段值（结果集顺序）
func (r Row) Values() []interface{} {
	return r.values
}

// Len 字段数量
func (r Row) Len() int {
	return len(r.columns)
}

// At 按位置取值
func (r Row) At(i int) interface{} {
	return r.values[i]
}

// Get 按字段名取值，重名时返回第一个
func (r Row) Get(name string) (interface{}, bool) {
	for i, c := range r.columns {
		if c == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// WithValues 复用字段名，替换全部值
func (r Row) WithValues(values []interface{}) Row {
	return NewRow(r.columns, values)
}

// Map 转为无序map
func (r Row) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r.columns))
	for i, c := range r.columns {
		if _, dup := m[c]; !dup {
			m[c] = r.values[i]
		}
	}
	return m
}

// MarshalJSON 按字段顺序输出JSON对象
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON 按对象中的键顺序还原数据行
func (r *Row) UnmarshalJSON(data []byte) error {
	var columns []string
	var values []interface{}
	err := json.DecodeObject(data, func(key string, value interface{}) {
		columns = append(columns, key)
		values = append(values, value)
	})
	if err != nil {
		return err
	}
	if columns == nil {
		columns, values = []string{}, []interface{}{}
	}
	r.columns, r.values = columns, values
	return nil
}
