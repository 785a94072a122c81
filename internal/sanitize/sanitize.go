// Package sanitize converts values read from SQLite into JSON-safe forms.
//
// NaN becomes null, infinities become "inf"/"-inf", blobs are decoded as
// UTF-8 or replaced by a placeholder, and time values are formatted as
// strings. Applying Value twice yields the same result as applying it once.
package sanitize

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"SqliteViewer/internal/model"
)

// TimeLayout 时间格式，小数秒仅在非零时输出
const TimeLayout = "2006-01-02 15:04:05.999999"

// Value 递归清理单个值
func Value(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		return Float(x)
	case float32:
		return Float(float64(x))
	case []byte:
		return Bytes(x)
	case time.Time:
		return Time(x)
	case *time.Time:
		if x == nil {
			return nil
		}
		return Time(*x)
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, item := range x {
			out[i] = Value(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, item := range x {
			out[k] = Value(item)
		}
		return out
	case []map[string]interface{}:
		out := make([]map[string]interface{}, len(x))
		for i, item := range x {
			out[i] = Value(item).(map[string]interface{})
		}
		return out
	case model.Row:
		return Row(x)
	case []model.Row:
		return Rows(x)
	case []model.ColumnDescriptor:
		return Columns(x)
	default:
		return v
	}
}

// Float NaN 转为 nil，正负无穷转为字符串
func Float(f float64) interface{} {
	switch {
	case math.IsNaN(f):
		return nil
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return f
	}
}

// Bytes 尝试按UTF-8解码，失败时返回占位字符串
func Bytes(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return fmt.Sprintf("<binary data: %d bytes>", len(b))
}

// Time 时间转字符串，非UTC时区附带偏移
func Time(t time.Time) string {
	if t.Location() == time.UTC {
		return t.Format(TimeLayout)
	}
	return t.Format(TimeLayout + "-07:00")
}

// Row 清理一行数据
func Row(r model.Row) model.Row {
	values := r.Values()
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = Value(v)
	}
	return r.WithValues(out)
}

// Rows 清理多行数据
func Rows(rows []model.Row) []model.Row {
	out := make([]model.Row, len(rows))
	for i, r := range rows {
		out[i] = Row(r)
	}
	return out
}

// Columns 复制字段描述，默认值指针同样复制
func Columns(cols []model.ColumnDescriptor) []model.ColumnDescriptor {
	out := make([]model.ColumnDescriptor, len(cols))
	for i, c := range cols {
		if c.DefaultValue != nil {
			d := *c.DefaultValue
			c.DefaultValue = &d
		}
		out[i] = c
	}
	return out
}
