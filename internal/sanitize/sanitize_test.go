package sanitize

import (
	"math"
	"reflect"
	"testing"
	"time"

	"SqliteViewer/internal/model"
	"SqliteViewer/pkg/json"
)

func TestValueScalars(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)

	var tests = []struct {
		name string
		in   interface{}
		want interface{}
	}{
		{"nil", nil, nil},
		{"nan", math.NaN(), nil},
		{"nan float32", float32(math.NaN()), nil},
		{"+inf", math.Inf(1), "inf"},
		{"-inf", math.Inf(-1), "-inf"},
		{"-inf float32", float32(math.Inf(-1)), "-inf"},
		{"plain float", 3.14, 3.14},
		{"int", int64(42), int64(42)},
		{"bool", true, true},
		{"string", "hello", "hello"},
		{"utf8 blob", []byte("héllo"), "héllo"},
		{"binary blob", []byte{0xff, 0xfe, 0x00, 0x01}, "<binary data: 4 bytes>"},
		{"empty blob", []byte{}, ""},
		{"utc time", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "2024-01-02 03:04:05"},
		{"fractional time", time.Date(2024, 1, 2, 3, 4, 5, 123456000, time.UTC), "2024-01-02 03:04:05.123456"},
		{"zoned time", time.Date(2024, 1, 2, 3, 4, 5, 0, shanghai), "2024-01-02 03:04:05+08:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Value(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("\ngot %#v, wanted %#v", got, tt.want)
			}
		})
	}
}

func TestValueIsIdempotent(t *testing.T) {
	inputs := []interface{}{
		math.NaN(),
		math.Inf(1),
		math.Inf(-1),
		[]byte{0x80, 0x81},
		[]byte("text"),
		time.Date(2023, 5, 6, 7, 8, 9, 0, time.UTC),
		[]interface{}{math.NaN(), 1.0, []interface{}{math.Inf(-1)}},
		map[string]interface{}{"a": math.Inf(1), "b": map[string]interface{}{"c": []byte{0xc3}}},
		"inf",
		int64(9),
	}

	for _, in := range inputs {
		once := Value(in)
		twice := Value(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("\nsanitize not idempotent for %#v: %#v then %#v", in, once, twice)
		}
	}
}

func TestValueNested(t *testing.T) {
	in := []map[string]interface{}{
		{"name": "test1", "value": 1.0, "nan_value": math.NaN()},
		{"name": "test2", "value": math.Inf(1), "nan_value": nil},
		{"name": "test3", "value": 3.14, "nan_value": math.Inf(-1)},
	}
	got := Value(in).([]map[string]interface{})

	if got[0]["nan_value"] != nil || got[1]["value"] != "inf" || got[2]["nan_value"] != "-inf" {
		t.Errorf("\ngot %v", got)
	}
	if _, err := json.Marshal(got); err != nil {
		t.Errorf("\nsanitized value is not serializable: %v", err)
	}
	// 原始数据不应被修改
	if !math.IsNaN(in[0]["nan_value"].(float64)) {
		t.Errorf("\ninput was mutated")
	}
}

func TestRows(t *testing.T) {
	cols := []string{"id", "score", "payload", "seen_at"}
	rows := []model.Row{
		model.NewRow(cols, []interface{}{int64(1), math.NaN(), []byte{0xff, 0xfe}, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}),
		model.NewRow(cols, []interface{}{int64(2), math.Inf(1), []byte("ok"), nil}),
	}

	out := Value(rows).([]model.Row)
	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("\nmarshal: %v", err)
	}
	want := `[{"id":1,"score":null,"payload":"<binary data: 2 bytes>","seen_at":"2024-03-01 00:00:00"},` +
		`{"id":2,"score":"inf","payload":"ok","seen_at":null}]`
	if string(data) != want {
		t.Errorf("\ngot %s\nwanted %s", data, want)
	}
}

func TestColumnsCopiesDefault(t *testing.T) {
	def := "0"
	cols := []model.ColumnDescriptor{{CID: 0, Name: "stock", Type: "INTEGER", DefaultValue: &def}}

	out := Value(cols).([]model.ColumnDescriptor)
	if !reflect.DeepEqual(out, cols) {
		t.Fatalf("\ngot %+v, wanted %+v", out, cols)
	}
	if out[0].DefaultValue == cols[0].DefaultValue {
		t.Errorf("\nexpected default value pointer to be copied")
	}
}
