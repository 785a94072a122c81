package model

import (
	"errors"
	"fmt"
	"testing"

	"SqliteViewer/pkg/json"
)

func TestValidateTableName(t *testing.T) {
	var tests = []struct {
		name  string
		valid bool
	}{
		{"products", true},
		{"user_roles", true},
		{"T1", true},
		{"_private", true},
		{"2024_orders", true},
		{"", false},
		{"___", false},
		{"users;DROP", false},
		{"my table", false},
		{"a-b", false},
		{"名前", false},
		{"users'", false},
		{"x\"y", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.name), func(t *testing.T) {
			err := ValidateTableName(tt.name)
			if (err == nil) != tt.valid {
				t.Fatalf("\ngot error %v, wanted valid=%v", err, tt.valid)
			}
			if err != nil && !IsKind(err, KindValidation) {
				t.Errorf("\ngot error kind %v, wanted %s", err, KindValidation)
			}
		})
	}
}

func TestRowAccess(t *testing.T) {
	row := NewRow([]string{"id", "name", "price"}, []interface{}{int64(1), "pen", 1.5})

	if row.Len() != 3 {
		t.Fatalf("\ngot len %d, wanted 3", row.Len())
	}
	if v, ok := row.Get("name"); !ok || v != "pen" {
		t.Errorf("\ngot %v %v, wanted pen true", v, ok)
	}
	if _, ok := row.Get("missing"); ok {
		t.Errorf("\nexpected missing column lookup to fail")
	}
	if row.At(0) != int64(1) {
		t.Errorf("\ngot %v at 0, wanted 1", row.At(0))
	}
	if m := row.Map(); len(m) != 3 || m["price"] != 1.5 {
		t.Errorf("\ngot map %v", m)
	}
}

func TestRowMarshalKeepsColumnOrder(t *testing.T) {
	row := NewRow([]string{"zeta", "alpha", "mid"}, []interface{}{nil, "a", int64(7)})

	data, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("\nmarshal: %v", err)
	}
	want := `{"zeta":null,"alpha":"a","mid":7}`
	if string(data) != want {
		t.Errorf("\ngot %s, wanted %s", data, want)
	}

	var back Row
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("\nunmarshal: %v", err)
	}
	cols := back.Columns()
	if len(cols) != 3 || cols[0] != "zeta" || cols[1] != "alpha" || cols[2] != "mid" {
		t.Errorf("\ngot columns %v, wanted [zeta alpha mid]", cols)
	}
}

func TestRowUnmarshalRejectsNonObject(t *testing.T) {
	var r Row
	if err := r.UnmarshalJSON([]byte(`[1,2]`)); err == nil {
		t.Errorf("\nexpected an error, did not receive one")
	}
}

func TestViewerErrorWrapping(t *testing.T) {
	base := errors.New("disk I/O error")
	err := fmt.Errorf("describe: %w", ErrSchema("users", base))

	ve, ok := AsViewerError(err)
	if !ok {
		t.Fatalf("\nexpected ViewerError in chain")
	}
	if ve.Code != 500 || ve.Kind != KindSchema || ve.Table != "users" {
		t.Errorf("\ngot %+v", ve)
	}
	if !errors.Is(err, base) {
		t.Errorf("\nexpected wrapped base error")
	}
	if ve.Detail() != "failed to load table schema: disk I/O error" {
		t.Errorf("\ngot detail %q", ve.Detail())
	}
	nested := ErrSchema("ghost", ErrTableNotFound("ghost"))
	if nested.Detail() != "failed to load table schema: table not found" {
		t.Errorf("\ngot detail %q", nested.Detail())
	}
	if !IsKind(nested, KindSchema) {
		t.Errorf("\nouter kind should win")
	}
	if IsKind(base, KindSchema) {
		t.Errorf("\nplain error should not match a kind")
	}
}

func TestNewTablePage(t *testing.T) {
	p := NewTablePage("empty", nil, nil)
	if p.Data == nil || p.Schema == nil {
		t.Fatalf("\nexpected non-nil slices")
	}
	if p.TotalRows != 0 || p.Status != "success" || p.TableName != "empty" {
		t.Errorf("\ngot %+v", p)
	}
	data, _ := json.Marshal(p)
	want := `{"data":[],"schema":[],"table_name":"empty","total_rows":0,"status":"success"}`
	if string(data) != want {
		t.Errorf("\ngot %s, wanted %s", data, want)
	}
}

func TestIndexHasColumn(t *testing.T) {
	idx := Index{Name: "idx", Columns: []string{"a", "b"}}
	if !idx.HasColumn("b") || idx.HasColumn("c") {
		t.Errorf("\nunexpected HasColumn result for %v", idx.Columns)
	}
}
