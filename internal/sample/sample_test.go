package sample

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

func TestGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.sqlite")

	stats, err := Generate(path, Options{Products: 5, Events: 9, Seed: 42})
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}
	want := Stats{Users: 2, Products: 5, Events: 9, Notes: 3, Seed: 42}
	if *stats != want {
		t.Errorf("\ngot %+v, wanted %+v", *stats, want)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var tests = []struct {
		table string
		want  int
	}{
		{"users", 2},
		{"products", 5},
		{"events", 9},
		{"notes", 3},
	}
	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			if got := countRows(t, db, tt.table); got != tt.want {
				t.Errorf("\ngot %d, wanted %d", got, tt.want)
			}
		})
	}

	var binary int
	if err := db.QueryRow(`SELECT COUNT(*) FROM events WHERE hex(payload) LIKE 'FFFE%'`).Scan(&binary); err != nil {
		t.Fatal(err)
	}
	if binary != 3 {
		t.Errorf("\ngot %d binary payloads, wanted 3", binary)
	}
}

func TestGenerateTwiceKeepsUsersUnique(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.sqlite")
	if _, err := Generate(path, Options{Products: 1, Events: 1, Seed: 1}); err != nil {
		t.Fatal(err)
	}
	stats, err := Generate(path, Options{Products: 1, Events: 1, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Users != 0 {
		t.Errorf("\ngot %d new users, wanted 0", stats.Users)
	}
}

func TestExecRollsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.sqlite")
	err := Exec(path, `CREATE TABLE a (x)`, `INSERT INTO missing VALUES (1)`)
	if err == nil {
		t.Fatalf("\nexpected an error, did not receive one")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = 'a'`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("\ntable a should have been rolled back")
	}
}
