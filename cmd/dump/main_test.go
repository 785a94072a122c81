package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"SqliteViewer/internal/model"
	"SqliteViewer/internal/repository"
	"SqliteViewer/internal/sample"
	"SqliteViewer/internal/service"
	"SqliteViewer/pkg/config"
)

func newTestService(t *testing.T, stmts ...string) *service.ViewerService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.sqlite")
	if err := sample.Exec(path, stmts...); err != nil {
		t.Fatalf("Failed to build test database: %v", err)
	}
	cfg := config.DatabaseConfig{Path: path, BusyTimeout: 2, DefaultLimit: 10, MaxLimit: 100}
	return service.NewViewerService(repository.NewProvider(cfg), cfg)
}

func TestDump(t *testing.T) {
	svc := newTestService(t,
		`CREATE TABLE notes (title TEXT, body TEXT)`,
		`INSERT INTO notes VALUES ('a', NULL), ('b', 'text')`,
		`CREATE TABLE logs (id INTEGER PRIMARY KEY, created_at TEXT, data BLOB)`,
		`INSERT INTO logs VALUES (1, '2024-01-01', x'ff00'), (2, '2024-02-01', 'ok')`,
	)

	var buf bytes.Buffer
	if err := dump(context.Background(), svc, &buf, "", 1); err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Tables: 2, total records: 4",
		"--- Table: logs ---",
		"Columns: id(INTEGER), created_at(TEXT), data(BLOB)",
		"newest by created_at",
		"2 | 2024-02-01 | ok",
		"--- Table: notes ---",
		"a | NULL",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("\noutput missing %q:\n%s", want, out)
		}
	}
}

func TestDumpSingleTable(t *testing.T) {
	svc := newTestService(t, `CREATE TABLE t (x)`, `CREATE TABLE other (y)`)

	var buf bytes.Buffer
	if err := dump(context.Background(), svc, &buf, "t", 5); err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}
	if strings.Contains(buf.String(), "--- Table: other ---") {
		t.Errorf("\nonly the selected table should be dumped:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "(no sample rows)") {
		t.Errorf("\nexpected empty sample marker:\n%s", buf.String())
	}

	err := dump(context.Background(), svc, &buf, "ghost", 5)
	if !model.IsKind(err, model.KindNotFound) {
		t.Errorf("\ngot %v, wanted NotFound", err)
	}
}
