package mcp

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"SqliteViewer/internal/model"
	"SqliteViewer/internal/repository"
	"SqliteViewer/internal/sample"
	"SqliteViewer/internal/service"
	"SqliteViewer/pkg/config"
	"SqliteViewer/pkg/json"

	goMCP "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func newTestService(t *testing.T, generate bool) *service.ViewerService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.sqlite")
	if generate {
		if _, err := sample.Generate(path, sample.Options{Products: 3, Events: 3, Seed: 5}); err != nil {
			t.Fatalf("Failed to generate sample database: %v", err)
		}
	}
	cfg := config.DatabaseConfig{Path: path, BusyTimeout: 2, DefaultLimit: 2, MaxLimit: 100}
	return service.NewViewerService(repository.NewProvider(cfg), cfg)
}

func callTool(t *testing.T, h ToolHandler, args map[string]any) (*goMCP.CallToolResult, string) {
	t.Helper()
	var req goMCP.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("\nhandler returned error: \"%v\"", err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("\ngot %d content items, wanted 1", len(res.Content))
	}
	text, ok := res.Content[0].(goMCP.TextContent)
	if !ok {
		t.Fatalf("\ngot content %T, wanted text", res.Content[0])
	}
	return res, text.Text
}

func TestListTablesTool(t *testing.T) {
	_, text := callTool(t, ListTablesHandler(newTestService(t, true)), nil)

	var body model.TablesResponse
	if err := json.Unmarshal([]byte(text), &body); err != nil {
		t.Fatalf("\ngot invalid json %q: %v", text, err)
	}
	if len(body.Tables) != 5 || body.Tables[0] != "events" {
		t.Errorf("\ngot %v", body.Tables)
	}
}

func TestTablePageTool(t *testing.T) {
	svc := newTestService(t, true)

	var tests = []struct {
		name string
		args map[string]any
		want int
	}{
		{"default limit", map[string]any{"table": "products"}, 2},
		{"json number limit", map[string]any{"table": "products", "limit": float64(3)}, 3},
		{"wrong limit type", map[string]any{"table": "products", "limit": "all"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, text := callTool(t, TablePageHandler(svc), tt.args)
			if res.IsError {
				t.Fatalf("\ngot tool error %q", text)
			}
			var page model.TablePage
			if err := json.Unmarshal([]byte(text), &page); err != nil {
				t.Fatalf("\ngot invalid json: %v", err)
			}
			if page.TotalRows != tt.want || page.TableName != "products" {
				t.Errorf("\ngot %d rows for %s, wanted %d", page.TotalRows, page.TableName, tt.want)
			}
		})
	}
}

func TestToolErrors(t *testing.T) {
	svc := newTestService(t, true)

	var tests = []struct {
		name    string
		handler ToolHandler
		args    map[string]any
		want    string
	}{
		{"missing table argument", TablePageHandler(svc), map[string]any{}, "Missing table parameter"},
		{"invalid table name", TablePageHandler(svc), map[string]any{"table": "x;y"}, "ValidationFailure"},
		{"unknown table", TableInfoHandler(svc), map[string]any{"table": "ghost"}, "NotFound"},
		{"info missing argument", TableInfoHandler(svc), nil, "Missing table parameter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, text := callTool(t, tt.handler, tt.args)
			if !res.IsError || !strings.Contains(text, tt.want) {
				t.Errorf("\ngot error=%v %q, wanted error containing %q", res.IsError, text, tt.want)
			}
		})
	}
}

func TestTableInfoTool(t *testing.T) {
	res, text := callTool(t, TableInfoHandler(newTestService(t, true)), map[string]any{"table": "users"})
	if res.IsError {
		t.Fatalf("\ngot tool error %q", text)
	}
	var info model.TableInfo
	if err := json.Unmarshal([]byte(text), &info); err != nil {
		t.Fatalf("\ngot invalid json: %v", err)
	}
	if info.RowCount != 2 || info.ColumnCount != 5 {
		t.Errorf("\ngot %+v", info)
	}
}

func TestDatabaseInfoTool(t *testing.T) {
	res, text := callTool(t, DatabaseInfoHandler(newTestService(t, true)), nil)
	if res.IsError {
		t.Fatalf("\ngot tool error %q", text)
	}
	var summary model.DatabaseSummary
	if err := json.Unmarshal([]byte(text), &summary); err != nil {
		t.Fatalf("\ngot invalid json: %v", err)
	}
	if summary.TableCount != 5 {
		t.Errorf("\ngot %+v", summary)
	}

	res, text = callTool(t, DatabaseInfoHandler(newTestService(t, false)), nil)
	if !res.IsError || !strings.Contains(text, "DatabaseNotFound") {
		t.Errorf("\ngot error=%v %q, wanted DatabaseNotFound", res.IsError, text)
	}
}

func TestRegisterTools(t *testing.T) {
	s := server.NewMCPServer("sqlite-viewer", "test", server.WithToolCapabilities(false))
	RegisterTools(s, newTestService(t, false))
}
