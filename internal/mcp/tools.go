package mcp

import (
	"SqliteViewer/internal/service"

	goMCP "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// 工具名称
const (
	ToolListTables      = "list_tables"
	ToolGetTablePage    = "get_table_page"
	ToolGetTableInfo    = "get_table_info"
	ToolGetDatabaseInfo = "get_database_info"
)

// RegisterTools 注册只读查看工具
func RegisterTools(s *server.MCPServer, svc *service.ViewerService) {
	listTablesTool := goMCP.NewTool(ToolListTables,
		goMCP.WithDescription("List all tables in the SQLite database, sorted by name"),
	)

	tablePageTool := goMCP.NewTool(ToolGetTablePage,
		goMCP.WithDescription("Get rows from a table, most recent first, together with its schema"),
		goMCP.WithString("table",
			goMCP.Required(),
			goMCP.Description("Name of the table"),
		),
		goMCP.WithNumber("limit",
			goMCP.Description("Maximum number of rows to return (default: 100)"),
		),
	)

	tableInfoTool := goMCP.NewTool(ToolGetTableInfo,
		goMCP.WithDescription("Get row count, columns and indexes of a table"),
		goMCP.WithString("table",
			goMCP.Required(),
			goMCP.Description("Name of the table"),
		),
	)

	databaseInfoTool := goMCP.NewTool(ToolGetDatabaseInfo,
		goMCP.WithDescription("Get file size, table count and total record count of the database"),
	)

	s.AddTool(listTablesTool, ListTablesHandler(svc))
	s.AddTool(tablePageTool, TablePageHandler(svc))
	s.AddTool(tableInfoTool, TableInfoHandler(svc))
	s.AddTool(databaseInfoTool, DatabaseInfoHandler(svc))
}
