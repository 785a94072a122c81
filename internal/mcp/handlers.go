package mcp

import (
	"context"
	"fmt"

	"SqliteViewer/internal/model"
	"SqliteViewer/internal/service"
	"SqliteViewer/pkg/json"

	goMCP "github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// ToolHandler 工具处理函数
type ToolHandler = func(context.Context, goMCP.CallToolRequest) (*goMCP.CallToolResult, error)

// ListTablesHandler list_tables
func ListTablesHandler(svc *service.ViewerService) ToolHandler {
	return func(ctx context.Context, request goMCP.CallToolRequest) (*goMCP.CallToolResult, error) {
		return jsonResult(model.TablesResponse{Tables: svc.GetTables(ctx)})
	}
}

// TablePageHandler get_table_page
func TablePageHandler(svc *service.ViewerService) ToolHandler {
	return func(ctx context.Context, request goMCP.CallToolRequest) (*goMCP.CallToolResult, error) {
		table, err := request.RequireString("table")
		if err != nil {
			return goMCP.NewToolResultError(fmt.Sprintf("Missing table parameter: %v", err)), nil
		}

		page, err := svc.GetTablePage(ctx, table, limitArgument(request))
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(page)
	}
}

// TableInfoHandler get_table_info
func TableInfoHandler(svc *service.ViewerService) ToolHandler {
	return func(ctx context.Context, request goMCP.CallToolRequest) (*goMCP.CallToolResult, error) {
		table, err := request.RequireString("table")
		if err != nil {
			return goMCP.NewToolResultError(fmt.Sprintf("Missing table parameter: %v", err)), nil
		}

		info, err := svc.GetTableInfo(ctx, table)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(info)
	}
}

// DatabaseInfoHandler get_database_info
func DatabaseInfoHandler(svc *service.ViewerService) ToolHandler {
	return func(ctx context.Context, request goMCP.CallToolRequest) (*goMCP.CallToolResult, error) {
		summary, err := svc.GetDatabaseSummary(ctx)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(summary)
	}
}

// limitArgument 读取可选的 limit 参数，缺省或类型不对时返回0
func limitArgument(request goMCP.CallToolRequest) int {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return 0
	}
	switch v := args["limit"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func jsonResult(v interface{}) (*goMCP.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return goMCP.NewToolResultError(fmt.Sprintf("Failed to marshal results: %v", err)), nil
	}
	return goMCP.NewToolResultText(string(data)), nil
}

func errorResult(err error) *goMCP.CallToolResult {
	ve, ok := model.AsViewerError(err)
	if !ok {
		logrus.Errorf("[MCP] Tool failed: %v", err)
		return goMCP.NewToolResultError(err.Error())
	}
	if ve.Code >= 500 {
		logrus.WithFields(logrus.Fields{"table": ve.Table, "error_type": ve.Kind}).Errorf("[MCP] Tool failed: %v", err)
	}
	return goMCP.NewToolResultError(fmt.Sprintf("%s: %s", ve.Kind, ve.Detail()))
}
