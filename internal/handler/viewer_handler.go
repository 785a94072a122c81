package handler

import (
	"net/http"
	"strconv"

	"SqliteViewer/internal/model"
	"SqliteViewer/internal/service"
	"SqliteViewer/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ViewerHandler 表查看接口
type ViewerHandler struct {
	svc *service.ViewerService
}

// NewViewerHandler 创建表查看接口
func NewViewerHandler(svc *service.ViewerService) *ViewerHandler {
	return &ViewerHandler{svc: svc}
}

// Tables 获取所有表名
// GET /api/tables
func (h *ViewerHandler) Tables(c *gin.Context) {
	tables := h.svc.GetTables(c.Request.Context())
	c.JSON(http.StatusOK, model.TablesResponse{Tables: tables})
}

// TablePage 获取表数据
// GET /api/table/:name?limit=100
func (h *ViewerHandler) TablePage(c *gin.Context) {
	table := c.Param("name")
	limit := parseLimit(c.Query("limit"))
	logrus.Infof("[Handler] Table %s requested, limit %d", table, limit)

	page, err := h.svc.GetTablePage(c.Request.Context(), table, limit)
	if err != nil {
		writeError(c, err, table)
		return
	}
	c.JSON(http.StatusOK, page)
}

// TableInfo 获取表的基本信息
// GET /api/table/:name/info
func (h *ViewerHandler) TableInfo(c *gin.Context) {
	table := c.Param("name")
	info, err := h.svc.GetTableInfo(c.Request.Context(), table)
	if err != nil {
		writeError(c, err, table)
		return
	}
	c.JSON(http.StatusOK, info)
}

// DatabaseInfo 获取数据库概要
// GET /api/database/info
func (h *ViewerHandler) DatabaseInfo(c *gin.Context) {
	summary, err := h.svc.GetDatabaseSummary(c.Request.Context())
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// parseLimit 无法解析时返回0，由服务层使用默认值
func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// writeError 转换为统一的错误响应
func writeError(c *gin.Context, err error, table string) {
	ve, ok := model.AsViewerError(err)
	if !ok {
		ve = model.ErrQuery(table, err)
	}
	if ve.Code >= http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{"table": ve.Table, "path": ve.Path, "error_type": ve.Kind}).
			Errorf("[Handler] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	resp := common.NewErrorResponse(ve.Detail()).WithType(string(ve.Kind)).WithTable(ve.Table).WithPath(ve.Path)
	c.JSON(ve.Code, resp)
}
