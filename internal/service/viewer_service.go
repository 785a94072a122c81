package service

import (
	"context"
	"fmt"
	"os"

	"SqliteViewer/internal/model"
	"SqliteViewer/internal/repository"
	"SqliteViewer/internal/sanitize"
	"SqliteViewer/pkg/config"

	"github.com/sirupsen/logrus"
)

// Opener 打开只读仓储，*repository.Provider 满足该接口
type Opener interface {
	Open(ctx context.Context) (*repository.SQLiteRepository, error)
	Path() string
}

// ViewerService 表查看服务
// 不保存任何请求间状态，每次调用独立打开并关闭连接
type ViewerService struct {
	opener       Opener
	defaultLimit int
	maxLimit     int
}

// NewViewerService 创建表查看服务
func NewViewerService(opener Opener, cfg config.DatabaseConfig) *ViewerService {
	return &ViewerService{
		opener:       opener,
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
	}
}

// NormalizeLimit 非正数使用默认值，超过上限截断
func (s *ViewerService) NormalizeLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

// GetTables 获取表名列表，失败时只记录日志并返回空列表
func (s *ViewerService) GetTables(ctx context.Context) []string {
	repo, err := s.opener.Open(ctx)
	if err != nil {
		logrus.WithField("op", "get_tables").Errorf("[ViewerService] Open database failed: %v", err)
		return []string{}
	}
	defer repo.Close()

	tables, err := repo.ListTables(ctx)
	if err != nil {
		logrus.WithFields(logrus.Fields{"op": "get_tables", "error_type": fmt.Sprintf("%T", err)}).
			Errorf("[ViewerService] List tables failed: %v", err)
		return []string{}
	}
	logrus.Infof("[ViewerService] Found %d tables", len(tables))
	return tables
}

// GetTablePage 获取表数据页，行和表结构都经过JSON清洗
func (s *ViewerService) GetTablePage(ctx context.Context, table string, limit int) (*model.TablePage, error) {
	log := logrus.WithFields(logrus.Fields{"table": table, "op": "get_table_page"})
	if err := model.ValidateTableName(table); err != nil {
		log.Warnf("[ViewerService] Invalid table name: %v", err)
		return nil, err
	}
	limit = s.NormalizeLimit(limit)

	repo, err := s.opener.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	rows := []model.Row{}
	orderBy := ""
	res, err := repo.FetchRows(ctx, table, limit)
	switch {
	case err == nil:
		rows = res.Rows
		orderBy = res.Ordering.Column
		if res.Err != nil {
			log.WithField("fallback", res.Fallback).Warnf("[ViewerService] Rows degraded: %v", res.Err)
		}
	case model.IsKind(err, model.KindNotFound):
		log.Warn("[ViewerService] Table not found while fetching rows")
	default:
		log.WithField("error_type", fmt.Sprintf("%T", err)).Errorf("[ViewerService] Fetch rows failed: %v", err)
		return nil, err
	}

	// 表不存在同样视为结构获取失败
	schema, err := repo.DescribeTable(ctx, table)
	if err != nil {
		log.WithField("error_type", fmt.Sprintf("%T", err)).Errorf("[ViewerService] Load schema failed: %v", err)
		return nil, model.ErrSchema(table, err)
	}

	page := model.NewTablePage(table, sanitize.Rows(rows), sanitize.Columns(schema))
	page.OrderBy = orderBy
	log.Infof("[ViewerService] Returning %d rows", page.TotalRows)
	return page, nil
}

// GetTableInfo 获取表的行数和结构
func (s *ViewerService) GetTableInfo(ctx context.Context, table string) (*model.TableInfo, error) {
	log := logrus.WithFields(logrus.Fields{"table": table, "op": "get_table_info"})
	if err := model.ValidateTableName(table); err != nil {
		log.Warnf("[ViewerService] Invalid table name: %v", err)
		return nil, err
	}

	repo, err := s.opener.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	schema, err := repo.DescribeTable(ctx, table)
	if err != nil {
		if _, ok := model.AsViewerError(err); ok {
			return nil, err
		}
		return nil, model.ErrSchema(table, err)
	}

	indexes, err := repo.ListIndexes(ctx, table)
	if err != nil {
		if _, ok := model.AsViewerError(err); ok {
			return nil, err
		}
		return nil, model.ErrSchema(table, err)
	}

	count, err := repo.CountRows(ctx, table)
	if err != nil {
		log.WithField("error_type", fmt.Sprintf("%T", err)).Errorf("[ViewerService] Count rows failed: %v", err)
		return nil, model.ErrQuery(table, err)
	}

	return &model.TableInfo{
		TableName:   table,
		RowCount:    count,
		ColumnCount: len(schema),
		Schema:      sanitize.Columns(schema),
		Indexes:     indexes,
	}, nil
}

// GetDatabaseSummary 获取数据库概要，计数失败的表不计入总数
func (s *ViewerService) GetDatabaseSummary(ctx context.Context) (*model.DatabaseSummary, error) {
	path := s.opener.Path()
	log := logrus.WithFields(logrus.Fields{"op": "get_database_summary", "path": path})

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("[ViewerService] Database file not found")
			return nil, model.ErrDatabaseNotFound(path)
		}
		return nil, model.ErrConnect(path, err)
	}

	repo, err := s.opener.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	tables, err := repo.ListTables(ctx)
	if err != nil {
		log.WithField("error_type", fmt.Sprintf("%T", err)).Errorf("[ViewerService] List tables failed: %v", err)
		return nil, model.ErrQuery("", err)
	}

	total, skipped := repo.CountAll(ctx, tables)
	if len(skipped) > 0 {
		log.Warnf("[ViewerService] %d tables skipped in total count: %v", len(skipped), skipped)
	}

	return &model.DatabaseSummary{
		Path:          path,
		FileSize:      info.Size(),
		FileSizeHuman: FormatFileSize(info.Size()),
		TableCount:    len(tables),
		TotalRecords:  total,
		Tables:        tables,
		SkippedTables: skipped,
	}, nil
}

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatFileSize 格式化文件大小，如 "1.50 KB"
func FormatFileSize(size int64) string {
	if size == 0 {
		return "0 B"
	}
	f := float64(size)
	i := 0
	for f >= 1024 && i < len(sizeUnits)-1 {
		f /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", f, sizeUnits[i])
}
