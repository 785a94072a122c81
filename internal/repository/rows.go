package repository

import (
	"context"
	"fmt"
	"strings"

	"SqliteViewer/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// OrderStrategy 默认排序策略
type OrderStrategy int

const (
	OrderNone         OrderStrategy = iota // 不排序，按存储顺序
	OrderByTime                            // 按时间相关字段倒序
	OrderByPrimaryKey                      // 按主键倒序
)

func (s OrderStrategy) String() string {
	switch s {
	case OrderByTime:
		return "time"
	case OrderByPrimaryKey:
		return "primary_key"
	default:
		return "none"
	}
}

// timeKeywords 字段名包含这些词（不区分大小写）即视为时间字段
var timeKeywords = []string{"time", "date", "created", "updated", "timestamp"}

// Ordering 选定的排序方式
type Ordering struct {
	Strategy OrderStrategy
	Column   string
}

// ChooseOrdering 选择"最新在前"的排序字段
// 优先时间字段，其次主键，都没有则不排序
func ChooseOrdering(columns []model.ColumnDescriptor) Ordering {
	for _, c := range columns {
		lower := strings.ToLower(c.Name)
		for _, kw := range timeKeywords {
			if strings.Contains(lower, kw) {
				return Ordering{Strategy: OrderByTime, Column: c.Name}
			}
		}
	}
	for _, c := range columns {
		if c.PK {
			return Ordering{Strategy: OrderByPrimaryKey, Column: c.Name}
		}
	}
	return Ordering{Strategy: OrderNone}
}

// FetchResult 取数结果
type FetchResult struct {
	Rows     []model.Row
	Ordering Ordering
	Fallback bool  // 排序查询失败，使用了不排序的回退查询
	Err      error // 被记录但未向上返回的查询错误
}

// textTimeTypes 驱动会把这些声明类型字段中的文本解析为 time.Time
var textTimeTypes = map[string]bool{"DATE": true, "DATETIME": true, "TIMESTAMP": true}

// SELECT * 展开的字段，包含生成列，不含虚拟表的隐藏列
const selectColumnsSQL = `SELECT name, type FROM pragma_table_xinfo(?) WHERE hidden != 1 ORDER BY cid`

type selectColumn struct {
	Name string `db:"name"`
	Type string `db:"type"`
}

// projection 返回查询的字段列表
// 时间类型字段写成 +"col" AS "col"，表达式没有声明类型，驱动原样返回存储的文本
func (r *SQLiteRepository) projection(ctx context.Context, table string, columns []model.ColumnDescriptor) (string, error) {
	found := false
	for _, c := range columns {
		if textTimeTypes[strings.ToUpper(c.Type)] {
			found = true
			break
		}
	}
	if !found {
		return "*", nil
	}

	var cols []selectColumn
	if err := sqlx.SelectContext(ctx, r.q, &cols, selectColumnsSQL, table); err != nil {
		return "", fmt.Errorf("query select columns for %s: %w", table, err)
	}
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		name := quoteIdent(c.Name)
		if textTimeTypes[strings.ToUpper(c.Type)] {
			name = "+" + name + " AS " + name
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ", "), nil
}

// selectStatement 构造有界查询，表名和字段名已经过系统表校验，LIMIT 使用占位符
func selectStatement(table, projection string, o Ordering) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(projection)
	b.WriteString(" FROM ")
	b.WriteString(quoteIdent(table))
	if o.Column != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(quoteIdent(o.Column))
		b.WriteString(" DESC")
	}
	b.WriteString(" LIMIT ?")
	return b.String()
}

// FetchRows 按默认排序获取表中最多 limit 行
// 排序查询失败时回退到逐行读取的不排序查询，回退也失败则返回空结果，错误只记录日志
func (r *SQLiteRepository) FetchRows(ctx context.Context, table string, limit int) (*FetchResult, error) {
	if limit <= 0 {
		return nil, model.ErrInvalidLimit(table, limit)
	}
	log := logrus.WithFields(logrus.Fields{"table": table, "op": "fetch_rows"})

	if err := r.requireTable(ctx, table); err != nil {
		if model.IsKind(err, model.KindNotFound) {
			log.Warn("[Repository] Table does not exist")
		}
		return nil, err
	}

	columns, err := r.loadColumns(ctx, table)
	if err != nil {
		log.Errorf("[Repository] Load columns failed: %v", err)
		return &FetchResult{Rows: []model.Row{}, Err: err}, nil
	}

	total, err := r.CountRows(ctx, table)
	if err != nil {
		log.Errorf("[Repository] Count rows failed: %v", err)
		return &FetchResult{Rows: []model.Row{}, Err: err}, nil
	}
	if total == 0 {
		log.Info("[Repository] Table is empty")
		return &FetchResult{Rows: []model.Row{}}, nil
	}

	fields, err := r.projection(ctx, table, columns)
	if err != nil {
		log.Errorf("[Repository] Load select columns failed: %v", err)
		return &FetchResult{Rows: []model.Row{}, Err: err}, nil
	}

	ordering := ChooseOrdering(columns)
	query := selectStatement(table, fields, ordering)
	log.Infof("[Repository] %d columns, %d rows, ordering by %s %q", len(columns), total, ordering.Strategy, ordering.Column)
	log.Debugf("[Repository] Executing SQL: %s args: %d", query, limit)

	rows, err := r.readRows(ctx, query, limit)
	if err == nil {
		log.Infof("[Repository] Fetched %d rows", len(rows))
		return &FetchResult{Rows: rows, Ordering: ordering}, nil
	}
	log.WithField("error_type", fmt.Sprintf("%T", err)).Errorf("[Repository] Ordered read failed, falling back: %v", err)

	fallback := selectStatement(table, fields, Ordering{Strategy: OrderNone})
	rows, ferr := r.scanRows(ctx, fallback, limit)
	if ferr != nil {
		log.WithField("error_type", fmt.Sprintf("%T", ferr)).Errorf("[Repository] Fallback read failed: %v", ferr)
		return &FetchResult{Rows: []model.Row{}, Fallback: true, Err: ferr}, nil
	}
	log.Infof("[Repository] Fetched %d rows with fallback query", len(rows))
	return &FetchResult{Rows: rows, Ordering: Ordering{Strategy: OrderNone}, Fallback: true, Err: err}, nil
}

// readRows 使用 sqlx 批量读取
func (r *SQLiteRepository) readRows(ctx context.Context, query string, args ...interface{}) ([]model.Row, error) {
	rows, err := r.q.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []model.Row{}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		out = append(out, model.NewRow(columns, values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// scanRows 使用 database/sql 逐行扫描
func (r *SQLiteRepository) scanRows(ctx context.Context, query string, args ...interface{}) ([]model.Row, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []model.Row{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out = append(out, model.NewRow(columns, values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
