package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"SqliteViewer/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

const (
	listTablesSQL  = `SELECT name FROM sqlite_master WHERE type='table' ORDER BY name`
	tableExistsSQL = `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = ?`
	tableInfoSQL   = `SELECT cid, name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`
	indexListSQL   = `SELECT name, "unique", origin FROM pragma_index_list(?) ORDER BY seq`
	indexInfoSQL   = `SELECT name FROM pragma_index_info(?) ORDER BY seqno`
)

// rowidIndexName rowid 别名主键没有单独的索引，用该名称表示表本身的B树
const rowidIndexName = "rowid"

// SQLiteRepository 单个连接上的只读查询
type SQLiteRepository struct {
	db *sqlx.DB
	q  Queryer
}

// NewSQLiteRepository 包装已打开的连接
func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, q: db}
}

// WithQueryer 替换查询入口，连接的生命周期仍由原仓储管理
// 供测试注入查询故障使用，正常路径只经过 NewSQLiteRepository
func (r *SQLiteRepository) WithQueryer(q Queryer) *SQLiteRepository {
	return &SQLiteRepository{db: r.db, q: q}
}

// Queryer 当前的查询入口，测试中用于包装原有连接
func (r *SQLiteRepository) Queryer() Queryer {
	return r.q
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// ListTables 获取所有表名，按名称排序
func (r *SQLiteRepository) ListTables(ctx context.Context) ([]string, error) {
	tables := []string{}
	if err := sqlx.SelectContext(ctx, r.q, &tables, listTablesSQL); err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	logrus.Debugf("[Repository] Found %d tables: %v", len(tables), tables)
	return tables, nil
}

// TableExists 检查表是否存在于系统表中
func (r *SQLiteRepository) TableExists(ctx context.Context, table string) (bool, error) {
	n, err := r.queryInt64(ctx, tableExistsSQL, table)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", table, err)
	}
	return n > 0, nil
}

// DescribeTable 获取表结构，包含索引标记
func (r *SQLiteRepository) DescribeTable(ctx context.Context, table string) ([]model.ColumnDescriptor, error) {
	if err := r.requireTable(ctx, table); err != nil {
		return nil, err
	}

	columns, err := r.loadColumns(ctx, table)
	if err != nil {
		return nil, err
	}

	indexes, err := r.loadIndexes(ctx, table, columns)
	if err != nil {
		return nil, err
	}

	for i := range columns {
		for j := range indexes {
			if indexes[j].HasColumn(columns[i].Name) {
				columns[i].Indexed = true
				break
			}
		}
	}

	logrus.Debugf("[Repository] Table %s: %d columns, %d indexes", table, len(columns), len(indexes))
	return columns, nil
}

// ListIndexes 获取表的索引
func (r *SQLiteRepository) ListIndexes(ctx context.Context, table string) ([]model.Index, error) {
	if err := r.requireTable(ctx, table); err != nil {
		return nil, err
	}
	columns, err := r.loadColumns(ctx, table)
	if err != nil {
		return nil, err
	}
	return r.loadIndexes(ctx, table, columns)
}

// CountRows 统计表的行数
func (r *SQLiteRepository) CountRows(ctx context.Context, table string) (int64, error) {
	n, err := r.queryInt64(ctx, "SELECT COUNT(*) FROM "+quoteIdent(table))
	if err != nil {
		return 0, fmt.Errorf("count rows of %s: %w", table, err)
	}
	return n, nil
}

// CountAll 统计多张表的总行数，计数失败的表跳过并返回
func (r *SQLiteRepository) CountAll(ctx context.Context, tables []string) (int64, []string) {
	var total int64
	skipped := []string{}
	for _, t := range tables {
		n, err := r.CountRows(ctx, t)
		if err != nil {
			logrus.WithFields(logrus.Fields{"table": t, "op": "count_all"}).
				Warnf("[Repository] Skipping table in total count: %v", err)
			skipped = append(skipped, t)
			continue
		}
		total += n
	}
	return total, skipped
}

func (r *SQLiteRepository) requireTable(ctx context.Context, table string) error {
	ok, err := r.TableExists(ctx, table)
	if err != nil {
		return model.ErrQuery(table, err)
	}
	if !ok {
		return model.ErrTableNotFound(table)
	}
	return nil
}

type tableInfoRow struct {
	CID     int            `db:"cid"`
	Name    string         `db:"name"`
	Type    string         `db:"type"`
	NotNull int            `db:"notnull"`
	Default sql.NullString `db:"dflt_value"`
	PK      int            `db:"pk"`
}

func (r *SQLiteRepository) loadColumns(ctx context.Context, table string) ([]model.ColumnDescriptor, error) {
	var infos []tableInfoRow
	if err := sqlx.SelectContext(ctx, r.q, &infos, tableInfoSQL, table); err != nil {
		return nil, fmt.Errorf("query columns for %s: %w", table, err)
	}

	columns := make([]model.ColumnDescriptor, 0, len(infos))
	for _, info := range infos {
		var def *string
		if info.Default.Valid {
			d := info.Default.String
			def = &d
		}
		columns = append(columns, model.ColumnDescriptor{
			CID:          info.CID,
			Name:         info.Name,
			Type:         info.Type,
			NotNull:      info.NotNull != 0,
			DefaultValue: def,
			PK:           info.PK > 0,
			PKRank:       info.PK,
		})
	}
	return columns, nil
}

type indexListRow struct {
	Name   string `db:"name"`
	Unique int    `db:"unique"`
	Origin string `db:"origin"`
}

func (r *SQLiteRepository) loadIndexes(ctx context.Context, table string, columns []model.ColumnDescriptor) ([]model.Index, error) {
	var list []indexListRow
	if err := sqlx.SelectContext(ctx, r.q, &list, indexListSQL, table); err != nil {
		return nil, fmt.Errorf("query indexes for %s: %w", table, err)
	}

	indexes := make([]model.Index, 0, len(list)+1)
	hasPK := false
	for _, item := range list {
		// 表达式索引的列名为 NULL
		var names []sql.NullString
		if err := sqlx.SelectContext(ctx, r.q, &names, indexInfoSQL, item.Name); err != nil {
			return nil, fmt.Errorf("query index %s: %w", item.Name, err)
		}
		cols := make([]string, 0, len(names))
		for _, n := range names {
			if n.Valid {
				cols = append(cols, n.String)
			}
		}
		if item.Origin == "pk" {
			hasPK = true
		}
		indexes = append(indexes, model.Index{
			Name:    item.Name,
			Unique:  item.Unique != 0,
			Origin:  item.Origin,
			Columns: cols,
		})
	}

	if !hasPK {
		if pk := primaryKeyColumns(columns); len(pk) > 0 {
			indexes = append(indexes, model.Index{
				Name:    rowidIndexName,
				Unique:  true,
				Origin:  "pk",
				Columns: pk,
			})
		}
	}
	return indexes, nil
}

// primaryKeyColumns 按主键顺序返回主键字段
func primaryKeyColumns(columns []model.ColumnDescriptor) []string {
	var pk []string
	for rank := 1; ; rank++ {
		found := false
		for _, c := range columns {
			if c.PKRank == rank {
				pk = append(pk, c.Name)
				found = true
			}
		}
		if !found {
			return pk
		}
	}
}

// queryInt64 读取单个整数结果
func (r *SQLiteRepository) queryInt64(ctx context.Context, query string, args ...interface{}) (int64, error) {
	rows, err := r.q.QueryxContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var n int64
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("no result for %q", query)
	}
	if err := rows.Scan(&n); err != nil {
		return 0, err
	}
	return n, rows.Err()
}

// quoteIdent 为标识符加双引号
// 只用于已在系统表中确认存在的表名和字段名，值一律使用占位符
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
