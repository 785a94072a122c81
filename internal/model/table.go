package model

// ColumnDescriptor 字段描述，对应 PRAGMA table_info 的一行
type ColumnDescriptor struct {
	CID          int     `json:"cid"`           // 字段位置，从0开始
	Name         string  `json:"name"`          // 字段名
	Type         string  `json:"type"`          // 声明类型
	NotNull      bool    `json:"notnull"`       // 是否非空
	DefaultValue *string `json:"default_value"` // 默认值，可为null
	PK           bool    `json:"pk"`            // 是否主键
	PKRank       int     `json:"pk_rank"`       // 在复合主键中的位置，非主键为0
	Indexed      bool    `json:"indexed"`       // 是否出现在任一索引中
}

// Index 索引信息
type Index struct {
	Name    string   `json:"name"`
	Unique  bool     `json:"unique"`
	Origin  string   `json:"origin"` // c: CREATE INDEX, u: UNIQUE 约束, pk: 主键
	Columns []string `json:"columns"`
}

// HasColumn 判断索引是否包含某字段
func (i *Index) HasColumn(name string) bool {
	for _, c := range i.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// TablePage 表数据页
type TablePage struct {
	Data      []Row              `json:"data"`
	Schema    []ColumnDescriptor `json:"schema"`
	TableName string             `json:"table_name"`
	TotalRows int                `json:"total_rows"`
	Status    string             `json:"status"`
	OrderBy   string             `json:"order_by,omitempty"`
}

// NewTablePage 创建表数据页
func NewTablePage(table string, rows []Row, schema []ColumnDescriptor) *TablePage {
	if rows == nil {
		rows = []Row{}
	}
	if schema == nil {
		schema = []ColumnDescriptor{}
	}
	return &TablePage{
		Data:      rows,
		Schema:    schema,
		TableName: table,
		TotalRows: len(rows),
		Status:    "success",
	}
}

// TableInfo 表基本信息
type TableInfo struct {
	TableName   string             `json:"table_name"`
	RowCount    int64              `json:"row_count"`
	ColumnCount int                `json:"column_count"`
	Schema      []ColumnDescriptor `json:"schema"`
	Indexes     []Index            `json:"indexes"`
}

// DatabaseSummary 数据库概要
type DatabaseSummary struct {
	Path          string   `json:"path"`
	FileSize      int64    `json:"file_size"`
	FileSizeHuman string   `json:"file_size_human"`
	TableCount    int      `json:"table_count"`
	TotalRecords  int64    `json:"total_records"`
	Tables        []string `json:"tables"`
	SkippedTables []string `json:"skipped_tables"` // 计数失败而未计入 total_records 的表
}

// TablesResponse 表列表响应
type TablesResponse struct {
	Tables []string `json:"tables"`
}
