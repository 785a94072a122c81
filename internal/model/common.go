package model

import (
	"errors"
	"fmt"
)

// ErrorKind 错误分类
type ErrorKind string

const (
	KindConnect          ErrorKind = "ConnectFailure"
	KindDatabaseNotFound ErrorKind = "DatabaseNotFound"
	KindValidation       ErrorKind = "ValidationFailure"
	KindNotFound         ErrorKind = "NotFound"
	KindQuery            ErrorKind = "QueryFailure"
	KindSchema           ErrorKind = "SchemaFailure"
)

// ViewerError 自定义错误类型
type ViewerError struct {
	Code    int       `json:"code"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Table   string    `json:"table,omitempty"`
	Path    string    `json:"path,omitempty"`
	Err     error     `json:"-"`
}

func (e *ViewerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("code: %d, message: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("code: %d, message: %s", e.Code, e.Message)
}

func (e *ViewerError) Unwrap() error {
	return e.Err
}

// Detail 返回面向客户端的错误信息，包含底层错误文本
func (e *ViewerError) Detail() string {
	if inner, ok := AsViewerError(e.Err); ok {
		return e.Message + ": " + inner.Detail()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// 预定义错误
var (
	ErrInvalidTableName = func(table, msg string) *ViewerError {
		return &ViewerError{Code: 400, Kind: KindValidation, Message: msg, Table: table}
	}
	ErrInvalidLimit = func(table string, limit int) *ViewerError {
		return &ViewerError{Code: 400, Kind: KindValidation, Message: fmt.Sprintf("invalid limit: %d", limit), Table: table}
	}
	ErrTableNotFound = func(table string) *ViewerError {
		return &ViewerError{Code: 404, Kind: KindNotFound, Message: "table not found", Table: table}
	}
	ErrDatabaseNotFound = func(path string) *ViewerError {
		return &ViewerError{Code: 404, Kind: KindDatabaseNotFound, Message: "database file not found", Path: path}
	}
	ErrConnect = func(path string, err error) *ViewerError {
		return &ViewerError{Code: 500, Kind: KindConnect, Message: "database connection failed", Path: path, Err: err}
	}
	ErrQuery = func(table string, err error) *ViewerError {
		return &ViewerError{Code: 500, Kind: KindQuery, Message: "query failed", Table: table, Err: err}
	}
	ErrSchema = func(table string, err error) *ViewerError {
		return &ViewerError{Code: 500, Kind: KindSchema, Message: "failed to load table schema", Table: table, Err: err}
	}
)

// AsViewerError 从错误链中取出 ViewerError
func AsViewerError(err error) (*ViewerError, bool) {
	var ve *ViewerError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsKind 判断错误链中是否包含指定分类的错误
func IsKind(err error, kind ErrorKind) bool {
	ve, ok := AsViewerError(err)
	return ok && ve.Kind == kind
}
