package common

// HttpResponse 监控类接口的响应结构
type HttpResponse struct {
	Code    int         `json:"code"`    // 响应码
	Message string      `json:"message"` // 响应消息
	Data    interface{} `json:"data"`    // 响应数据
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) *HttpResponse {
	return &HttpResponse{
		Code:    200,
		Message: "success",
		Data:    data,
	}
}

// ErrorResponse 数据接口的错误响应
type ErrorResponse struct {
	Error     string `json:"error"`                // 错误信息
	ErrorType string `json:"error_type,omitempty"` // 错误分类
	TableName string `json:"table_name,omitempty"` // 相关的表
	Path      string `json:"path,omitempty"`       // 相关的数据库文件
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Error: message}
}

// WithType 设置错误分类
func (r *ErrorResponse) WithType(kind string) *ErrorResponse {
	r.ErrorType = kind
	return r
}

// WithTable 设置相关表名
func (r *ErrorResponse) WithTable(table string) *ErrorResponse {
	r.TableName = table
	return r
}

// WithPath 设置数据库文件路径
func (r *ErrorResponse) WithPath(path string) *ErrorResponse {
	r.Path = path
	return r
}
