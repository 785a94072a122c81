package model

// ValidateTableName 校验表名只包含字母、数字和下划线
// 至少包含一个字母或数字，"___" 这类纯下划线名称同样视为非法
func ValidateTableName(name string) error {
	if name == "" {
		return ErrInvalidTableName(name, "table name is empty")
	}
	alnum := false
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			alnum = true
		case ch == '_':
		default:
			return ErrInvalidTableName(name, "invalid table name")
		}
	}
	if !alnum {
		return ErrInvalidTableName(name, "invalid table name")
	}
	return nil
}
