package coltype

// 以下类型用于声明 Go 原生类型无法区分的列类型，底层类型与 gorm 兼容

// Unicode 短 unicode 字符串列，如 NVARCHAR
type Unicode string

// UnicodeText 长 unicode 文本列，如 NTEXT
type UnicodeText string

// Numeric 定点数列，如 NUMERIC / DECIMAL
type Numeric float64
