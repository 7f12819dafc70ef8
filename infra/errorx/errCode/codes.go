package errCode

// 业务错误码, 与日志/上游排障约定一致
type Code int

const (
	OK            Code = iota // 正常
	EMPTY_VALUE               // 输入为空
	INVALID_VALUE             // 非法取值
	NOT_CONVERGED             // 优化器未收敛
	IO_ERROR                  // 文件读写失败
	PARSE_ERROR               // 解析失败
)

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case EMPTY_VALUE:
		return "EMPTY_VALUE"
	case INVALID_VALUE:
		return "INVALID_VALUE"
	case NOT_CONVERGED:
		return "NOT_CONVERGED"
	case IO_ERROR:
		return "IO_ERROR"
	case PARSE_ERROR:
		return "PARSE_ERROR"
	default:
		return "UNKNOWN"
	}
}
