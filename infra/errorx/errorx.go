package errorx

import (
	"errors"
	"fmt"

	"bpstat/infra/errorx/errCode"
)

// 带错误码的业务error
type Errorx struct {
	Code errCode.Code
	Msg  string
}

func (e *Errorx) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Msg)
}

func New(code errCode.Code, msg string) error {
	return &Errorx{Code: code, Msg: msg}
}

func Newf(code errCode.Code, format string, args ...any) error {
	return &Errorx{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// 取错误码, 非Errorx返回OK之外的UNKNOWN语义交由调用方处理
func CodeOf(err error) errCode.Code {
	var e *Errorx
	if errors.As(err, &e) {
		return e.Code
	}
	return errCode.OK
}
