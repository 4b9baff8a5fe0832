package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

const (
	maxCauseDepth  = 16
	maxStackFrames = 24
)

// semanticError errx.Error 对外暴露的语义，按接口取用，logx 不依赖 errx。
type semanticError interface {
	CodeText() string
	Msg() string
	Data() map[string]any
	Reason() string
	Stack() []uintptr
	IsBiz() bool
}

// ErrorLog 一条错误日志需要的全部信息。
type ErrorLog struct {
	Error      string
	Kind       string // biz / sys
	Code       string
	Msg        string
	Reason     string
	Data       map[string]any
	CauseChain []string
	Origin     string
	Stack      string
}

// BuildErrorLog 从错误链里取出 code、msg、reason、data、cause 链和首次包装处的栈。
// 非 errx 错误只有 Error 与 cause 链，Kind 记为 sys。
func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}
	out := ErrorLog{
		Error:      err.Error(),
		Kind:       "sys",
		CauseChain: causeChain(err),
	}

	var se semanticError
	if !errors.As(err, &se) {
		return out
	}
	if se.IsBiz() {
		out.Kind = "biz"
	}
	out.Code = se.CodeText()
	out.Msg = se.Msg()
	out.Reason = se.Reason()
	out.Data = se.Data()
	out.Origin, out.Stack = formatStack(se.Stack())
	return out
}

// Fields 把非空部分转成 zap 字段，系统错误日志直接追加。
func (e ErrorLog) Fields() []zap.Field {
	fields := make([]zap.Field, 0, 6)
	if e.Code != "" {
		fields = append(fields, zap.String("error_code", e.Code))
	}
	if e.Reason != "" {
		fields = append(fields, zap.String("reason", e.Reason))
	}
	if len(e.CauseChain) != 0 {
		fields = append(fields, zap.Strings("cause_chain", e.CauseChain))
	}
	if len(e.Data) != 0 {
		fields = append(fields, zap.Any("error_data", e.Data))
	}
	if e.Origin != "" {
		fields = append(fields, zap.String("origin_caller", e.Origin))
	}
	if e.Stack != "" {
		fields = append(fields, zap.String("stack_origin", e.Stack))
	}
	return fields
}

func causeChain(err error) []string {
	var out []string
	for cur, i := errors.Unwrap(err), 0; cur != nil && i < maxCauseDepth; cur, i = errors.Unwrap(cur), i+1 {
		out = append(out, fmt.Sprintf("%T: %v", cur, cur))
	}
	return out
}

func formatStack(pcs []uintptr) (origin string, stack string) {
	if len(pcs) == 0 {
		return "", ""
	}
	frames := runtime.CallersFrames(pcs)
	lines := make([]string, 0, 8)
	for i := 0; i < maxStackFrames; i++ {
		f, more := frames.Next()
		if f.Function == "" && f.File == "" && f.Line == 0 {
			break
		}
		lines = append(lines, fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line))
		if !more {
			break
		}
	}
	if len(lines) == 0 {
		return "", ""
	}
	return lines[0], strings.Join(lines, "\n")
}
