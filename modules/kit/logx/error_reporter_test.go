package logx

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"FrontierTown/modules/kit/errx"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildErrorLog_能提取语义与栈(t *testing.T) {
	cause := errors.New("store down")
	e := errx.NewSys("SYS_INTERNAL", "internal server error").
		WithData("action", "build").
		WithCause(cause)

	meta := BuildErrorLog(e)
	if meta.Error == "" {
		t.Fatalf("期望 meta.Error 非空")
	}
	if meta.Code == "" {
		t.Fatalf("期望 meta.Code 非空")
	}
	if meta.Msg == "" {
		t.Fatalf("期望 meta.Msg 非空")
	}
	if meta.Data == nil || meta.Data["action"] != "build" {
		t.Fatalf("期望 meta.Data 包含 action=build, got=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("期望 meta.CauseChain 非空")
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望 meta.Origin/meta.Stack 非空（错误发生/转换处栈） origin=%q stack=%q", meta.Origin, meta.Stack)
	}
}

func TestReportError_业务错误记INFO_系统错误记ERROR(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))
	ctx := context.Background()

	ReportErrorWithLoggerContext(ctx, l, "build", fmt.Errorf("wrap: %w", errx.NewBiz("TOWN_INVALID_TYPE", "invalid building type")))
	ReportErrorWithLoggerContext(ctx, l, "tick", errors.New("boom"))

	entries := logs.AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("期望 2 条日志, got=%d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[0].ContextMap()["err_type"] != "biz" {
		t.Fatalf("期望业务拒绝 INFO + err_type=biz, got=%v %v", entries[0].Level, entries[0].ContextMap())
	}
	if entries[1].Level != zapcore.ErrorLevel || entries[1].ContextMap()["err_type"] != "sys" {
		t.Fatalf("期望技术错误 ERROR + err_type=sys, got=%v %v", entries[1].Level, entries[1].ContextMap())
	}
}

type testReason string

func (r testReason) ReasonCode() string { return string(r) }

func TestReportError_业务拒绝优先记细分reason(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))
	ctx := context.Background()

	withReason := errx.NewBiz("TOWN_VALIDATION_ERROR", "quantity too large").WithReason(testReason("QUANTITY_OVERFLOW"))
	ReportErrorWithLoggerContext(ctx, l, "recruit", withReason)
	ReportErrorWithLoggerContext(ctx, l, "build", errx.NewBiz("TOWN_INVALID_TYPE", "invalid building type"))

	entries := logs.AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("期望 2 条日志, got=%d", len(entries))
	}
	if got := entries[0].ContextMap()["reason"]; got != "QUANTITY_OVERFLOW" {
		t.Fatalf("期望 reason=QUANTITY_OVERFLOW, got=%v", got)
	}
	if got := entries[1].ContextMap()["reason"]; got != "TOWN_INVALID_TYPE" {
		t.Fatalf("无 reason 时期望退回 code, got=%v", got)
	}
}

func TestBuildErrorLog_普通错误只有cause链(t *testing.T) {
	meta := BuildErrorLog(fmt.Errorf("tick: %w", errors.New("store down")))
	if meta.Kind != "sys" || meta.Code != "" {
		t.Fatalf("期望 kind=sys 且无 code, got=%+v", meta)
	}
	if len(meta.CauseChain) != 1 {
		t.Fatalf("期望 1 层 cause, got=%v", meta.CauseChain)
	}
	if len(meta.Fields()) != 1 {
		t.Fatalf("期望只输出 cause_chain 字段, got=%d", len(meta.Fields()))
	}
}
