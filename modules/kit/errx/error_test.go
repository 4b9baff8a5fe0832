package errx

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Is_只按code比较语义(t *testing.T) {
	e1 := NewBiz("TOWN_X", "x").WithData("k", "v").WithCause(errors.New("cause1"))
	e2 := NewBiz("TOWN_X", "x2").WithData("k2", "v2").WithCause(errors.New("cause2"))
	if !errors.Is(e1, e2) {
		t.Fatalf("期望 errors.Is(e1, e2)==true（只按 code 判断语义），e1=%v e2=%v", e1, e2)
	}
}

func TestError_业务错误不捕获栈_但保留cause链(t *testing.T) {
	cause := errors.New("store down")
	err := NewBiz("TOWN_NOT_FOUND", "player not found").WithCause(cause)
	if got := err.Stack(); got != nil {
		t.Fatalf("期望业务错误不捕获栈，got=%v", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("期望 cause 链不丢，err=%v", err)
	}
	if !err.IsBiz() {
		t.Fatalf("期望 IsBiz()==true")
	}
}

func TestError_系统错误捕获一次栈_且不重复捕获(t *testing.T) {
	cause := errors.New("io timeout")
	sys := NewSys("SYS_STORE_UNAVAILABLE", "store unavailable").WithCause(cause)
	if got := sys.Stack(); len(got) == 0 {
		t.Fatalf("期望系统错误捕获栈（发生/转换处），got=%v", got)
	}

	sys2 := NewSys("SYS_RUNTIME_ERROR", "runtime error").WithCause(sys)
	if got := sys2.Stack(); got != nil {
		t.Fatalf("期望上层系统错误不重复捕获栈（cause 链里已有栈），got=%v", got)
	}
	if sys2.IsBiz() {
		t.Fatalf("期望系统错误 IsBiz()==false")
	}
}

func TestError_Data_防止外部map污染(t *testing.T) {
	m := map[string]any{"k": "v"}
	err := NewBiz("TOWN_X", "").WithDataMap(m)
	m["k"] = "mutated"
	if got := err.Data()["k"]; got != "v" {
		t.Fatalf("期望构造时复制 data，got=%v", got)
	}
}

func TestCodeOf_穿透fmt包装(t *testing.T) {
	err := fmt.Errorf("build: %w", NewBiz("TOWN_INVALID_TYPE", "invalid building type"))
	if got := CodeOf(err); got != "TOWN_INVALID_TYPE" {
		t.Fatalf("期望 CodeOf 取到 TOWN_INVALID_TYPE, got=%q", got)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Fatalf("期望普通错误 CodeOf 为空, got=%q", got)
	}
}

type stubReason string

func (r stubReason) ReasonCode() string { return string(r) }

func TestError_WithReason_写入data且不改哨兵(t *testing.T) {
	base := NewBiz("TOWN_VALIDATION_ERROR", "quantity too large")
	err := base.WithReason(stubReason("QUANTITY_OVERFLOW"))
	if got := err.Reason(); got != "QUANTITY_OVERFLOW" {
		t.Fatalf("期望 Reason()==QUANTITY_OVERFLOW, got=%q", got)
	}
	if base.Reason() != "" {
		t.Fatalf("期望哨兵不被修改, got=%q", base.Reason())
	}
	if got := base.WithReason(nil).Reason(); got != "" {
		t.Fatalf("期望 nil reason 得到空串, got=%q", got)
	}
}
