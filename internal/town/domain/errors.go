package domain

import "FrontierTown/modules/kit/errx"

// Code 表示领域错误码（对外语义的唯一来源之一）。
//
// 约定：
// - 领域层只关心“是什么错”（code）以及“业务上下文”（data）
// - cause 仅用于溯源/日志，不参与对外语义
type Code = errx.Code

const (
	CodeNotFound              Code = "TOWN_NOT_FOUND"
	CodeInvalidType           Code = "TOWN_INVALID_TYPE"
	CodeInsufficientResources Code = "TOWN_INSUFFICIENT_RESOURCES"
	CodeValidation            Code = "TOWN_VALIDATION_ERROR"
)

// Error 复用通用错误模型。
type Error = errx.Error

// 哨兵错误：禁止直接修改其 data/cause（通过 WithData/WithCause 派生新对象）。
var (
	ErrNotFound              = errx.NewBiz(CodeNotFound, "not found")
	ErrPlayerNotFound        = errx.NewBiz(CodeNotFound, "player not found")
	ErrInvalidBuildingType   = errx.NewBiz(CodeInvalidType, "invalid building type")
	ErrInvalidUnitType       = errx.NewBiz(CodeInvalidType, "invalid unit type")
	ErrInsufficientResources = errx.NewBiz(CodeInsufficientResources, "insufficient resources")
	ErrValidation            = errx.NewBiz(CodeValidation, "validation error")
)

// Validation 派生一个带具体说明的校验错误。
func Validation(msg string) *Error {
	return errx.NewBiz(CodeValidation, msg)
}
