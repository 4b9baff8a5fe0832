package handler

import (
	"context"
	nethttp "net/http"

	"FrontierTown/internal/shared/transport"
	"FrontierTown/internal/shared/transport/ws"
	"FrontierTown/internal/town/domain"
	"FrontierTown/internal/town/interfaces/handler/dto"
	"FrontierTown/modules/kit/errx"
)

const internalMsg = "internal server error"

type mapped struct {
	status  int
	bizCode transport.BizCode
}

var bizErrors = map[errx.Code]mapped{
	domain.CodeNotFound:              {nethttp.StatusNotFound, transport.NotFound},
	domain.CodeInvalidType:           {nethttp.StatusBadRequest, transport.InvalidType},
	domain.CodeInsufficientResources: {nethttp.StatusBadRequest, transport.InsufficientResources},
	domain.CodeValidation:            {nethttp.StatusBadRequest, transport.InvalidParam},
}

var sysErrors = map[errx.Code]mapped{
	errx.CodeTimeout:       {nethttp.StatusGatewayTimeout, transport.Timeout},
	errx.CodeUnavailable:   {nethttp.StatusServiceUnavailable, transport.SystemError},
	errx.CodeReqParamError: {nethttp.StatusBadRequest, transport.InvalidParam},
}

// HandleError 把错误翻译成 HTTP 状态码与响应体，同时把业务码和原因写进 access 日志上下文。
// 业务错误把 message 原样给客户端；系统错误只给通用文案。
func HandleError(ctx context.Context, err error) (int, dto.ErrorResp) {
	e, ok := errx.As(err)
	if !ok {
		transport.SetBizCode(ctx, transport.SystemError)
		transport.SetErrorReason(ctx, err.Error())
		return nethttp.StatusInternalServerError, dto.ErrorResp{Code: string(errx.CodeInternal), Error: internalMsg}
	}

	// access 日志优先记细分原因
	if r := e.Reason(); r != "" {
		transport.SetErrorReason(ctx, r)
	} else {
		transport.SetErrorReason(ctx, e.CodeText())
	}
	if e.IsBiz() {
		m, known := bizErrors[e.Code()]
		if !known {
			m = mapped{nethttp.StatusBadRequest, transport.InvalidParam}
		}
		transport.SetBizCode(ctx, m.bizCode)
		return m.status, dto.ErrorResp{Code: e.CodeText(), Error: e.Msg()}
	}

	m, known := sysErrors[e.Code()]
	if !known {
		m = mapped{nethttp.StatusInternalServerError, transport.SystemError}
	}
	transport.SetBizCode(ctx, m.bizCode)
	return m.status, dto.ErrorResp{Code: e.CodeText(), Error: publicMessage(e)}
}

func publicMessage(e *errx.Error) string {
	if e.Code() == errx.CodeInternal {
		return internalMsg
	}
	return e.Msg()
}

// WsError ws 失败回包使用与 HTTP 一致的错误码。
func WsError(ctx context.Context, err error) ws.ErrorFrame {
	_, resp := HandleError(ctx, err)
	return ws.ErrorFrame{Code: resp.Code, Message: resp.Error}
}
