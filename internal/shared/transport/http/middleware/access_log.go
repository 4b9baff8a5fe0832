package middleware

import (
	"net/http"

	"FrontierTown/internal/shared/transport"
	"FrontierTown/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

// AccessLog 统一写访问日志。
// handler 通过 transport.SetBizCode 显式写入业务码；没写的按 HTTP 状态码推断。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		action := c.Request.Method + " " + route

		ctx := transport.NewContextWithParent(c.Request.Context(), action)
		c.Request = c.Request.WithContext(ctx)

		// defer：handler panic 时也要留下访问日志（未设置业务码按系统错误记）
		defer transport.WriteAccessLog(ctx, log)

		c.Next()

		if !transport.BizCodeSet(ctx) {
			transport.SetBizCode(ctx, bizCodeFromStatus(c.Writer.Status()))
		}
	}
}

func bizCodeFromStatus(status int) transport.BizCode {
	switch {
	case status >= http.StatusInternalServerError:
		return transport.SystemError
	case status == http.StatusNotFound:
		return transport.RouteNotFound
	case status >= http.StatusBadRequest:
		return transport.InvalidParam
	default:
		return transport.OK
	}
}
