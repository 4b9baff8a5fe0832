package middleware

import (
	"fmt"
	"net/http"

	"FrontierTown/internal/shared/transport"
	"FrontierTown/modules/kit/errx"
	"FrontierTown/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

// Recovery 兜底 handler panic：记系统错误日志，返回 500。
func Recovery(log logx.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		ctx := c.Request.Context()
		err := errx.ErrInternal.WithCause(fmt.Errorf("panic: %v", recovered))
		logx.ReportSysErrorWithLoggerContext(ctx, log, logx.NewSysLog("http_panic", err))
		transport.SetBizCode(ctx, transport.SystemError)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"code":  string(errx.CodeInternal),
			"error": "internal server error",
		})
	})
}
