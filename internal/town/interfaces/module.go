package interfaces

import (
	"FrontierTown/internal/shared/metrics"
	transporthttp "FrontierTown/internal/shared/transport/http"
	"FrontierTown/internal/shared/transport/ws"
	"FrontierTown/internal/town/interfaces/handler"
	"FrontierTown/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type Module struct {
	wsHandler   *handler.WsHandler
	httpHandler *handler.HttpHandler
	metrics     *metrics.Metrics
}

func New(t *handler.Town, m *metrics.Metrics, log logx.Logger) *Module {
	return &Module{
		wsHandler:   handler.NewWsHandler(t, log),
		httpHandler: handler.NewHttpHandler(t, log),
		metrics:     m,
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

// HttpRegister 注册 /api 业务路由；/metrics 也挂在这里。
func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
	if m.metrics != nil {
		g.GET("/metrics", gin.WrapH(m.metrics.Handler()))
	}
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
