package handler

import (
	"FrontierTown/internal/shared/session"
	"FrontierTown/internal/town/app"
)

// Town 接口层依赖的应用服务集合，HTTP 与 ws 共用。
type Town struct {
	Query       *app.QueryService
	Economy     *app.EconomyService
	Chat        *app.ChatService
	Battle      *app.BattleService
	Registry    *session.ConnectionRegistry
	// Broadcaster 带事件流水的广播出口（客户端透传的 resource_update 也走这里）
	Broadcaster app.Broadcaster
}
