package dto

type CreatePlayerReq struct {
	Username string `json:"username"`
}

type CreateBuildingReq struct {
	PlayerID string `json:"playerId"`
	Type     string `json:"type"`
	PosX     int    `json:"posX"`
	PosY     int    `json:"posY"`
}

type CreateUnitReq struct {
	PlayerID string `json:"playerId"`
	Type     string `json:"type"`
	Quantity int64  `json:"quantity"`
}

// CreateBattleReq 双方兵力是 JSON 文本：[{"type","quantity","attack","defense"}]。
type CreateBattleReq struct {
	AttackerID    string `json:"attackerId"`
	DefenderID    string `json:"defenderId"`
	AttackerUnits string `json:"attackerUnits"`
	DefenderUnits string `json:"defenderUnits"`
}

// ErrorResp HTTP 失败时的响应体。
type ErrorResp struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// IdentifyMsg ws 上行 identify。
type IdentifyMsg struct {
	PlayerID string `json:"playerId"`
}

// ChatMsg ws 上行 chat；连接已 identify 时以连接上的玩家为准。
type ChatMsg struct {
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
	Message  string `json:"message"`
}
