package domain

// 广播事件类型
const (
	EventChat             = "chat"
	EventBuildingComplete = "building_complete"
	EventResourceUpdate   = "resource_update"
	EventUnitRecruited    = "unit_recruited"
	EventBattle           = "battle"
)

type BuildingComplete struct {
	Building Building `json:"building"`
	PlayerID string   `json:"playerId"`
}

type UnitRecruited struct {
	Unit     Unit   `json:"unit"`
	PlayerID string `json:"playerId"`
}

type ResourceUpdate struct {
	PlayerID string `json:"playerId"`
	Gold     int64  `json:"gold"`
	Wood     int64  `json:"wood"`
	Food     int64  `json:"food"`
}
