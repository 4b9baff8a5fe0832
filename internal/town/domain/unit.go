package domain

// Unit 同一玩家同一兵种只有一条记录，招募时累加数量。
type Unit struct {
	ID       string `json:"id"`
	PlayerID string `json:"playerId"`
	Type     string `json:"type"`
	Quantity int64  `json:"quantity"`
	Attack   int64  `json:"attack"`
	Defense  int64  `json:"defense"`
	Speed    int64  `json:"speed"`
}

type UnitStats struct {
	Attack  int64
	Defense int64
	Speed   int64
}

// Recruit 累加数量，并用当前数值表重写属性；数量非正或累加后溢出时不做修改。
func (u *Unit) Recruit(quantity int64, stats UnitStats) error {
	if quantity < 1 {
		return Reject(ReasonQuantityTooSmall).WithData("quantity", quantity)
	}
	total, ok := addNonNeg(u.Quantity, quantity)
	if !ok {
		return Reject(ReasonQuantityOverflow).WithDataMap(map[string]any{"have": u.Quantity, "add": quantity})
	}
	u.Quantity = total
	u.Attack, u.Defense, u.Speed = stats.Attack, stats.Defense, stats.Speed
	return nil
}
