package domain

import (
	"encoding/json"
	"time"
)

const (
	ResultAttackerWins = "attacker_wins"
	ResultDefenderWins = "defender_wins"
)

// Battle 一次战斗的不可变记录，双方兵力保存提交时的 JSON 原文。
type Battle struct {
	ID            string    `json:"id"`
	AttackerID    string    `json:"attackerId"`
	DefenderID    string    `json:"defenderId"`
	AttackerUnits string    `json:"attackerUnits"`
	DefenderUnits string    `json:"defenderUnits"`
	Result        string    `json:"result"`
	Timestamp     time.Time `json:"timestamp"`
}

// SideUnit 参战兵力中的一项。
type SideUnit struct {
	Type     string `json:"type"`
	Quantity int64  `json:"quantity"`
	Attack   int64  `json:"attack"`
	Defense  int64  `json:"defense"`
	Speed    int64  `json:"speed,omitempty"`
}

// ParseSide 解析一方兵力的 JSON 文本。
func ParseSide(raw string) ([]SideUnit, error) {
	var side []SideUnit
	if err := json.Unmarshal([]byte(raw), &side); err != nil {
		return nil, Reject(ReasonMalformedUnitSet).WithCause(err)
	}
	for _, u := range side {
		if u.Quantity < 0 || u.Attack < 0 || u.Defense < 0 {
			return nil, Reject(ReasonNegativeUnitStat).WithData("type", u.Type)
		}
	}
	return side, nil
}

// AttackPower Σ attack × quantity。
func AttackPower(side []SideUnit) (int64, error) {
	return power(side, "attack", func(u SideUnit) int64 { return u.Attack })
}

// DefensePower Σ defense × quantity。
func DefensePower(side []SideUnit) (int64, error) {
	return power(side, "defense", func(u SideUnit) int64 { return u.Defense })
}

// power 任一乘积或累加超出 int64 都按参数错误拒绝，不让回绕后的数值参与胜负判定。
func power(side []SideUnit, stat string, pick func(SideUnit) int64) (int64, error) {
	var sum int64
	for _, u := range side {
		p, ok := mulNonNeg(pick(u), u.Quantity)
		if ok {
			sum, ok = addNonNeg(sum, p)
		}
		if !ok {
			return 0, Reject(ReasonPowerOverflow).WithDataMap(map[string]any{"type": u.Type, "stat": stat})
		}
	}
	return sum, nil
}

// Resolve 攻方总攻击严格大于守方总防御才算攻方胜，平局守方胜。
func Resolve(attackPower, defensePower int64) string {
	if attackPower > defensePower {
		return ResultAttackerWins
	}
	return ResultDefenderWins
}
