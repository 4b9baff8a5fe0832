package domain

type Player struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Gold          int64  `json:"gold"`
	Wood          int64  `json:"wood"`
	Food          int64  `json:"food"`
	Level         int    `json:"level"`
	Rank          int    `json:"rank"`
	TerritorySize int    `json:"territorySize"`
}

// NewPlayer 新玩家：1 级、无排名、无领地，资源取 start。
func NewPlayer(id, username string, start Resources) Player {
	return Player{
		ID:       id,
		Username: username,
		Gold:     start.Gold,
		Wood:     start.Wood,
		Food:     start.Food,
		Level:    1,
	}
}

func (p Player) Resources() Resources {
	return Resources{Gold: p.Gold, Wood: p.Wood, Food: p.Food}
}

func (p *Player) SetResources(r Resources) {
	p.Gold, p.Wood, p.Food = r.Gold, r.Wood, r.Food
}

// Spend 扣除 cost，资源不足或 cost 含负数时不做任何修改。
func (p *Player) Spend(cost Resources) error {
	if cost.negative() {
		return Reject(ReasonNegativeCost).WithData("cost", cost)
	}
	if !p.Resources().Covers(cost) {
		return ErrInsufficientResources.WithDataMap(map[string]any{
			"player_id": p.ID,
			"need":      cost,
			"have":      p.Resources(),
		})
	}
	p.SetResources(p.Resources().Sub(cost))
	return nil
}

// Score 排行榜分数：三种资源之和 + 领地 × 100。
func (p Player) Score() int64 {
	return p.Gold + p.Wood + p.Food + int64(p.TerritorySize)*100
}
