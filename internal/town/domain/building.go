package domain

import "time"

type Building struct {
	ID                 string     `json:"id"`
	PlayerID           string     `json:"playerId"`
	Type               string     `json:"type"`
	Level              int        `json:"level"`
	PosX               int        `json:"posX"`
	PosY               int        `json:"posY"`
	IsConstructing     bool       `json:"isConstructing"`
	ConstructionEndsAt *time.Time `json:"constructionEndsAt"`
}

// NewConstruction 新建筑处于建造中，deadline 之后由定时器转为可用。
func NewConstruction(id, playerID, typ string, x, y int, endsAt time.Time) Building {
	t := endsAt
	return Building{
		ID:                 id,
		PlayerID:           playerID,
		Type:               typ,
		Level:              1,
		PosX:               x,
		PosY:               y,
		IsConstructing:     true,
		ConstructionEndsAt: &t,
	}
}

// Complete 建造完成：清除建造标记与截止时间。已完成的建筑再次调用返回 false。
func (b *Building) Complete() bool {
	if !b.IsConstructing {
		return false
	}
	b.IsConstructing = false
	b.ConstructionEndsAt = nil
	return true
}

func (b Building) Active() bool {
	return !b.IsConstructing
}
