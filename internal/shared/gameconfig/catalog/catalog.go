package catalog

import (
	"fmt"
	"sort"
)

// 资源种类
const (
	ResourceGold = "gold"
	ResourceWood = "wood"
	ResourceFood = "food"
)

// DefaultMapSize 地图边长（格）。
const DefaultMapSize = 20

type Production struct {
	Resource string `json:"resource" mapstructure:"resource"`
	Amount   int64  `json:"amount" mapstructure:"amount"`
	Interval int    `json:"interval" mapstructure:"interval"` // 秒，仅展示用；结算按全局 tick
}

type BuildingType struct {
	ID          string      `json:"id" mapstructure:"id"`
	Name        string      `json:"name" mapstructure:"name"`
	Description string      `json:"description" mapstructure:"description"`
	GoldCost    int64       `json:"goldCost" mapstructure:"goldCost"`
	WoodCost    int64       `json:"woodCost" mapstructure:"woodCost"`
	FoodCost    int64       `json:"foodCost" mapstructure:"foodCost"`
	BuildTime   int         `json:"buildTime" mapstructure:"buildTime"` // 秒
	Produces    *Production `json:"produces,omitempty" mapstructure:"produces"`
}

type UnitType struct {
	ID          string `json:"id" mapstructure:"id"`
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`
	GoldCost    int64  `json:"goldCost" mapstructure:"goldCost"`
	WoodCost    int64  `json:"woodCost" mapstructure:"woodCost"`
	FoodCost    int64  `json:"foodCost" mapstructure:"foodCost"`
	Attack      int64  `json:"attack" mapstructure:"attack"`
	Defense     int64  `json:"defense" mapstructure:"defense"`
	Speed       int64  `json:"speed" mapstructure:"speed"`
}

// Catalog 建筑/兵种静态表，加载后只读，可被多个 goroutine 并发读取。
type Catalog struct {
	buildings map[string]BuildingType
	units     map[string]UnitType
	mapSize   int
}

func (c *Catalog) Building(key string) (BuildingType, bool) {
	b, ok := c.buildings[key]
	return b, ok
}

func (c *Catalog) Unit(key string) (UnitType, bool) {
	u, ok := c.units[key]
	return u, ok
}

// Buildings 按 key 排序返回。
func (c *Catalog) Buildings() []BuildingType {
	out := make([]BuildingType, 0, len(c.buildings))
	for _, b := range c.buildings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Units 按 key 排序返回。
func (c *Catalog) Units() []UnitType {
	out := make([]UnitType, 0, len(c.units))
	for _, u := range c.units {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *Catalog) MapSize() int {
	return c.mapSize
}

// WithMapSize 返回地图边长被替换后的副本。
func (c *Catalog) WithMapSize(n int) *Catalog {
	next := *c
	if n > 0 {
		next.mapSize = n
	}
	return &next
}

func validate(c *Catalog) error {
	for key, b := range c.buildings {
		if b.ID != key {
			return fmt.Errorf("building %q: id %q does not match key", key, b.ID)
		}
		if b.GoldCost < 0 || b.WoodCost < 0 || b.FoodCost < 0 {
			return fmt.Errorf("building %q: negative cost", key)
		}
		if b.BuildTime <= 0 {
			return fmt.Errorf("building %q: build time must be positive", key)
		}
		if p := b.Produces; p != nil {
			switch p.Resource {
			case ResourceGold, ResourceWood, ResourceFood:
			default:
				return fmt.Errorf("building %q: unknown production resource %q", key, p.Resource)
			}
			if p.Amount <= 0 {
				return fmt.Errorf("building %q: production amount must be positive", key)
			}
		}
	}
	for key, u := range c.units {
		if u.ID != key {
			return fmt.Errorf("unit %q: id %q does not match key", key, u.ID)
		}
		if u.GoldCost < 0 || u.WoodCost < 0 || u.FoodCost < 0 {
			return fmt.Errorf("unit %q: negative cost", key)
		}
		if u.Attack < 0 || u.Defense < 0 || u.Speed < 0 {
			return fmt.Errorf("unit %q: negative stats", key)
		}
	}
	return nil
}
