package catalog

// Default 内置的边疆小镇数值表。
func Default() *Catalog {
	return &Catalog{
		mapSize: DefaultMapSize,
		buildings: map[string]BuildingType{
			"saloon": {
				ID:          "saloon",
				Name:        "Saloon",
				Description: "Where cowboys gather. Produces gold over time.",
				GoldCost:    100,
				WoodCost:    50,
				FoodCost:    0,
				BuildTime:   30,
				Produces:    &Production{Resource: ResourceGold, Amount: 10, Interval: 60},
			},
			"bank": {
				ID:          "bank",
				Name:        "Bank",
				Description: "Secure vault for storing gold. Increases gold production.",
				GoldCost:    200,
				WoodCost:    100,
				FoodCost:    0,
				BuildTime:   60,
				Produces:    &Production{Resource: ResourceGold, Amount: 20, Interval: 60},
			},
			"stable": {
				ID:          "stable",
				Name:        "Stable",
				Description: "Houses horses and livestock. Produces food.",
				GoldCost:    80,
				WoodCost:    120,
				FoodCost:    0,
				BuildTime:   45,
				Produces:    &Production{Resource: ResourceFood, Amount: 15, Interval: 60},
			},
			"goldmine": {
				ID:          "goldmine",
				Name:        "Gold Mine",
				Description: "Extract precious gold from the mountains.",
				GoldCost:    150,
				WoodCost:    150,
				FoodCost:    50,
				BuildTime:   90,
				Produces:    &Production{Resource: ResourceGold, Amount: 30, Interval: 60},
			},
		},
		units: map[string]UnitType{
			"cowboy": {
				ID:          "cowboy",
				Name:        "Cowboy",
				Description: "Basic gunslinger with decent attack and defense.",
				GoldCost:    50,
				WoodCost:    0,
				FoodCost:    20,
				Attack:      10,
				Defense:     8,
				Speed:       5,
			},
			"bandit": {
				ID:          "bandit",
				Name:        "Bandit",
				Description: "Ruthless outlaw with high attack but low defense.",
				GoldCost:    60,
				WoodCost:    10,
				FoodCost:    25,
				Attack:      15,
				Defense:     5,
				Speed:       7,
			},
			"sheriff": {
				ID:          "sheriff",
				Name:        "Sheriff",
				Description: "Lawman with balanced stats and strong defense.",
				GoldCost:    80,
				WoodCost:    20,
				FoodCost:    30,
				Attack:      12,
				Defense:     15,
				Speed:       4,
			},
		},
	}
}
