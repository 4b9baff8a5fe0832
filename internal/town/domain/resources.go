package domain

import "math"

// Resources 三种资源的数量，作为值类型参与加减与比较。
type Resources struct {
	Gold int64 `json:"gold"`
	Wood int64 `json:"wood"`
	Food int64 `json:"food"`
}

// Covers 三种资源都不少于 cost。
func (r Resources) Covers(cost Resources) bool {
	return r.Gold >= cost.Gold && r.Wood >= cost.Wood && r.Food >= cost.Food
}

func (r Resources) Sub(o Resources) Resources {
	return Resources{Gold: r.Gold - o.Gold, Wood: r.Wood - o.Wood, Food: r.Food - o.Food}
}

func (r Resources) Add(o Resources) Resources {
	return Resources{Gold: r.Gold + o.Gold, Wood: r.Wood + o.Wood, Food: r.Food + o.Food}
}

// Mul 单价 × 数量。任一分量为负或乘积超出 int64 时 ok=false，结果不可用。
func (r Resources) Mul(n int64) (out Resources, ok bool) {
	if out.Gold, ok = mulNonNeg(r.Gold, n); !ok {
		return Resources{}, false
	}
	if out.Wood, ok = mulNonNeg(r.Wood, n); !ok {
		return Resources{}, false
	}
	if out.Food, ok = mulNonNeg(r.Food, n); !ok {
		return Resources{}, false
	}
	return out, true
}

func (r Resources) IsZero() bool {
	return r.Gold == 0 && r.Wood == 0 && r.Food == 0
}

func (r Resources) negative() bool {
	return r.Gold < 0 || r.Wood < 0 || r.Food < 0
}

// Of 按资源名取出一种资源的单位量（gold/wood/food），未知名称返回零值。
func Of(resource string, amount int64) Resources {
	switch resource {
	case "gold":
		return Resources{Gold: amount}
	case "wood":
		return Resources{Wood: amount}
	case "food":
		return Resources{Food: amount}
	}
	return Resources{}
}

func mulNonNeg(a, n int64) (int64, bool) {
	if a < 0 || n < 0 {
		return 0, false
	}
	if a == 0 || n == 0 {
		return 0, true
	}
	if a > math.MaxInt64/n {
		return 0, false
	}
	return a * n, true
}

func addNonNeg(a, b int64) (int64, bool) {
	if a < 0 || b < 0 || a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}
