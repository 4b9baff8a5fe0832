package domain

import "sort"

// Leaderboard 按分数降序，同分保持原有（创建）顺序。
func Leaderboard(players []Player) []Player {
	out := make([]Player, len(players))
	copy(out, players)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score() > out[j].Score()
	})
	return out
}
