// Package fortune draws daily omikuji results and keeps the per-channel
// draw ledger. Each user may draw once per channel per calendar day; the
// ledger resets wholesale when the stored day rolls over.
package fortune

import "math/rand"

type weightedFortune struct {
	result string
	weight int
}

// Weights sum to 100. The walk order defines the boundaries of the
// cumulative thresholds, so this order is part of the contract.
var fortunes = []weightedFortune{
	{":自爆:自爆:自爆:", 5},
	{"大吉！！！", 10},
	{"吉！", 30},
	{"中吉！！", 20},
	{"小吉", 15},
	{"末吉", 10},
	{"凶", 8},
	{"大凶", 2},
}

const fallbackFortune = "吉！"

// Draw picks a random fortune from the weighted table. It never touches the
// ledger; callers wanting the once-per-day limit go through Claim instead.
func Draw() string {
	return pick(rand.Intn(100) + 1)
}

// pick walks the cumulative weights with a roll in [1,100].
func pick(roll int) string {
	cumulative := 0
	for _, f := range fortunes {
		cumulative += f.weight
		if roll <= cumulative {
			return f.result
		}
	}
	return fallbackFortune
}
