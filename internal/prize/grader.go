package prize

import "TotoSentinel/internal/model"

// Rule maps a match count and additional-number hit to a prize tier.
type Rule struct {
	Matches    int
	Additional bool // the additional number must be among the picks
	Tier       model.PrizeTier
}

// Payout returns the tier's fixed prize.
func (r Rule) Payout() int { return r.Tier.Payout() }

// Rules is the TOTO prize table in evaluation order.
var Rules = []Rule{
	{Matches: 6, Tier: model.Tier1},
	{Matches: 5, Additional: true, Tier: model.Tier2},
	{Matches: 5, Tier: model.Tier3},
	{Matches: 4, Additional: true, Tier: model.Tier4},
	{Matches: 4, Tier: model.Tier5},
	{Matches: 3, Additional: true, Tier: model.Tier6},
	{Matches: 3, Tier: model.Tier7},
}

// Matches counts how many picks are among the winning numbers.
func Matches(picks model.PickSet, winning []int) int {
	m := 0
	for _, w := range winning {
		if picks.Contains(w) {
			m++
		}
	}
	return m
}

// Grade classifies picks against a draw result and returns the tier and its payout.
func Grade(picks model.PickSet, winning []int, additional int) (model.PrizeTier, int) {
	return GradeWith(Rules, picks, winning, additional)
}

// GradeWith grades against a custom rule table. The first matching rule wins.
func GradeWith(rules []Rule, picks model.PickSet, winning []int, additional int) (model.PrizeTier, int) {
	m := Matches(picks, winning)
	hasAdd := additional != 0 && picks.Contains(additional)
	for _, r := range rules {
		if m == r.Matches && (!r.Additional || hasAdd) {
			return r.Tier, r.Payout()
		}
	}
	return model.TierNone, 0
}
