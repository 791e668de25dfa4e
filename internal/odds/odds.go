package odds

import (
	"TotoSentinel/internal/model"
	"TotoSentinel/internal/prize"
)

// Game describes a pick-k-of-n lottery with one additional number drawn after the winning set.
type Game struct {
	Numbers    int // size of the number pool
	Picks      int // numbers drawn and numbers on a ticket
	Rules      []prize.Rule
	Payouts    map[model.PrizeTier]int // overrides Rule.Payout when set
	TicketCost float64
}

// Toto is the 6/49 game graded by prize.Rules.
func Toto() Game {
	return Game{
		Numbers:    model.MaxNumber,
		Picks:      6,
		Rules:      prize.Rules,
		TicketCost: model.TicketCost,
	}
}

// TierProbability is the chance of landing exactly in one prize tier with a random ticket.
type TierProbability struct {
	Tier        model.PrizeTier
	Matches     int
	Additional  bool
	Combos      int64
	Probability float64
	Payout      int
}

// Odds returns N for "1 in N".
func (t TierProbability) Odds() float64 {
	if t.Probability == 0 {
		return 0
	}
	return 1 / t.Probability
}

// Combinations is the binomial coefficient C(n, k), zero outside 0 <= k <= n.
func Combinations(n, k int) int64 {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	var c int64 = 1
	for i := 1; i <= k; i++ {
		c = c * int64(n-k+i) / int64(i)
	}
	return c
}

// Total is the number of distinct tickets.
func (g Game) Total() int64 {
	return Combinations(g.Numbers, g.Picks)
}

// others is the non-winning pool with the additional number taken out.
func (g Game) others() int {
	return g.Numbers - g.Picks - 1
}

func (g Game) payout(r prize.Rule) int {
	if p, ok := g.Payouts[r.Tier]; ok {
		return p
	}
	return r.Payout()
}

// Favorable counts tickets with exactly matches winning numbers and the given
// additional-number status.
func (g Game) Favorable(matches int, additional bool) int64 {
	rest := g.Picks - matches
	if additional {
		return Combinations(g.Picks, matches) * Combinations(g.others(), rest-1)
	}
	return Combinations(g.Picks, matches) * Combinations(g.others(), rest)
}

// Probabilities returns one entry per rule in rule order.
func Probabilities(g Game) []TierProbability {
	total := float64(g.Total())
	out := make([]TierProbability, 0, len(g.Rules))
	for _, r := range g.Rules {
		combos := g.Favorable(r.Matches, r.Additional)
		out = append(out, TierProbability{
			Tier:        r.Tier,
			Matches:     r.Matches,
			Additional:  r.Additional,
			Combos:      combos,
			Probability: float64(combos) / total,
			Payout:      g.payout(r),
		})
	}
	return out
}

// TotalWinProbability is the chance of matching at least the smallest prize-winning
// match count, counted directly rather than by summing tiers.
func TotalWinProbability(g Game) float64 {
	if len(g.Rules) == 0 {
		return 0
	}
	minMatch := g.Rules[0].Matches
	for _, r := range g.Rules {
		if r.Matches < minMatch {
			minMatch = r.Matches
		}
	}
	var combos int64
	for m := minMatch; m <= g.Picks; m++ {
		combos += Combinations(g.Picks, m) * Combinations(g.Numbers-g.Picks, g.Picks-m)
	}
	return float64(combos) / float64(g.Total())
}

// ExpectedValue is the mean net return of one random ticket: sum of p*payout minus the ticket cost.
func ExpectedValue(g Game) float64 {
	ev := 0.0
	for _, tp := range Probabilities(g) {
		ev += tp.Probability * float64(tp.Payout)
	}
	return ev - g.TicketCost
}
