package model

import "fmt"

// PrizeTier is a prize group. Tier1 is the jackpot; TierNone means no prize.
type PrizeTier int

const (
	TierNone PrizeTier = iota
	Tier1
	Tier2
	Tier3
	Tier4
	Tier5
	Tier6
	Tier7
)

// TicketCost is the price of one ticket in dollars.
const TicketCost = 1

var tierPayouts = map[PrizeTier]int{
	TierNone: 0,
	Tier1:    1000000,
	Tier2:    100000,
	Tier3:    2000,
	Tier4:    400,
	Tier5:    50,
	Tier6:    25,
	Tier7:    10,
}

// Payout returns the fixed prize for the tier.
func (t PrizeTier) Payout() int {
	return tierPayouts[t]
}

func (t PrizeTier) String() string {
	if t == TierNone {
		return "No prize"
	}
	return fmt.Sprintf("Group %d", int(t))
}

// AllTiers lists the winning tiers from jackpot down.
var AllTiers = []PrizeTier{Tier1, Tier2, Tier3, Tier4, Tier5, Tier6, Tier7}
