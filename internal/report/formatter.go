package report

import (
	"fmt"
	"strings"

	"TotoSentinel/internal/backtest"
	"TotoSentinel/internal/model"
	"TotoSentinel/internal/odds"
	"TotoSentinel/internal/recorder"
	"TotoSentinel/internal/scoring"
	"TotoSentinel/internal/sweep"
)

const rule = "--------------------------------------------------"

// Analysis is the single-draw suggestion shown by the analyze command.
type Analysis struct {
	Draw       model.Draw
	Lookback   int
	DecayFloor float64
	Picks      model.PickSet
	Table      scoring.FrequencyTable
	Tier       model.PrizeTier
	Prize      int
}

// FormatAnalysis renders a single-draw suggestion and its outcome.
func FormatAnalysis(a *Analysis) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Analysis for Draw #%d (%s):\n", a.Draw.ID, a.Draw.Date.Format("02/01/2006")))
	b.WriteString(fmt.Sprintf("Based on %d previous draws\n\n", a.Lookback))
	b.WriteString(fmt.Sprintf("Suggested numbers (sorted): %s\n\n", joinInts(a.Picks)))

	b.WriteString("Top weighted numbers:\n")
	ranked := scoring.Ranked(a.Table)
	for i, e := range ranked {
		if i == 10 {
			break
		}
		b.WriteString(fmt.Sprintf("  %2d  %.3f\n", e.Number, e.Weight))
	}

	b.WriteString(fmt.Sprintf("\nActual winning numbers: %s\n", joinInts(a.Draw.Winning)))
	b.WriteString(fmt.Sprintf("Actual additional number: %d\n", a.Draw.Additional))

	b.WriteString("\nBetting Result:\n")
	b.WriteString(fmt.Sprintf("Cost: $%d\n", model.TicketCost))
	b.WriteString(fmt.Sprintf("Prize: $%d (%s)\n", a.Prize, a.Tier))
	b.WriteString(fmt.Sprintf("Net Profit: $%d\n", a.Prize-model.TicketCost))

	b.WriteString("\nWeight Distribution Used:\n")
	b.WriteString("Most recent draw: 100% weight\n")
	b.WriteString(fmt.Sprintf("Oldest analyzed draw: %.0f%% weight\n", a.DecayFloor*100))
	b.WriteString("(Weights decrease linearly for draws in between)\n")
	return b.String()
}

// FormatBacktest renders the backtest summary followed by every winning draw.
func FormatBacktest(res *model.BacktestResult) string {
	var b strings.Builder

	b.WriteString("Backtest Results:\n")
	b.WriteString(fmt.Sprintf("Strategy: Using %d previous draws for frequency analysis (least weight %s)\n\n",
		res.Lookback, model.FormatFloor(res.DecayFloor)))
	b.WriteString(fmt.Sprintf("Total draws played: %d\n", len(res.Records)))
	b.WriteString(fmt.Sprintf("Total cost: $%d\n", res.TotalCost))
	b.WriteString(fmt.Sprintf("Total prize money: $%d\n", res.TotalPrize))
	b.WriteString(fmt.Sprintf("Net profit/loss: $%d\n", res.NetProfit()))
	b.WriteString(fmt.Sprintf("Number of wins: %d\n", res.Wins))
	if len(res.Records) > 0 {
		b.WriteString(fmt.Sprintf("Win rate: %.2f%%\n", res.WinRate()))
		b.WriteString(fmt.Sprintf("Average return per bet: $%.2f\n", res.AvgProfit()))
	}

	counts := backtest.TierCounts(res)
	if len(counts) > 0 {
		b.WriteString("\nWins by group:\n")
		for _, t := range model.AllTiers {
			if n := counts[t]; n > 0 {
				b.WriteString(fmt.Sprintf("  %s: %d\n", t, n))
			}
		}
	}

	b.WriteString("\nDetailed Results for Winning Draws:\n")
	b.WriteString(rule + rule[:30] + "\n")
	for _, r := range backtest.Winners(res) {
		b.WriteString(fmt.Sprintf("\nDraw #%d (%s):\n", r.DrawID, r.Date.Format("02/01/2006")))
		b.WriteString(fmt.Sprintf("Suggested numbers: %s\n", joinInts(r.Picks)))
		b.WriteString(fmt.Sprintf("Winning numbers: %s\n", joinInts(r.Winning)))
		b.WriteString(fmt.Sprintf("Additional number: %d\n", r.Additional))
		b.WriteString(fmt.Sprintf("Prize: $%d (%s)\n", r.Prize, r.Tier))
		b.WriteString(fmt.Sprintf("Net profit: $%d\n", r.Profit))
		b.WriteString(rule[:40] + "\n")
	}
	return b.String()
}

// FormatSweepBest renders the best grid cell for each metric.
func FormatSweepBest(records []model.SweepRecord) string {
	var b strings.Builder
	b.WriteString("Optimization Results:\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	if len(records) == 0 {
		b.WriteString("\nNo sweep results.\n")
		return b.String()
	}

	for _, m := range sweep.Metrics {
		best, _ := sweep.Best(records, m)
		b.WriteString(fmt.Sprintf("\nBest %s:\n", m.Title()))
		b.WriteString(fmt.Sprintf("Lookback Period: %d draws\n", best.Lookback))
		b.WriteString(fmt.Sprintf("Least Weight: %s\n", model.FormatFloor(best.DecayFloor)))
		b.WriteString(fmt.Sprintf("Average Profit: $%.2f\n", best.AvgProfit))
		b.WriteString(fmt.Sprintf("Win Rate: %.2f%%\n", best.WinRate))
		b.WriteString(fmt.Sprintf("Net Profit: $%d\n", best.NetProfit))
	}
	return b.String()
}

// FormatOdds renders the per-tier random-ticket probabilities and the expected value.
func FormatOdds(g odds.Game) string {
	var b strings.Builder
	b.WriteString("TOTO Random Guess Analysis\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")

	b.WriteString("\nWinning Probabilities for Each Prize Group:\n")
	for _, tp := range odds.Probabilities(g) {
		label := fmt.Sprintf("%s (%d numbers", tp.Tier, tp.Matches)
		if tp.Additional {
			label += " + additional"
		}
		label += ")"
		b.WriteString(fmt.Sprintf("%-36s: %.8f (%7.4f%%)  1 in %s\n",
			label, tp.Probability, tp.Probability*100, groupThousands(tp.Odds())))
	}

	total := odds.TotalWinProbability(g)
	b.WriteString("\nSummary:\n")
	b.WriteString(fmt.Sprintf("Total probability of winning any prize: %.8f (%.4f%%)\n", total, total*100))
	if total > 0 {
		b.WriteString(fmt.Sprintf("Odds of winning any prize: 1 in %.2f\n", 1/total))
	}
	b.WriteString(fmt.Sprintf("Expected value per $%.0f ticket: $%.4f\n", g.TicketCost, odds.ExpectedValue(g)))
	return b.String()
}

// FormatComparison renders strategy win rates against the random baseline.
func FormatComparison(c odds.Comparison) string {
	var b strings.Builder
	b.WriteString("\nComparison with Strategy Results:\n")
	b.WriteString(rule + "\n")
	if c.Cells == 0 {
		b.WriteString("Note: no sweep results available for comparison\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Random Guess Win Rate: %.2f%%\n", c.RandomWinRate))
	b.WriteString(fmt.Sprintf("Strategy Best Win Rate: %.2f%%\n", c.BestWinRate))
	b.WriteString(fmt.Sprintf("Strategy Average Win Rate: %.2f%%\n", c.MeanWinRate))
	b.WriteString("\nStrategy Improvement over Random:\n")
	b.WriteString(fmt.Sprintf("Best: %+.1f%%\n", c.BestImprovement))
	b.WriteString(fmt.Sprintf("Average: %+.1f%%\n", c.MeanImprovement))
	return b.String()
}

// FormatTrend renders a yearly win-rate table per parameter combination.
func FormatTrend(series []model.TrendSeries) string {
	var b strings.Builder
	b.WriteString("Yearly Win Rates by Strategy Configuration\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	for _, s := range series {
		b.WriteString(fmt.Sprintf("\nLookback=%d, Weight=%s\n", s.Lookback, model.FormatFloor(s.DecayFloor)))
		b.WriteString("  Year  Win%    Wins  Draws\n")
		for _, y := range s.Years {
			b.WriteString(fmt.Sprintf("  %d  %6.2f  %4d  %5d\n", y.Year, y.WinRate, y.Wins, y.Total))
		}
	}
	return b.String()
}

// FormatHistory lists recorded sweep runs.
func FormatHistory(runs []recorder.SweepSummary) string {
	var b strings.Builder
	b.WriteString("Recent sweep runs:\n")
	if len(runs) == 0 {
		b.WriteString("  (none)\n")
		return b.String()
	}
	for _, r := range runs {
		id := r.RunID
		if len(id) > 8 {
			id = id[:8]
		}
		b.WriteString(fmt.Sprintf("  %s  %s  draw #%d  %d cells  best win rate %.2f%% (lookback %d, weight %s)\n",
			r.Timestamp.Format("2006-01-02 15:04"), id, r.LatestDraw, r.Cells,
			r.BestWinRate, r.BestLookback, model.FormatFloor(r.BestFloor)))
	}
	return b.String()
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func groupThousands(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	pre := len(s) % 3
	if pre > 0 {
		out = append(out, s[:pre]...)
	}
	for i := pre; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}
