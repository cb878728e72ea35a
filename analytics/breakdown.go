package analytics

import (
	"math"

	"github.com/shopspring/decimal"
)

// ComputeBreakdown derives win/loss statistics from a set of closing events.
// It is a pure function of its input: order never matters, an empty set
// yields the zero Breakdown rather than an error.
func ComputeBreakdown(events []ClosingEvent) Breakdown {
	if len(events) == 0 {
		return Breakdown{AvgWin: decimal.Zero, AvgLoss: decimal.Zero, Expectancy: decimal.Zero}
	}

	var (
		wins, losses, breakeven int
		grossWin                = decimal.Zero
		grossLoss               = decimal.Zero
	)
	for _, ev := range events {
		switch ev.RealizedPnL.Sign() {
		case 1:
			wins++
			grossWin = grossWin.Add(ev.RealizedPnL)
		case -1:
			losses++
			grossLoss = grossLoss.Add(ev.RealizedPnL)
		default:
			breakeven++
		}
	}
	grossLoss = grossLoss.Abs()

	total := decimal.NewFromInt(int64(len(events)))

	avgWin := decimal.Zero
	if wins > 0 {
		avgWin = grossWin.Div(decimal.NewFromInt(int64(wins)))
	}
	avgLoss := decimal.Zero
	if losses > 0 {
		avgLoss = grossLoss.Div(decimal.NewFromInt(int64(losses)))
	}

	// Profit factor: gross win over gross loss. No losses and some wins is
	// the infinity sentinel, not a divide-by-zero guard to zero.
	var profitFactor float64
	switch {
	case losses > 0:
		profitFactor = round2(grossWin.Div(grossLoss).InexactFloat64())
	case grossWin.IsPositive():
		profitFactor = math.Inf(1)
	}

	winPct := decimal.NewFromInt(int64(wins)).Div(total)
	lossPct := decimal.NewFromInt(int64(losses)).Div(total)

	return Breakdown{
		Wins:         wins,
		Losses:       losses,
		Breakeven:    breakeven,
		WinRate:      round2(float64(wins) / float64(len(events)) * 100),
		AvgWin:       avgWin,
		AvgLoss:      avgLoss,
		ProfitFactor: profitFactor,
		Expectancy:   winPct.Mul(avgWin).Sub(lossPct.Mul(avgLoss)),
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
