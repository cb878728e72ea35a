package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Dashboard computes the summary-card numbers straight from raw fills,
// always over the whole unfiltered history.
//
// This deliberately reproduces the metric users already know, asymmetries
// included: realized pnl here ignores commission, the SELL leg subtracts the
// full sell quantity even past zero, the win rate divides winning sells by
// the raw fill count, and best/worst trade are the largest and smallest
// notional fill sizes. See DashboardStats for the contract.
func Dashboard(fills []Fill) (DashboardStats, error) {
	if err := ValidateFills(fills); err != nil {
		return DashboardStats{}, err
	}
	if len(fills) == 0 {
		return DashboardStats{
			TotalPnL:        decimal.Zero,
			TotalCommission: decimal.Zero,
			BestTrade:       decimal.Zero,
			WorstTrade:      decimal.Zero,
		}, nil
	}

	totalCommission := decimal.Zero
	bySymbol := map[string][]Fill{}
	var symbols []string
	for _, f := range fills {
		totalCommission = totalCommission.Add(f.Commission)
		if _, ok := bySymbol[f.Symbol]; !ok {
			symbols = append(symbols, f.Symbol)
		}
		bySymbol[f.Symbol] = append(bySymbol[f.Symbol], f)
	}

	totalPnL := decimal.Zero
	winning := 0
	for _, sym := range symbols {
		group := bySymbol[sym]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Timestamp.Before(group[j].Timestamp)
		})

		position := decimal.Zero
		avgPrice := decimal.Zero
		for _, f := range group {
			if f.Side == Buy {
				next := position.Add(f.Quantity)
				if position.IsZero() || next.IsZero() {
					// A buy that lands the position exactly on zero has no
					// holding left to carry an average for, so restart it.
					avgPrice = f.Price
				} else {
					total := avgPrice.Mul(position).Add(f.Price.Mul(f.Quantity))
					avgPrice = total.Div(next)
				}
				position = position.Add(f.Quantity)
				continue
			}
			if position.IsPositive() {
				pnl := f.Price.Sub(avgPrice).Mul(decimal.Min(f.Quantity, position))
				totalPnL = totalPnL.Add(pnl)
				if pnl.IsPositive() {
					winning++
				}
				position = position.Sub(f.Quantity)
			}
		}
	}

	best := fills[0].Notional()
	worst := best
	for _, f := range fills[1:] {
		if n := f.Notional(); n.GreaterThan(best) {
			best = n
		} else if n.LessThan(worst) {
			worst = n
		}
	}

	return DashboardStats{
		TotalTrades:     len(fills),
		TotalPnL:        totalPnL,
		WinRate:         round2(float64(winning) / float64(len(fills)) * 100),
		TotalCommission: totalCommission,
		BestTrade:       best,
		WorstTrade:      worst,
	}, nil
}
