package analytics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Time-period selectors accepted by Analyze.
const (
	PeriodAll        = "all"
	PeriodOneMonth   = "1m"
	PeriodThreeMonth = "3m"
	PeriodSixMonth   = "6m"
	PeriodOneYear    = "1y"
	PeriodYearToDate = "ytd"
)

// ErrUnknownPeriod marks a time-period selector outside the accepted set.
var ErrUnknownPeriod = errors.New("unknown time period")

// NoStrategy is the bucket for closing events whose opening fill carried no
// strategy tags.
const NoStrategy = "No Strategy"

// CutoffTime maps a period selector to the fill cutoff relative to now.
// The zero time (ok=false) means no cutoff.
func CutoffTime(period string, now time.Time) (cutoff time.Time, ok bool, err error) {
	switch period {
	case PeriodAll:
		return time.Time{}, false, nil
	case PeriodOneMonth:
		return now.Add(-30 * 24 * time.Hour), true, nil
	case PeriodThreeMonth:
		return now.Add(-90 * 24 * time.Hour), true, nil
	case PeriodSixMonth:
		return now.Add(-180 * 24 * time.Hour), true, nil
	case PeriodOneYear:
		return now.Add(-365 * 24 * time.Hour), true, nil
	case PeriodYearToDate:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), true, nil
	default:
		return time.Time{}, false, fmt.Errorf("%w: %q", ErrUnknownPeriod, period)
	}
}

// Analyze reconstructs positions from fills and returns the win/loss
// analysis across all four views: overall, by calendar month, by instrument
// and by strategy tag.
//
// The period cutoff is applied to the raw fills before reconstruction, so a
// SELL whose matching BUY falls before the cutoff comes out unmatched (or
// priced against a truncated average). That is the long-standing behavior of
// the analysis endpoint; moving the filter after reconstruction would change
// reported numbers. now is passed in rather than read from the clock so
// results stay reproducible.
func Analyze(fills []Fill, period string, now time.Time) (Analysis, error) {
	cutoff, bounded, err := CutoffTime(period, now)
	if err != nil {
		return Analysis{}, err
	}

	if bounded {
		kept := make([]Fill, 0, len(fills))
		for _, f := range fills {
			if !f.Timestamp.Before(cutoff) {
				kept = append(kept, f)
			}
		}
		fills = kept
	}

	events, err := Reconstruct(fills)
	if err != nil {
		return Analysis{}, err
	}

	return Analysis{
		Overall:    ComputeBreakdown(events),
		ByPeriod:   groupByPeriod(events),
		BySymbol:   groupBySymbol(events),
		ByStrategy: groupByStrategy(events),
		TimePeriod: period,
	}, nil
}

func groupByPeriod(events []ClosingEvent) []PeriodStats {
	groups := map[string][]ClosingEvent{}
	for _, ev := range events {
		key := ev.CloseTime.Format("2006-01")
		groups[key] = append(groups[key], ev)
	}

	out := make([]PeriodStats, 0, len(groups))
	for key, evs := range groups {
		out = append(out, PeriodStats{
			Period:        key,
			TimeframeType: "monthly",
			Breakdown:     ComputeBreakdown(evs),
			TotalPnL:      sumPnL(evs),
			TradeCount:    len(evs),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

func groupBySymbol(events []ClosingEvent) []SymbolStats {
	groups := map[string][]ClosingEvent{}
	for _, ev := range events {
		groups[ev.Symbol] = append(groups[ev.Symbol], ev)
	}

	out := make([]SymbolStats, 0, len(groups))
	for sym, evs := range groups {
		out = append(out, SymbolStats{
			Symbol:       sym,
			Breakdown:    ComputeBreakdown(evs),
			TotalPnL:     sumPnL(evs),
			TradeCount:   len(evs),
			AvgHoldHours: avgHoldHours(evs),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalPnL.Cmp(out[j].TotalPnL); c != 0 {
			return c > 0
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

func groupByStrategy(events []ClosingEvent) []StrategyStats {
	// An event fans out to every tag it carries, so the same event (and its
	// full pnl) can land in several buckets.
	groups := map[string][]ClosingEvent{}
	for _, ev := range events {
		if len(ev.Tags) == 0 {
			groups[NoStrategy] = append(groups[NoStrategy], ev)
			continue
		}
		for _, tag := range ev.Tags {
			groups[tag] = append(groups[tag], ev)
		}
	}

	out := make([]StrategyStats, 0, len(groups))
	for name, evs := range groups {
		out = append(out, StrategyStats{
			Strategy:   name,
			Breakdown:  ComputeBreakdown(evs),
			TotalPnL:   sumPnL(evs),
			TradeCount: len(evs),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalPnL.Cmp(out[j].TotalPnL); c != 0 {
			return c > 0
		}
		return out[i].Strategy < out[j].Strategy
	})
	return out
}

func sumPnL(events []ClosingEvent) decimal.Decimal {
	total := decimal.Zero
	for _, ev := range events {
		total = total.Add(ev.RealizedPnL)
	}
	return total
}

// avgHoldHours averages the hold time, in hours, over events that have one.
// Events closed with no recorded hold time are left out; nil when none
// qualify.
func avgHoldHours(events []ClosingEvent) *float64 {
	var sum float64
	var n int
	for _, ev := range events {
		if ev.HoldTime > 0 {
			sum += ev.HoldTime.Hours()
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}
