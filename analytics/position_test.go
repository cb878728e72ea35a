package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fill(symbol string, side Side, qty, price string, at time.Time, tags ...string) Fill {
	return Fill{
		Symbol:    symbol,
		Side:      side,
		Quantity:  dec(qty),
		Price:     dec(price),
		Timestamp: at,
		Tags:      tags,
	}
}

// assertDec compares a decimal against its expected string form, since
// decimal.Decimal values with different exponents are not deeply equal.
func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "want %s, got %s", want, got)
}

func TestReconstructEmpty(t *testing.T) {
	t.Parallel()

	events, err := Reconstruct(nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestReconstructPartialClose(t *testing.T) {
	t.Parallel()

	// Scenario: buy 100 at 150.50, later sell half at 155.25 for a 1.00
	// commission.
	sell := fill("AAPL", Sell, "50", "155.25", t0.Add(2*time.Hour))
	sell.Commission = dec("1.00")

	events, err := Reconstruct([]Fill{
		fill("AAPL", Buy, "100", "150.50", t0),
		sell,
	})
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "AAPL", ev.Symbol)
	assertDec(t, "50", ev.ClosedQuantity)
	assertDec(t, "150.50", ev.EntryPrice)
	assertDec(t, "155.25", ev.ExitPrice)
	assertDec(t, "236.50", ev.RealizedPnL) // (155.25-150.50)*50 - 1.00
	assert.True(t, ev.CloseTime.Equal(t0.Add(2*time.Hour)))
	assert.Equal(t, 2*time.Hour, ev.HoldTime)
}

func TestReconstructWeightedAverage(t *testing.T) {
	t.Parallel()

	// Two buys blend to an average of 15; selling everything at 12 loses
	// 3 per unit on 200 units.
	events, err := Reconstruct([]Fill{
		fill("TSLA", Buy, "100", "10", t0),
		fill("TSLA", Buy, "100", "20", t0.Add(time.Hour)),
		fill("TSLA", Sell, "200", "12", t0.Add(2*time.Hour)),
	})
	require.NoError(t, err)
	require.Len(t, events, 1)

	assertDec(t, "15", events[0].EntryPrice)
	assertDec(t, "-600", events[0].RealizedPnL)
	assertDec(t, "200", events[0].ClosedQuantity)
}

func TestReconstructSellWithNoPosition(t *testing.T) {
	t.Parallel()

	events, err := Reconstruct([]Fill{
		fill("GME", Sell, "10", "100", t0),
	})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestReconstructOversell(t *testing.T) {
	t.Parallel()

	// Selling 80 against an open 50 closes 50; the extra 30 units are
	// dropped, never tracked as a short.
	events, err := Reconstruct([]Fill{
		fill("NVDA", Buy, "50", "10", t0),
		fill("NVDA", Sell, "80", "12", t0.Add(time.Hour)),
		// A later sell finds nothing open.
		fill("NVDA", Sell, "5", "13", t0.Add(2*time.Hour)),
	})
	require.NoError(t, err)
	require.Len(t, events, 1)

	assertDec(t, "50", events[0].ClosedQuantity)
	assertDec(t, "100", events[0].RealizedPnL) // (12-10)*50
}

func TestReconstructCommissionNotProRated(t *testing.T) {
	t.Parallel()

	// The full commission lands on the event even when only part of the
	// sell matches.
	sell := fill("AMD", Sell, "100", "11", t0.Add(time.Hour))
	sell.Commission = dec("2.50")

	events, err := Reconstruct([]Fill{
		fill("AMD", Buy, "40", "10", t0),
		sell,
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assertDec(t, "37.50", events[0].RealizedPnL) // (11-10)*40 - 2.50
}

func TestReconstructAveragePriceResetsAtZero(t *testing.T) {
	t.Parallel()

	// After the position fully closes, the next buy starts a fresh average
	// rather than blending with stale state.
	events, err := Reconstruct([]Fill{
		fill("MSFT", Buy, "10", "100", t0),
		fill("MSFT", Sell, "10", "110", t0.Add(time.Hour)),
		fill("MSFT", Buy, "10", "200", t0.Add(2*time.Hour)),
		fill("MSFT", Sell, "10", "210", t0.Add(3*time.Hour)),
	})
	require.NoError(t, err)
	require.Len(t, events, 2)

	assertDec(t, "100", events[0].EntryPrice)
	assertDec(t, "100", events[0].RealizedPnL)
	assertDec(t, "200", events[1].EntryPrice)
	assertDec(t, "100", events[1].RealizedPnL)
}

func TestReconstructTagAttribution(t *testing.T) {
	t.Parallel()

	// Tags come from the most recent prior BUY, even though the average
	// cost still carries the earlier lot.
	events, err := Reconstruct([]Fill{
		fill("SPY", Buy, "100", "400", t0, "swing"),
		fill("SPY", Buy, "100", "410", t0.Add(time.Hour), "momentum", "earnings"),
		fill("SPY", Sell, "150", "420", t0.Add(5*time.Hour)),
	})
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, []string{"momentum", "earnings"}, events[0].Tags)
	assert.Equal(t, 4*time.Hour, events[0].HoldTime)
}

func TestReconstructSymbolsIndependent(t *testing.T) {
	t.Parallel()

	// An open position in one symbol never matches a sell in another.
	events, err := Reconstruct([]Fill{
		fill("AAPL", Buy, "10", "100", t0),
		fill("TSLA", Sell, "10", "100", t0.Add(time.Minute)),
	})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestReconstructTimestampTiesKeepInputOrder(t *testing.T) {
	t.Parallel()

	// Two buys at the same instant: input order decides the fold order, so
	// the run is deterministic call to call.
	fills := []Fill{
		fill("X", Buy, "10", "10", t0),
		fill("X", Buy, "10", "20", t0),
		fill("X", Sell, "20", "30", t0.Add(time.Hour)),
	}

	first, err := Reconstruct(fills)
	require.NoError(t, err)
	second, err := Reconstruct(fills)
	require.NoError(t, err)

	require.Len(t, first, 1)
	assertDec(t, "15", first[0].EntryPrice)
	assert.Equal(t, first, second)
}

func TestReconstructInputNotMutated(t *testing.T) {
	t.Parallel()

	fills := []Fill{
		fill("X", Buy, "10", "20", t0.Add(time.Hour)),
		fill("X", Buy, "10", "10", t0),
	}

	_, err := Reconstruct(fills)
	require.NoError(t, err)

	// Caller's slice keeps its original order.
	assert.True(t, fills[0].Timestamp.After(fills[1].Timestamp))
}

func TestValidateFills(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mod  func(*Fill)
		want string
	}{
		{"zero quantity", func(f *Fill) { f.Quantity = decimal.Zero }, "quantity"},
		{"negative quantity", func(f *Fill) { f.Quantity = dec("-1") }, "quantity"},
		{"zero price", func(f *Fill) { f.Price = decimal.Zero }, "price"},
		{"negative commission", func(f *Fill) { f.Commission = dec("-0.5") }, "commission"},
		{"unknown side", func(f *Fill) { f.Side = "HOLD" }, "side"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := fill("AAPL", Buy, "10", "100", t0)
			tt.mod(&f)

			_, err := Reconstruct([]Fill{f})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidFill)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
