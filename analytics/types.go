// Package analytics reconstructs realized P&L from a stream of buy/sell
// fills and computes win/loss statistics over the resulting closing events.
//
// Everything in this package is a pure computation: no clock, no I/O, no
// shared state between calls. Callers pass an immutable snapshot of fills
// and get freshly built result structures back.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a fill.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Fill is one executed order: a quantity of an instrument bought or sold at
// a price. Tags carry the strategy labels attached when the fill was logged.
type Fill struct {
	Symbol     string          `json:"symbol"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Side       Side            `json:"side"`
	Timestamp  time.Time       `json:"timestamp"`
	Commission decimal.Decimal `json:"commission"`
	Tags       []string        `json:"tags,omitempty"`
}

// Notional is the gross size of the fill, price times quantity.
func (f Fill) Notional() decimal.Decimal {
	return f.Price.Mul(f.Quantity)
}

// ClosingEvent is the realized-P&L record produced when a SELL consumes some
// or all of an open position.
//
// Tags and HoldTime come from the most recent BUY before the closing SELL,
// not from the specific lots blended into the average cost. That attribution
// is an approximation, kept for compatibility with historical results.
type ClosingEvent struct {
	Symbol         string          `json:"symbol"`
	RealizedPnL    decimal.Decimal `json:"realized_pnl"`
	CloseTime      time.Time       `json:"close_time"`
	ClosedQuantity decimal.Decimal `json:"closed_quantity"`
	EntryPrice     decimal.Decimal `json:"entry_price"`
	ExitPrice      decimal.Decimal `json:"exit_price"`
	Tags           []string        `json:"tags,omitempty"`
	HoldTime       time.Duration   `json:"hold_time"`
}

// Breakdown is the win/loss statistic for a collection of closing events.
// ProfitFactor is math.Inf(1) when there are wins and no losses.
type Breakdown struct {
	Wins         int             `json:"wins"`
	Losses       int             `json:"losses"`
	Breakeven    int             `json:"breakeven"`
	WinRate      float64         `json:"win_rate"`
	AvgWin       decimal.Decimal `json:"avg_win"`
	AvgLoss      decimal.Decimal `json:"avg_loss"`
	ProfitFactor float64         `json:"profit_factor"`
	Expectancy   decimal.Decimal `json:"expectancy"`
}

// PeriodStats is the breakdown for one calendar month of closing events.
type PeriodStats struct {
	Period        string          `json:"period"` // YYYY-MM
	TimeframeType string          `json:"timeframe_type"`
	Breakdown     Breakdown       `json:"breakdown"`
	TotalPnL      decimal.Decimal `json:"total_pnl"`
	TradeCount    int             `json:"trade_count"`
}

// SymbolStats is the breakdown for one instrument. AvgHoldHours is nil when
// no event in the group has a nonzero hold time.
type SymbolStats struct {
	Symbol       string          `json:"symbol"`
	Breakdown    Breakdown       `json:"breakdown"`
	TotalPnL     decimal.Decimal `json:"total_pnl"`
	TradeCount   int             `json:"trade_count"`
	AvgHoldHours *float64        `json:"avg_hold_time_hours,omitempty"`
}

// StrategyStats is the breakdown for one strategy tag. An event carrying two
// tags is counted under both, so counts across strategies may exceed the
// total number of closing events.
type StrategyStats struct {
	Strategy   string          `json:"strategy"`
	Breakdown  Breakdown       `json:"breakdown"`
	TotalPnL   decimal.Decimal `json:"total_pnl"`
	TradeCount int             `json:"trade_count"`
}

// Analysis is the full multi-dimensional win/loss view for one account.
type Analysis struct {
	Overall    Breakdown       `json:"overall"`
	ByPeriod   []PeriodStats   `json:"by_timeframe"`
	BySymbol   []SymbolStats   `json:"by_symbol"`
	ByStrategy []StrategyStats `json:"by_strategy"`
	TimePeriod string          `json:"time_period"`
}

// DashboardStats is the simplified summary computed straight from raw fills.
//
// Note the quirks this carries on purpose: WinRate's denominator is the raw
// fill count, not the closing-event count, and BestTrade/WorstTrade are
// notional fill sizes (price x quantity), not realized P&L. Both match the
// numbers users have been looking at since day one.
type DashboardStats struct {
	TotalTrades     int             `json:"total_trades"`
	TotalPnL        decimal.Decimal `json:"total_pnl"`
	WinRate         float64         `json:"win_rate"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	BestTrade       decimal.Decimal `json:"best_trade"`
	WorstTrade      decimal.Decimal `json:"worst_trade"`
}
