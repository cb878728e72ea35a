// Package journal persists the trading log: accounts, trade fills, strategy
// tags and per-trade notes, backed by SQLite. It also feeds the analytics
// engine with normalized fill streams (tags resolved, ordered by symbol and
// time).
package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is one brokerage account trades are logged against.
type Account struct {
	ID            string
	Name          string
	Broker        string
	AccountNumber string
	CreatedAt     time.Time
}

// Trade is one executed fill as logged or imported. Quantity is always
// positive; Side carries the direction.
type Trade struct {
	ID         string
	AccountID  string
	Symbol     string
	Quantity   decimal.Decimal
	Price      decimal.Decimal
	Side       string // BUY or SELL
	TradeDate  time.Time
	Commission decimal.Decimal
	Currency   string
	Exchange   string
	OrderType  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Tag is a strategy label that can be attached to any number of trades.
type Tag struct {
	ID        string
	Name      string
	Color     string
	CreatedAt time.Time
}

// Note is a free-form journal entry attached to a trade.
type Note struct {
	ID        string
	TradeID   string
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TradeFilter narrows ListTrades. Zero values mean "no constraint".
type TradeFilter struct {
	AccountID string
	Symbol    string
	Side      string
	Start     time.Time
	End       time.Time
	Limit     int
	Offset    int
}
