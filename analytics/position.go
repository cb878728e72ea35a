package analytics

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrInvalidFill marks a fill that violates the input contract: quantity and
// price must be positive, commission non-negative, side BUY or SELL.
var ErrInvalidFill = errors.New("invalid fill")

// openLot is the running position state for one instrument: net open
// quantity and weighted-average cost. AvgPrice is meaningless while
// Quantity is zero.
type openLot struct {
	Quantity decimal.Decimal
	AvgPrice decimal.Decimal
}

// buy folds a BUY fill into the lot, blending the fill price into the
// weighted-average cost.
func (l *openLot) buy(qty, price decimal.Decimal) {
	if l.Quantity.IsZero() {
		l.AvgPrice = price
	} else {
		total := l.AvgPrice.Mul(l.Quantity).Add(price.Mul(qty))
		l.AvgPrice = total.Div(l.Quantity.Add(qty))
	}
	l.Quantity = l.Quantity.Add(qty)
}

// sell consumes up to qty units from the lot and returns the quantity
// actually closed. Selling into an empty lot closes nothing; quantity beyond
// the open position is dropped, not tracked as a short. When the lot empties
// the average price resets to zero.
func (l *openLot) sell(qty decimal.Decimal) (closed decimal.Decimal) {
	if l.Quantity.IsZero() {
		return decimal.Zero
	}
	closed = decimal.Min(qty, l.Quantity)
	l.Quantity = l.Quantity.Sub(closed)
	if l.Quantity.IsZero() {
		l.AvgPrice = decimal.Zero
	}
	return closed
}

// Reconstruct replays fills in time order and returns one ClosingEvent per
// matched sell quantity, using weighted-average cost accounting.
//
// Fills are grouped by symbol and each group is processed independently;
// within a group fills run in non-decreasing timestamp order, with ties kept
// in input order. Results are deterministic for a given input slice.
func Reconstruct(fills []Fill) ([]ClosingEvent, error) {
	if err := ValidateFills(fills); err != nil {
		return nil, err
	}

	bySymbol := map[string][]Fill{}
	var symbols []string
	for _, f := range fills {
		if _, ok := bySymbol[f.Symbol]; !ok {
			symbols = append(symbols, f.Symbol)
		}
		bySymbol[f.Symbol] = append(bySymbol[f.Symbol], f)
	}

	var events []ClosingEvent
	for _, sym := range symbols {
		events = append(events, reconstructSymbol(bySymbol[sym])...)
	}
	return events, nil
}

// reconstructSymbol runs the position fold for a single instrument.
func reconstructSymbol(fills []Fill) []ClosingEvent {
	sort.SliceStable(fills, func(i, j int) bool {
		return fills[i].Timestamp.Before(fills[j].Timestamp)
	})

	var (
		lot     openLot
		lastBuy *Fill
		events  []ClosingEvent
	)
	for i := range fills {
		f := fills[i]
		switch f.Side {
		case Buy:
			lot.buy(f.Quantity, f.Price)
			lastBuy = &fills[i]

		case Sell:
			entry := lot.AvgPrice
			closed := lot.sell(f.Quantity)
			if closed.IsZero() {
				continue
			}

			ev := ClosingEvent{
				Symbol:         f.Symbol,
				RealizedPnL:    f.Price.Sub(entry).Mul(closed).Sub(f.Commission),
				CloseTime:      f.Timestamp,
				ClosedQuantity: closed,
				EntryPrice:     entry,
				ExitPrice:      f.Price,
			}
			// Strategy attribution: the most recent BUY before this SELL,
			// whichever lots actually fed the blended average.
			if lastBuy != nil {
				ev.Tags = lastBuy.Tags
				ev.HoldTime = f.Timestamp.Sub(lastBuy.Timestamp)
			}
			events = append(events, ev)
		}
	}
	return events
}

// ValidateFills fails fast on fills that break the input contract, so a bad
// upstream record surfaces as a labeled error instead of silently wrong
// numbers.
func ValidateFills(fills []Fill) error {
	for i, f := range fills {
		switch {
		case f.Side != Buy && f.Side != Sell:
			return fmt.Errorf("%w: fill %d (%s): unknown side %q", ErrInvalidFill, i, f.Symbol, f.Side)
		case !f.Quantity.IsPositive():
			return fmt.Errorf("%w: fill %d (%s): quantity must be positive, got %s", ErrInvalidFill, i, f.Symbol, f.Quantity)
		case !f.Price.IsPositive():
			return fmt.Errorf("%w: fill %d (%s): price must be positive, got %s", ErrInvalidFill, i, f.Symbol, f.Price)
		case f.Commission.IsNegative():
			return fmt.Errorf("%w: fill %d (%s): commission must not be negative, got %s", ErrInvalidFill, i, f.Symbol, f.Commission)
		}
	}
	return nil
}
