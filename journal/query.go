package journal

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"tradebook/analytics"
)

func (j *SQLite) GetAccount(accountID string) (Account, error) {
	var a Account
	row := j.db.QueryRow(`
		SELECT id, name, broker, account_number, created_at
		FROM accounts WHERE id = ?`, accountID)

	err := row.Scan(&a.ID, &a.Name, &a.Broker, &a.AccountNumber, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Account{}, fmt.Errorf("account %q not found", accountID)
		}
		return Account{}, err
	}
	return a, nil
}

func (j *SQLite) ListAccounts() ([]Account, error) {
	rows, err := j.db.Query(`
		SELECT id, name, broker, account_number, created_at
		FROM accounts ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Broker, &a.AccountNumber, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetTrade returns a single trade by ID.
func (j *SQLite) GetTrade(tradeID string) (Trade, error) {
	row := j.db.QueryRow(`
		SELECT id, account_id, symbol, quantity, price, side, trade_date,
		       commission, currency, exchange, order_type, created_at, updated_at
		FROM trades WHERE id = ?`, tradeID)

	t, err := scanTrade(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Trade{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return Trade{}, err
	}
	return t, nil
}

// ListTrades returns trades matching the filter, newest first.
func (j *SQLite) ListTrades(f TradeFilter) ([]Trade, error) {
	var (
		where []string
		args  []any
	)
	if f.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, f.AccountID)
	}
	if f.Symbol != "" {
		where = append(where, "symbol = ?")
		args = append(args, f.Symbol)
	}
	if f.Side != "" {
		where = append(where, "side = ?")
		args = append(args, f.Side)
	}
	if !f.Start.IsZero() {
		where = append(where, "trade_date >= ?")
		args = append(args, f.Start)
	}
	if !f.End.IsZero() {
		where = append(where, "trade_date < ?")
		args = append(args, f.End)
	}

	q := `SELECT id, account_id, symbol, quantity, price, side, trade_date,
	             commission, currency, exchange, order_type, created_at, updated_at
	      FROM trades`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY trade_date DESC, id DESC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
		if f.Offset > 0 {
			q += " OFFSET ?"
			args = append(args, f.Offset)
		}
	}

	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (j *SQLite) ListTags() ([]Tag, error) {
	rows, err := j.db.Query(`SELECT id, name, color, created_at FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Tag
	for rows.Next() {
		var tag Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, rows.Err()
}

func (j *SQLite) ListNotes(tradeID string) ([]Note, error) {
	rows, err := j.db.Query(`
		SELECT id, trade_id, body, created_at, updated_at
		FROM notes WHERE trade_id = ? ORDER BY created_at ASC`, tradeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.TradeID, &n.Text, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// ListFills loads an account's trades as analytics fills, ordered by symbol
// then trade date (insertion order breaks timestamp ties, ULIDs sort by
// creation time), with strategy tags resolved. This is the input contract of
// the analytics engine. symbol narrows to one instrument when non-empty.
func (j *SQLite) ListFills(accountID, symbol string) ([]analytics.Fill, error) {
	q := `SELECT id, symbol, quantity, price, side, trade_date, commission
	      FROM trades WHERE account_id = ?`
	args := []any{accountID}
	if symbol != "" {
		q += " AND symbol = ?"
		args = append(args, symbol)
	}
	q += " ORDER BY symbol ASC, trade_date ASC, id ASC"

	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tagsByTrade, err := j.tagNamesByTrade(accountID)
	if err != nil {
		return nil, err
	}

	var fills []analytics.Fill
	for rows.Next() {
		var (
			tradeID, sym, qty, price, side string
			f                              analytics.Fill
			commission                     string
		)
		if err := rows.Scan(&tradeID, &sym, &qty, &price, &side, &f.Timestamp, &commission); err != nil {
			return nil, err
		}
		if f.Quantity, err = decimal.NewFromString(qty); err != nil {
			return nil, fmt.Errorf("trade %s: bad quantity %q: %w", tradeID, qty, err)
		}
		if f.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("trade %s: bad price %q: %w", tradeID, price, err)
		}
		if f.Commission, err = decimal.NewFromString(commission); err != nil {
			return nil, fmt.Errorf("trade %s: bad commission %q: %w", tradeID, commission, err)
		}
		f.Symbol = sym
		f.Side = analytics.Side(side)
		f.Tags = tagsByTrade[tradeID]
		fills = append(fills, f)
	}
	return fills, rows.Err()
}

// tagNamesByTrade resolves tag names for every tagged trade in the account,
// names sorted so fills come out the same on every load.
func (j *SQLite) tagNamesByTrade(accountID string) (map[string][]string, error) {
	rows, err := j.db.Query(`
		SELECT tt.trade_id, tg.name
		FROM trade_tags tt
		JOIN tags tg ON tg.id = tt.tag_id
		JOIN trades tr ON tr.id = tt.trade_id
		WHERE tr.account_id = ?
		ORDER BY tt.trade_id, tg.name`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]string{}
	for rows.Next() {
		var tradeID, name string
		if err := rows.Scan(&tradeID, &name); err != nil {
			return nil, err
		}
		out[tradeID] = append(out[tradeID], name)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (Trade, error) {
	var (
		t                      Trade
		qty, price, commission string
	)
	err := row.Scan(&t.ID, &t.AccountID, &t.Symbol, &qty, &price, &t.Side,
		&t.TradeDate, &commission, &t.Currency, &t.Exchange, &t.OrderType,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return Trade{}, err
	}
	if t.Quantity, err = decimal.NewFromString(qty); err != nil {
		return Trade{}, fmt.Errorf("trade %s: bad quantity %q: %w", t.ID, qty, err)
	}
	if t.Price, err = decimal.NewFromString(price); err != nil {
		return Trade{}, fmt.Errorf("trade %s: bad price %q: %w", t.ID, price, err)
	}
	if t.Commission, err = decimal.NewFromString(commission); err != nil {
		return Trade{}, fmt.Errorf("trade %s: bad commission %q: %w", t.ID, commission, err)
	}
	return t, nil
}
