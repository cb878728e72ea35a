package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tradebook/pkg/id"
)

// SQLite is the journal store. Safe for use from a single process; SQLite
// serializes writers underneath.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

// CreateAccount stores a new account, assigning ID and CreatedAt when unset.
func (j *SQLite) CreateAccount(a *Account) error {
	if a.ID == "" {
		a.ID = id.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.Broker == "" {
		a.Broker = "IBKR"
	}

	_, err := j.db.Exec(`
		INSERT INTO accounts (id, name, broker, account_number, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Broker, a.AccountNumber, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// CreateTrade stores a new trade, assigning ID and timestamps when unset.
func (j *SQLite) CreateTrade(t *Trade) error {
	if t.ID == "" {
		t.ID = id.New()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
	if t.Currency == "" {
		t.Currency = "USD"
	}

	_, err := j.db.Exec(`
		INSERT INTO trades
		(id, account_id, symbol, quantity, price, side, trade_date, commission, currency, exchange, order_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.AccountID, t.Symbol, t.Quantity.String(), t.Price.String(),
		t.Side, t.TradeDate, t.Commission.String(), t.Currency, t.Exchange,
		t.OrderType, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create trade: %w", err)
	}
	return nil
}

// UpdateTrade rewrites a trade's mutable fields and bumps updated_at.
func (j *SQLite) UpdateTrade(t *Trade) error {
	t.UpdatedAt = time.Now().UTC()

	res, err := j.db.Exec(`
		UPDATE trades
		SET symbol = ?, quantity = ?, price = ?, side = ?, trade_date = ?,
		    commission = ?, currency = ?, exchange = ?, order_type = ?, updated_at = ?
		WHERE id = ?`,
		t.Symbol, t.Quantity.String(), t.Price.String(), t.Side, t.TradeDate,
		t.Commission.String(), t.Currency, t.Exchange, t.OrderType, t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("update trade: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("trade %q not found", t.ID)
	}
	return nil
}

func (j *SQLite) DeleteTrade(tradeID string) error {
	res, err := j.db.Exec(`DELETE FROM trades WHERE id = ?`, tradeID)
	if err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("trade %q not found", tradeID)
	}
	return nil
}

// CreateTag stores a new strategy tag. Names are unique.
func (j *SQLite) CreateTag(tag *Tag) error {
	if tag.ID == "" {
		tag.ID = id.New()
	}
	if tag.CreatedAt.IsZero() {
		tag.CreatedAt = time.Now().UTC()
	}
	if tag.Color == "" {
		tag.Color = "#3B82F6"
	}

	_, err := j.db.Exec(`
		INSERT INTO tags (id, name, color, created_at)
		VALUES (?, ?, ?, ?)`,
		tag.ID, tag.Name, tag.Color, tag.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// TagTrade attaches a tag to a trade. Attaching twice is a no-op.
func (j *SQLite) TagTrade(tradeID, tagID string) error {
	_, err := j.db.Exec(`
		INSERT OR IGNORE INTO trade_tags (trade_id, tag_id) VALUES (?, ?)`,
		tradeID, tagID,
	)
	if err != nil {
		return fmt.Errorf("tag trade: %w", err)
	}
	return nil
}

func (j *SQLite) UntagTrade(tradeID, tagID string) error {
	_, err := j.db.Exec(`DELETE FROM trade_tags WHERE trade_id = ? AND tag_id = ?`, tradeID, tagID)
	if err != nil {
		return fmt.Errorf("untag trade: %w", err)
	}
	return nil
}

// CreateNote stores a journal entry against a trade.
func (j *SQLite) CreateNote(n *Note) error {
	if n.ID == "" {
		n.ID = id.New()
	}
	now := time.Now().UTC()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = now
	}

	_, err := j.db.Exec(`
		INSERT INTO notes (id, trade_id, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.TradeID, n.Text, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}
