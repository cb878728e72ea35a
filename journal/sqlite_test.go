package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func newTestAccount(t *testing.T, j *SQLite) Account {
	t.Helper()

	a := Account{Name: "main", Broker: "IBKR"}
	require.NoError(t, j.CreateAccount(&a))
	require.NotEmpty(t, a.ID)
	return a
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testTrade(accountID, symbol, side, qty, price string, at time.Time) Trade {
	return Trade{
		AccountID:  accountID,
		Symbol:     symbol,
		Quantity:   dec(qty),
		Price:      dec(price),
		Side:       side,
		TradeDate:  at,
		Commission: dec("0"),
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('accounts','trades','tags','trade_tags','notes')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	for _, table := range []string{"accounts", "trades", "tags", "trade_tags", "notes"} {
		assert.True(t, found[table], "missing table %s", table)
	}
}

func TestCreateAndGetTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	acct := newTestAccount(t, j)

	at := time.Date(2025, 4, 9, 14, 18, 37, 0, time.UTC)
	trade := testTrade(acct.ID, "AAPL", "BUY", "100.5", "150.5", at)
	trade.Commission = dec("1.25")
	trade.Exchange = "NASDAQ"
	trade.OrderType = "LMT"
	require.NoError(t, j.CreateTrade(&trade))

	got, err := j.GetTrade(trade.ID)
	require.NoError(t, err)

	assert.Equal(t, trade.ID, got.ID)
	assert.Equal(t, acct.ID, got.AccountID)
	assert.Equal(t, "AAPL", got.Symbol)
	assert.True(t, got.Quantity.Equal(dec("100.5")), "quantity %s", got.Quantity)
	assert.True(t, got.Price.Equal(dec("150.5")), "price %s", got.Price)
	assert.True(t, got.Commission.Equal(dec("1.25")), "commission %s", got.Commission)
	assert.Equal(t, "BUY", got.Side)
	assert.True(t, got.TradeDate.Equal(at))
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "NASDAQ", got.Exchange)
}

func TestGetTradeNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	_, err := j.GetTrade("nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestUpdateTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	acct := newTestAccount(t, j)
	trade := testTrade(acct.ID, "AAPL", "BUY", "10", "100", time.Now().UTC())
	require.NoError(t, j.CreateTrade(&trade))

	trade.Price = dec("105.25")
	trade.Side = "SELL"
	require.NoError(t, j.UpdateTrade(&trade))

	got, err := j.GetTrade(trade.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(dec("105.25")))
	assert.Equal(t, "SELL", got.Side)
}

func TestUpdateTradeNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	trade := testTrade("acct", "AAPL", "BUY", "10", "100", time.Now().UTC())
	trade.ID = "missing"
	err := j.UpdateTrade(&trade)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDeleteTradeCascadesTagsAndNotes(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	acct := newTestAccount(t, j)
	trade := testTrade(acct.ID, "AAPL", "BUY", "10", "100", time.Now().UTC())
	require.NoError(t, j.CreateTrade(&trade))

	tag := Tag{Name: "swing"}
	require.NoError(t, j.CreateTag(&tag))
	require.NoError(t, j.TagTrade(trade.ID, tag.ID))

	note := Note{TradeID: trade.ID, Text: "entered on support bounce"}
	require.NoError(t, j.CreateNote(&note))

	require.NoError(t, j.DeleteTrade(trade.ID))

	_, err := j.GetTrade(trade.ID)
	assert.Error(t, err)

	notes, err := j.ListNotes(trade.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)

	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM trade_tags`).Scan(&count))
	assert.Zero(t, count)
}

func TestTagTradeIdempotent(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	acct := newTestAccount(t, j)
	trade := testTrade(acct.ID, "AAPL", "BUY", "10", "100", time.Now().UTC())
	require.NoError(t, j.CreateTrade(&trade))

	tag := Tag{Name: "momentum"}
	require.NoError(t, j.CreateTag(&tag))

	require.NoError(t, j.TagTrade(trade.ID, tag.ID))
	require.NoError(t, j.TagTrade(trade.ID, tag.ID))

	fills, err := j.ListFills(acct.ID, "")
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, []string{"momentum"}, fills[0].Tags)
}

func TestNotesRoundTrip(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	acct := newTestAccount(t, j)
	trade := testTrade(acct.ID, "TSLA", "BUY", "5", "200", time.Now().UTC())
	require.NoError(t, j.CreateTrade(&trade))

	first := Note{TradeID: trade.ID, Text: "sized small, earnings week", CreatedAt: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	second := Note{TradeID: trade.ID, Text: "stopped out", CreatedAt: time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)}
	require.NoError(t, j.CreateNote(&first))
	require.NoError(t, j.CreateNote(&second))

	notes, err := j.ListNotes(trade.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "sized small, earnings week", notes[0].Text)
	assert.Equal(t, "stopped out", notes[1].Text)
}
