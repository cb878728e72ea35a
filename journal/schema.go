package journal

// Decimal columns are stored as TEXT so quantities and prices survive the
// round trip exactly.
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	broker TEXT NOT NULL DEFAULT 'IBKR',
	account_number TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	symbol TEXT NOT NULL,
	quantity TEXT NOT NULL,
	price TEXT NOT NULL,
	side TEXT NOT NULL,
	trade_date DATETIME NOT NULL,
	commission TEXT NOT NULL DEFAULT '0',
	currency TEXT NOT NULL DEFAULT 'USD',
	exchange TEXT NOT NULL DEFAULT '',
	order_type TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_account ON trades(account_id);
CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(trade_date);

CREATE TABLE IF NOT EXISTS tags (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	color TEXT NOT NULL DEFAULT '#3B82F6',
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS trade_tags (
	trade_id TEXT NOT NULL REFERENCES trades(id) ON DELETE CASCADE,
	tag_id TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
	PRIMARY KEY (trade_id, tag_id)
);

CREATE TABLE IF NOT EXISTS notes (
	id TEXT PRIMARY KEY,
	trade_id TEXT NOT NULL REFERENCES trades(id) ON DELETE CASCADE,
	body TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_trade ON notes(trade_id);
`
