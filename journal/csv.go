package journal

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ImportResult summarizes one CSV import run.
type ImportResult struct {
	Imported int
	Errors   []string
}

// ibkrTimeLayout matches the Date/Time column of IBKR activity statements,
// e.g. "2025-04-09;14:18:37".
const ibkrTimeLayout = "2006-01-02;15:04:05"

// ImportIBKRCSV reads an IBKR activity statement, extracts the stock rows of
// its Trades section and stores them as trades on the given account. Rows
// that fail to parse are reported in the result, not fatal; only a missing
// Trades section or a failed insert aborts the import.
func ImportIBKRCSV(r io.Reader, store *SQLite, accountID string) (ImportResult, error) {
	section, err := tradesSection(r)
	if err != nil {
		return ImportResult{}, err
	}
	if len(section) == 0 {
		return ImportResult{Errors: []string{"no trades section found in CSV file"}}, nil
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(section, "\n")))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return ImportResult{}, fmt.Errorf("read csv header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}

	var result ImportResult
	for rowNum := 1; ; rowNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}

		trade, err := parseIBKRRow(row, col)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		trade.AccountID = accountID

		if err := store.CreateTrade(&trade); err != nil {
			return result, fmt.Errorf("import row %d: %w", rowNum, err)
		}
		result.Imported++
	}
	return result, nil
}

// tradesSection pulls the contiguous Trades block out of an IBKR statement,
// which interleaves several report sections in one file.
func tradesSection(r io.Reader) ([]string, error) {
	var (
		lines   []string
		started bool
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "Trades,Header,"):
			started = true
			lines = append(lines, line)
		case started && strings.HasPrefix(line, "Trades,Data,"):
			lines = append(lines, line)
		case started && strings.HasPrefix(line, "Trades,"):
			// SubTotal and Total rows; skip without ending the section.
		case started:
			return lines, sc.Err()
		}
	}
	return lines, sc.Err()
}

func parseIBKRRow(row []string, col map[string]int) (Trade, error) {
	field := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	// Subtotal and total rows share the section; only Data rows are trades.
	if field("Header") != "Data" {
		return Trade{}, fmt.Errorf("not a trade data row")
	}
	if field("Asset Category") != "Stocks" {
		return Trade{}, fmt.Errorf("not a stock trade")
	}

	quantity, err := decimal.NewFromString(field("Quantity"))
	if err != nil {
		return Trade{}, fmt.Errorf("bad quantity %q: %w", field("Quantity"), err)
	}
	price, err := decimal.NewFromString(field("T. Price"))
	if err != nil {
		return Trade{}, fmt.Errorf("bad price %q: %w", field("T. Price"), err)
	}
	commission, err := decimal.NewFromString(field("Comm/Fee"))
	if err != nil {
		return Trade{}, fmt.Errorf("bad commission %q: %w", field("Comm/Fee"), err)
	}
	tradeDate, err := time.Parse(ibkrTimeLayout, field("Date/Time"))
	if err != nil {
		return Trade{}, fmt.Errorf("bad date/time %q: %w", field("Date/Time"), err)
	}

	// IBKR signs the quantity; we store it positive and keep the direction
	// on the side column. Commissions come in negative.
	side := "SELL"
	if quantity.IsPositive() {
		side = "BUY"
	}

	currency := field("Currency")
	if currency == "" {
		currency = "USD"
	}

	return Trade{
		Symbol:     strings.TrimSpace(field("Symbol")),
		Quantity:   quantity.Abs(),
		Price:      price,
		Side:       side,
		TradeDate:  tradeDate,
		Commission: commission.Abs(),
		Currency:   currency,
		OrderType:  "MKT",
	}, nil
}
