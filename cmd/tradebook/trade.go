package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"tradebook/journal"
)

func tradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Log and inspect trades",
	}
	cmd.AddCommand(tradeAddCmd(), tradeListCmd(), tradeRmCmd())
	return cmd
}

func tradeAddCmd() *cobra.Command {
	var (
		account, side, date string
		commission          string
		currency, exchange  string
	)
	cmd := &cobra.Command{
		Use:   "add SYMBOL QTY PRICE",
		Short: "Log a fill",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := resolveAccount(account)
			if err != nil {
				return err
			}

			sd := strings.ToUpper(side)
			if sd != "BUY" && sd != "SELL" {
				return fmt.Errorf("side must be BUY or SELL, got %q", side)
			}

			qty, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("bad quantity %q: %w", args[1], err)
			}
			price, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("bad price %q: %w", args[2], err)
			}
			comm, err := decimal.NewFromString(commission)
			if err != nil {
				return fmt.Errorf("bad commission %q: %w", commission, err)
			}

			at := time.Now().UTC()
			if date != "" {
				at, err = time.Parse(time.RFC3339, date)
				if err != nil {
					return fmt.Errorf("bad date %q (want RFC3339): %w", date, err)
				}
			}

			j, err := openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			t := journal.Trade{
				AccountID:  acct,
				Symbol:     strings.ToUpper(args[0]),
				Quantity:   qty,
				Price:      price,
				Side:       sd,
				TradeDate:  at,
				Commission: comm,
				Currency:   currency,
				Exchange:   exchange,
			}
			if err := j.CreateTrade(&t); err != nil {
				return err
			}
			log.Infow("trade logged", "id", t.ID, "symbol", t.Symbol, "side", t.Side)
			fmt.Println(t.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "account id")
	cmd.Flags().StringVar(&side, "side", "BUY", "BUY or SELL")
	cmd.Flags().StringVar(&date, "date", "", "fill time, RFC3339 (default now)")
	cmd.Flags().StringVar(&commission, "commission", "0", "commission paid")
	cmd.Flags().StringVar(&currency, "currency", "USD", "quote currency")
	cmd.Flags().StringVar(&exchange, "exchange", "", "exchange")
	return cmd
}

func tradeListCmd() *cobra.Command {
	var (
		account, symbol, side string
		limit                 int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trades, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := resolveAccount(account)
			if err != nil {
				return err
			}

			j, err := openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			trades, err := j.ListTrades(journal.TradeFilter{
				AccountID: acct,
				Symbol:    strings.ToUpper(symbol),
				Side:      strings.ToUpper(side),
				Limit:     limit,
			})
			if err != nil {
				return err
			}

			for _, t := range trades {
				fmt.Printf("%s  %s  %-5s %-5s %12s @ %-10s comm %s\n",
					t.ID, t.TradeDate.Format("2006-01-02 15:04"), t.Symbol,
					t.Side, t.Quantity, t.Price, t.Commission)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "account id")
	cmd.Flags().StringVar(&symbol, "symbol", "", "filter by symbol")
	cmd.Flags().StringVar(&side, "side", "", "filter by side")
	cmd.Flags().IntVar(&limit, "limit", 50, "max rows")
	return cmd
}

func tradeRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm TRADE_ID",
		Short: "Delete a trade and its tags and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			if err := j.DeleteTrade(args[0]); err != nil {
				return err
			}
			log.Infow("trade deleted", "id", args[0])
			return nil
		},
	}
}
