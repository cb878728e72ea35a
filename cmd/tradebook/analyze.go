package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tradebook/analytics"
)

func statsCmd() *cobra.Command {
	var account string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard summary for an account",
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

			fills, err := j.ListFills(acct, "")
			if err != nil {
				return err
			}

			s, err := analytics.Dashboard(fills)
			if err != nil {
				return err
			}

			fmt.Printf("trades:      %d\n", s.TotalTrades)
			fmt.Printf("realized:    %s\n", s.TotalPnL.StringFixed(2))
			fmt.Printf("win rate:    %.2f%%\n", s.WinRate)
			fmt.Printf("commission:  %s\n", s.TotalCommission.StringFixed(2))
			fmt.Printf("best trade:  %s\n", s.BestTrade.StringFixed(2))
			fmt.Printf("worst trade: %s\n", s.WorstTrade.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "account id")
	return cmd
}

func analyzeCmd() *cobra.Command {
	var account, symbol, period string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Win/loss analysis by month, instrument and strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := resolveAccount(account)
			if err != nil {
				return err
			}
			if period == "" {
				period = cfg.Analysis.DefaultPeriod
			}

			j, err := openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			fills, err := j.ListFills(acct, strings.ToUpper(symbol))
			if err != nil {
				return err
			}

			a, err := analytics.Analyze(fills, period, time.Now().UTC())
			if err != nil {
				return err
			}

			fmt.Printf("== overall (%s) ==\n", a.TimePeriod)
			printBreakdown(a.Overall)

			if len(a.ByPeriod) > 0 {
				fmt.Println("\n== by month ==")
				for _, p := range a.ByPeriod {
					fmt.Printf("%-9s %4d trades  pnl %12s  win %6.2f%%\n",
						p.Period, p.TradeCount, p.TotalPnL.StringFixed(2), p.Breakdown.WinRate)
				}
			}

			if len(a.BySymbol) > 0 {
				fmt.Println("\n== by instrument ==")
				for _, s := range a.BySymbol {
					hold := "-"
					if s.AvgHoldHours != nil {
						hold = fmt.Sprintf("%.1fh", *s.AvgHoldHours)
					}
					fmt.Printf("%-9s %4d trades  pnl %12s  win %6.2f%%  hold %s\n",
						s.Symbol, s.TradeCount, s.TotalPnL.StringFixed(2), s.Breakdown.WinRate, hold)
				}
			}

			if len(a.ByStrategy) > 0 {
				fmt.Println("\n== by strategy ==")
				for _, s := range a.ByStrategy {
					fmt.Printf("%-20s %4d trades  pnl %12s  win %6.2f%%\n",
						s.Strategy, s.TradeCount, s.TotalPnL.StringFixed(2), s.Breakdown.WinRate)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "account id")
	cmd.Flags().StringVar(&symbol, "symbol", "", "restrict to one instrument")
	cmd.Flags().StringVar(&period, "period", "", "all, 1m, 3m, 6m, 1y or ytd")
	return cmd
}

func printBreakdown(b analytics.Breakdown) {
	pf := fmt.Sprintf("%.2f", b.ProfitFactor)
	if math.IsInf(b.ProfitFactor, 1) {
		pf = "inf"
	}
	fmt.Printf("wins %d  losses %d  breakeven %d\n", b.Wins, b.Losses, b.Breakeven)
	fmt.Printf("win rate %.2f%%  avg win %s  avg loss %s\n",
		b.WinRate, b.AvgWin.StringFixed(2), b.AvgLoss.StringFixed(2))
	fmt.Printf("profit factor %s  expectancy %s\n", pf, b.Expectancy.StringFixed(2))
}
