package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tradebook/journal"
)

func importCmd() *cobra.Command {
	var account string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import trades from an IBKR activity statement CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := resolveAccount(account)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open statement: %w", err)
			}
			defer f.Close()

			j, err := openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			if _, err := j.GetAccount(acct); err != nil {
				return err
			}

			res, err := journal.ImportIBKRCSV(f, j, acct)
			if err != nil {
				return err
			}

			log.Infow("import finished", "imported", res.Imported, "errors", len(res.Errors))
			fmt.Printf("imported %d trades, %d rows skipped\n", res.Imported, len(res.Errors))
			for _, e := range res.Errors {
				fmt.Printf("  %s\n", e)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "account id")
	return cmd
}
