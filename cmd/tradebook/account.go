package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tradebook/journal"
)

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage brokerage accounts",
	}

	var broker, number string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			a := journal.Account{Name: args[0], Broker: broker, AccountNumber: number}
			if err := j.CreateAccount(&a); err != nil {
				return err
			}
			log.Infow("account created", "id", a.ID, "name", a.Name)
			fmt.Println(a.ID)
			return nil
		},
	}
	add.Flags().StringVar(&broker, "broker", "IBKR", "broker name")
	add.Flags().StringVar(&number, "number", "", "broker account number")

	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			accounts, err := j.ListAccounts()
			if err != nil {
				return err
			}
			for _, a := range accounts {
				fmt.Printf("%s  %-20s %-10s %s\n", a.ID, a.Name, a.Broker, a.AccountNumber)
			}
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}
