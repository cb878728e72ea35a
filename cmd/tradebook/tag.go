package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tradebook/journal"
)

func tagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage strategy tags",
	}

	var color string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			tag := journal.Tag{Name: args[0], Color: color}
			if err := j.CreateTag(&tag); err != nil {
				return err
			}
			fmt.Println(tag.ID)
			return nil
		},
	}
	add.Flags().StringVar(&color, "color", "#3B82F6", "hex display color")

	list := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			tags, err := j.ListTags()
			if err != nil {
				return err
			}
			for _, tag := range tags {
				fmt.Printf("%s  %-20s %s\n", tag.ID, tag.Name, tag.Color)
			}
			return nil
		},
	}

	attach := &cobra.Command{
		Use:   "attach TRADE_ID TAG_ID",
		Short: "Attach a tag to a trade",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openJournal()
			if err != nil {
				return err
			}
			defer j.Close()
			return j.TagTrade(args[0], args[1])
		},
	}

	detach := &cobra.Command{
		Use:   "detach TRADE_ID TAG_ID",
		Short: "Detach a tag from a trade",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openJournal()
			if err != nil {
				return err
			}
			defer j.Close()
			return j.UntagTrade(args[0], args[1])
		},
	}

	cmd.AddCommand(add, list, attach, detach)
	return cmd
}

func noteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Attach journal notes to trades",
	}

	add := &cobra.Command{
		Use:   "add TRADE_ID TEXT",
		Short: "Add a note to a trade",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			n := journal.Note{TradeID: args[0], Text: args[1]}
			if err := j.CreateNote(&n); err != nil {
				return err
			}
			fmt.Println(n.ID)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list TRADE_ID",
		Short: "List a trade's notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			notes, err := j.ListNotes(args[0])
			if err != nil {
				return err
			}
			for _, n := range notes {
				fmt.Printf("%s  %s\n  %s\n", n.ID, n.CreatedAt.Format("2006-01-02 15:04"), n.Text)
			}
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}
