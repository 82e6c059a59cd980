package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var changesCmd = &cobra.Command{
	Use:   "changes <id>",
	Short: "Show the change log of an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		changes, err := tc.GetChanges(context.Background(), id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			data, err := json.MarshalIndent(changes, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if len(changes) == 0 {
			fmt.Println("no changes recorded")
			return nil
		}
		printChangeListTable(changes)
		return nil
	},
}
