package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var reopenCmd = &cobra.Command{
	Use:   "reopen <id>...",
	Short: "Reopen one or more done items",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, id := range args {
			item, err := tc.UpdateItem(context.Background(), id, map[string]any{
				"isDone": false,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reopening %s: %v\n", id, err)
				os.Exit(1)
			}

			if jsonOutput {
				printItemJSON(item)
			} else if len(args) > 1 {
				fmt.Printf("Reopened %s\n", item.ItemID)
			} else {
				printItemTable(item)
			}
		}
		return nil
	},
}
