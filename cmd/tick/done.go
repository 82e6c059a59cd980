package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done <id>...",
	Short: "Mark one or more items as done",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, id := range args {
			item, err := tc.MarkDone(context.Background(), id, actor)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marking %s done: %v\n", id, err)
				os.Exit(1)
			}

			if jsonOutput {
				printItemJSON(item)
			} else if len(args) > 1 {
				fmt.Printf("Done %s\n", item.ItemID)
			} else {
				printItemTable(item)
			}
		}
		return nil
	},
}
