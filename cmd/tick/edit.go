package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit fields of an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		patch := map[string]any{}
		if cmd.Flags().Changed("body") {
			body, _ := cmd.Flags().GetString("body")
			patch["body"] = body
		}
		if cmd.Flags().Changed("priority") {
			p, _ := cmd.Flags().GetInt64("priority")
			patch["priority"] = p
		}
		if cmd.Flags().Changed("owner") {
			owner, _ := cmd.Flags().GetString("owner")
			patch["owner"] = owner
		}
		if cmd.Flags().Changed("watcher") {
			watchers, _ := cmd.Flags().GetStringSlice("watcher")
			patch["watchers"] = watchers
		}
		if len(patch) == 0 {
			return fmt.Errorf("nothing to edit: pass at least one of --body, --priority, --owner, --watcher")
		}

		item, err := tc.UpdateItem(context.Background(), id, patch)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printItemJSON(item)
		} else {
			printItemTable(item)
		}
		return nil
	},
}

func init() {
	editCmd.Flags().String("body", "", "new body text")
	editCmd.Flags().Int64P("priority", "p", 0, "new priority")
	editCmd.Flags().String("owner", "", "new owner")
	editCmd.Flags().StringSliceP("watcher", "w", nil, "replace the watcher set (repeatable)")
}
