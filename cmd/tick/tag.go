package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage item tags",
}

var tagAddCmd = &cobra.Command{
	Use:   "add <id> <tag>...",
	Short: "Add tags to an item",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		item, err := tc.GetItem(context.Background(), id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		tags := item.Tags
		for _, t := range args[1:] {
			if !slices.Contains(tags, t) {
				tags = append(tags, t)
			}
		}

		updated, err := tc.UpdateItem(context.Background(), id, map[string]any{
			"tags": tags,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printItemJSON(updated)
		} else {
			printItemTable(updated)
		}
		return nil
	},
}

var tagRemoveCmd = &cobra.Command{
	Use:   "remove <id> <tag>...",
	Short: "Remove tags from an item",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		item, err := tc.GetItem(context.Background(), id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		tags := slices.DeleteFunc(slices.Clone(item.Tags), func(t string) bool {
			return slices.Contains(args[1:], t)
		})

		updated, err := tc.UpdateItem(context.Background(), id, map[string]any{
			"tags": tags,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printItemJSON(updated)
		} else {
			printItemTable(updated)
		}
		return nil
	},
}

func init() {
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagRemoveCmd)
}
