package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/groblegark/ticklist/internal/client"
	"github.com/spf13/cobra"
)

// parseMeta converts -m key=value pairs into a map.
func parseMeta(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid meta %q: expected key=value", p)
		}
		m[k] = v
	}
	return m, nil
}

var createCmd = &cobra.Command{
	Use:   "create <body>",
	Short: "Create a new item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := args[0]

		priority, _ := cmd.Flags().GetInt64("priority")
		owner, _ := cmd.Flags().GetString("owner")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		watchers, _ := cmd.Flags().GetStringSlice("watcher")
		metaFlags, _ := cmd.Flags().GetStringArray("meta")

		meta, err := parseMeta(metaFlags)
		if err != nil {
			return err
		}

		item, err := tc.CreateItem(context.Background(), &client.CreateItemRequest{
			Body:      body,
			Priority:  priority,
			Owner:     owner,
			Tags:      tags,
			Meta:      meta,
			Watchers:  watchers,
			CreatedBy: actor,
		})
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
	createCmd.Flags().Int64P("priority", "p", 2, "priority (0 = most urgent)")
	createCmd.Flags().String("owner", "", "owner of the item")
	createCmd.Flags().StringSliceP("tag", "t", nil, "tag (repeatable)")
	createCmd.Flags().StringSliceP("watcher", "w", nil, "watcher (repeatable)")
	createCmd.Flags().StringArrayP("meta", "m", nil, "metadata entry (key=value, repeatable)")
}
