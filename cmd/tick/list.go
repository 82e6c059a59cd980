package main

import (
	"context"
	"fmt"
	"os"

	"github.com/groblegark/ticklist/internal/client"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List items",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetStringSlice("status")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		owner, _ := cmd.Flags().GetString("owner")
		search, _ := cmd.Flags().GetString("search")
		sortBy, _ := cmd.Flags().GetString("sort")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		req := &client.ListItemsRequest{
			Status: status,
			Owner:  owner,
			Tags:   tags,
			Search: search,
			Sort:   sortBy,
			Limit:  limit,
			Offset: offset,
		}
		if cmd.Flags().Changed("priority") {
			p, _ := cmd.Flags().GetInt64("priority")
			req.Priority = &p
		}

		resp, err := tc.ListItems(context.Background(), req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printItemListJSON(resp.Items)
		} else {
			printItemListTable(resp.Items, resp.Total)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringSliceP("status", "s", nil, "filter by status (repeatable)")
	listCmd.Flags().StringSliceP("tag", "t", nil, "filter by tag (repeatable)")
	listCmd.Flags().String("owner", "", "filter by owner")
	listCmd.Flags().String("search", "", "full-text search in body")
	listCmd.Flags().Int64P("priority", "p", 0, "filter by exact priority")
	listCmd.Flags().String("sort", "", "sort order (e.g. priority, -updated_at)")
	listCmd.Flags().Int("limit", 20, "maximum number of items to return")
	listCmd.Flags().Int("offset", 0, "offset for pagination")
}
