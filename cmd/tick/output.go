package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/groblegark/ticklist/internal/model"
	"github.com/groblegark/ticklist/internal/ui"
)

func printItemJSON(item *model.Item) {
	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printItemTable(item *model.Item) {
	fmt.Printf("ID:        %s\n", item.ItemID)
	fmt.Printf("Body:      %s\n", item.Body)
	fmt.Printf("Done:      %s\n", ui.Checkbox(item.IsDone))
	fmt.Printf("Status:    %s\n", item.Status)
	fmt.Printf("Priority:  %s\n", renderPriority(item.Priority))
	if item.Owner != "" {
		fmt.Printf("Owner:     %s\n", item.Owner)
	}
	if item.DoneBy != "" {
		fmt.Printf("Done By:   %s\n", item.DoneBy)
	}
	if len(item.Tags) > 0 {
		fmt.Printf("Tags:      %s\n", strings.Join(item.Tags, ", "))
	}
	if len(item.Meta) > 0 {
		fmt.Printf("Meta:\n")
		for k, v := range item.Meta {
			fmt.Printf("  %s = %s\n", k, v)
		}
	}
	if item.Watchers.Len() > 0 {
		fmt.Printf("Watchers:  %s\n", strings.Join(item.Watchers.Elems(), ", "))
	}
	if !item.CreatedAt.IsZero() {
		fmt.Printf("Created:   %s\n", ui.RenderMuted(item.CreatedAt.Format("2006-01-02 15:04:05")))
	}
	if !item.UpdatedAt.IsZero() {
		fmt.Printf("Updated:   %s\n", ui.RenderMuted(item.UpdatedAt.Format("2006-01-02 15:04:05")))
	}
}

func printItemListJSON(items []*model.Item) {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printItemListTable(items []*model.Item, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "   \tID\tPRI\tBODY\tOWNER\tTAGS")
	for _, item := range items {
		body := item.Body
		if len(body) > 50 {
			body = body[:47] + "..."
		}
		if item.IsDone {
			body = ui.RenderMuted(body)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			ui.Checkbox(item.IsDone),
			ui.RenderAccent(item.ItemID),
			renderPriority(item.Priority),
			body,
			item.Owner,
			strings.Join(item.Tags, ","),
		)
	}
	w.Flush()
	fmt.Printf("\n%d items (%d total)\n", len(items), total)
}

// renderPriority highlights priority 0 (most urgent) in red.
func renderPriority(p int64) string {
	s := fmt.Sprintf("%d", p)
	if p == 0 {
		return ui.RenderUrgent(s)
	}
	return s
}

func printChangeListTable(changes []*model.Change) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tTOPIC\tACTOR\tAT")
	for _, c := range changes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			c.ID,
			c.Topic,
			c.Actor,
			ui.RenderMuted(c.CreatedAt.Format("2006-01-02 15:04:05")),
		)
	}
	w.Flush()
}
