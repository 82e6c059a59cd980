package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/groblegark/ticklist/internal/events"
	"github.com/groblegark/ticklist/internal/ui"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream live item events from the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, _ := cmd.Flags().GetStringSlice("topic")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		fmt.Fprintln(os.Stderr, ui.RenderMuted("watching for events (Ctrl-C to stop)..."))

		err := tc.StreamEvents(ctx, topics, func(topic string, data []byte) {
			printEvent(topic, data)
		})
		if err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return nil
	},
}

func printEvent(topic string, data []byte) {
	ts := ui.RenderMuted(time.Now().Format("15:04:05"))

	if jsonOutput {
		fmt.Printf("{\"topic\":%q,\"data\":%s}\n", topic, data)
		return
	}

	switch topic {
	case events.TopicItemCreated:
		var ev events.ItemCreated
		if json.Unmarshal(data, &ev) == nil && ev.Item != nil {
			fmt.Printf("%s %s created %s %q\n", ts, ui.RenderAccent(ev.Item.ItemID), ui.Checkbox(ev.Item.IsDone), ev.Item.Body)
			return
		}
	case events.TopicItemUpdated:
		var ev events.ItemUpdated
		if json.Unmarshal(data, &ev) == nil && ev.Item != nil {
			fmt.Printf("%s %s updated (%d changes)\n", ts, ui.RenderAccent(ev.Item.ItemID), len(ev.Changes))
			return
		}
	case events.TopicItemDone:
		var ev events.ItemDone
		if json.Unmarshal(data, &ev) == nil && ev.Item != nil {
			fmt.Printf("%s %s %s by %s\n", ts, ui.RenderAccent(ev.Item.ItemID), ui.RenderDone("done"), ev.DoneBy)
			return
		}
	case events.TopicItemDeleted:
		var ev events.ItemDeleted
		if json.Unmarshal(data, &ev) == nil {
			fmt.Printf("%s %s %s\n", ts, ui.RenderAccent(ev.ItemID), ui.RenderUrgent("deleted"))
			return
		}
	case events.TopicItemProperty:
		var ev events.PropertyChanged
		if json.Unmarshal(data, &ev) == nil {
			fmt.Printf("%s %s property %s: %s\n", ts, ui.RenderAccent(ev.ItemID), ev.Property, ev.Kind)
			return
		}
	}

	// Unknown topic or undecodable payload: print raw.
	fmt.Printf("%s %s %s\n", ts, topic, data)
}

func init() {
	watchCmd.Flags().StringSliceP("topic", "t", nil, "topic filter, supports * and > wildcards (repeatable)")
}
