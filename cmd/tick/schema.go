package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [type]",
	Short: "Show the property schema of a record type",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typeName := "item"
		if len(args) == 1 {
			typeName = args[0]
		}

		desc, err := tc.GetSchema(context.Background(), typeName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			data, err := json.MarshalIndent(desc, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("Type: %s\n\n", desc.TypeName())
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PROPERTY\tKIND")
		for _, p := range desc.Properties() {
			fmt.Fprintf(w, "%s\t%s\n", p.Name, p.Kind)
		}
		return w.Flush()
	},
}
