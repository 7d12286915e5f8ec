package main

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"careerdesk/cmd/careerdesk/ui"
)

// outputFormat is the shared --output flag value for list commands.
var outputFormat string

func addOutputFlag(flags interface{ StringVar(*string, string, string, string) }) {
	flags.StringVar(&outputFormat, "output", "table", "Output format: table, json, or yaml")
}

// renderList prints rows in the requested format. The table renderer
// gets the human layout; json and yaml emit the raw records for
// scripting.
func renderList(table *ui.SimpleTable, records any) error {
	switch outputFormat {
	case "table", "":
		if len(table.Rows) == 0 {
			fmt.Println("No results.")
			return nil
		}
		fmt.Print(table.View(ui.DefaultStyles()))
		return nil
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(records)
	default:
		return fmt.Errorf("unknown output format %q (want table, json, or yaml)", outputFormat)
	}
}
