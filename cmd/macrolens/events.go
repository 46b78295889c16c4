package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/sartorproj/macrolens/events"
)

var eventsCmd = &cobra.Command{
	Use:   "events [set]",
	Short: "Print event annotation sets as JSON",
	Long: `Without arguments events prints the names of the built-in sets and those of
data.events_file. With a set name it prints that set's events.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup()
		if err != nil {
			return err
		}
		catalog := events.Builtin()
		if cfg.Data.EventsFile != "" {
			extra, err := events.LoadCatalog(cfg.Data.EventsFile)
			if err != nil {
				return err
			}
			catalog = catalog.Merge(extra)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if len(args) == 0 {
			return enc.Encode(catalog.Names())
		}
		t, err := catalog.Get(args[0])
		if err != nil {
			return err
		}
		return enc.Encode(t.Events)
	},
}
