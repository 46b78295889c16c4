package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sartorproj/macrolens/internal/store"
	"github.com/sartorproj/macrolens/timeseries"
)

var importList bool

var importCmd = &cobra.Command{
	Use:   "import [series-id...]",
	Short: "Copy CSV series from data.dir into the SQLite store",
	Long: `Import reads <data.dir>/<ID>.csv for each series ID (default: every configured
indicator) and replaces its observations in data.database. Set data.source to
sqlite to have export and serve read from the store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		st, err := store.New(cfg.Data.Database)
		if err != nil {
			return err
		}
		defer st.Close()

		if importList {
			return listStored(cmd, st)
		}

		ids := args
		if len(ids) == 0 {
			ind := cfg.Indicators
			ids = []string{ind.CPI, ind.PCE, ind.Savings, ind.Credit, ind.Unemployment, ind.Interest}
			for _, comp := range ind.Components {
				ids = append(ids, comp.ID)
			}
		}

		loader := csvLoader(cfg)
		for _, id := range ids {
			s, err := loader.Load(id)
			if err != nil {
				return err
			}
			if err := st.Save(s.Rename(id)); err != nil {
				return err
			}
			log.WithField("series", id).WithField("observations", s.Len()).Info("Imported series")
		}
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importList, "list", false, "list stored series instead of importing")
}

func listStored(cmd *cobra.Command, st *store.Store) error {
	infos, err := st.List()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tOBS\tFIRST\tLAST")
	for _, info := range infos {
		first, last := "-", "-"
		if info.Observations > 0 {
			first = info.First.Format(timeseries.DateLayout)
			last = info.Last.Format(timeseries.DateLayout)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", info.ID, info.Observations, first, last)
	}
	return w.Flush()
}
