package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sartorproj/macrolens/internal/dashboard"
)

var (
	exportOut    string
	exportCSVDir string
)

var exportCmd = &cobra.Command{
	Use:   "export [chart-id...]",
	Short: "Build chart datasets and write them as JSON",
	Example: `  macrolens export --out charts.json
  macrolens export inflation savings --out -
  macrolens export --csv-dir ./out`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		dash, err := loadDashboard(cfg, log)
		if err != nil {
			return err
		}

		ids := args
		if len(ids) == 0 {
			ids = dash.IDs()
		}
		charts := make([]*dashboard.Chart, 0, len(ids))
		for _, id := range ids {
			chart, err := dash.Chart(id)
			if err != nil {
				return err
			}
			charts = append(charts, chart)
		}

		if err := writeJSON(exportOut, cmd.OutOrStdout(), charts); err != nil {
			return err
		}
		if exportCSVDir != "" {
			if err := writeCSVs(exportCSVDir, charts); err != nil {
				return err
			}
		}
		log.WithField("charts", len(charts)).WithField("out", exportOut).Info("Exported charts")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "charts.json", `output file ("-" for stdout)`)
	exportCmd.Flags().StringVar(&exportCSVDir, "csv-dir", "", "also write each chart's wide table as <dir>/<id>.csv")
}

func writeJSON(path string, stdout io.Writer, charts []*dashboard.Chart) error {
	data, err := json.MarshalIndent(charts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode charts: %w", err)
	}
	data = append(data, '\n')
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func writeCSVs(dir string, charts []*dashboard.Chart) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create csv directory: %w", err)
	}
	for _, c := range charts {
		if c.Wide == nil {
			continue
		}
		f, err := os.Create(filepath.Join(dir, c.ID+".csv"))
		if err != nil {
			return err
		}
		if err := c.Wide.WriteCSV(f); err != nil {
			f.Close()
			return fmt.Errorf("chart %s: %w", c.ID, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
