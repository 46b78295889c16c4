package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sartorproj/macrolens/internal/config"
	"github.com/sartorproj/macrolens/internal/dashboard"
	"github.com/sartorproj/macrolens/internal/logger"
	"github.com/sartorproj/macrolens/internal/store"
	"github.com/sartorproj/macrolens/timeseries"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "macrolens",
	Short: "Macroeconomic dashboard datasets from FRED series",
	Long: `macrolens loads FRED monthly series (CPI, PCE, savings rate, revolving credit,
unemployment, policy rate and CPI components), aligns them, derives MoM and YoY
inflation and produces the chart datasets of the dashboard as JSON.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (YAML)")
	rootCmd.AddCommand(exportCmd, serveCmd, importCmd, eventsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads and validates the configuration and initializes logging. The
// returned entry carries the run_id of this invocation.
func setup() (*config.Config, *logrus.Entry, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := logger.Init(cfg.Logging); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger.WithRun(logger.L()), nil
}

// openLoader returns the configured series source and a function releasing it.
func openLoader(cfg *config.Config) (dashboard.Loader, func(), error) {
	switch cfg.Data.Source {
	case "sqlite":
		st, err := store.New(cfg.Data.Database)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil
	default:
		return csvLoader(cfg), func() {}, nil
	}
}

func csvLoader(cfg *config.Config) timeseries.DirLoader {
	opts := timeseries.DefaultCSVOptions()
	opts.MissingMarkers = cfg.Data.MissingMarkers
	return timeseries.DirLoader{Dir: cfg.Data.Dir, Options: opts}
}

// loadDashboard opens the configured source and loads every indicator.
func loadDashboard(cfg *config.Config, log *logrus.Entry) (*dashboard.Context, error) {
	loader, release, err := openLoader(cfg)
	if err != nil {
		return nil, err
	}
	defer release()

	dash, err := dashboard.New(cfg, loader, log)
	if err != nil {
		return nil, err
	}
	log.WithField("source", cfg.Data.Source).Info("Loaded indicators")
	return dash, nil
}
