package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"farescan-backend/lib/configutil"
	"farescan-backend/lib/currency"
	"farescan-backend/lib/routes"
	"farescan-backend/lib/scrapers/onetwogo"
	"farescan-backend/lib/serviceutil"
	"farescan-backend/lib/telemetry"
	"farescan-backend/lib/tripstore"
	"farescan-backend/services/collector"

	"github.com/spf13/cobra"
)

type Config struct {
	RoutesFile     string `json:"routes_file"`
	OutputFile     string `json:"output_file"`
	DaysAhead      int    `json:"days_ahead"`
	MaxConcurrent  int    `json:"max_concurrent"`
	CommonCurrency string `json:"common_currency"`
	// optional sqlite/libsql DSN for the run archive
	ArchiveDSN string `json:"archive_dsn"`
}

var (
	configFile  string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "scraper",
	Short: "scrape trip prices across all configured routes and write the aggregate",
	RunE:  runScrape,
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "config.json5", "Config file path")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logs")
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	telemetry.InitSlog(verboseFlag)

	config, err := configutil.ReadConfig[Config](configFile)
	if err != nil {
		return fmt.Errorf("read config %s: %w", configFile, err)
	}
	applyDefaults(&config)

	tel, err := telemetry.SetupFromEnv(ctx, "scraper")
	if err != nil {
		slog.Warn("telemetry disabled", "err", err)
	} else {
		defer tel.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)
	}

	// the only fatal input: without routes there is nothing to do
	routeList, err := routes.Load(config.RoutesFile)
	if err != nil {
		serviceutil.Fatal("failed to load route list", err)
	}

	service := collector.NewService(
		onetwogo.NewClient(),
		currency.NewResolver(config.CommonCurrency),
		routeList,
		collector.Config{
			DaysAhead:     config.DaysAhead,
			MaxConcurrent: config.MaxConcurrent,
			OutputFile:    config.OutputFile,
		},
	)

	if config.ArchiveDSN != "" {
		db, err := tripstore.Open(config.ArchiveDSN)
		if err != nil {
			return fmt.Errorf("open run archive: %w", err)
		}
		defer db.Close()
		store := tripstore.NewStore(db)
		service.Archive = &store
	}

	summary, err := service.Run(ctx)
	if err != nil {
		return err
	}

	printSummary(summary, config.OutputFile)
	return nil
}

func applyDefaults(config *Config) {
	if config.RoutesFile == "" {
		config.RoutesFile = "routes.json"
	}
	if config.OutputFile == "" {
		config.OutputFile = "trips.json"
	}
	if config.DaysAhead <= 0 {
		config.DaysAhead = 7
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 8
	}
	if config.CommonCurrency == "" {
		config.CommonCurrency = "INR"
	}
}
