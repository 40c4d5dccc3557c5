package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quotedesk/loan-quoter/internal/calculation"
	"github.com/quotedesk/loan-quoter/internal/config"
	"github.com/quotedesk/loan-quoter/internal/domain"
	"github.com/quotedesk/loan-quoter/internal/logging"
	"github.com/quotedesk/loan-quoter/internal/output"
)

func newQuoteCmd() *cobra.Command {
	var (
		inputFile string
		ratesFile string
		format    string
		toFile    bool
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Run the quotes in a YAML quote file",
		Long: `Loads a quote file, resolves a rate row for each BTL quote, runs the
BTL and bridge/fusion engines and prints the results.

Market rates come from the quote file's market_rates block when present,
otherwise from the environment (STANDARD_BBR, STRESS_BBR, CURRENT_MVR,
optionally via a local .env file).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(inputFile, ratesFile, format, toFile, verbose)
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "path to quote YAML file (required)")
	cmd.Flags().StringVarP(&ratesFile, "rates", "r", "", "optional rate table CSV, replaces the file's rate_table")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format: console, json, csv")
	cmd.Flags().BoolVar(&toFile, "to-file", false, "write output to a timestamped file instead of stdout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runQuote(inputFile, ratesFile, format string, toFile, verbose bool) error {
	formatter := output.GetFormatterByName(format)
	if formatter == nil {
		return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format)
	}

	loader := config.NewLoader()
	cfg, err := loader.ParseQuoteFile(inputFile)
	if err != nil {
		return err
	}

	if ratesFile != "" {
		f, err := os.Open(ratesFile)
		if err != nil {
			return fmt.Errorf("failed to open rate table %s: %w", ratesFile, err)
		}
		table, csvErr := config.LoadRateTableCSV(f)
		f.Close()
		if csvErr != nil {
			return fmt.Errorf("failed to load rate table %s: %w", ratesFile, csvErr)
		}
		cfg.RateTable = table
	}
	if cfg.MarketRates == nil {
		rates := config.MarketRatesFromEnv()
		cfg.MarketRates = &rates
	}

	batch, err := loader.Build(cfg)
	if err != nil {
		return err
	}

	btlEngine := calculation.NewBTLEngine(batch.Market)
	bridgeEngine := calculation.NewBridgeEngine(batch.Market)
	if verbose {
		logger, err := logging.NewZapLogger(true)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logger.Sync()
		btlEngine.SetLogger(logger)
		bridgeEngine.SetLogger(logger)
	}

	report := &domain.QuoteReport{}
	for i := range batch.BTL {
		report.BTLQuotes = append(report.BTLQuotes, *btlEngine.Compute(&batch.BTL[i]))
	}
	for i := range batch.Bridge {
		report.BridgeQuotes = append(report.BridgeQuotes, *bridgeEngine.Solve(&batch.Bridge[i]))
	}

	if toFile {
		name, err := output.WriteFormatted(formatter, report, fileExtension(formatter.Name()))
		if err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", name)
		return nil
	}
	return output.WriteReport(os.Stdout, report, format)
}

func fileExtension(formatName string) string {
	switch formatName {
	case "json":
		return "json"
	case "csv":
		return "csv"
	default:
		return "txt"
	}
}
