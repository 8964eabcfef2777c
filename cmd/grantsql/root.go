package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/grantsql/internal/config"
	"github.com/MrJamesThe3rd/grantsql/internal/importer"
	"github.com/MrJamesThe3rd/grantsql/internal/profile"
	"github.com/MrJamesThe3rd/grantsql/internal/rates"
	"github.com/MrJamesThe3rd/grantsql/internal/sheet"
)

// options holds the flags shared by every subcommand.
type options struct {
	profilePath  string
	sheet        string
	verbose      bool
	offlineRates []string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "grantsql",
		Short: "Turn grant spreadsheets into donation records",
		Long: `grantsql reads a spreadsheet export of grants (CSV or XLSX), converts every
grant into a donation record in US dollars and either prints SQL insert
statements, loads the records into a database or serves an upload API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}

			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.profilePath, "profile", "", "YAML data-source profile (defaults to PROFILE_PATH, then the built-in profile)")
	flags.StringVar(&opts.sheet, "sheet", "", "worksheet to read from an XLSX workbook (defaults to the first)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringSliceVar(&opts.offlineRates, "offline-rate", nil, "fixed exchange rate as CODE=RATE, skips the rates API (repeatable)")

	cmd.AddCommand(
		newSQLCmd(opts),
		newLoadCmd(opts),
		newServeCmd(opts),
	)

	return cmd
}

// setup loads configuration and builds the import service the subcommands share.
func (o *options) setup() (*config.Config, *importer.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	p, err := o.loadProfile(cfg)
	if err != nil {
		return nil, nil, err
	}

	src, basis, err := o.rateSource(cfg)
	if err != nil {
		return nil, nil, err
	}

	return cfg, importer.NewService(p, src, basis), nil
}

func (o *options) loadProfile(cfg *config.Config) (profile.Profile, error) {
	path := o.profilePath
	if path == "" {
		path = cfg.Profile.Path
	}

	if path == "" {
		return profile.Default(), nil
	}

	slog.Debug("loading profile", "path", path)

	return profile.Load(path)
}

func (o *options) rateSource(cfg *config.Config) (rates.Source, string, error) {
	if len(o.offlineRates) > 0 {
		static, err := rates.ParseStatic(o.offlineRates)
		if err != nil {
			return nil, "", fmt.Errorf("parsing offline rates: %w", err)
		}

		return static, "offline", nil
	}

	client := rates.NewClient(cfg.Rates.BaseURL, cfg.Rates.Base, cfg.Rates.AccessKey, cfg.Rates.Timeout)

	cache, err := rates.NewCache(client, cfg.Rates.CacheSize)
	if err != nil {
		return nil, "", err
	}

	return cache, cfg.Rates.Basis, nil
}

func (o *options) readSheet(path string) (*sheet.Table, error) {
	tbl, err := sheet.Open(path, o.sheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return tbl, nil
}
