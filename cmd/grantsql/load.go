package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/grantsql/internal/database"
	"github.com/MrJamesThe3rd/grantsql/internal/store"
)

func newLoadCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "load FILE",
		Short: "Insert every grant in FILE into the configured database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := opts.setup()
			if err != nil {
				return err
			}

			tbl, err := opts.readSheet(args[0])
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.Driver(), cfg.ConnectionString())
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer db.Close()

			st := store.New(db, cfg.Driver())
			if err := st.EnsureSchema(cmd.Context()); err != nil {
				return err
			}

			res, err := svc.Import(cmd.Context(), tbl, st)
			if err != nil {
				return err
			}

			slog.Info("loaded donations", "run_id", res.RunID, "donations", res.Donations(), "driver", cfg.DB.Driver)

			return nil
		},
	}
}
