package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/grantsql/internal/database"
	grantHttp "github.com/MrJamesThe3rd/grantsql/internal/http"
	"github.com/MrJamesThe3rd/grantsql/internal/http/importcsv"
	"github.com/MrJamesThe3rd/grantsql/internal/importer"
	"github.com/MrJamesThe3rd/grantsql/internal/store"
)

func newServeCmd(opts *options) *cobra.Command {
	var withStore bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, svc, err := opts.setup()
			if err != nil {
				return err
			}

			var sink importer.Sink

			if withStore {
				db, err := database.Open(cfg.Driver(), cfg.ConnectionString())
				if err != nil {
					return fmt.Errorf("connecting to database: %w", err)
				}
				defer db.Close()

				st := store.New(db, cfg.Driver())
				if err := st.EnsureSchema(cmd.Context()); err != nil {
					return err
				}

				sink = st
			}

			router := grantHttp.New(cfg.Server.CORSOrigins, importcsv.NewHandler(svc, sink))

			srv := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.App.Port),
				Handler:      router,
				ReadTimeout:  cfg.Server.Timeout,
				WriteTimeout: cfg.Server.Timeout,
			}

			slog.Info("starting server", "port", srv.Addr, "store", withStore)

			if err := srv.ListenAndServe(); err != nil {
				return fmt.Errorf("server failed: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&withStore, "store", false, "open the configured database so uploads can be committed")

	return cmd
}
