package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/grantsql/internal/sqlout"
)

func newSQLCmd(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "sql FILE",
		Short: "Print insert statements for every grant in FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := opts.setup()
			if err != nil {
				return err
			}

			tbl, err := opts.readSheet(args[0])
			if err != nil {
				return err
			}

			// Nothing is written unless the whole sheet converts.
			var buf bytes.Buffer

			res, err := svc.Import(cmd.Context(), tbl, sqlout.NewPrinter(&buf))
			if err != nil {
				return err
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
			} else {
				err = os.WriteFile(out, buf.Bytes(), 0o644)
			}

			if err != nil {
				return fmt.Errorf("writing statements: %w", err)
			}

			slog.Info("wrote statements", "run_id", res.RunID, "donations", res.Donations(), "out", out)

			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write statements to this file instead of stdout")

	return cmd
}
