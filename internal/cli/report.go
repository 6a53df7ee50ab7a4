package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fdg312/vitalis/internal/app"
	"github.com/fdg312/vitalis/internal/reports"
	"github.com/spf13/cobra"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export today's dashboard as csv, pdf or xlsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := reports.ParseFormat(format); err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				svc := reports.NewService(a.Tracker, a.KV, nil, reports.ServiceOptions{Clock: a.Clock})
				rendered, err := svc.Today(ctx, format)
				if err != nil {
					return err
				}
				path := out
				if path == "" {
					path = rendered.Filename
				}
				if path == "-" {
					_, err = cmd.OutOrStdout().Write(rendered.Data)
					return err
				}
				if err := os.WriteFile(path, rendered.Data, 0o644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes)\n", path, len(rendered.Data))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", reports.FormatCSV, "csv|pdf|xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, '-' for stdout (default vitalis_<date>.<format>)")
	return cmd
}
