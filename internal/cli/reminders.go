package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/fdg312/vitalis/internal/app"
	"github.com/spf13/cobra"
)

func newRemindersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "List and toggle reminders",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				items := a.Reminders.List()
				if opts.asJSON {
					return printJSON(cmd, items)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTIME\tTYPE\tLABEL\tENABLED")
				for _, r := range items {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", r.ID, r.Time, r.Type, r.Label, r.Enabled)
				}
				return tw.Flush()
			})
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a reminder on or off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				r, err := a.Reminders.Toggle(ctx, args[0])
				if err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(cmd, r)
				}
				state := "off"
				if r.Enabled {
					state = "on"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reminder %s (%s %s) is %s\n", r.ID, r.Time, r.Label, state)
				return nil
			})
		},
	}

	cmd.AddCommand(list, toggle)
	return cmd
}
