package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/fdg312/vitalis/internal/app"
	"github.com/fdg312/vitalis/internal/config"
	"github.com/fdg312/vitalis/internal/tracker"
	"github.com/spf13/cobra"
)

func withApp(cmd *cobra.Command, opts *rootOptions, run func(context.Context, *app.App) error) error {
	cfg := config.Load()
	if opts.dbPath != "" {
		cfg.Storage.Mode = config.StorageModeSQLite
		cfg.Storage.SQLitePath = opts.dbPath
	}
	if opts.storage != "" {
		cfg.Storage.Mode = strings.ToLower(strings.TrimSpace(opts.storage))
	}

	out := io.Discard
	if opts.verbose {
		out = cmd.ErrOrStderr()
	}
	logger := log.New(out, "", 0)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.Open(ctx, cfg, app.Options{Logger: logger})
	if err != nil {
		return err
	}
	defer a.Close()
	return run(ctx, a)
}

// printOutcome печатает итог мутации; предупреждение о сохранении уходит в stderr.
func printOutcome(cmd *cobra.Command, opts *rootOptions, o tracker.Outcome, summary string) error {
	if o.Warning != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: change kept in memory only: %v\n", o.Warning)
	}
	if opts.asJSON {
		return printJSON(cmd, o.Dashboard())
	}
	fmt.Fprintln(cmd.OutOrStdout(), summary)
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseIntArg(name, value string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return v, nil
}

func parseFloatArg(name, value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return v, nil
}
