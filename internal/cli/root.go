package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	dbPath  string
	storage string
	verbose bool
	asJSON  bool
}

// NewRootCmd builds the vitalis command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "vitalis",
		Short:         "vitalis tracks water, steps, meals and exercise for today",
		Long:          "vitalis is a local-first daily health tracker: profile, today's counters, BMI and calorie goals.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to SQLite database (forces STORAGE_MODE=sqlite)")
	root.PersistentFlags().StringVar(&opts.storage, "storage", "", "Storage mode override: memory|sqlite|postgres|redis|mongo")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print storage and persistence logs")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print JSON instead of text")

	root.AddCommand(
		newTodayCmd(opts),
		newWaterCmd(opts),
		newStepsCmd(opts),
		newMealCmd(opts),
		newExerciseCmd(opts),
		newWeightCmd(opts),
		newProfileCmd(opts),
		newRemindersCmd(opts),
		newReportCmd(opts),
	)
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
