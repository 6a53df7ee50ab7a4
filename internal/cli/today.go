package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/fdg312/vitalis/internal/app"
	"github.com/spf13/cobra"
)

func newTodayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				d := a.Tracker.Dashboard(ctx)
				if opts.asJSON {
					return printJSON(cmd, d)
				}

				p, s, m := d.Profile, d.Stats, d.Metrics
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s  %s\n\n", d.Date, p.Name)

				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintf(tw, "Steps\t%d / %d\t%.0f%%\n", s.Steps, p.StepGoal, m.StepsProgress)
				fmt.Fprintf(tw, "Water\t%d / %d ml\t%.0f%%\n", s.Water, p.WaterGoal, m.WaterProgress)
				fmt.Fprintf(tw, "Calories\t%d in, %d out, net %d / %d\t%.0f%%\n",
					s.CaloriesConsumed, s.CaloriesBurned, m.NetCalories, p.CalorieGoal, m.CaloriesProgress)
				fmt.Fprintf(tw, "Weight\t%.1f kg, target %.1f (%.1f to go)\t%.0f%%\n",
					p.CurrentWeight, p.TargetWeight, m.WeightRemaining, m.WeightGoalProgress)
				fmt.Fprintf(tw, "BMI\t%.1f\t%s\n", m.BMI, m.BMIClass)
				fmt.Fprintf(tw, "Recommended\t%d kcal/day\t\n", m.RecommendedCalories)
				tw.Flush()

				if len(s.Meals) > 0 {
					fmt.Fprintln(out, "\nMEALS")
					tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tTIME\tTYPE\tNAME\tKCAL")
					for _, meal := range s.Meals {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", meal.ID, meal.Time, meal.Type, meal.Name, meal.Calories)
					}
					tw.Flush()
				}
				if len(s.Exercises) > 0 {
					fmt.Fprintln(out, "\nEXERCISE")
					tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tTIME\tNAME\tMIN\tKCAL")
					for _, ex := range s.Exercises {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", ex.ID, ex.Time, ex.Name, ex.Duration, ex.CaloriesBurned)
					}
					tw.Flush()
				}
				return nil
			})
		},
	}
}
