package cli

import (
	"context"
	"fmt"

	"github.com/fdg312/vitalis/internal/app"
	"github.com/spf13/cobra"
)

func newWaterCmd(opts *rootOptions) *cobra.Command {
	water := &cobra.Command{
		Use:   "water",
		Short: "Log water intake",
	}
	water.AddCommand(&cobra.Command{
		Use:   "add [ml]",
		Short: "Add water (default WATER_DEFAULT_ADD_ML)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				amount := a.Config.WaterDefaultAddMl
				if len(args) == 1 {
					v, err := parseIntArg("ml", args[0])
					if err != nil {
						return err
					}
					amount = v
				}
				o, err := a.Tracker.AddWater(ctx, amount)
				if err != nil {
					return err
				}
				return printOutcome(cmd, opts, o, fmt.Sprintf("Water: %d / %d ml", o.Stats.Water, o.Profile.WaterGoal))
			})
		},
	})
	return water
}

func newStepsCmd(opts *rootOptions) *cobra.Command {
	steps := &cobra.Command{
		Use:   "steps",
		Short: "Log steps",
	}
	steps.AddCommand(
		&cobra.Command{
			Use:   "add <steps>",
			Short: "Add steps to today's count",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := parseIntArg("steps", args[0])
				if err != nil {
					return err
				}
				return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
					o, err := a.Tracker.AddSteps(ctx, n)
					if err != nil {
						return err
					}
					return printOutcome(cmd, opts, o, fmt.Sprintf("Steps: %d / %d", o.Stats.Steps, o.Profile.StepGoal))
				})
			},
		},
		&cobra.Command{
			Use:   "set <steps>",
			Short: "Replace today's step count",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := parseIntArg("steps", args[0])
				if err != nil {
					return err
				}
				return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
					o, err := a.Tracker.SetSteps(ctx, n)
					if err != nil {
						return err
					}
					return printOutcome(cmd, opts, o, fmt.Sprintf("Steps: %d / %d", o.Stats.Steps, o.Profile.StepGoal))
				})
			},
		},
	)
	return steps
}

func newMealCmd(opts *rootOptions) *cobra.Command {
	meal := &cobra.Command{
		Use:   "meal",
		Short: "Log and remove meals",
	}

	var mealType string
	add := &cobra.Command{
		Use:   "add <name> <calories>",
		Short: "Log a meal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kcal, err := parseIntArg("calories", args[1])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				o, err := a.Tracker.LogMeal(ctx, args[0], kcal, mealType)
				if err != nil {
					return err
				}
				return printOutcome(cmd, opts, o, fmt.Sprintf("Logged meal %s (%d kcal), consumed today: %d",
					o.Stats.Meals[0].ID, kcal, o.Stats.CaloriesConsumed))
			})
		},
	}
	add.Flags().StringVarP(&mealType, "type", "t", "Snack", "Breakfast|Lunch|Dinner|Snack")

	preset := &cobra.Command{
		Use:   "preset <name>",
		Short: "Log a meal from the food catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				o, err := a.Tracker.LogPreset(ctx, args[0])
				if err != nil {
					return err
				}
				m := o.Stats.Meals[0]
				return printOutcome(cmd, opts, o, fmt.Sprintf("Logged %s %s (%d kcal)", m.ID, m.Name, m.Calories))
			})
		},
	}

	presets := &cobra.Command{
		Use:   "presets",
		Short: "List food presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if opts.asJSON {
					return printJSON(cmd, a.Catalog.Foods)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "NAME\tKCAL\tTYPE")
				for _, f := range a.Catalog.Foods {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", f.Name, f.Calories, f.Type)
				}
				return nil
			})
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a meal logged today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				o, err := a.Tracker.DeleteMeal(ctx, args[0])
				if err != nil {
					return err
				}
				if !o.Changed {
					return printOutcome(cmd, opts, o, fmt.Sprintf("No meal %s today, nothing removed", args[0]))
				}
				return printOutcome(cmd, opts, o, fmt.Sprintf("Removed meal %s, consumed today: %d", args[0], o.Stats.CaloriesConsumed))
			})
		},
	}

	meal.AddCommand(add, preset, presets, rm)
	return meal
}

func newExerciseCmd(opts *rootOptions) *cobra.Command {
	exercise := &cobra.Command{
		Use:   "exercise",
		Short: "Log and remove exercise",
	}

	add := &cobra.Command{
		Use:   "add <kind> <minutes>",
		Short: "Log exercise by kind (see 'exercise kinds')",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := parseIntArg("minutes", args[1])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				o, err := a.Tracker.LogExerciseByKey(ctx, args[0], minutes)
				if err != nil {
					return err
				}
				ex := o.Stats.Exercises[0]
				return printOutcome(cmd, opts, o, fmt.Sprintf("Logged %s %s %d min (%d kcal), burned today: %d",
					ex.ID, ex.Name, ex.Duration, ex.CaloriesBurned, o.Stats.CaloriesBurned))
			})
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove exercise logged today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				o, err := a.Tracker.DeleteExercise(ctx, args[0])
				if err != nil {
					return err
				}
				if !o.Changed {
					return printOutcome(cmd, opts, o, fmt.Sprintf("No exercise %s today, nothing removed", args[0]))
				}
				return printOutcome(cmd, opts, o, fmt.Sprintf("Removed exercise %s, burned today: %d", args[0], o.Stats.CaloriesBurned))
			})
		},
	}

	kinds := &cobra.Command{
		Use:   "kinds",
		Short: "List exercise kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if opts.asJSON {
					return printJSON(cmd, a.Catalog.Exercises)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "KEY\tNAME\tKCAL/MIN")
				for _, k := range a.Catalog.Exercises {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\n", k.Key, k.Name, k.CaloriesPerMinute)
				}
				return nil
			})
		},
	}

	exercise.AddCommand(add, rm, kinds)
	return exercise
}

func newWeightCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "weight <kg>",
		Short: "Record current weight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kg, err := parseFloatArg("weight", args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				o, err := a.Tracker.RecordWeight(ctx, kg)
				if err != nil {
					return err
				}
				d := o.Dashboard()
				return printOutcome(cmd, opts, o, fmt.Sprintf("Weight: %.1f kg, BMI %.1f (%s), %.1f kg to target",
					o.Profile.CurrentWeight, d.Metrics.BMI, d.Metrics.BMIClass, d.Metrics.WeightRemaining))
			})
		},
	}
}
