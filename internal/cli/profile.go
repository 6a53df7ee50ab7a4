package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/vitalis/internal/app"
	"github.com/fdg312/vitalis/internal/profile"
	"github.com/spf13/cobra"
)

func newProfileCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the profile",
	}
	cmd.AddCommand(newProfileShowCmd(opts), newProfileSetCmd(opts), newProfileRecommendCmd(opts))
	return cmd
}

func newProfileShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				p, _ := a.Tracker.Snapshot(ctx)
				if opts.asJSON {
					return printJSON(cmd, p)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Name:          %s\n", p.Name)
				fmt.Fprintf(out, "Age:           %d\n", p.Age)
				fmt.Fprintf(out, "Gender:        %s\n", p.Gender)
				fmt.Fprintf(out, "Height:        %.1f cm\n", p.Height)
				fmt.Fprintf(out, "Weight:        %.1f kg (target %.1f)\n", p.CurrentWeight, p.TargetWeight)
				fmt.Fprintf(out, "Step goal:     %d\n", p.StepGoal)
				fmt.Fprintf(out, "Water goal:    %d ml\n", p.WaterGoal)
				fmt.Fprintf(out, "Calorie goal:  %d kcal\n", p.CalorieGoal)
				fmt.Fprintf(out, "Theme:         %s\n", p.Theme)
				return nil
			})
		},
	}
}

func newProfileSetCmd(opts *rootOptions) *cobra.Command {
	var (
		name                 string
		age                  int
		gender               string
		height               float64
		weight, targetWeight float64
		stepGoal, waterGoal  int
		calorieGoal          int
		theme                string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields given as flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var patch profile.Patch
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("age") {
				patch.Age = &age
			}
			if flags.Changed("gender") {
				g := profile.Gender(gender)
				patch.Gender = &g
			}
			if flags.Changed("height") {
				patch.Height = &height
			}
			if flags.Changed("weight") {
				patch.CurrentWeight = &weight
			}
			if flags.Changed("target-weight") {
				patch.TargetWeight = &targetWeight
			}
			if flags.Changed("step-goal") {
				patch.StepGoal = &stepGoal
			}
			if flags.Changed("water-goal") {
				patch.WaterGoal = &waterGoal
			}
			if flags.Changed("calorie-goal") {
				patch.CalorieGoal = &calorieGoal
			}
			if flags.Changed("theme") {
				t := profile.Theme(theme)
				patch.Theme = &t
			}
			if patch.IsEmpty() {
				return errors.New("nothing to update: pass at least one flag")
			}

			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				o, err := a.Tracker.UpdateProfile(ctx, patch)
				if err != nil {
					return err
				}
				return printOutcome(cmd, opts, o, "Profile updated")
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&name, "name", "", "Display name")
	f.IntVar(&age, "age", 0, "Age in years")
	f.StringVar(&gender, "gender", "", "male|female")
	f.Float64Var(&height, "height", 0, "Height in cm")
	f.Float64Var(&weight, "weight", 0, "Current weight in kg")
	f.Float64Var(&targetWeight, "target-weight", 0, "Target weight in kg")
	f.IntVar(&stepGoal, "step-goal", 0, "Daily step goal")
	f.IntVar(&waterGoal, "water-goal", 0, "Daily water goal in ml")
	f.IntVar(&calorieGoal, "calorie-goal", 0, "Daily calorie goal")
	f.StringVar(&theme, "theme", "", "amethyst|emerald|crimson|ocean|gold")
	return cmd
}

func newProfileRecommendCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Set the calorie goal to the recommended intake",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				o, err := a.Tracker.ApplyRecommendedCalorieGoal(ctx)
				if err != nil {
					return err
				}
				return printOutcome(cmd, opts, o, fmt.Sprintf("Calorie goal set to %d kcal", o.Profile.CalorieGoal))
			})
		},
	}
}
