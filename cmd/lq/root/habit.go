package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lifequest/internal/engine"
	"lifequest/internal/ui"
)

func newHabitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage recurring habits",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			snap, err := eng.Snapshot()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(snap.Habits) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No habits yet. Try `lq habit add`."))
				return nil
			}
			fmt.Fprintln(out, ui.Heading(ui.IconLoop, "Habits"))
			for _, h := range snap.Habits {
				streak := ""
				if h.Streak > 0 {
					streak = fmt.Sprintf("  %s %d", ui.IconFire, h.Streak)
				}
				fmt.Fprintf(out, "  %s %s %s%s\n",
					ui.Key.Render(shortID(h.ID)), h.Title,
					ui.Muted.Render(fmt.Sprintf("[%s · %s]", h.Interval, h.Attribute)), streak)
			}
			return nil
		},
	}

	cmd.AddCommand(newHabitAddCmd(), newHabitDoneCmd())
	return cmd
}

func newHabitAddCmd() *cobra.Command {
	var (
		attrFlag string
		weekly   bool
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a habit",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("habit title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			interval := engine.HabitIntervalDaily
			if weekly {
				interval = engine.HabitIntervalWeekly
			}
			h, err := eng.AddHabit(ctx, strings.Join(args, " "), engine.ParseAttribute(attrFlag), interval)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Habit %s created (%s, trains %s)\n",
				ui.IconPlus, ui.Key.Render(shortID(h.ID)), h.Interval, h.Attribute)
			return nil
		},
	}

	cmd.Flags().StringVarP(&attrFlag, "attr", "a", "int", "attribute the habit trains")
	cmd.Flags().BoolVarP(&weekly, "weekly", "w", false, "weekly instead of daily")
	return cmd
}

func newHabitDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <habit-id>",
		Short: "Mark a habit done for the current period",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("habit id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := eng.CompleteHabit(ctx, resolveHabitID(eng, args[0]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res == nil {
				fmt.Fprintln(out, ui.Muted.Render("Already done this period."))
				return nil
			}
			fmt.Fprintf(out, "%s Habit done: %s", ui.IconDone, ui.Good.Render(fmt.Sprintf("+%d XP", res.ExpAwarded)))
			if res.Diminished {
				fmt.Fprintf(out, " %s", ui.Muted.Render("(diminished: heavy repetition this week)"))
			}
			fmt.Fprintln(out)
			if res.Streak > 0 {
				fmt.Fprintf(out, "  %s streak: %d\n", ui.IconFire, res.Streak)
			}
			for _, lvl := range res.LevelsGained {
				fmt.Fprintf(out, "  %s → level %d\n", ui.BadgeLevelUp, lvl)
			}
			if len(res.NewAchievements) > 0 {
				fmt.Fprintf(out, "  %s unlocked: %s\n", ui.IconTrophy, strings.Join(res.NewAchievements, ", "))
			}
			return nil
		},
	}
}
