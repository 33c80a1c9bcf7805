package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lifequest/internal/ui"
)

func newBadgesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "badges",
		Aliases: []string{"achievements"},
		Short:   "List achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			// Sweep for anything newly satisfied before listing.
			if _, err := eng.CheckAchievements(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, "Achievements"))
			earned := 0
			for _, a := range eng.Achievements() {
				mark := ui.Muted.Render("·")
				name := ui.Muted.Render(a.Name)
				if a.Earned {
					mark = ui.Good.Render("✔")
					name = ui.Key.Render(a.Name)
					earned++
				}
				fmt.Fprintf(out, "  %s %s %s %s\n", mark, a.Icon, name, ui.Muted.Render(a.Description))
			}
			fmt.Fprintf(out, "\n%d earned\n", earned)
			return nil
		},
	}

	cmd.AddCommand(newBadgesUnlockCmd())
	return cmd
}

func newBadgesUnlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock <achievement-id>",
		Short: "Grant an achievement directly (prerequisites still apply)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("achievement id is required")
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

			ok, err := eng.UnlockAchievement(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Not unlocked (unknown id, already earned, or prerequisites missing)."))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Unlocked %s\n", ui.IconTrophy, ui.Key.Render(args[0]))
			return nil
		},
	}
}
