package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lifequest/internal/ui"
)

func newDoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <quest-id>",
		Short: "Complete a quest",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("quest id is required")
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

			res, err := eng.CompleteQuest(ctx, resolveQuestID(eng, args[0]))
			if err != nil {
				return err
			}
			if res == nil {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Nothing to do (quest missing or not active)."))
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Quest complete! %s\n", ui.IconDone, ui.Gold.Render(fmt.Sprintf("+%d XP", res.ExpAwarded)))
			for coin, amount := range res.CoinsAwarded {
				fmt.Fprintf(out, "  %s +%d %s\n", ui.IconCoin, amount, coin)
			}
			for attr, pts := range res.AttributePoints {
				fmt.Fprintf(out, "  %s +%.0f %s\n", ui.IconBolt, pts, attr)
			}
			for _, lvl := range res.LevelsGained {
				fmt.Fprintf(out, "  %s → level %d\n", ui.BadgeLevelUp, lvl)
			}
			if res.ParentCompleted {
				fmt.Fprintln(out, "  "+ui.Good.Render("Parent quest auto-completed!"))
			}
			if len(res.NewAchievements) > 0 {
				fmt.Fprintf(out, "  %s %s\n", ui.IconTrophy, strings.Join(res.NewAchievements, ", "))
			}
			return nil
		},
	}

	return cmd
}
