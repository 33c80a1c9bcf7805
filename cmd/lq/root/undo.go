package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lifequest/internal/ui"
)

func newUndoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo <quest-id>",
		Short: "Uncomplete a quest, exactly unwinding its rewards",
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

			res, err := eng.UncompleteQuest(ctx, resolveQuestID(eng, args[0]))
			if err != nil {
				return err
			}
			if res == nil {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Nothing to undo (quest missing or not completed)."))
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Quest reverted: %s\n", ui.IconUndo, ui.Warn.Render(fmt.Sprintf("-%d XP", res.ExpRevoked)))
			for coin, amount := range res.CoinsRevoked {
				fmt.Fprintf(out, "  %s -%d %s\n", ui.IconCoin, amount, coin)
			}
			for attr, pts := range res.AttributesRevoked {
				fmt.Fprintf(out, "  %s -%.2f %s %s\n", ui.IconBolt, pts, attr, ui.Muted.Render("(current value, after decay)"))
			}
			for _, lvl := range res.LevelsLost {
				fmt.Fprintf(out, "  %s level %d lost\n", ui.Bad.Render("▼"), lvl)
			}
			if len(res.RevokedAchievements) > 0 {
				fmt.Fprintf(out, "  %s revoked: %s\n", ui.IconTrophy, strings.Join(res.RevokedAchievements, ", "))
			}
			return nil
		},
	}

	return cmd
}
