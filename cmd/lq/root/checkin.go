package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lifequest/internal/ui"
)

func newCheckinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkin",
		Short: "Record today's check-in and keep the streak alive",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := eng.DailyCheckIn(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res == nil {
				fmt.Fprintln(out, ui.Muted.Render("Already checked in today."))
				return nil
			}
			fmt.Fprintf(out, "%s Checked in for %s: %s, %s\n",
				ui.IconDone, res.Date,
				ui.Good.Render(fmt.Sprintf("+%d XP", res.ExpAwarded)),
				ui.Gold.Render(fmt.Sprintf("+%d coins", res.CoinsAwarded)))
			fmt.Fprintf(out, "  %s streak: %d days\n", ui.IconFire, res.Streak)
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
