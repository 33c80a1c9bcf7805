package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lifequest/internal/engine"
	"lifequest/internal/ui"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"st"},
		Short:   "Show level, experience, coins and attribute health",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cfg, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			snap, err := eng.Snapshot()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, fmt.Sprintf("%s — Level %d", cfg.UserKey, snap.Level)))
			fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d / %d", snap.CurrentExp, snap.MaxExp)))
			if snap.CheckInStreak > 0 {
				fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%s %d days", ui.IconFire, snap.CheckInStreak)))
			}
			fmt.Fprintln(out, ui.LabelValue("Quests done", snap.CompletedQuests))
			fmt.Fprintln(out, ui.LabelValue("Achievement points", snap.AchievementPoints))

			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.H2.Render("Attributes"))
			for _, a := range engine.AllAttributes {
				health := eng.AttributeHealth(a)
				fmt.Fprintf(out, "  %-4s %7.2f  health %s\n", a, snap.Attributes[a], ui.HealthText(health))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.H2.Render("Coins"))
			for _, a := range engine.AllAttributes {
				coin := engine.CoinForAttribute(a)
				if n := snap.Coins[coin]; n > 0 {
					fmt.Fprintf(out, "  %s %-10s %d\n", ui.IconCoin, coin, n)
				}
			}
			fmt.Fprintf(out, "  %s %-10s %d\n", ui.IconCoin, engine.CoinUniversal, snap.Coins[engine.CoinUniversal])

			if unlocks := engine.UnlocksThroughLevel(snap.Level); len(unlocks) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, ui.LabelValue("Unlocked", strings.Join(unlocks, ", ")))
			}
			return nil
		},
	}
}
