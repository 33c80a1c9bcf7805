package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lifequest/internal/engine"
	"lifequest/internal/ui"
)

func newAddCmd() *cobra.Command {
	var attrs []string
	var expReward int
	var coinReward int
	var priority string
	var minutes int
	var parentID string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a quest",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
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

			q, err := eng.AddQuest(ctx, engine.QuestDescriptor{
				Title:            args[0],
				Attributes:       attrs,
				ExpReward:        expReward,
				CoinReward:       coinReward,
				Priority:         priority,
				EstimatedMinutes: minutes,
				ParentID:         parentID,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s %s\n",
				ui.IconPlus, ui.Title.Render(q.Title), ui.Muted.Render("("+q.ID+")"))
			fmt.Fprintf(cmd.OutOrStdout(), "  %v | +%d xp | +%d coins | %s\n",
				q.Attributes, q.ExpReward, q.CoinReward, q.Priority)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&attrs, "attr", "a", nil, "Attributes rewarded (str|int|vit|cha, repeatable)")
	cmd.Flags().IntVar(&expReward, "exp", 0, "Experience reward (default from priority)")
	cmd.Flags().IntVar(&coinReward, "coins", 0, "Coin reward (default from priority)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "medium", "Priority (low|medium|high)")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Estimated duration in minutes")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent quest id (quest chains)")

	return cmd
}
