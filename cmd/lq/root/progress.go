package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lifequest/internal/ui"
)

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <quest-id> <percent>",
		Short: "Set a quest's progress (leaf quests only)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("quest id and percent are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("percent must be a number: %w", err)
			}

			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			ok, err := eng.UpdateQuestProgress(ctx, resolveQuestID(eng, args[0]), pct)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Not updated (quest missing, completed, or has subquests)."))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Progress set to %d%%\n", ui.IconDone, pct)
			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <quest-id>",
		Aliases: []string{"remove"},
		Short:   "Delete a quest and its subquests",
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

			ok, err := eng.DeleteQuest(ctx, resolveQuestID(eng, args[0]))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No such quest."))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Quest removed\n", ui.IconDone)
			return nil
		},
	}
}
