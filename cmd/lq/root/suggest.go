package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lifequest/internal/suggest"
	"lifequest/internal/ui"
)

func newSuggestCmd() *cobra.Command {
	var (
		count int
		add   bool
	)

	cmd := &cobra.Command{
		Use:   "suggest <goal>",
		Short: "Ask the AI for quest ideas toward a goal",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("a goal is required, e.g. `lq suggest \"learn spanish\"`")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, cfg, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if cfg.OpenAIKey == "" {
				return errors.New("LQ_OPENAI_KEY is not set")
			}
			gen := suggest.NewOpenAIGenerator(cfg.OpenAIKey, cfg.OpenAIModel)

			goal := strings.Join(args, " ")
			descriptors, err := gen.Suggest(ctx, goal, count)
			if err != nil {
				return fmt.Errorf("suggest quests: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(descriptors) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No usable suggestions came back."))
				return nil
			}

			fmt.Fprintln(out, ui.Heading(ui.IconRobot, "Suggested quests"))
			for _, d := range descriptors {
				fmt.Fprintf(out, "  %s %s\n", ui.Key.Render("•"), d.Title)
				fmt.Fprintf(out, "    %s\n", ui.Muted.Render(fmt.Sprintf("%s · %dxp/%dc · %dm · %s",
					strings.Join(d.Attributes, "+"), d.ExpReward, d.CoinReward, d.EstimatedMinutes, d.Priority)))

				if add {
					q, err := eng.AddQuest(ctx, d)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "    %s added as %s\n", ui.IconPlus, ui.Key.Render(shortID(q.ID)))
				}
			}
			if !add {
				fmt.Fprintln(out, ui.Muted.Render("\nRe-run with --add to create them."))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 3, "number of suggestions")
	cmd.Flags().BoolVar(&add, "add", false, "create the suggested quests")
	return cmd
}
