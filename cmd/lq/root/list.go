package root

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"lifequest/internal/engine"
	"lifequest/internal/ui"
)

func newListCmd() *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List quests",
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
			if len(snap.Quests) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No quests yet. Try `lq add`."))
				return nil
			}

			fmt.Fprintln(out, ui.Heading(ui.IconQuest, "Quests"))
			printed := 0
			for _, q := range snap.Quests {
				if q.ParentID != "" {
					continue // children print under their parent
				}
				printQuest(out, snap, q, 0, showAll)
				printed++
			}
			if printed == 0 && !showAll {
				fmt.Fprintln(out, ui.Muted.Render("All quests completed. `lq list -a` shows them."))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "include completed quests")
	return cmd
}

func printQuest(out io.Writer, snap *engine.State, q engine.Quest, depth int, showAll bool) {
	if q.Status == engine.QuestCompleted && !showAll {
		return
	}
	indent := strings.Repeat("  ", depth)
	attrs := make([]string, 0, len(q.Attributes))
	for _, a := range q.Attributes {
		attrs = append(attrs, string(a))
	}
	line := fmt.Sprintf("%s%s %s %s %s",
		indent,
		ui.StatusText(string(q.Status)),
		ui.Key.Render(shortID(q.ID)),
		q.Title,
		ui.Muted.Render(fmt.Sprintf("[%s · %s · %dxp/%dc]", q.Priority, strings.Join(attrs, "+"), q.ExpReward, q.CoinReward)))
	if q.Progress > 0 && q.Status == engine.QuestActive {
		line += " " + ui.Good.Render(fmt.Sprintf("%d%%", q.Progress))
	}
	fmt.Fprintln(out, line)
	for _, c := range snap.Quests {
		if c.ParentID == q.ID {
			printQuest(out, snap, c, depth+1, showAll)
		}
	}
}

// shortID trims a UUID to its first group for display; full IDs still work
// everywhere an id is accepted.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
