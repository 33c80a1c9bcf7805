package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lifequest/internal/engine"
	"lifequest/internal/ui"
)

func newBuyCmd() *cobra.Command {
	var (
		coinFlag   string
		amount     int
		pointsCost int
	)

	cmd := &cobra.Command{
		Use:   "buy <reward-id>",
		Short: "Spend coins (and optionally achievement points) on a reward",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("reward id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if amount <= 0 && pointsCost <= 0 {
				return errors.New("nothing to spend: set --coins and/or --points")
			}

			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			coin := engine.ParseCoinType(coinFlag)
			err = eng.PurchaseReward(ctx, args[0], coin, amount, pointsCost)
			var funds engine.InsufficientFundsError
			if errors.As(err, &funds) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.IconWarn, ui.Warn.Render(funds.Error()))
				return nil
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Bought %s", ui.IconShop, ui.Key.Render(args[0]))
			if amount > 0 {
				fmt.Fprintf(out, " for %s", ui.Gold.Render(fmt.Sprintf("%d %s", amount, coin)))
			}
			if pointsCost > 0 {
				fmt.Fprintf(out, " and %d achievement points", pointsCost)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&coinFlag, "type", "t", "universal", "coin type to spend (str|int|vit|cha|universal)")
	cmd.Flags().IntVarP(&amount, "coins", "c", 0, "coin cost")
	cmd.Flags().IntVar(&pointsCost, "points", 0, "achievement point cost")
	return cmd
}
