package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lifequest/internal/engine"
	"lifequest/internal/ui"
)

func newDecayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decay",
		Short: "Settle attribute decay and show what is fading",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := eng.ApplyDecay(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			records := eng.DecayingAttributes()
			if len(records) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("Nothing is decaying right now."))
				return nil
			}

			fmt.Fprintln(out, ui.Heading(ui.IconDecay, "Decaying gains"))
			for _, r := range records {
				fmt.Fprintf(out, "  %-4s %6.2f of %6.2f  %s\n",
					r.Attribute, r.CurrentValue, r.Amount,
					ui.Muted.Render(fmt.Sprintf("%s, half-life %.0fd", r.Reason, r.HalfLifeDays)))
			}
			return nil
		},
	}

	cmd.AddCommand(newDecayConfigCmd())
	return cmd
}

func newDecayConfigCmd() *cobra.Command {
	var (
		halfLife float64
		minValue float64
		disable  bool
	)

	cmd := &cobra.Command{
		Use:   "config <attribute>",
		Short: "Change one attribute's decay policy",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("attribute is required (str|int|vit|cha)")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			attr := engine.ParseAttribute(args[0])

			ctx := context.Background()
			eng, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			cfg := engine.DecayConfig{
				Attribute:    attr,
				Enabled:      !disable,
				HalfLifeDays: halfLife,
				MinValue:     minValue,
			}
			if err := eng.UpdateDecayConfig(ctx, cfg); err != nil {
				return err
			}
			if disable {
				fmt.Fprintf(cmd.OutOrStdout(), "%s decay disabled for %s\n", ui.IconDone, attr)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s now decays with a %.0f-day half-life (floor %.0f)\n",
					ui.IconDone, attr, halfLife, minValue)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&halfLife, "half-life", 30, "half-life in days for new gains")
	cmd.Flags().Float64Var(&minValue, "min", 0, "per-gain floor the decay never drops below")
	cmd.Flags().BoolVar(&disable, "off", false, "disable decay for this attribute")
	return cmd
}
