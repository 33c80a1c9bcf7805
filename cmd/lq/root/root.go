package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lifequest/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "lq",
	Short:         "Lifequest: gamified life management",
	Long:          "Lifequest turns real-life tasks into quests: complete them to earn experience,\nleveled currencies, decaying attributes and achievements, and undo them losslessly.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newAddCmd(),
		newDoCmd(),
		newUndoCmd(),
		newProgressCmd(),
		newRemoveCmd(),
		newListCmd(),
		newStatusCmd(),
		newBoardCmd(),
		newCheckinCmd(),
		newBuyCmd(),
		newDecayCmd(),
		newBadgesCmd(),
		newHabitCmd(),
		newSuggestCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
