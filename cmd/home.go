package cmd

import (
	"github.com/spf13/cobra"
)

// homeCmd represents the home command
var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "homes the bot",
	Long:  `Sends MOVE_ABS(0,0,0) and empties the plunger. Be wary of clearances and things hitting other things!!`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bot, err := newHead()
		if err != nil {
			return err
		}
		defer bot.Close()
		ctx, cancel := interruptible(cmd)
		defer cancel()
		return bot.Home(ctx)
	},
}

func init() {
	rootCmd.AddCommand(homeCmd)
}
