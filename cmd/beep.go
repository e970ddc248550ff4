package cmd

import (
	"github.com/spf13/cobra"
)

var (
	beepFrequency int
	beepDuration  int
)

var beepCmd = &cobra.Command{
	Use:   "beep",
	Short: "makes the controller beep",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bot, err := newHead()
		if err != nil {
			return err
		}
		defer bot.Close()
		ctx, cancel := interruptible(cmd)
		defer cancel()
		return bot.Beep(ctx, beepFrequency, beepDuration)
	},
}

func init() {
	beepCmd.Flags().IntVar(&beepFrequency, "frequency", 1000, "tone frequency in Hz")
	beepCmd.Flags().IntVar(&beepDuration, "duration", 1000, "tone length in ms")
	rootCmd.AddCommand(beepCmd)
}
