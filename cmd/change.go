package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// changeCmd represents the change command
var changeCmd = &cobra.Command{
	Use:   "change",
	Short: "parks the head for a syringe change",
	Long: `change moves the head out to the syringe change position and raises the
plunger so the syringe can be swapped by hand. Run "palbot home" afterwards.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bot, err := newHead()
		if err != nil {
			return err
		}
		defer bot.Close()
		ctx, cancel := interruptible(cmd)
		defer cancel()
		if err := bot.Change(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ready for syringe change")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(changeCmd)
}
