package cmd

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <tray> <position>...",
	Short: "prints the head coordinates of tray positions",
	Long: `resolve looks positions up in the current setup without moving the robot.

  palbot resolve sfc_tray1 1 2 3 --direction rows`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		layout, err := loadLayout()
		if err != nil {
			return err
		}
		dir, err := addressing()
		if err != nil {
			return err
		}
		p := message.NewPrinter(language.English)
		for _, pos := range args[1:] {
			t, err := parseTarget(args[0], pos)
			if err != nil {
				return err
			}
			c, err := layout.Resolve(t.Tray, t.Position, dir)
			if err != nil {
				return err
			}
			p.Fprintf(cmd.OutOrStdout(), "%s\tx=%d\ty=%d\tz=%d\n", t, c.X, c.Y, c.Z)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
