package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	pb "palbot/palbot"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "checks and saves tray setups",
}

var setupCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "loads the setup file and reports problems",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		layout, err := loadLayout()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d trays ok\n", v.GetString(cfgKeySetup), layout.Len())
		return nil
	},
}

var setupSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "saves the current setup under a new name",
	Long: `save writes the loaded setup to <setup-dir>/<name>.txt. An existing file is
never overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		layout, err := loadLayout()
		if err != nil {
			return err
		}
		path, err := pb.SaveSetup(layout, v.GetString(cfgKeySetupDir), args[0])
		if errors.Is(err, pb.ErrSetupExists) {
			fmt.Fprintf(cmd.ErrOrStderr(), "File already exists: %s\n", path)
			return err
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", path)
		return nil
	},
}

func init() {
	setupCmd.AddCommand(setupCheckCmd)
	setupCmd.AddCommand(setupSaveCmd)
	rootCmd.AddCommand(setupCmd)
}
