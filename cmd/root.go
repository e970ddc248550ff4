package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	pb "palbot/palbot"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "palbot",
	Short: "drives the PAL liquid handling robot",
	Long: `palbot moves samples between trays with the PAL liquid handling robot.

Trays are described in a setup file (see "palbot setup"), the head controller
is reached over a serial port. Use --dry-run to print commands instead of
sending them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ./palbot.yaml)")
	pf.String("port", pb.DefaultPort, "serial port of the head controller")
	pf.Int("baud", pb.DefaultBaud, "serial baud rate")
	pf.String("setup", filepath.Join(defaultSetupDir, defaultSetupFile), "tray setup file")
	pf.String("setup-dir", defaultSetupDir, "directory new setups are saved to")
	pf.String("journal", "palbot.db", "run journal database, empty to disable")
	pf.Int("syringe", 10, "fitted syringe size in µL (10, 25, 100 or 1000)")
	pf.String("direction", "columns", "position numbering: columns or rows")
	pf.Duration("timeout", pb.DefaultCommandTimeout, "give up on a command after this long")
	pf.Duration("poll", pb.DefaultPollInterval, "pause before re-sending a command the device is busy for")
	pf.Bool("dry-run", false, "log commands instead of sending them")
	pf.String("wash-tray", pb.DefaultWashTray, "tray the syringe is rinsed from")
	pf.String("waste-tray", pb.DefaultWasteTray, "tray rinse liquid is emptied into")

	bindFlags(pf)
}
