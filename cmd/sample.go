package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	sampleVolume float64
	sampleWashes int
)

var sampleCmd = &cobra.Command{
	Use:   "sample <from-tray> <from-position> <to-tray> <to-position>",
	Short: "moves one sample between tray positions",
	Long: `sample draws --volume µL from one position, expels it into another and
homes. With --washes the syringe is rinsed afterwards and the controller beeps.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseTarget(args[0], args[1])
		if err != nil {
			return err
		}
		to, err := parseTarget(args[2], args[3])
		if err != nil {
			return err
		}
		bot, err := newHead()
		if err != nil {
			return err
		}
		defer bot.Close()
		// check both ends before the head moves
		if _, _, err := bot.Locate(from); err != nil {
			return err
		}
		if _, _, err := bot.Locate(to); err != nil {
			return err
		}

		ctx, cancel := interruptible(cmd)
		defer cancel()
		seq := newSequencer(bot)
		if sampleWashes > 0 {
			return seq.FullCycle(ctx, from, to, sampleVolume, sampleWashes)
		}
		return seq.SampleCycle(ctx, from, to, sampleVolume)
	},
}

var washCmd = &cobra.Command{
	Use:   "wash [times]",
	Short: "rinses the syringe",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 1
		if len(args) == 1 {
			var err error
			if n, err = strconv.Atoi(args[0]); err != nil || n < 0 {
				return fmt.Errorf("wash count %q is not a whole number", args[0])
			}
		}
		bot, err := newHead()
		if err != nil {
			return err
		}
		defer bot.Close()
		ctx, cancel := interruptible(cmd)
		defer cancel()
		return newSequencer(bot).Wash(ctx, n)
	},
}

func init() {
	sampleCmd.Flags().Float64Var(&sampleVolume, "volume", 1, "volume to move in µL")
	sampleCmd.Flags().IntVar(&sampleWashes, "washes", 0, "rinse the syringe this many times afterwards")
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(washCmd)
}
