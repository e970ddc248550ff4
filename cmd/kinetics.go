package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	pb "palbot/palbot"
)

var plan pb.KineticsPlan

var kineticsCmd = &cobra.Command{
	Use:   "kinetics",
	Short: "samples reactions on a fixed schedule",
	Long: `kinetics takes --samples samples from each of --reactions reactions, one
cycle every --interval. Reaction j is drawn from --from-position+j of the
--from tray; its samples fill consecutive vials of the --to tray starting at
--starting-vial + j*samples.

  palbot kinetics --reactions 2 --from 49alu_tray1 --to sfc_tray1 \
      --samples 4 --interval 60s --washes 3 --volume 3`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bot, err := newHead()
		if err != nil {
			return err
		}
		defer bot.Close()
		if err := plan.Validate(bot); err != nil {
			return err
		}

		seq := newSequencer(bot)
		journal, err := openJournal()
		if err != nil {
			return err
		}
		if journal != nil {
			defer journal.Close()
			seq.Journal = journal
		}

		p := message.NewPrinter(language.English)
		p.Fprintf(cmd.OutOrStdout(), "%d reactions x %d samples, %d transfers, one cycle every %s\n",
			plan.Reactions, plan.Samples, plan.Reactions*plan.Samples, plan.Interval)

		ctx, cancel := interruptible(cmd)
		defer cancel()
		start := time.Now()
		if err := seq.RunKinetics(ctx, plan); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "done in %s\n", time.Since(start).Round(time.Second))
		return nil
	},
}

func init() {
	f := kineticsCmd.Flags()
	f.StringVar(&plan.Name, "name", "", "run name for the journal")
	f.IntVar(&plan.Reactions, "reactions", 1, "number of reactions")
	f.StringVar(&plan.Source, "from", "", "tray holding the reactions")
	f.IntVar(&plan.SourcePosition, "from-position", 1, "position of the first reaction")
	f.StringVar(&plan.Dest, "to", "", "tray the samples go to")
	f.IntVar(&plan.Samples, "samples", 1, "samples per reaction")
	f.DurationVar(&plan.Interval, "interval", time.Minute, "time between cycle starts")
	f.IntVar(&plan.Washes, "washes", 0, "rinses after every transfer")
	f.Float64Var(&plan.Volume, "volume", 1, "sample volume in µL")
	f.IntVar(&plan.StartingVial, "starting-vial", 1, "first destination vial")
	_ = kineticsCmd.MarkFlagRequired("from")
	_ = kineticsCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(kineticsCmd)
}
