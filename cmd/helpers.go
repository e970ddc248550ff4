package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"palbot/db"
	pb "palbot/palbot"
)

// interruptible cancels the command's context on Ctrl-C so a stuck device or
// a kinetics wait can be abandoned.
func interruptible(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}

func loadLayout() (*pb.Layout, error) {
	return pb.LoadSetupFile(v.GetString(cfgKeySetup))
}

func addressing() (pb.Direction, error) {
	return pb.ParseDirection(v.GetString(cfgKeyDirection))
}

func openLink() (pb.Link, error) {
	if v.GetBool(cfgKeyDryRun) {
		return &pb.DryRunLink{}, nil
	}
	link, err := pb.OpenSerial(v.GetString(cfgKeyPort), pb.PortOptions{
		BaudRate: v.GetInt(cfgKeyBaud),
	})
	if err != nil {
		return nil, err
	}
	link.Timeout = v.GetDuration(cfgKeyTimeout)
	link.Poll = v.GetDuration(cfgKeyPoll)
	return link, nil
}

// newHead loads the layout and connects to the head controller.
func newHead() (*pb.Head, error) {
	layout, err := loadLayout()
	if err != nil {
		return nil, err
	}
	dir, err := addressing()
	if err != nil {
		return nil, err
	}
	syringe := pb.Syringe(v.GetInt(cfgKeySyringe))
	if err := syringe.Validate(); err != nil {
		return nil, err
	}
	link, err := openLink()
	if err != nil {
		return nil, err
	}
	head := pb.NewHead(layout, link, pb.Position{
		X: v.GetInt(cfgKeyHomeX),
		Y: v.GetInt(cfgKeyHomeY),
		Z: v.GetInt(cfgKeyHomeZ),
	})
	head.Syringe = syringe
	head.Direction = dir
	return head, nil
}

func newSequencer(head *pb.Head) *pb.Sequencer {
	seq := pb.NewSequencer(head)
	seq.WashTray = v.GetString(cfgKeyWashTray)
	seq.WasteTray = v.GetString(cfgKeyWasteTray)
	return seq
}

// openJournal returns nil when the journal is disabled.
func openJournal() (*db.Client, error) {
	path := v.GetString(cfgKeyJournal)
	if path == "" {
		return nil, nil
	}
	return db.Open(path)
}

func parseTarget(tray, position string) (pb.Target, error) {
	n, err := strconv.Atoi(position)
	if err != nil {
		return pb.Target{}, fmt.Errorf("position %q is not a number", position)
	}
	return pb.Target{Tray: tray, Position: n}, nil
}
