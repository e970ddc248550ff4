package palbot

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultWashTray  = "wash1"
	DefaultWasteTray = "waste1"

	washVolume      = 50
	washDrawSpeed   = 10000
	wastePenetrate  = 25000
	doneBeepFreq    = 1968
	doneBeepLength  = 1000
	timestampFormat = "2006-01-02 15:04:05"
)

// Run statuses written to the journal.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
	RunCancelled = "cancelled"
)

// TransferRecord is one completed sample transfer.
type TransferRecord struct {
	RunID     string
	Cycle     int
	Reaction  int
	From      Target
	To        Target
	Volume    float64
	Syringe   Syringe
	StartedAt time.Time
	Duration  time.Duration
}

// Journal records experiment runs. A nil Journal records nothing.
type Journal interface {
	StartRun(ctx context.Context, name string) (string, error)
	RecordTransfer(ctx context.Context, rec TransferRecord) error
	FinishRun(ctx context.Context, runID, status string) error
}

// Sequencer runs sample, wash and kinetics cycles on a head.
type Sequencer struct {
	Head      *Head
	WashTray  string
	WasteTray string
	Journal   Journal

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

func NewSequencer(head *Head) *Sequencer {
	return &Sequencer{
		Head:      head,
		WashTray:  DefaultWashTray,
		WasteTray: DefaultWasteTray,
		now:       time.Now,
		sleep:     sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Sequencer) washOnce(ctx context.Context) error {
	wash := Target{Tray: s.WashTray, Position: 1}
	if err := s.Head.TakeSample(ctx, wash, washVolume, SampleOptions{Speed: washDrawSpeed}); err != nil {
		return fmt.Errorf("wash: %w", err)
	}
	waste := Target{Tray: s.WasteTray, Position: 1}
	if err := s.Head.PutSample(ctx, waste, wastePenetrate); err != nil {
		return fmt.Errorf("wash: %w", err)
	}
	return nil
}

// Wash rinses the syringe n times from the wash tray into the waste tray, then
// homes.
func (s *Sequencer) Wash(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := s.washOnce(ctx); err != nil {
			return err
		}
	}
	return s.Head.Home(ctx)
}

// SampleCycle moves volume µL from one position to another and homes.
func (s *Sequencer) SampleCycle(ctx context.Context, from, to Target, volume float64) error {
	if err := s.Head.TakeSample(ctx, from, volume, SampleOptions{}); err != nil {
		return err
	}
	if err := s.Head.PutSample(ctx, to, 0); err != nil {
		return err
	}
	return s.Head.Home(ctx)
}

// FullCycle is a sample cycle followed by washes and a beep.
func (s *Sequencer) FullCycle(ctx context.Context, from, to Target, volume float64, washes int) error {
	if err := s.SampleCycle(ctx, from, to, volume); err != nil {
		return err
	}
	for i := 0; i < washes; i++ {
		if err := s.washOnce(ctx); err != nil {
			return err
		}
	}
	if err := s.Head.Home(ctx); err != nil {
		return err
	}
	return s.Head.Beep(ctx, doneBeepFreq, doneBeepLength)
}

// KineticsPlan samples several reactions at a fixed interval. Reaction j is
// drawn from SourcePosition+j; sample i of reaction j goes to vial
// StartingVial + i + Samples*j of the destination tray.
type KineticsPlan struct {
	Name           string
	Reactions      int
	Source         string
	SourcePosition int
	Dest           string
	Samples        int
	Interval       time.Duration
	Washes         int
	Volume         float64
	StartingVial   int
}

// Transfer is one planned move of a kinetics run.
type Transfer struct {
	Cycle    int
	Reaction int
	From     Target
	To       Target
}

func (p KineticsPlan) withDefaults() KineticsPlan {
	if p.StartingVial == 0 {
		p.StartingVial = 1
	}
	if p.SourcePosition == 0 {
		p.SourcePosition = 1
	}
	if p.Name == "" {
		p.Name = fmt.Sprintf("kinetics %s -> %s", p.Source, p.Dest)
	}
	return p
}

// Transfers lists every transfer of the plan, cycle by cycle.
func (p KineticsPlan) Transfers() [][]Transfer {
	p = p.withDefaults()
	cycles := make([][]Transfer, p.Samples)
	for i := 0; i < p.Samples; i++ {
		cycles[i] = make([]Transfer, p.Reactions)
		for j := 0; j < p.Reactions; j++ {
			cycles[i][j] = Transfer{
				Cycle:    i + 1,
				Reaction: j + 1,
				From:     Target{Tray: p.Source, Position: p.SourcePosition + j},
				To:       Target{Tray: p.Dest, Position: p.StartingVial + i + p.Samples*j},
			}
		}
	}
	return cycles
}

// Validate checks the plan's counts and resolves every position it will
// visit.
func (p KineticsPlan) Validate(h *Head) error {
	p = p.withDefaults()
	switch {
	case p.Reactions < 1:
		return fmt.Errorf("kinetics: need at least one reaction, got %d", p.Reactions)
	case p.Samples < 1:
		return fmt.Errorf("kinetics: need at least one sample, got %d", p.Samples)
	case p.Interval < 0:
		return fmt.Errorf("kinetics: negative interval %s", p.Interval)
	case p.Washes < 0:
		return fmt.Errorf("kinetics: negative wash count %d", p.Washes)
	case p.Volume <= 0:
		return fmt.Errorf("kinetics: volume must be positive, got %g", p.Volume)
	}
	if err := h.Syringe.Validate(); err != nil {
		return err
	}
	for _, cycle := range p.Transfers() {
		for _, t := range cycle {
			if _, _, err := h.Locate(t.From); err != nil {
				return fmt.Errorf("kinetics reaction %d: %w", t.Reaction, err)
			}
			if _, _, err := h.Locate(t.To); err != nil {
				return fmt.Errorf("kinetics sample %d of reaction %d: %w", t.Cycle, t.Reaction, err)
			}
		}
	}
	return nil
}

// RunKinetics runs the plan. Each cycle starts Interval after the previous
// one started; a cycle that overruns the interval is logged and the next one
// starts straight away.
func (s *Sequencer) RunKinetics(ctx context.Context, plan KineticsPlan) (err error) {
	plan = plan.withDefaults()
	if err := plan.Validate(s.Head); err != nil {
		return err
	}

	var runID string
	if s.Journal != nil {
		if runID, err = s.Journal.StartRun(ctx, plan.Name); err != nil {
			return fmt.Errorf("start run: %w", err)
		}
		defer func() {
			status := RunCompleted
			switch {
			case errors.Is(err, context.Canceled):
				status = RunCancelled
			case err != nil:
				status = RunFailed
			}
			// the run context may already be cancelled
			if ferr := s.Journal.FinishRun(context.WithoutCancel(ctx), runID, status); ferr != nil && err == nil {
				err = fmt.Errorf("finish run: %w", ferr)
			}
		}()
	}

	cycles := plan.Transfers()
	for i, cycle := range cycles {
		start := s.now()
		Logf("Cycle: %d - Time: %s", i+1, start.Format(timestampFormat))
		for _, t := range cycle {
			tStart := s.now()
			if err := s.FullCycle(ctx, t.From, t.To, plan.Volume, plan.Washes); err != nil {
				return fmt.Errorf("cycle %d reaction %d: %w", t.Cycle, t.Reaction, err)
			}
			if s.Journal != nil {
				rec := TransferRecord{
					RunID:     runID,
					Cycle:     t.Cycle,
					Reaction:  t.Reaction,
					From:      t.From,
					To:        t.To,
					Volume:    plan.Volume,
					Syringe:   s.Head.Syringe,
					StartedAt: tStart,
					Duration:  s.now().Sub(tStart),
				}
				if err := s.Journal.RecordTransfer(ctx, rec); err != nil {
					return fmt.Errorf("record transfer: %w", err)
				}
			}
		}
		elapsed := s.now().Sub(start)
		Logf("Cycle duration: %.3f seconds", elapsed.Seconds())

		if i == len(cycles)-1 {
			break
		}
		wait := plan.Interval - elapsed
		if wait < 0 {
			Logf("Duration %.3f seconds longer than wait time", (-wait).Seconds())
			wait = 0
		}
		if err := s.sleep(ctx, wait); err != nil {
			return err
		}
	}
	return nil
}
