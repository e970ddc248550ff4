package palbot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJournal struct {
	started   []string
	transfers []TransferRecord
	finished  map[string]string
}

func (j *fakeJournal) StartRun(_ context.Context, name string) (string, error) {
	j.started = append(j.started, name)
	return "run-1", nil
}

func (j *fakeJournal) RecordTransfer(_ context.Context, rec TransferRecord) error {
	j.transfers = append(j.transfers, rec)
	return nil
}

func (j *fakeJournal) FinishRun(ctx context.Context, runID, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if j.finished == nil {
		j.finished = make(map[string]string)
	}
	j.finished[runID] = status
	return nil
}

// fakeClock advances by step on every reading and records sleeps.
type fakeClock struct {
	t      time.Time
	step   time.Duration
	sleeps []time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func (c *fakeClock) sleep(ctx context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	c.t = c.t.Add(d)
	return ctx.Err()
}

// failingLink fails every send after the first n.
type failingLink struct {
	DryRunLink
	n int
}

func (f *failingLink) Send(ctx context.Context, command string) error {
	if len(f.Commands()) >= f.n {
		return errors.New("port gone")
	}
	return f.DryRunLink.Send(ctx, command)
}

func newTestSequencer(t *testing.T) (*Sequencer, *DryRunLink, *fakeClock) {
	t.Helper()
	h, link := newTestHead(t)
	s := NewSequencer(h)
	clock := &fakeClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	s.now = clock.now
	s.sleep = clock.sleep
	return s, link, clock
}

func TestKineticsPlan_Transfers(t *testing.T) {
	plan := KineticsPlan{Reactions: 2, Source: "src", Dest: "dst", Samples: 3, StartingVial: 3}
	cycles := plan.Transfers()
	require.Len(t, cycles, 3)

	var to [][]int
	for i, cycle := range cycles {
		require.Len(t, cycle, 2)
		row := []int{}
		for j, tr := range cycle {
			assert.Equal(t, i+1, tr.Cycle)
			assert.Equal(t, j+1, tr.Reaction)
			assert.Equal(t, Target{"src", 1 + j}, tr.From)
			row = append(row, tr.To.Position)
		}
		to = append(to, row)
	}
	assert.Equal(t, [][]int{{3, 6}, {4, 7}, {5, 8}}, to)
}

func TestKineticsPlan_Validate(t *testing.T) {
	h, _ := newTestHead(t)
	ok := KineticsPlan{Reactions: 2, Source: "sfc_tray1", Dest: "sfc", Samples: 3, Volume: 1}
	require.NoError(t, ok.Validate(h))

	tests := []struct {
		name   string
		mutate func(*KineticsPlan)
		is     error
	}{
		{"no reactions", func(p *KineticsPlan) { p.Reactions = 0 }, nil},
		{"no samples", func(p *KineticsPlan) { p.Samples = 0 }, nil},
		{"negative interval", func(p *KineticsPlan) { p.Interval = -time.Second }, nil},
		{"negative washes", func(p *KineticsPlan) { p.Washes = -1 }, nil},
		{"zero volume", func(p *KineticsPlan) { p.Volume = 0 }, nil},
		{"unknown source", func(p *KineticsPlan) { p.Source = "nope" }, ErrUnknownTray},
		{"past the end", func(p *KineticsPlan) { p.Dest = "sfc_tray1"; p.Samples = 9 }, ErrPositionOutOfRange},
		{"source past the end", func(p *KineticsPlan) { p.Reactions = 17 }, ErrPositionOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ok
			tt.mutate(&p)
			err := p.Validate(h)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestSequencer_SampleCycle(t *testing.T) {
	s, link, _ := newTestSequencer(t)
	require.NoError(t, s.SampleCycle(context.Background(), Target{"sfc_tray1", 1}, Target{"sfc_tray2", 1}, 2))

	assert.Equal(t, []string{
		RaiseZ(),
		MoveAbs(Position{10000, 20000, 1000}),
		MoveRel(0, 0, 30000),
		mot(3800, 5000),
		MoveRel(0, 0, -40000),
		RaiseZ(),
		MoveAbs(Position{30000, 20000, 1000}),
		MoveRel(0, 0, 30000),
		mot(0, FastDispenseSpeed),
		MoveAbs(Position{}),
		mot(0, 5000),
	}, link.Commands())
}

func TestSequencer_Wash(t *testing.T) {
	s, link, _ := newTestSequencer(t)
	require.NoError(t, s.Wash(context.Background(), 2))

	cmds := link.Commands()
	require.Len(t, cmds, 2*9+2)
	assert.Equal(t, MoveAbs(Position{0, 0, 0}), cmds[1])
	assert.Equal(t, mot(95000, 10000), cmds[3])
	assert.Equal(t, MoveAbs(Position{5000, 0, 0}), cmds[6])
	assert.Equal(t, MoveRel(0, 0, 25000), cmds[7])

	link.Reset()
	require.NoError(t, s.Wash(context.Background(), 0))
	assert.Len(t, link.Commands(), 2)
}

func TestSequencer_FullCycle(t *testing.T) {
	s, link, _ := newTestSequencer(t)
	require.NoError(t, s.FullCycle(context.Background(), Target{"sfc_tray1", 1}, Target{"sfc", 20}, 1, 1))

	cmds := link.Commands()
	require.Len(t, cmds, 11+9+2+1)
	assert.Equal(t, Beep(1968, 1000), cmds[len(cmds)-1])
}

func TestSequencer_RunKinetics(t *testing.T) {
	s, link, clock := newTestSequencer(t)
	clock.step = time.Second
	j := &fakeJournal{}
	s.Journal = j

	plan := KineticsPlan{
		Reactions: 2,
		Source:    "sfc_tray1",
		Dest:      "sfc",
		Samples:   3,
		Interval:  10 * time.Minute,
		Volume:    1,
	}
	require.NoError(t, s.RunKinetics(context.Background(), plan))

	assert.Equal(t, []string{"kinetics sfc_tray1 -> sfc"}, j.started)
	assert.Equal(t, map[string]string{"run-1": RunCompleted}, j.finished)

	var to []int
	for _, rec := range j.transfers {
		assert.Equal(t, "run-1", rec.RunID)
		assert.Equal(t, Syringe(10), rec.Syringe)
		assert.Equal(t, time.Second, rec.Duration)
		to = append(to, rec.To.Position)
	}
	assert.Equal(t, []int{1, 4, 2, 5, 3, 6}, to)

	// five clock readings per cycle: start, two per transfer, end
	wait := 10*time.Minute - 5*time.Second
	assert.Equal(t, []time.Duration{wait, wait}, clock.sleeps)
	assert.Len(t, link.Commands(), 6*(11+2+1))
}

func TestSequencer_RunKinetics_Overrun(t *testing.T) {
	s, _, clock := newTestSequencer(t)
	clock.step = time.Minute

	plan := KineticsPlan{Reactions: 1, Source: "sfc_tray1", Dest: "sfc", Samples: 2, Interval: time.Second, Volume: 1}
	require.NoError(t, s.RunKinetics(context.Background(), plan))
	assert.Equal(t, []time.Duration{0}, clock.sleeps)
}

func TestSequencer_RunKinetics_Cancelled(t *testing.T) {
	s, _, clock := newTestSequencer(t)
	j := &fakeJournal{}
	s.Journal = j

	ctx, cancel := context.WithCancel(context.Background())
	s.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return clock.sleep(ctx, d)
	}

	plan := KineticsPlan{Reactions: 1, Source: "sfc_tray1", Dest: "sfc", Samples: 3, Interval: time.Minute, Volume: 1}
	err := s.RunKinetics(ctx, plan)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, j.transfers, 1)
	assert.Equal(t, RunCancelled, j.finished["run-1"])
}

func TestSequencer_RunKinetics_Failed(t *testing.T) {
	link := &failingLink{DryRunLink: DryRunLink{Quiet: true}, n: 3}
	h := NewHead(loadTestLayout(t), link, testHome)
	s := NewSequencer(h)
	j := &fakeJournal{}
	s.Journal = j

	plan := KineticsPlan{Reactions: 1, Source: "sfc_tray1", Dest: "sfc", Samples: 1, Volume: 1}
	err := s.RunKinetics(context.Background(), plan)
	assert.ErrorContains(t, err, "port gone")
	assert.Empty(t, j.transfers)
	assert.Equal(t, RunFailed, j.finished["run-1"])
}

func TestSequencer_RunKinetics_InvalidPlanStartsNothing(t *testing.T) {
	s, link, _ := newTestSequencer(t)
	j := &fakeJournal{}
	s.Journal = j

	plan := KineticsPlan{Reactions: 1, Source: "sfc_tray1", Dest: "sfc_tray1", Samples: 17, Volume: 1}
	err := s.RunKinetics(context.Background(), plan)
	assert.ErrorIs(t, err, ErrPositionOutOfRange)
	assert.Empty(t, j.started)
	assert.Empty(t, link.Commands())
}
