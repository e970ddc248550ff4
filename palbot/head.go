package palbot

import (
	"context"
	"fmt"
)

// Change pose: far enough out for the syringe to be swapped by hand.
var changePosition = Position{X: -150000, Y: 0, Z: 60000}

const changePlungerHeight = 6000

// Target names one position on one tray.
type Target struct {
	Tray     string `json:"tray"`
	Position int    `json:"position"`
}

func (t Target) String() string {
	return fmt.Sprintf("%s#%d", t.Tray, t.Position)
}

// SampleOptions override the tray- and syringe-derived defaults. Zero values
// keep the default.
type SampleOptions struct {
	Penetration int
	Speed       int
}

// Head drives the pipetting head: x/y/z travel plus the syringe plunger.
type Head struct {
	Layout  *Layout
	Current Position
	HomePos Position
	Syringe Syringe
	// Direction is the addressing order used to resolve positions.
	Direction Direction

	link Link
}

// NewHead returns a head at its home position fitted with a 10 µL syringe.
func NewHead(layout *Layout, link Link, home Position) *Head {
	return &Head{
		Layout:    layout,
		Current:   home,
		HomePos:   home,
		Syringe:   10,
		Direction: ColumnsFirst,
		link:      link,
	}
}

func (h *Head) Close() error {
	return h.link.Close()
}

func (h *Head) send(ctx context.Context, command string) error {
	return h.link.Send(ctx, command)
}

// Locate resolves a target with the head's addressing order.
func (h *Head) Locate(t Target) (Tray, Position, error) {
	tray, err := h.Layout.Tray(t.Tray)
	if err != nil {
		return nil, Position{}, err
	}
	p, err := tray.Resolve(t.Position, h.Direction)
	if err != nil {
		return nil, Position{}, err
	}
	return tray, p, nil
}

func (h *Head) Beep(ctx context.Context, frequency, duration int) error {
	return h.send(ctx, Beep(frequency, duration))
}

// MoveTo raises the needle and travels to a tray position. The target is
// resolved before anything is sent.
func (h *Head) MoveTo(ctx context.Context, t Target) error {
	_, p, err := h.Locate(t)
	if err != nil {
		return err
	}
	if err := h.ReturnZ(ctx); err != nil {
		return err
	}
	return h.MoveFree(ctx, p)
}

// MoveFree travels to absolute coordinates.
func (h *Head) MoveFree(ctx context.Context, p Position) error {
	if err := h.send(ctx, MoveAbs(p)); err != nil {
		return err
	}
	h.Current = p
	return nil
}

// ReturnZ raises the needle to z = 0.
func (h *Head) ReturnZ(ctx context.Context) error {
	if err := h.send(ctx, RaiseZ()); err != nil {
		return err
	}
	h.Current.Z = 0
	return nil
}

func (h *Head) MoveRel(ctx context.Context, dx, dy, dz int) error {
	if err := h.send(ctx, MoveRel(dx, dy, dz)); err != nil {
		return err
	}
	h.Current.X += dx
	h.Current.Y += dy
	h.Current.Z += dz
	return nil
}

// Penetrate plunges the needle by depth.
func (h *Head) Penetrate(ctx context.Context, depth int) error {
	return h.MoveRel(ctx, 0, 0, depth)
}

// Penetration is the plunge depth for a tray with the fitted syringe.
func (h *Head) Penetration(tray string) (int, error) {
	t, err := h.Layout.Tray(tray)
	if err != nil {
		return 0, err
	}
	return h.Syringe.Penetration(t.Depth())
}

// Motor drives the plunger to an absolute height.
func (h *Head) Motor(ctx context.Context, height, speed int) error {
	if speed <= 0 {
		speed = DefaultMotorSpeed
	}
	return h.send(ctx, MotAbs(PlungerMotor, height, speed))
}

// MovePlunger sets the plunger to the height that holds volume µL.
func (h *Head) MovePlunger(ctx context.Context, volume float64, speed int) error {
	height, err := h.Syringe.Height(volume)
	if err != nil {
		return err
	}
	return h.Motor(ctx, height, speed)
}

// TakeSample draws volume µL from a tray position and lifts the needle clear.
func (h *Head) TakeSample(ctx context.Context, t Target, volume float64, opts SampleOptions) error {
	height, err := h.Syringe.Height(volume)
	if err != nil {
		return err
	}
	pen, err := h.penetration(t.Tray, opts.Penetration)
	if err != nil {
		return err
	}
	speed := opts.Speed
	if speed <= 0 {
		if speed, err = h.Syringe.Speed(); err != nil {
			return err
		}
	}

	if err := h.MoveTo(ctx, t); err != nil {
		return fmt.Errorf("take sample from %s: %w", t, err)
	}
	if err := h.Penetrate(ctx, pen); err != nil {
		return err
	}
	if err := h.Motor(ctx, height, speed); err != nil {
		return err
	}
	return h.MoveRel(ctx, 0, 0, -(pen + 10000))
}

// PutSample expels the syringe into a tray position.
func (h *Head) PutSample(ctx context.Context, t Target, penetration int) error {
	pen, err := h.penetration(t.Tray, penetration)
	if err != nil {
		return err
	}
	speed, err := h.Syringe.DispenseSpeed()
	if err != nil {
		return err
	}
	if err := h.MoveTo(ctx, t); err != nil {
		return fmt.Errorf("put sample to %s: %w", t, err)
	}
	if err := h.Penetrate(ctx, pen); err != nil {
		return err
	}
	return h.Motor(ctx, 0, speed)
}

// PutSampleRinse expels into a tray position, then draws 5 µL of it back and
// expels again to rinse the needle.
func (h *Head) PutSampleRinse(ctx context.Context, t Target, penetration int) error {
	pen, err := h.penetration(t.Tray, penetration)
	if err != nil {
		return err
	}
	speed, err := h.Syringe.Speed()
	if err != nil {
		return err
	}
	if h.Syringe == 10 {
		speed = FastDispenseSpeed
	}
	if err := h.MoveTo(ctx, t); err != nil {
		return fmt.Errorf("put sample to %s: %w", t, err)
	}
	if err := h.Penetrate(ctx, pen); err != nil {
		return err
	}
	if err := h.Motor(ctx, 0, speed); err != nil {
		return err
	}
	if err := h.MovePlunger(ctx, 5, 5000); err != nil {
		return err
	}
	return h.Motor(ctx, 0, speed)
}

func (h *Head) penetration(tray string, override int) (int, error) {
	if override != 0 {
		if _, err := h.Layout.Tray(tray); err != nil {
			return 0, err
		}
		return override, nil
	}
	return h.Penetration(tray)
}

// Home returns the head to the origin and empties the plunger.
func (h *Head) Home(ctx context.Context) error {
	if err := h.send(ctx, MoveAbs(Position{})); err != nil {
		return err
	}
	h.Current = h.HomePos
	return h.Motor(ctx, 0, DefaultMotorSpeed)
}

// Change parks the head where the syringe can be swapped.
func (h *Head) Change(ctx context.Context) error {
	if err := h.MoveFree(ctx, changePosition); err != nil {
		return err
	}
	return h.Motor(ctx, changePlungerHeight, DefaultMotorSpeed)
}
