package palbot

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	DefaultPort = "COM3"
	DefaultBaud = 9600

	// DefaultPenetration is the plunge depth used when no tray depth applies.
	DefaultPenetration = 33000
	// MaxPenetration caps the plunge depth for every syringe.
	MaxPenetration = 48000
	// DefaultMotorSpeed is the plunger speed when none is given.
	DefaultMotorSpeed = 5000
	// FastDispenseSpeed empties the small syringes in one stroke.
	FastDispenseSpeed = 100000
)

// Syringe is a syringe size in µL.
type Syringe int

type calibration struct {
	heightPerUL decimal.Decimal
	speed       int
	offset      int
}

var syringes = map[Syringe]calibration{
	10:   {heightPerUL: decimal.NewFromInt(1900), speed: 5000, offset: 0},
	25:   {heightPerUL: decimal.NewFromInt(790), speed: 5000, offset: 0},
	100:  {heightPerUL: decimal.NewFromInt(198), speed: 4000, offset: -8500},
	1000: {heightPerUL: decimal.RequireFromString("19.8"), speed: 5000, offset: -7500},
}

// Syringes lists the calibrated sizes in ascending order.
func Syringes() []Syringe {
	return []Syringe{10, 25, 100, 1000}
}

func (s Syringe) lookup() (calibration, error) {
	sp, ok := syringes[s]
	if !ok {
		return calibration{}, fmt.Errorf("%w: %d µL", ErrUnknownSyringe, int(s))
	}
	return sp, nil
}

// Validate reports whether the syringe has calibration data.
func (s Syringe) Validate() error {
	_, err := s.lookup()
	return err
}

// Height converts a volume in µL into a plunger motor height. Halves round to
// even.
func (s Syringe) Height(volume float64) (int, error) {
	sp, err := s.lookup()
	if err != nil {
		return 0, err
	}
	h := decimal.NewFromFloat(volume).Mul(sp.heightPerUL).RoundBank(0)
	return int(h.IntPart()), nil
}

// Speed is the plunger speed used when drawing with this syringe.
func (s Syringe) Speed() (int, error) {
	sp, err := s.lookup()
	if err != nil {
		return 0, err
	}
	return sp.speed, nil
}

// DispenseSpeed is the plunger speed used when expelling into a tray.
func (s Syringe) DispenseSpeed() (int, error) {
	sp, err := s.lookup()
	if err != nil {
		return 0, err
	}
	if s == 10 || s == 100 {
		return FastDispenseSpeed, nil
	}
	return sp.speed, nil
}

// Penetration is the plunge depth into a tray of the given depth, corrected
// for the needle length of this syringe and capped at MaxPenetration.
func (s Syringe) Penetration(depth float64) (int, error) {
	sp, err := s.lookup()
	if err != nil {
		return 0, err
	}
	p := int(depth) + sp.offset
	if p > MaxPenetration {
		p = MaxPenetration
	}
	return p, nil
}
