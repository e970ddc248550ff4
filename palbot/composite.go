package palbot

import (
	"fmt"
	"strings"
)

// Composite addresses several identically shaped trays as one. Position 1 of
// the second member follows the last position of the first.
type Composite struct {
	name    string
	members []*Grid
}

var _ Tray = (*Composite)(nil)

// NewComposite rejects an empty member list and members that do not share the
// first member's columns and rows.
func NewComposite(name string, members ...*Grid) (*Composite, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: combined tray has no name", ErrConfig)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: combined tray %q has no members", ErrConfig, name)
	}
	first := members[0]
	for _, m := range members[1:] {
		if m.Columns() != first.Columns() || m.Rows() != first.Rows() {
			return nil, fmt.Errorf("%w: trays for combined tray %q not compatible: %q is %dx%d, %q is %dx%d",
				ErrConfig, name, first.Name(), first.Columns(), first.Rows(),
				m.Name(), m.Columns(), m.Rows())
		}
	}
	return &Composite{
		name:    name,
		members: append([]*Grid(nil), members...),
	}, nil
}

func (c *Composite) tray() {}

func (c *Composite) Name() string { return c.name }

func (c *Composite) Columns() int { return c.members[0].Columns() }

func (c *Composite) Rows() int { return c.members[0].Rows() }

func (c *Composite) PositionsPerTray() int { return c.Columns() * c.Rows() }

func (c *Composite) MaxPosition() int { return c.PositionsPerTray() * len(c.members) }

func (c *Composite) Depth() float64 { return c.members[0].Depth() }

func (c *Composite) Volume() float64 { return c.members[0].Volume() }

// Members returns the member trays in addressing order.
func (c *Composite) Members() []*Grid {
	return append([]*Grid(nil), c.members...)
}

// MemberNames returns the member tray names in addressing order.
func (c *Composite) MemberNames() []string {
	names := make([]string, len(c.members))
	for i, m := range c.members {
		names[i] = m.Name()
	}
	return names
}

// Locate splits a global position into the member tray and its local position.
func (c *Composite) Locate(position int) (*Grid, int, error) {
	if position < 1 || position > c.MaxPosition() {
		return nil, 0, fmt.Errorf("%w: %d not in [1, %d] for combined tray %q (%s)",
			ErrPositionOutOfRange, position, c.MaxPosition(), c.name,
			strings.Join(c.MemberNames(), ", "))
	}
	per := c.PositionsPerTray()
	idx := (position - 1) / per
	return c.members[idx], (position-1)%per + 1, nil
}

func (c *Composite) Resolve(position int, dir Direction) (Position, error) {
	member, local, err := c.Locate(position)
	if err != nil {
		return Position{}, err
	}
	return member.Resolve(local, dir)
}
