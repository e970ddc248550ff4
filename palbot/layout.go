package palbot

import (
	"fmt"
	"sort"
)

// Layout describes how individual trays are arranged on the deck. It is built
// once from a setup file and only read afterwards.
type Layout struct {
	trays map[string]Tray
}

func NewLayout() *Layout {
	return &Layout{trays: make(map[string]Tray)}
}

// Add registers a tray. Names are unique across grids and composites.
func (l *Layout) Add(t Tray) error {
	if _, dup := l.trays[t.Name()]; dup {
		return fmt.Errorf("%w: tray %q defined twice", ErrConfig, t.Name())
	}
	l.trays[t.Name()] = t
	return nil
}

// Tray looks a tray up by name.
func (l *Layout) Tray(name string) (Tray, error) {
	t, ok := l.trays[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTray, name)
	}
	return t, nil
}

// Resolve is shorthand for looking a tray up and resolving a position on it.
func (l *Layout) Resolve(name string, position int, dir Direction) (Position, error) {
	t, err := l.Tray(name)
	if err != nil {
		return Position{}, err
	}
	return t.Resolve(position, dir)
}

// Names returns every tray name in sorted order.
func (l *Layout) Names() []string {
	names := make([]string, 0, len(l.trays))
	for name := range l.trays {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Trays returns every tray, sorted by name.
func (l *Layout) Trays() []Tray {
	names := l.Names()
	ret := make([]Tray, len(names))
	for i, name := range names {
		ret[i] = l.trays[name]
	}
	return ret
}

func (l *Layout) Len() int { return len(l.trays) }
