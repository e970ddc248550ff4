package palbot

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Direction is the order in which a linear position walks the cells of a tray.
type Direction uint8

const (
	// ColumnsFirst fills a column top to bottom before moving to the next one.
	ColumnsFirst Direction = iota
	// RowsFirst fills a row left to right before moving to the next one.
	RowsFirst
)

func (d Direction) String() string {
	switch d {
	case ColumnsFirst:
		return "columns"
	case RowsFirst:
		return "rows"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// ParseDirection accepts "columns" or "rows" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "columns", "column", "cols":
		return ColumnsFirst, nil
	case "rows", "row":
		return RowsFirst, nil
	}
	return ColumnsFirst, fmt.Errorf("unknown direction %q: expected columns or rows", s)
}

// Position is an absolute head coordinate in device units.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

// Tray is an addressable set of sample positions. It is implemented by *Grid
// and *Composite only.
type Tray interface {
	Name() string
	Columns() int
	Rows() int
	MaxPosition() int
	Depth() float64
	Volume() float64
	// Resolve maps a 1-based position to head coordinates.
	Resolve(position int, dir Direction) (Position, error)

	tray()
}

// Geometry is the physical description of a single tray, as stored in a
// setup file. X, Y and Z locate position 1.
type Geometry struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Length  float64 `json:"length"`
	Width   float64 `json:"width"`
	Columns int     `json:"columns"`
	Rows    int     `json:"rows"`
	Depth   float64 `json:"depth"`
	Volume  float64 `json:"volume"`
}

// Grid is a single physical tray: a well plate, vial rack, wash station, etc.
// Its geometry is fixed at construction.
type Grid struct {
	name string
	geo  Geometry

	originX, originY, originZ decimal.Decimal
	width, length             decimal.Decimal
}

var _ Tray = (*Grid)(nil)

func NewGrid(name string, geo Geometry) (*Grid, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: tray has no name", ErrConfig)
	}
	if geo.Columns < 1 || geo.Rows < 1 {
		return nil, fmt.Errorf("%w: tray %q needs at least one column and row, got %dx%d",
			ErrConfig, name, geo.Columns, geo.Rows)
	}
	return &Grid{
		name:    name,
		geo:     geo,
		originX: decimal.NewFromFloat(geo.X),
		originY: decimal.NewFromFloat(geo.Y),
		originZ: decimal.NewFromFloat(geo.Z),
		width:   decimal.NewFromFloat(geo.Width),
		length:  decimal.NewFromFloat(geo.Length),
	}, nil
}

func (g *Grid) tray() {}

func (g *Grid) Name() string { return g.name }

func (g *Grid) Columns() int { return g.geo.Columns }

func (g *Grid) Rows() int { return g.geo.Rows }

func (g *Grid) MaxPosition() int { return g.geo.Columns * g.geo.Rows }

func (g *Grid) Depth() float64 { return g.geo.Depth }

func (g *Grid) Volume() float64 { return g.geo.Volume }

// Geometry returns the tray's setup record.
func (g *Grid) Geometry() Geometry { return g.geo }

// DistanceX is the spacing between neighbouring columns.
func (g *Grid) DistanceX() float64 {
	if g.geo.Columns < 2 {
		return 0
	}
	return g.geo.Width / float64(g.geo.Columns-1)
}

// DistanceY is the spacing between neighbouring rows.
func (g *Grid) DistanceY() float64 {
	if g.geo.Rows < 2 {
		return 0
	}
	return g.geo.Length / float64(g.geo.Rows-1)
}

// Cell returns the zero-based column and row of a position.
func (g *Grid) Cell(position int, dir Direction) (col, row int, err error) {
	if position < 1 || position > g.MaxPosition() {
		return 0, 0, fmt.Errorf("%w: %d not in [1, %d] for tray %q",
			ErrPositionOutOfRange, position, g.MaxPosition(), g.name)
	}
	p := position - 1
	if dir == RowsFirst {
		return p % g.geo.Columns, p / g.geo.Columns, nil
	}
	return p / g.geo.Rows, p % g.geo.Rows, nil
}

// Number is the inverse of Cell.
func (g *Grid) Number(col, row int, dir Direction) int {
	if dir == RowsFirst {
		return row*g.geo.Columns + col + 1
	}
	return col*g.geo.Rows + row + 1
}

func (g *Grid) Resolve(position int, dir Direction) (Position, error) {
	col, row, err := g.Cell(position, dir)
	if err != nil {
		return Position{}, err
	}
	return g.at(col, row), nil
}

// at computes col*width/(C-1) before dividing so evenly spaced wells land on
// whole device units.
func (g *Grid) at(col, row int) Position {
	x, y := g.originX, g.originY
	if g.geo.Columns > 1 {
		x = x.Add(g.width.Mul(decimal.NewFromInt(int64(col))).
			Div(decimal.NewFromInt(int64(g.geo.Columns - 1))))
	}
	if g.geo.Rows > 1 {
		y = y.Add(g.length.Mul(decimal.NewFromInt(int64(row))).
			Div(decimal.NewFromInt(int64(g.geo.Rows - 1))))
	}
	return Position{
		X: int(x.IntPart()),
		Y: int(y.IntPart()),
		Z: int(g.originZ.IntPart()),
	}
}

// Cells lays out every well of the tray, indexed [row][col].
func (g *Grid) Cells() [][]Position {
	cells := make([][]Position, g.geo.Rows)
	for row := 0; row < g.geo.Rows; row++ {
		cells[row] = make([]Position, g.geo.Columns)
		for col := 0; col < g.geo.Columns; col++ {
			cells[row][col] = g.at(col, row)
		}
	}
	return cells
}
