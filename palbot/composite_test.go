package palbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pair(t *testing.T) (*Grid, *Grid, *Composite) {
	t.Helper()
	a := mustGrid(t, "A", Geometry{X: 0, Width: 10, Length: 20, Columns: 2, Rows: 3})
	b := mustGrid(t, "B", Geometry{X: 100, Width: 10, Length: 20, Columns: 2, Rows: 3})
	c, err := NewComposite("AB", a, b)
	require.NoError(t, err)
	return a, b, c
}

func TestComposite_Routing(t *testing.T) {
	a, b, c := pair(t)
	assert.Equal(t, 6, c.PositionsPerTray())
	assert.Equal(t, 12, c.MaxPosition())
	assert.Equal(t, []string{"A", "B"}, c.MemberNames())

	for _, dir := range []Direction{ColumnsFirst, RowsFirst} {
		got, err := c.Resolve(7, dir)
		require.NoError(t, err)
		want, err := b.Resolve(1, dir)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, Position{100, 0, 0}, got)

		for pos := 1; pos <= 6; pos++ {
			got, err := c.Resolve(pos, dir)
			require.NoError(t, err)
			want, err := a.Resolve(pos, dir)
			require.NoError(t, err)
			assert.Equal(t, want, got, "position %d", pos)

			got, err = c.Resolve(pos+6, dir)
			require.NoError(t, err)
			want, err = b.Resolve(pos, dir)
			require.NoError(t, err)
			assert.Equal(t, want, got, "position %d", pos+6)
		}
	}
}

func TestComposite_DirectionIsPerCall(t *testing.T) {
	a, _, c := pair(t)
	byRow, err := c.Resolve(2, RowsFirst)
	require.NoError(t, err)
	byCol, err := c.Resolve(2, ColumnsFirst)
	require.NoError(t, err)
	assert.NotEqual(t, byRow, byCol)

	// resolving through the composite leaves the member untouched
	direct, err := a.Resolve(2, ColumnsFirst)
	require.NoError(t, err)
	assert.Equal(t, byCol, direct)
}

func TestComposite_OutOfRange(t *testing.T) {
	_, _, c := pair(t)
	for _, pos := range []int{0, -3, 13, 50} {
		_, err := c.Resolve(pos, ColumnsFirst)
		assert.ErrorIs(t, err, ErrPositionOutOfRange, "position %d", pos)
	}
}

func TestComposite_Locate(t *testing.T) {
	_, b, c := pair(t)
	g, local, err := c.Locate(12)
	require.NoError(t, err)
	assert.Same(t, b, g)
	assert.Equal(t, 6, local)
}

func TestNewComposite_Mismatch(t *testing.T) {
	a := mustGrid(t, "A", Geometry{Columns: 2, Rows: 3})
	b := mustGrid(t, "B", Geometry{Columns: 3, Rows: 2})
	_, err := NewComposite("AB", a, b)
	require.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "not compatible")
}

func TestNewComposite_Empty(t *testing.T) {
	_, err := NewComposite("none")
	assert.ErrorIs(t, err, ErrConfig)
}

func TestNewComposite_CopiesMembers(t *testing.T) {
	a := mustGrid(t, "A", Geometry{Columns: 1, Rows: 1})
	b := mustGrid(t, "B", Geometry{X: 5, Columns: 1, Rows: 1})
	members := []*Grid{a, b}
	c, err := NewComposite("AB", members...)
	require.NoError(t, err)
	members[0] = b

	p, err := c.Resolve(1, ColumnsFirst)
	require.NoError(t, err)
	assert.Equal(t, 0, p.X)
}
