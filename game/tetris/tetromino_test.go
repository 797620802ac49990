package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// normalized returns the cells of t relative to the top-left corner of their
// bounding box.
func normalized(t Tetromino) [4]Point {
	lowest := t.Cells[0]
	for _, p := range t.Cells {
		lowest.X = min(lowest.X, p.X)
		lowest.Y = min(lowest.Y, p.Y)
	}

	var out [4]Point
	for i, p := range t.Cells {
		out[i] = Point{X: p.X - lowest.X, Y: p.Y - lowest.Y}
	}
	return out
}

func TestSpawn(t *testing.T) {
	specs := []struct {
		kind Kind
		exp  [4]Point
	}{
		{Line, [4]Point{{4, 1}, {5, 1}, {6, 1}, {7, 1}}},
		{L, [4]Point{{4, 0}, {6, 1}, {5, 0}, {6, 0}}},
		{ReverseL, [4]Point{{4, 0}, {4, 1}, {5, 0}, {6, 0}}},
		{Square, [4]Point{{5, 0}, {6, 0}, {5, 1}, {6, 1}}},
		{Five, [4]Point{{5, 0}, {6, 0}, {4, 1}, {5, 1}}},
		{S, [4]Point{{4, 0}, {5, 0}, {5, 1}, {6, 1}}},
		{T, [4]Point{{4, 0}, {5, 0}, {6, 0}, {5, 1}}},
	}

	for _, spec := range specs {
		piece := Spawn(spec.kind, SpawnOffset)
		assert.Equal(t, spec.kind, piece.Kind)
		assert.Equal(t, spec.exp, piece.Cells, "kind %d", spec.kind)
	}
}

func TestKindTokens(t *testing.T) {
	exp := []Token{0x0700, 0x0400, 0x0200, 0x0100, 0x0500, 0x0e00, 0x0300}
	for k := Kind(0); k < NumKinds; k++ {
		assert.Equal(t, exp[k], k.Token())
		assert.NotEqual(t, Empty, k.Token())
	}
}

func TestKindFromTicks(t *testing.T) {
	assert.Equal(t, Line, KindFromTicks(0))
	assert.Equal(t, T, KindFromTicks(6))
	assert.Equal(t, Line, KindFromTicks(7))
	assert.Equal(t, Square, KindFromTicks(703))
}

func TestRotated(t *testing.T) {
	specs := []struct {
		piece Tetromino
		exp   [4]Point
	}{
		// A horizontal line turns into a vertical one in its left column.
		{Spawn(Line, SpawnOffset), [4]Point{{4, 4}, {4, 3}, {4, 2}, {4, 1}}},
		// A square keeps its footprint.
		{Spawn(Square, SpawnOffset), [4]Point{{5, 1}, {5, 0}, {6, 1}, {6, 0}}},
		{Spawn(T, 0), [4]Point{{0, 2}, {0, 1}, {0, 0}, {1, 1}}},
		{Spawn(L, 0), [4]Point{{0, 2}, {1, 0}, {0, 1}, {0, 0}}},
	}

	for i, spec := range specs {
		got := spec.piece.Rotated()
		assert.Equal(t, spec.exp, got.Cells, "spec %d", i)
		assert.Equal(t, spec.piece.Kind, got.Kind)
	}
}

func TestRotateFourTimesKeepsShape(t *testing.T) {
	for k := Kind(0); k < NumKinds; k++ {
		piece := Spawn(k, SpawnOffset).Translated(Point{Y: 5})
		rotated := piece
		for i := 0; i < 4; i++ {
			rotated = rotated.Rotated()
		}
		assert.Equal(t, normalized(piece), normalized(rotated), "kind %d", k)
	}
}

func TestRotateRejectedAtEdge(t *testing.T) {
	var g Grid

	// A vertical line against the right wall cannot turn horizontal since
	// there are no wall kicks.
	piece := Tetromino{Kind: Line, Cells: [4]Point{{9, 19}, {9, 18}, {9, 17}, {9, 16}}}
	g.Place(piece, Line.Token())

	rotated := piece.Rotated()
	assert.False(t, g.Fits(rotated))
	assert.False(t, g.Rotate(&piece))
	assert.Equal(t, [4]Point{{9, 19}, {9, 18}, {9, 17}, {9, 16}}, piece.Cells)
	assert.Equal(t, 4, g.Filled())
}
