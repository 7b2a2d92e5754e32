package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoxEdges(t *testing.T) {
	b := Box{X: 10, Y: 20, Width: 8, Height: 6}
	require.Equal(t, 18, b.Right())
	require.Equal(t, 26, b.Bottom())
}

func TestQuadArea(t *testing.T) {
	q := Quad{
		TL: Point{X: 0, Y: 0},
		TR: Point{X: 4, Y: 0},
		BR: Point{X: 4, Y: 3},
		BL: Point{X: 0, Y: 3},
	}
	require.InDelta(t, 12.0, q.Area(), 1e-9)
	require.InDelta(t, 5.0, q.TL.Distance(q.BR), 1e-9)

	flat := Quad{TL: Point{X: 0, Y: 0}, TR: Point{X: 1, Y: 1}, BR: Point{X: 2, Y: 2}, BL: Point{X: 3, Y: 3}}
	require.InDelta(t, 0.0, flat.Area(), 1e-9)
}
