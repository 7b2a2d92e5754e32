package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"card-grader/internal/domain/entity"
)

func rectQuad(x0, y0, x1, y1 float64) entity.Quad {
	return entity.Quad{
		TL: entity.Point{X: x0, Y: y0},
		TR: entity.Point{X: x1, Y: y0},
		BR: entity.Point{X: x1, Y: y1},
		BL: entity.Point{X: x0, Y: y1},
	}
}

func TestOrderPoints_Shuffled(t *testing.T) {
	want := entity.Quad{
		TL: entity.Point{X: 12, Y: 10},
		TR: entity.Point{X: 110, Y: 14},
		BR: entity.Point{X: 105, Y: 150},
		BL: entity.Point{X: 8, Y: 146},
	}
	got, err := OrderPoints([4]entity.Point{want.BR, want.TL, want.BL, want.TR})
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestOrderPoints_Idempotent(t *testing.T) {
	q := rectQuad(5, 7, 105, 207)
	once, err := OrderPoints(q.Points())
	require.NoError(t, err)
	twice, err := OrderPoints(once.Points())
	require.NoError(t, err)
	require.Equal(t, q, once)
	require.Equal(t, once, twice)
}

func TestOrderPoints_Diamond(t *testing.T) {
	top := entity.Point{X: 50, Y: 0}
	right := entity.Point{X: 100, Y: 50}
	bottom := entity.Point{X: 50, Y: 100}
	left := entity.Point{X: 0, Y: 50}

	got, err := OrderPoints([4]entity.Point{right, left, bottom, top})
	require.NoError(t, err)
	require.Equal(t, entity.Quad{TL: top, TR: right, BR: bottom, BL: left}, got)
	require.InDelta(t, 5000.0, got.Area(), 1e-9)

	again, err := OrderPoints(got.Points())
	require.NoError(t, err)
	require.Equal(t, got, again)
}

func TestOrderPoints_Degenerate(t *testing.T) {
	collinear := [4]entity.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}
	_, err := OrderPoints(collinear)
	require.ErrorIs(t, err, entity.ErrDegenerateGeometry)

	coincident := [4]entity.Point{{X: 4, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 4}}
	_, err = OrderPoints(coincident)
	require.ErrorIs(t, err, entity.ErrDegenerateGeometry)
}

func TestRectify_AxisAlignedIdentity(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 84))
	for y := 0; y < 84; y++ {
		for x := 0; x < 60; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 3), B: 9, A: 255})
		}
	}

	out, err := Rectify(img, rectQuad(0, 0, 60, 84), 1)
	require.NoError(t, err)
	require.Equal(t, 60, out.Rect.Dx())
	require.Equal(t, 84, out.Rect.Dy())
	require.Equal(t, img.Pix, out.Pix)
}

func TestRectify_SizeFromLongerEdges(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	q := entity.Quad{
		TL: entity.Point{X: 20, Y: 20},
		TR: entity.Point{X: 120, Y: 20},
		BR: entity.Point{X: 130, Y: 170},
		BL: entity.Point{X: 10, Y: 170},
	}
	w, h := RectifiedSize(q)
	require.Equal(t, 120, w)
	require.Equal(t, 150, h)

	out, err := Rectify(img, q, 1)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 120, 150), out.Rect)
}

func TestRectify_Degenerate(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	_, err := Rectify(img, rectQuad(2, 2, 2.5, 2.5), 1)
	require.ErrorIs(t, err, entity.ErrDegenerateGeometry)
}

func TestPixelsPerMillimetre(t *testing.T) {
	require.InDelta(t, 10.0, PixelsPerMillimetre(635, 889), 1e-9)

	for _, size := range [][2]int{{254, 356}, {63, 89}, {1000, 1400}} {
		single := PixelsPerMillimetre(size[0], size[1])
		double := PixelsPerMillimetre(2*size[0], 2*size[1])
		require.InDelta(t, 2*single, double, 1e-9)
		require.Greater(t, single, 0.0)
	}
}
