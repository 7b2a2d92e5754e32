package vision

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectBorder_CentredCard(t *testing.T) {
	a := newTestAnalyzer()
	img, card, _ := syntheticPhoto(true)

	q, b := a.DetectBorder(img)

	require.InDelta(t, float64(card.Min.X), q.TL.X, 1)
	require.InDelta(t, float64(card.Min.Y), q.TL.Y, 1)
	require.InDelta(t, float64(card.Max.X), q.BR.X, 1)
	require.InDelta(t, float64(card.Max.Y), q.BR.Y, 1)
	require.Equal(t, q.TL.Y, q.TR.Y)
	require.Equal(t, q.TL.X, q.BL.X)
	require.InDelta(t, b.Left, b.Right, 1)
	require.InDelta(t, b.Top, b.Bottom, 1)
}

func TestDetectBorder_UniformImageClampsInset(t *testing.T) {
	a := newTestAnalyzer()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}

	q, b := a.DetectBorder(img)

	require.InDelta(t, 0.1, b.Left, 1e-9)
	require.InDelta(t, 0.1, b.Top, 1e-9)
	require.InDelta(t, 0.1, q.TL.X, 1e-9)
	require.InDelta(t, 0.1, q.TL.Y, 1e-9)
	require.InDelta(t, 9.9, q.BR.X, 1e-9)
	require.InDelta(t, 9.9, q.BR.Y, 1e-9)
}

func TestDetectBorder_SinglePixelImage(t *testing.T) {
	a := newTestAnalyzer()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Pix[3] = 255

	q, b := a.DetectBorder(img)

	require.InDelta(t, 0.01, b.Left, 1e-9)
	require.InDelta(t, 0.01, b.Bottom, 1e-9)
	require.InDelta(t, 0.01, q.TL.X, 1e-9)
	require.InDelta(t, 0.01, q.TL.Y, 1e-9)
	require.InDelta(t, 0.99, q.TR.X, 1e-9)
	require.InDelta(t, 0.01, q.TR.Y, 1e-9)
	require.InDelta(t, 0.99, q.BR.X, 1e-9)
	require.InDelta(t, 0.99, q.BR.Y, 1e-9)
	require.InDelta(t, 0.01, q.BL.X, 1e-9)
	require.InDelta(t, 0.99, q.BL.Y, 1e-9)
}

func TestDetectBorder_OutlierLineIgnored(t *testing.T) {
	a := newTestAnalyzer()
	img, card, _ := syntheticPhoto(false)

	// Пятно фона на карте пересекает только одну из линий сканирования сверху.
	fill(img, image.Rect(195, card.Min.Y, 205, card.Min.Y+40), background)

	q, _ := a.DetectBorder(img)
	require.InDelta(t, float64(card.Min.Y), q.TL.Y, 1)
}

func TestScanOffsets(t *testing.T) {
	require.Equal(t, []int{40, 45, 50, 55, 60}, scanOffsets(100, 5, 0.05))
	require.Len(t, scanOffsets(100, 4, 0.05), 5)
	require.Equal(t, []int{50}, scanOffsets(100, 0, 0.05))
	require.Equal(t, []int{0, 0, 5, 9, 9}, scanOffsets(10, 5, 0.5))
}

func TestMedian(t *testing.T) {
	require.Equal(t, 0.0, median(nil))
	require.Equal(t, 3.0, median([]float64{9, 3, 1}))
	require.Equal(t, 72.0, median([]float64{72, 72, 5, 72, 300}))
}
