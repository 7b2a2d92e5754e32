package vision

import (
	"image"
	"image/color"
	"io"

	"github.com/sirupsen/logrus"
)

var (
	background = color.RGBA{R: 30, G: 60, B: 160, A: 255}
	cardColor  = color.RGBA{R: 200, G: 180, B: 60, A: 255}
	artColor   = color.RGBA{R: 60, G: 40, B: 90, A: 255}
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(DefaultParams(), testLogger())
}

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// syntheticPhoto снимок: однотонный фон, карта 254x356 (пропорции 63.5x88.9)
// по центру и, если withArt, тёмная печатная область по центру карты.
func syntheticPhoto(withArt bool) (*image.RGBA, image.Rectangle, image.Rectangle) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 500))
	fill(img, img.Rect, background)

	card := image.Rect(73, 72, 73+254, 72+356)
	fill(img, card, cardColor)

	art := image.Rect(card.Min.X+25, card.Min.Y+30, card.Max.X-25, card.Max.Y-30)
	if withArt {
		fill(img, art, artColor)
	}
	return img, card, art
}

// syntheticCard уже выпрямленная карта w x h с печатной областью art.
func syntheticCard(w, h int, art image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(img, img.Rect, cardColor)
	if !art.Empty() {
		fill(img, art, artColor)
	}
	return img
}
