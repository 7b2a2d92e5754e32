package vision

import (
	"image"
	"math"

	"github.com/sirupsen/logrus"

	"card-grader/internal/domain/entity"
	"card-grader/internal/infrastructure/imgproc"
)

const maxScore = 10.0

// SurfaceScore оценка поверхности 0..10 по доле границ после
// адаптивного порога и морфологического открытия.
func (a *Analyzer) SurfaceScore(card *image.RGBA) float64 {
	p := a.params
	gray := imgproc.Grayscale(card)
	blur := imgproc.GaussianBlur(gray, p.SurfaceBlurKernel)
	th := imgproc.AdaptiveThreshold(blur, imgproc.AdaptiveMean, false, p.SurfaceBlockSize, p.SurfaceC)
	th = imgproc.MorphOpen(th, p.SurfaceOpenKernel)
	edges := imgproc.Canny(th, p.SurfaceCannyLow, p.SurfaceCannyHigh)

	damage := imgproc.RatioOfMask(edges)
	return entity.RoundTo(clampScore(maxScore*(1-damage*p.SurfaceSensitivity)), 1)
}

// CornerScores оценки четырёх углов 0..10 в порядке tl, tr, br, bl.
func (a *Analyzer) CornerScores(card *image.RGBA) [4]float64 {
	p := a.params
	w, h := card.Rect.Dx(), card.Rect.Dy()
	cw, ch := a.cornerSize(w, h)

	gray := imgproc.Grayscale(card)
	crops := [4]image.Rectangle{
		image.Rect(0, 0, cw, ch),
		image.Rect(w-cw, 0, w, ch),
		image.Rect(w-cw, h-ch, w, h),
		image.Rect(0, h-ch, cw, h),
	}

	var scores [4]float64
	for i, r := range crops {
		region := cropGray(gray, r)
		edges := imgproc.Canny(region, p.CornerCannyLow, p.CornerCannyHigh)
		bright := imgproc.Threshold(region, p.CornerBrightThreshold)
		variance := imgproc.LaplacianMask(region, p.CornerLaplacianThreshold)

		damage := imgproc.RatioOfMask(imgproc.Union(edges, bright, variance))
		scores[i] = clampScore(maxScore * (1 - damage))

		a.log.WithFields(logrus.Fields{
			"corner": cornerNames[i],
			"damage": entity.RoundTo(damage, 3),
			"score":  entity.RoundTo(scores[i], 1),
		}).Debug("corner damage")
	}
	return scores
}

// CornersScore среднее четырёх угловых оценок, округлённое до 0.1.
func CornersScore(scores [4]float64) float64 {
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return entity.RoundTo(sum/float64(len(scores)), 1)
}

var cornerNames = [4]string{"tl", "tr", "br", "bl"}

// cornerSize размер углового фрагмента пропорционально выпрямленной карте:
// при эталонном разрешении это CornerReferencePx, не больше самой карты.
func (a *Analyzer) cornerSize(w, h int) (int, int) {
	p := a.params
	cw := int(math.Round(float64(p.CornerReferencePx) * float64(w) / float64(p.CornerReferenceWidth)))
	ch := int(math.Round(float64(p.CornerReferencePx) * float64(h) / float64(p.CornerReferenceHeight)))
	return min(max(cw, 1), w), min(max(ch, 1), h)
}

func cropGray(src *image.Gray, r image.Rectangle) *image.Gray {
	r = r.Intersect(src.Rect)
	dst := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+r.Dx()], src.Pix[(r.Min.Y+y)*src.Stride+r.Min.X:])
	}
	return dst
}

func clampScore(s float64) float64 {
	return math.Max(0, math.Min(maxScore, s))
}
