package vision

import (
	"image"

	"card-grader/internal/domain/entity"
	"card-grader/internal/infrastructure/imgproc"
)

// DetectInnerBox ищет рамку печатной области (арт и текст) на выпрямленной карте.
// Возвращает false, если ни одна область не прошла фильтр.
func (a *Analyzer) DetectInnerBox(card *image.RGBA) (entity.Box, bool) {
	p := a.params
	w, h := card.Rect.Dx(), card.Rect.Dy()
	cardArea := float64(w * h)

	gray := imgproc.Grayscale(card)
	blur := imgproc.GaussianBlur(gray, p.InnerBlurKernel)
	mask := imgproc.AdaptiveThreshold(blur, imgproc.AdaptiveGaussian, true, p.InnerBlockSize, p.InnerC)

	var (
		best     entity.Box
		bestArea float64
		found    bool
	)
	for _, r := range imgproc.ExternalRegions(mask) {
		if r.Area < p.MinRegionAreaRatio*cardArea || r.Area > p.MaxRegionAreaRatio*cardArea {
			continue
		}
		if float64(r.Bounds.Dx()) < p.MinRegionSideRatio*float64(w) || float64(r.Bounds.Dy()) < p.MinRegionSideRatio*float64(h) {
			continue
		}
		if !found || r.Area > bestArea {
			best = entity.Box{X: r.Bounds.Min.X, Y: r.Bounds.Min.Y, Width: r.Bounds.Dx(), Height: r.Bounds.Dy()}
			bestArea = r.Area
			found = true
		}
	}
	return best, found
}

// FallbackBox рамка с отступом inset, покрывающая долю coverage каждой стороны.
// Зависит только от размеров карты.
func FallbackBox(w, h int, inset, coverage float64) entity.Box {
	return entity.Box{
		X:      int(float64(w) * inset),
		Y:      int(float64(h) * inset),
		Width:  int(float64(w) * coverage),
		Height: int(float64(h) * coverage),
	}
}

// validInnerBox проверяет, что рамка непустая и не занимает почти всю карту.
func validInnerBox(b entity.Box, w, h int, maxRatio float64) bool {
	if b.Width <= 0 || b.Height <= 0 {
		return false
	}
	return float64(b.Width) <= maxRatio*float64(w) && float64(b.Height) <= maxRatio*float64(h)
}

// ResolveInnerBox возвращает найденную рамку или запасную, если рамка не найдена или невалидна.
func (a *Analyzer) ResolveInnerBox(card *image.RGBA) (entity.Box, bool) {
	w, h := card.Rect.Dx(), card.Rect.Dy()
	box, ok := a.DetectInnerBox(card)
	if ok && validInnerBox(box, w, h, a.params.MaxInnerBoxRatio) {
		return box, false
	}
	return FallbackBox(w, h, a.params.FallbackInset, a.params.FallbackCoverage), true
}
