package vision

import (
	"fmt"
	"image"
	"math"
	"sort"

	"card-grader/internal/domain/entity"
	"card-grader/internal/infrastructure/imgproc"
)

// OrderPoints раскладывает четыре точки в порядок TL, TR, BR, BL:
// минимум x+y - левый верхний, максимум - правый нижний,
// минимум y-x - правый верхний, максимум - левый нижний.
// Если правило выбирает одну точку дважды (ромб, повёрнутый на 45°),
// точки упорядочиваются по углу вокруг центра.
func OrderPoints(pts [4]entity.Point) (entity.Quad, error) {
	tl, br, tr, bl := 0, 0, 0, 0
	for i, p := range pts {
		if p.X+p.Y < pts[tl].X+pts[tl].Y {
			tl = i
		}
		if p.X+p.Y > pts[br].X+pts[br].Y {
			br = i
		}
		if p.Y-p.X < pts[tr].Y-pts[tr].X {
			tr = i
		}
		if p.Y-p.X > pts[bl].Y-pts[bl].X {
			bl = i
		}
	}

	q := entity.Quad{TL: pts[tl], TR: pts[tr], BR: pts[br], BL: pts[bl]}
	seen := map[int]bool{tl: true, tr: true, br: true, bl: true}
	if len(seen) != 4 {
		q = orderByAngle(pts)
	}
	if q.Area() < 1e-9 {
		return entity.Quad{}, fmt.Errorf("%w: points are collinear or coincident", entity.ErrDegenerateGeometry)
	}
	return q, nil
}

// orderByAngle обход по часовой стрелке (ось y вниз) от точки с минимальным x+y.
func orderByAngle(pts [4]entity.Point) entity.Quad {
	var cx, cy float64
	for _, p := range pts {
		cx += p.X / 4
		cy += p.Y / 4
	}

	sorted := pts
	sort.SliceStable(sorted[:], func(i, j int) bool {
		return math.Atan2(sorted[i].Y-cy, sorted[i].X-cx) < math.Atan2(sorted[j].Y-cy, sorted[j].X-cx)
	})

	start := 0
	for i, p := range sorted {
		if p.X+p.Y < sorted[start].X+sorted[start].Y {
			start = i
		}
	}
	return entity.Quad{
		TL: sorted[start],
		TR: sorted[(start+1)%4],
		BR: sorted[(start+2)%4],
		BL: sorted[(start+3)%4],
	}
}

// RectifiedSize размер выпрямленной карты: максимум длин противоположных сторон.
func RectifiedSize(q entity.Quad) (w, h int) {
	width := math.Max(q.BR.Distance(q.BL), q.TR.Distance(q.TL))
	height := math.Max(q.TR.Distance(q.BR), q.TL.Distance(q.BL))
	return int(math.Round(width)), int(math.Round(height))
}

// Rectify проецирует область карты на прямоугольник (четырёхточечное преобразование).
func Rectify(img *image.RGBA, q entity.Quad, minArea float64) (*image.RGBA, error) {
	ordered, err := OrderPoints(q.Points())
	if err != nil {
		return nil, err
	}
	if area := ordered.Area(); area < minArea {
		return nil, fmt.Errorf("%w: quad area %.3f", entity.ErrDegenerateGeometry, area)
	}

	w, h := RectifiedSize(ordered)
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: rectified size %dx%d", entity.ErrDegenerateGeometry, w, h)
	}

	warped, err := imgproc.WarpQuad(img, ordered, w, h)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDegenerateGeometry, err)
	}
	return warped, nil
}

// PixelsPerMillimetre коэффициент калибровки: среднее масштабов по ширине и высоте.
func PixelsPerMillimetre(w, h int) float64 {
	ppmW := float64(w) / entity.CardWidthMM
	ppmH := float64(h) / entity.CardHeightMM
	return (ppmW + ppmH) / 2
}
