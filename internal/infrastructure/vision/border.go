package vision

import (
	"image"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"card-grader/internal/domain/entity"
)

type rgb [3]float64

// Borders толщина фона с каждой стороны, пиксели.
type Borders struct {
	Left, Right, Top, Bottom float64
}

// DetectBorder ищет контур карты, сканируя изображение от краёв внутрь.
//
// Для каждой стороны берётся средний цвет крайней строки/столбца; вдоль нескольких
// линий через центр ищется первый пиксель, отличающийся от него больше допуска.
// Оценки по линиям сводятся медианой, толщина каждой стороны не меньше
// MinBorderFraction от меньшей стороны изображения. Результат всегда определён.
func (a *Analyzer) DetectBorder(img *image.RGBA) (entity.Quad, Borders) {
	p := a.params
	w, h := img.Rect.Dx(), img.Rect.Dy()

	rows := scanOffsets(h, p.ScanLines, p.ScanSpacing)
	cols := scanOffsets(w, p.ScanLines, p.ScanSpacing)

	topRef := meanColor(img, 0, 0, 1, 0, w)
	bottomRef := meanColor(img, 0, h-1, 1, 0, w)
	leftRef := meanColor(img, 0, 0, 0, 1, h)
	rightRef := meanColor(img, w-1, 0, 0, 1, h)

	top := make([]float64, 0, len(cols))
	bottom := make([]float64, 0, len(cols))
	for _, x := range cols {
		top = append(top, float64(scanInward(img, x, 0, 0, 1, h, p.ScanStep, topRef, p.ColorTolerance)))
		bottom = append(bottom, float64(scanInward(img, x, h-1, 0, -1, h, p.ScanStep, bottomRef, p.ColorTolerance)))
	}
	left := make([]float64, 0, len(rows))
	right := make([]float64, 0, len(rows))
	for _, y := range rows {
		left = append(left, float64(scanInward(img, 0, y, 1, 0, w, p.ScanStep, leftRef, p.ColorTolerance)))
		right = append(right, float64(scanInward(img, w-1, y, -1, 0, w, p.ScanStep, rightRef, p.ColorTolerance)))
	}

	minInset := p.MinBorderFraction * float64(min(w, h))
	b := Borders{
		Left:   math.Max(median(left), minInset),
		Right:  math.Max(median(right), minInset),
		Top:    math.Max(median(top), minInset),
		Bottom: math.Max(median(bottom), minInset),
	}

	fw, fh := float64(w), float64(h)
	q := entity.Quad{
		TL: entity.Point{X: b.Left, Y: b.Top},
		TR: entity.Point{X: fw - b.Right, Y: b.Top},
		BR: entity.Point{X: fw - b.Right, Y: fh - b.Bottom},
		BL: entity.Point{X: b.Left, Y: fh - b.Bottom},
	}
	return q, b
}

// scanOffsets возвращает count координат линий вокруг центра отрезка длины n,
// с шагом spacing*n, в пределах [0, n-1].
func scanOffsets(n, count int, spacing float64) []int {
	if count < 1 {
		count = 1
	}
	if count%2 == 0 {
		count++
	}
	center := n / 2
	step := spacing * float64(n)
	half := count / 2
	offsets := make([]int, 0, count)
	for k := -half; k <= half; k++ {
		o := center + int(math.Round(float64(k)*step))
		offsets = append(offsets, min(max(o, 0), n-1))
	}
	return offsets
}

// meanColor средний цвет n пикселей начиная с (x, y) с шагом (dx, dy).
func meanColor(img *image.RGBA, x, y, dx, dy, n int) rgb {
	var sum rgb
	for i := 0; i < n; i++ {
		c := pixel(img, x+i*dx, y+i*dy)
		for k := range sum {
			sum[k] += c[k]
		}
	}
	for k := range sum {
		sum[k] /= float64(n)
	}
	return sum
}

// scanInward идёт от (x, y) в направлении (dx, dy) и возвращает расстояние
// до первого пикселя, отличного от ref больше tol; 0, если такого нет.
func scanInward(img *image.RGBA, x, y, dx, dy, n, step int, ref rgb, tol float64) int {
	if step < 1 {
		step = 1
	}
	for i := 0; i < n; i += step {
		if colorDistance(pixel(img, x+i*dx, y+i*dy), ref) > tol {
			return i
		}
	}
	return 0
}

func pixel(img *image.RGBA, x, y int) rgb {
	i := y*img.Stride + x*4
	return rgb{float64(img.Pix[i]), float64(img.Pix[i+1]), float64(img.Pix[i+2])}
}

func colorDistance(a, b rgb) float64 {
	dr, dg, db := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}
