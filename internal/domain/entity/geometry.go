package entity

import "math"

// Point точка в координатах изображения (пиксели, вещественные).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance возвращает евклидово расстояние до другой точки.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Quad четыре угла карты на исходном изображении.
// Порядок фиксирован: левый верхний, правый верхний, правый нижний, левый нижний.
type Quad struct {
	TL Point `json:"tl"`
	TR Point `json:"tr"`
	BR Point `json:"br"`
	BL Point `json:"bl"`
}

// Points возвращает углы в каноническом порядке.
func (q Quad) Points() [4]Point {
	return [4]Point{q.TL, q.TR, q.BR, q.BL}
}

// Area площадь четырёхугольника (формула шнурования).
func (q Quad) Area() float64 {
	pts := q.Points()
	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(sum) / 2
}

// Box прямоугольник, выровненный по осям, в пикселях выпрямленного изображения.
type Box struct {
	X      int `json:"x"`      // координата X левого верхнего угла
	Y      int `json:"y"`      // координата Y левого верхнего угла
	Width  int `json:"width"`  // ширина в пикселях
	Height int `json:"height"` // высота в пикселях
}

// Right возвращает X правой границы (не включительно).
func (b Box) Right() int {
	return b.X + b.Width
}

// Bottom возвращает Y нижней границы (не включительно).
func (b Box) Bottom() int {
	return b.Y + b.Height
}
