package imgproc

import "image"

// AdaptiveMethod способ вычисления локального порога.
type AdaptiveMethod int

const (
	AdaptiveMean     AdaptiveMethod = iota // среднее по окну
	AdaptiveGaussian                       // гауссово взвешенное среднее
)

// Region внешняя связная область бинарной маски.
type Region struct {
	Bounds image.Rectangle // ограничивающий прямоугольник
	Area   float64         // площадь вместе с дырами и вложенными областями
}
