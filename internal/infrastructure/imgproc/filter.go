//go:build !gocv
// +build !gocv

package imgproc

import (
	"image"
	"math"
)

type borderFunc func(i, n int) int

// reflect101 отражение без повтора крайнего пикселя: gfedcb|abcdefgh|gfedcba
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}

// replicate повтор крайнего пикселя: aaaaaa|abcdefgh|hhhhhhh
func replicate(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Grayscale переводит RGB в яркость (BT.601).
func Grayscale(img *image.RGBA) *image.Gray {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x := 0; x < w; x++ {
			r, g, b := float64(src[x*4]), float64(src[x*4+1]), float64(src[x*4+2])
			row[x] = clampByte(0.299*r + 0.587*g + 0.114*b)
		}
	}
	return dst
}

// GaussianBlur сглаживает изображение гауссовым ядром ksize x ksize.
func GaussianBlur(src *image.Gray, ksize int) *image.Gray {
	k := gaussianKernel(ksize, 0)
	plane := separable(src, k, reflect101)
	return planeToGray(plane, src.Rect.Dx(), src.Rect.Dy())
}

// Threshold бинаризация: пиксели ярче thresh становятся 255.
func Threshold(src *image.Gray, thresh float64) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy()))
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if float64(src.Pix[y*src.Stride+x]) > thresh {
				dst.Pix[y*dst.Stride+x] = 255
			}
		}
	}
	return dst
}

// AdaptiveThreshold бинаризация по локальному порогу mean(blockSize) - c.
// inverse выделяет пиксели темнее порога.
func AdaptiveThreshold(src *image.Gray, method AdaptiveMethod, inverse bool, blockSize int, c float64) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()

	var k []float64
	if method == AdaptiveGaussian {
		k = gaussianKernel(blockSize, 0)
	} else {
		k = make([]float64, blockSize)
		for i := range k {
			k[i] = 1 / float64(blockSize)
		}
	}
	mean := separable(src, k, replicate)

	// Те же правила округления, что и в OpenCV: среднее в uint8, дельта к целому.
	var delta int
	if inverse {
		delta = int(math.Floor(c))
	} else {
		delta = int(math.Ceil(c))
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := int(clampByte(mean[y*w+x]))
			d := int(src.Pix[y*src.Stride+x]) - m
			var on bool
			if inverse {
				on = d <= -delta
			} else {
				on = d > -delta
			}
			if on {
				dst.Pix[y*dst.Stride+x] = 255
			}
		}
	}
	return dst
}

// MorphOpen морфологическое открытие прямоугольным ядром ksize x ksize.
// Убирает одиночные светлые точки.
func MorphOpen(src *image.Gray, ksize int) *image.Gray {
	return morph(morph(src, ksize, true), ksize, false)
}

func morph(src *image.Gray, ksize int, erode bool) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	r := ksize / 2
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc uint8
			if erode {
				acc = 255
			}
			for dy := -r; dy <= r; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				for dx := -r; dx <= r; dx++ {
					xx := x + dx
					if xx < 0 || xx >= w {
						continue
					}
					v := src.Pix[yy*src.Stride+xx]
					if erode && v < acc {
						acc = v
					} else if !erode && v > acc {
						acc = v
					}
				}
			}
			dst.Pix[y*dst.Stride+x] = acc
		}
	}
	return dst
}

// LaplacianMask маска пикселей, где |лапласиан| больше thresh.
func LaplacianMask(src *image.Gray, thresh float64) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	at := func(x, y int) float64 {
		return float64(src.Pix[reflect101(y, h)*src.Stride+reflect101(x, w)])
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			lap := at(x-1, y) + at(x+1, y) + at(x, y-1) + at(x, y+1) - 4*at(x, y)
			if math.Abs(lap) > thresh {
				dst.Pix[y*dst.Stride+x] = 255
			}
		}
	}
	return dst
}

// gaussianKernel одномерное ядро; sigma <= 0 выводится из размера как в OpenCV.
func gaussianKernel(ksize int, sigma float64) []float64 {
	if sigma <= 0 {
		switch ksize {
		case 1:
			return []float64{1}
		case 3:
			return []float64{0.25, 0.5, 0.25}
		case 5:
			return []float64{0.0625, 0.25, 0.375, 0.25, 0.0625}
		case 7:
			return []float64{0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125}
		}
		sigma = 0.3*(float64(ksize-1)*0.5-1) + 0.8
	}
	k := make([]float64, ksize)
	r := ksize / 2
	var sum float64
	for i := range k {
		x := float64(i - r)
		k[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// separable свёртка одним и тем же ядром по строкам и столбцам.
func separable(src *image.Gray, k []float64, border borderFunc) []float64 {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	r := len(k) / 2
	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			var acc float64
			for i, kv := range k {
				acc += kv * float64(row[border(x+i-r, w)])
			}
			tmp[y*w+x] = acc
		}
	}
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for i, kv := range k {
				acc += kv * tmp[border(y+i-r, h)*w+x]
			}
			out[y*w+x] = acc
		}
	}
	return out
}

func planeToGray(plane []float64, w, h int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Pix[y*dst.Stride+x] = clampByte(plane[y*w+x])
		}
	}
	return dst
}

func clampByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
