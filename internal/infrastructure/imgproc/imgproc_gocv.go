//go:build gocv
// +build gocv

package imgproc

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"card-grader/internal/domain/entity"
)

// Grayscale переводит RGB в яркость.
func Grayscale(img *image.RGBA) *image.Gray {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return image.NewGray(image.Rect(0, 0, img.Rect.Dx(), img.Rect.Dy()))
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)
	return matToGray(gray)
}

// GaussianBlur сглаживает изображение гауссовым ядром ksize x ksize.
func GaussianBlur(src *image.Gray, ksize int) *image.Gray {
	return withGray(src, func(in gocv.Mat, out *gocv.Mat) {
		gocv.GaussianBlur(in, out, image.Pt(ksize, ksize), 0, 0, gocv.BorderDefault)
	})
}

// Threshold бинаризация: пиксели ярче thresh становятся 255.
func Threshold(src *image.Gray, thresh float64) *image.Gray {
	return withGray(src, func(in gocv.Mat, out *gocv.Mat) {
		gocv.Threshold(in, out, float32(thresh), 255, gocv.ThresholdBinary)
	})
}

// AdaptiveThreshold бинаризация по локальному порогу mean(blockSize) - c.
func AdaptiveThreshold(src *image.Gray, method AdaptiveMethod, inverse bool, blockSize int, c float64) *image.Gray {
	adaptive := gocv.AdaptiveThresholdMean
	if method == AdaptiveGaussian {
		adaptive = gocv.AdaptiveThresholdGaussian
	}
	typ := gocv.ThresholdBinary
	if inverse {
		typ = gocv.ThresholdBinaryInv
	}
	return withGray(src, func(in gocv.Mat, out *gocv.Mat) {
		gocv.AdaptiveThreshold(in, out, 255, adaptive, typ, blockSize, float32(c))
	})
}

// MorphOpen морфологическое открытие прямоугольным ядром ksize x ksize.
func MorphOpen(src *image.Gray, ksize int) *image.Gray {
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(ksize, ksize))
	defer kernel.Close()
	return withGray(src, func(in gocv.Mat, out *gocv.Mat) {
		gocv.MorphologyEx(in, out, gocv.MorphOpen, kernel)
	})
}

// LaplacianMask маска пикселей, где |лапласиан| больше thresh.
func LaplacianMask(src *image.Gray, thresh float64) *image.Gray {
	in, err := gocv.ImageGrayToMatGray(src)
	if err != nil {
		return image.NewGray(image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy()))
	}
	defer in.Close()

	lap := gocv.NewMat()
	defer lap.Close()
	gocv.Laplacian(in, &lap, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if math.Abs(lap.GetDoubleAt(y, x)) > thresh {
				dst.Pix[y*dst.Stride+x] = 255
			}
		}
	}
	return dst
}

// Canny детектор границ OpenCV.
func Canny(src *image.Gray, low, high float64) *image.Gray {
	return withGray(src, func(in gocv.Mat, out *gocv.Mat) {
		gocv.Canny(in, out, float32(low), float32(high))
	})
}

// ExternalRegions внешние контуры маски с площадью и рамкой.
func ExternalRegions(mask *image.Gray) []Region {
	in, err := gocv.ImageGrayToMatGray(mask)
	if err != nil {
		return nil
	}
	defer in.Close()

	contours := gocv.FindContours(in, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	regions := make([]Region, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		regions = append(regions, Region{
			Bounds: gocv.BoundingRect(c),
			Area:   gocv.ContourArea(c),
		})
	}
	return regions
}

// WarpQuad проецирует четырёхугольник q исходного изображения на прямоугольник w x h.
func WarpQuad(src *image.RGBA, q entity.Quad, w, h int) (*image.RGBA, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("invalid target size %dx%d", w, h)
	}
	mat, err := gocv.ImageToMatRGB(src)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	// OpenCV считает координаты от центров пикселей, отсюда сдвиг на полпикселя.
	pts := q.Points()
	srcPts := make([]gocv.Point2f, 0, len(pts))
	for _, p := range pts {
		srcPts = append(srcPts, gocv.Point2f{X: float32(p.X - 0.5), Y: float32(p.Y - 0.5)})
	}
	fw, fh := float32(w)-0.5, float32(h)-0.5
	dstPts := []gocv.Point2f{{X: -0.5, Y: -0.5}, {X: fw, Y: -0.5}, {X: fw, Y: fh}, {X: -0.5, Y: fh}}

	srcVec := gocv.NewPoint2fVectorFromPoints(srcPts)
	defer srcVec.Close()
	dstVec := gocv.NewPoint2fVectorFromPoints(dstPts)
	defer dstVec.Close()

	transform := gocv.GetPerspectiveTransform2f(srcVec, dstVec)
	defer transform.Close()
	if transform.Empty() {
		return nil, errors.New("perspective transform is empty")
	}

	warped := gocv.NewMat()
	defer warped.Close()
	gocv.WarpPerspective(mat, &warped, transform, image.Pt(w, h))

	img, err := warped.ToImage()
	if err != nil {
		return nil, err
	}
	return ToRGBA(img), nil
}

// withGray прогоняет полутоновое изображение через операцию OpenCV.
func withGray(src *image.Gray, op func(in gocv.Mat, out *gocv.Mat)) *image.Gray {
	in, err := gocv.ImageGrayToMatGray(src)
	if err != nil {
		return image.NewGray(image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy()))
	}
	defer in.Close()

	out := gocv.NewMat()
	defer out.Close()
	op(in, &out)
	return matToGray(out)
}

func matToGray(m gocv.Mat) *image.Gray {
	img, err := m.ToImage()
	if err != nil {
		return image.NewGray(image.Rect(0, 0, m.Cols(), m.Rows()))
	}
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return g
}
