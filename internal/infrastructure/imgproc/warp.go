//go:build !gocv
// +build !gocv

package imgproc

import (
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/mat"

	"card-grader/internal/domain/entity"
)

// WarpQuad проецирует четырёхугольник q исходного изображения на прямоугольник w x h.
// Углы q переходят в углы (0,0), (w,0), (w,h), (0,h); выборка билинейная по центрам пикселей.
func WarpQuad(src *image.RGBA, q entity.Quad, w, h int) (*image.RGBA, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("invalid target size %dx%d", w, h)
	}
	dst := []entity.Point{{X: 0, Y: 0}, {X: float64(w), Y: 0}, {X: float64(w), Y: float64(h)}, {X: 0, Y: float64(h)}}
	srcPts := q.Points()

	// Обратное отображение: из координат результата в исходные.
	H, err := homography(dst, srcPts[:])
	if err != nil {
		return nil, err
	}

	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		v := float64(y) + 0.5
		for x := 0; x < w; x++ {
			u := float64(x) + 0.5
			den := H[6]*u + H[7]*v + 1
			if math.Abs(den) < 1e-12 {
				continue
			}
			sx := (H[0]*u+H[1]*v+H[2])/den - 0.5
			sy := (H[3]*u+H[4]*v+H[5])/den - 0.5
			if sx < -1 || sy < -1 || sx > float64(sw) || sy > float64(sh) {
				continue
			}
			sampleBilinear(src, sx, sy, out.Pix[y*out.Stride+x*4:y*out.Stride+x*4+4])
		}
	}
	return out, nil
}

// homography решает систему 8x8 для отображения from -> to (h33 = 1).
func homography(from, to []entity.Point) ([8]float64, error) {
	var res [8]float64
	A := mat.NewDense(8, 8, nil)
	B := mat.NewVecDense(8, nil)
	for i := 0; i < 4; i++ {
		u, v := from[i].X, from[i].Y
		x, y := to[i].X, to[i].Y

		// x = (h0*u + h1*v + h2) / (h6*u + h7*v + 1)
		A.SetRow(i*2, []float64{u, v, 1, 0, 0, 0, -u * x, -v * x})
		B.SetVec(i*2, x)

		// y = (h3*u + h4*v + h5) / (h6*u + h7*v + 1)
		A.SetRow(i*2+1, []float64{0, 0, 0, u, v, 1, -u * y, -v * y})
		B.SetVec(i*2+1, y)
	}

	var params mat.VecDense
	if err := params.SolveVec(A, B); err != nil {
		return res, fmt.Errorf("solve homography: %w", err)
	}
	for i := range res {
		res[i] = params.AtVec(i)
		if math.IsNaN(res[i]) || math.IsInf(res[i], 0) {
			return res, fmt.Errorf("solve homography: non-finite coefficient")
		}
	}
	return res, nil
}

// sampleBilinear пишет в px цвет в точке (x, y) с повтором крайних пикселей.
func sampleBilinear(src *image.RGBA, x, y float64, px []uint8) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	fx, fy := x-float64(x0), y-float64(y0)
	x1, y1 := replicate(x0+1, w), replicate(y0+1, h)
	x0, y0 = replicate(x0, w), replicate(y0, h)

	p00 := src.Pix[y0*src.Stride+x0*4:]
	p10 := src.Pix[y0*src.Stride+x1*4:]
	p01 := src.Pix[y1*src.Stride+x0*4:]
	p11 := src.Pix[y1*src.Stride+x1*4:]
	for c := 0; c < 4; c++ {
		top := float64(p00[c])*(1-fx) + float64(p10[c])*fx
		bottom := float64(p01[c])*(1-fx) + float64(p11[c])*fx
		px[c] = clampByte(top*(1-fy) + bottom*fy)
	}
}
