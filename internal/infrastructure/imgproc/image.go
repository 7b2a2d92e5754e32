// Package imgproc содержит растровые примитивы конвейера: декодирование,
// фильтры, пороги, детектор границ, связные области и перспективное преобразование.
//
// Есть две реализации с одинаковым API: на чистом Go (по умолчанию) и
// на OpenCV через gocv (тег сборки gocv).
package imgproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrDecode изображение не удалось декодировать.
var ErrDecode = errors.New("failed to decode image")

// Decode превращает байты файла в изображение с началом координат в (0, 0).
func Decode(data []byte) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty %s image", ErrDecode, format)
	}
	return ToRGBA(img), nil
}

// ToRGBA копирует изображение в *image.RGBA с началом координат в (0, 0).
// Если img уже такой, возвращается он сам.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}

// Downscale уменьшает изображение так, чтобы длинная сторона была не больше maxSide.
// maxSide <= 0 отключает масштабирование.
func Downscale(img *image.RGBA, maxSide int) *image.RGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return img
	}
	scale := float64(maxSide) / float64(max(w, h))
	newW := max(1, int(float64(w)*scale))
	newH := max(1, int(float64(h)*scale))
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.BiLinear.Scale(dst, dst.Rect, img, img.Rect, xdraw.Src, nil)
	return dst
}

// CountNonZero число ненулевых пикселей маски.
func CountNonZero(mask *image.Gray) int {
	n := 0
	for _, v := range mask.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// RatioOfMask доля ненулевых пикселей маски.
func RatioOfMask(mask *image.Gray) float64 {
	total := mask.Rect.Dx() * mask.Rect.Dy()
	if total <= 0 {
		return 0
	}
	return float64(CountNonZero(mask)) / float64(total)
}

// Union объединяет маски одинакового размера (логическое ИЛИ).
func Union(masks ...*image.Gray) *image.Gray {
	if len(masks) == 0 {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}
	dst := image.NewGray(masks[0].Rect)
	for _, m := range masks {
		for i, v := range m.Pix {
			if v != 0 {
				dst.Pix[i] = 255
			}
		}
	}
	return dst
}
