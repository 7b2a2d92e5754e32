//go:build !gocv
// +build !gocv

package imgproc

import (
	"image"
	"sort"
)

// ExternalRegions находит внешние связные области ненулевых пикселей маски.
//
// Передний план связывается по 8 соседям, фон по 4. Площадь области включает
// её дыры и всё, что в них вложено, то есть площадь внутри внешнего контура.
// Вложенные области отдельно не возвращаются.
func ExternalRegions(mask *image.Gray) []Region {
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	fg := func(x, y int) bool {
		return mask.Pix[y*mask.Stride+x] != 0
	}

	// Метки переднего плана > 0, фона < 0; 0 - ещё не размечено.
	labels := make([]int32, w*h)
	var (
		pixels  = []int{0}               // площадь компоненты переднего плана
		bounds  = []image.Rectangle{{}} // рамка компоненты
		holes   = []int{0}               // размер фоновых компонент, индекс -label
		outside = []bool{false}          // фоновая компонента касается края
		stack   []int
	)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if labels[i] != 0 {
				continue
			}
			if fg(x, y) {
				label := int32(len(pixels))
				n, r := flood(labels, w, h, i, label, true, fg, &stack)
				pixels = append(pixels, n)
				bounds = append(bounds, r)
			} else {
				label := -int32(len(holes))
				n, r := flood(labels, w, h, i, label, false, fg, &stack)
				holes = append(holes, n)
				outside = append(outside, r.Min.X == 0 || r.Min.Y == 0 || r.Max.X == w || r.Max.Y == h)
			}
		}
	}

	// Первый пиксель дыры в порядке развёртки: слева от него пиксель охватывающей компоненты.
	filled := make([]int, len(pixels))
	copy(filled, pixels)
	seenHole := make([]bool, len(holes))
	enclosing := make([]int32, len(holes))
	parent := make([]int32, len(pixels))
	seenFG := make([]bool, len(pixels))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := labels[y*w+x]
			if l < 0 {
				hole := -l
				if seenHole[hole] {
					continue
				}
				seenHole[hole] = true
				if outside[hole] {
					continue
				}
				enclosing[hole] = labels[y*w+x-1]
				filled[enclosing[hole]] += holes[hole]
				continue
			}
			if seenFG[l] {
				continue
			}
			seenFG[l] = true
			if x == 0 {
				continue
			}
			if left := labels[y*w+x-1]; left < 0 && !outside[-left] {
				parent[l] = enclosing[-left]
			}
		}
	}

	// Вложенные области добавляют свою площадь родителю, начиная с самых глубоких.
	depth := make([]int, len(pixels))
	order := make([]int, 0, len(pixels)-1)
	for l := 1; l < len(pixels); l++ {
		for p := parent[l]; p != 0; p = parent[p] {
			depth[l]++
		}
		order = append(order, l)
	}
	sort.SliceStable(order, func(a, b int) bool { return depth[order[a]] > depth[order[b]] })
	for _, l := range order {
		if p := parent[l]; p != 0 {
			filled[p] += filled[l]
		}
	}

	regions := make([]Region, 0, len(order))
	for l := 1; l < len(pixels); l++ {
		if parent[l] != 0 {
			continue
		}
		regions = append(regions, Region{Bounds: bounds[l], Area: float64(filled[l])})
	}
	return regions
}

// flood размечает компоненту, начиная с пикселя start, и возвращает её площадь и рамку.
func flood(labels []int32, w, h, start int, label int32, foreground bool, fg func(x, y int) bool, stack *[]int) (int, image.Rectangle) {
	s := (*stack)[:0]
	s = append(s, start)
	labels[start] = label
	n := 0
	r := image.Rect(start%w, start/w, start%w+1, start/w+1)
	for len(s) > 0 {
		i := s[len(s)-1]
		s = s[:len(s)-1]
		x, y := i%w, i/w
		n++
		r = r.Union(image.Rect(x, y, x+1, y+1))
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				if !foreground && dx != 0 && dy != 0 {
					continue
				}
				xx, yy := x+dx, y+dy
				if xx < 0 || yy < 0 || xx >= w || yy >= h {
					continue
				}
				j := yy*w + xx
				if labels[j] != 0 || fg(xx, yy) != foreground {
					continue
				}
				labels[j] = label
				s = append(s, j)
			}
		}
	}
	*stack = s
	return n, r
}
