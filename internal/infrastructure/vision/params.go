package vision

// Params настроечные константы конвейера измерений.
// Все значения подобраны эмпирически; DefaultParams возвращает рабочий набор.
type Params struct {
	// Детектор края карты.
	ScanLines         int     // число линий сканирования на сторону, нечётное
	ScanSpacing       float64 // шаг между линиями, доля размера изображения
	ScanStep          int     // шаг движения от края внутрь, пиксели
	ColorTolerance    float64 // порог евклидова расстояния в RGB
	MinBorderFraction float64 // минимальная толщина фона, доля меньшей стороны
	MinQuadArea       float64 // площадь контура, ниже которой геометрия вырождена

	// Детектор печатной области.
	InnerBlurKernel    int
	InnerBlockSize     int
	InnerC             float64
	MinRegionAreaRatio float64 // отбрасываем области меньше этой доли карты
	MaxRegionAreaRatio float64 // и больше этой
	MinRegionSideRatio float64 // минимальная ширина/высота области, доля карты
	MaxInnerBoxRatio   float64 // рамка шире/выше этой доли считается ошибкой
	FallbackInset      float64 // отступ запасной рамки слева и сверху
	FallbackCoverage   float64 // доля ширины и высоты под запасной рамкой

	// Оценка поверхности.
	SurfaceBlurKernel  int
	SurfaceBlockSize   int
	SurfaceC           float64
	SurfaceOpenKernel  int
	SurfaceCannyLow    float64
	SurfaceCannyHigh   float64
	SurfaceSensitivity float64 // множитель доли границ: сырые доли малы

	// Оценка углов.
	CornerCannyLow           float64
	CornerCannyHigh          float64
	CornerBrightThreshold    float64 // яркость выше порога считается потёртостью
	CornerLaplacianThreshold float64
	CornerReferencePx        int // размер угла при эталонном разрешении
	CornerReferenceWidth     int // эталонная ширина выпрямленной карты, px
	CornerReferenceHeight    int // эталонная высота выпрямленной карты, px

	// Снимки больше этого размера уменьшаются до обработки; 0 отключает.
	MaxSide int
}

// DefaultParams возвращает параметры по умолчанию.
func DefaultParams() Params {
	return Params{
		ScanLines:         5,
		ScanSpacing:       0.05,
		ScanStep:          1,
		ColorTolerance:    30,
		MinBorderFraction: 0.01,
		MinQuadArea:       1,

		InnerBlurKernel:    5,
		InnerBlockSize:     11,
		InnerC:             2,
		MinRegionAreaRatio: 0.02,
		MaxRegionAreaRatio: 0.95,
		MinRegionSideRatio: 0.2,
		MaxInnerBoxRatio:   0.95,
		FallbackInset:      0.1,
		FallbackCoverage:   0.8,

		SurfaceBlurKernel:  5,
		SurfaceBlockSize:   11,
		SurfaceC:           7,
		SurfaceOpenKernel:  3,
		SurfaceCannyLow:    60,
		SurfaceCannyHigh:   180,
		SurfaceSensitivity: 2.5,

		CornerCannyLow:           50,
		CornerCannyHigh:          150,
		CornerBrightThreshold:    220,
		CornerLaplacianThreshold: 20,
		CornerReferencePx:        20,
		CornerReferenceWidth:     635, // 10 px/мм
		CornerReferenceHeight:    889,

		MaxSide: 0,
	}
}
