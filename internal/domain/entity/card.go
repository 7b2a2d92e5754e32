package entity

import "math"

// Физические размеры стандартной коллекционной карты, мм.
const (
	CardWidthMM  = 63.5
	CardHeightMM = 88.9
)

// MarginSet поля между краем карты и печатной областью, мм.
type MarginSet struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// HorizontalDiff |left - right|
func (m MarginSet) HorizontalDiff() float64 {
	return math.Abs(m.Left - m.Right)
}

// VerticalDiff |top - bottom|
func (m MarginSet) VerticalDiff() float64 {
	return math.Abs(m.Top - m.Bottom)
}

// Diagnostics промежуточные измерения конвейера.
// В предсказатель не передаются, нужны для отладки и вывода.
type Diagnostics struct {
	Quad            Quad       `json:"quad"`
	RectifiedWidth  int        `json:"rectified_width"`
	RectifiedHeight int        `json:"rectified_height"`
	PixelsPerMM     float64    `json:"pixels_per_mm"`
	InnerBox        Box        `json:"inner_box"`
	FallbackUsed    bool       `json:"fallback_used"`
	Margins         MarginSet  `json:"margins_mm"`
	RatioH          float64    `json:"centering_ratio_h"`
	RatioV          float64    `json:"centering_ratio_v"`
	CornerScores    [4]float64 `json:"corner_scores"` // tl, tr, br, bl
}

// FeatureRecord итоговый набор признаков одного снимка карты.
//
// SurfaceScore и CornersScore лежат в [0, 10] и являются эвристической оценкой
// тяжести повреждений, а не откалиброванным физическим измерением.
// CenteringHorizontal и CenteringVertical содержат номинальную метку центровки
// (от 0.55 до 0.90): меньше значит лучше.
type FeatureRecord struct {
	SurfaceScore        float64     `json:"surface_score"`
	CornersScore        float64     `json:"corners_score"`
	CenteringHorizontal float64     `json:"centering_h_label"`
	CenteringVertical   float64     `json:"centering_v_label"`
	Diagnostics         Diagnostics `json:"diagnostics"`
}

// Vector возвращает четвёрку признаков для предсказателя оценки.
func (r FeatureRecord) Vector() FeatureVector {
	return FeatureVector{
		Surface:    r.SurfaceScore,
		Corners:    r.CornersScore,
		CenteringH: r.CenteringHorizontal,
		CenteringV: r.CenteringVertical,
	}
}

// FeatureVector вход предсказателя в фиксированном порядке:
// surface, corners, centering_h, centering_v.
type FeatureVector struct {
	Surface    float64 `json:"surface"`
	Corners    float64 `json:"corners"`
	CenteringH float64 `json:"centering_h"`
	CenteringV float64 `json:"centering_v"`
}

// Slice возвращает признаки в порядке обучения модели.
func (v FeatureVector) Slice() []float64 {
	return []float64{v.Surface, v.Corners, v.CenteringH, v.CenteringV}
}

// Rounded округляет каждый признак до decimals знаков.
func (v FeatureVector) Rounded(decimals int) FeatureVector {
	return FeatureVector{
		Surface:    RoundTo(v.Surface, decimals),
		Corners:    RoundTo(v.Corners, decimals),
		CenteringH: RoundTo(v.CenteringH, decimals),
		CenteringV: RoundTo(v.CenteringV, decimals),
	}
}

// Prediction ответ предсказателя оценки.
type Prediction struct {
	Grade  float64       `json:"predicted_grade"`
	Inputs FeatureVector `json:"inputs"`
}

// RoundTo округляет x до decimals знаков после запятой.
func RoundTo(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}
