package vision

import (
	"math"

	"card-grader/internal/domain/entity"
)

// CenteringBucket верхняя граница разницы полей (мм) и соответствующая метка.
type CenteringBucket struct {
	MaxDiffMM float64
	Label     float64
}

// CenteringBuckets пороги разницы полей по возрастанию.
// Метка - номинальное PSA-соотношение центровки: меньше значит лучше.
var CenteringBuckets = []CenteringBucket{
	{MaxDiffMM: 1, Label: 0.55},
	{MaxDiffMM: 2, Label: 0.60},
	{MaxDiffMM: 3, Label: 0.65},
	{MaxDiffMM: 4, Label: 0.70},
	{MaxDiffMM: 6, Label: 0.80},
	{MaxDiffMM: 8, Label: 0.85},
}

// WorstCenteringLabel метка для разницы больше последнего порога.
const WorstCenteringLabel = 0.90

const ratioEpsilon = 1e-9

// ComputeMargins переводит отступы печатной области от краёв карты w x h в миллиметры.
// Каждое поле не больше половины физического размера карты по своей оси.
func ComputeMargins(box entity.Box, w, h int, pixelsPerMM float64) entity.MarginSet {
	halfW, halfH := entity.CardWidthMM/2, entity.CardHeightMM/2
	return entity.MarginSet{
		Left:   math.Min(float64(box.X)/pixelsPerMM, halfW),
		Right:  math.Min(float64(w-box.Right())/pixelsPerMM, halfW),
		Top:    math.Min(float64(box.Y)/pixelsPerMM, halfH),
		Bottom: math.Min(float64(h-box.Bottom())/pixelsPerMM, halfH),
	}
}

// CenteringRatio min/max пары полей; 1 - идеальная центровка.
func CenteringRatio(a, b float64) float64 {
	return math.Min(a, b) / (math.Max(a, b) + ratioEpsilon)
}

// CenteringLabel переводит разницу полей в мм в метку центровки.
func CenteringLabel(diffMM float64) float64 {
	diffMM = math.Abs(diffMM)
	for _, b := range CenteringBuckets {
		if diffMM <= b.MaxDiffMM {
			return b.Label
		}
	}
	return WorstCenteringLabel
}
