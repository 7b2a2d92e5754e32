package app

import (
	"fmt"
	"math"

	"card-grader/internal/domain/entity"
)

// Feedback текстовые пояснения к признакам и эталонная оценка для сравнения.
type Feedback struct {
	Surface     string `json:"surface"`
	Corners     string `json:"corners"`
	CenteringH  string `json:"centering_h"`
	CenteringV  string `json:"centering_v"`
	GradeBucket int    `json:"grade_bucket,omitempty"` // 1..10, 0 без предсказания
}

// ScoreFeedback пояснение к оценке поверхности или углов по удалённости от 10.
func ScoreFeedback(score float64) string {
	switch diff := 10 - score; {
	case diff > 5:
		return "сильные повреждения, далеко от PSA 10"
	case diff > 3:
		return "заметные повреждения, ниже стандарта PSA 10"
	case diff > 1.5:
		return "хорошее состояние, но не дотягивает до PSA 10"
	default:
		return "отличное состояние, уровень PSA 9-10"
	}
}

// CenteringFeedback пояснение к метке центровки.
func CenteringFeedback(label float64) string {
	switch {
	case label >= 0.85:
		return "сильно смещённая центровка"
	case label >= 0.70:
		return "заметно смещённая центровка"
	case label >= 0.65:
		return "приемлемая центровка"
	default:
		return "почти идеальная центровка, подходит для PSA 9-10"
	}
}

// GradeBucket округляет оценку до целого 1..10 (половина вверх).
func GradeBucket(grade float64) int {
	b := int(math.Floor(grade + 0.5))
	return min(max(b, 1), 10)
}

// BuildFeedback собирает пояснения; pred может быть nil.
func BuildFeedback(rec *entity.FeatureRecord, pred *entity.Prediction) Feedback {
	fb := Feedback{
		Surface:    fmt.Sprintf("%.2f - %s", rec.SurfaceScore, ScoreFeedback(rec.SurfaceScore)),
		Corners:    fmt.Sprintf("%.2f - %s", rec.CornersScore, ScoreFeedback(rec.CornersScore)),
		CenteringH: fmt.Sprintf("%.2f - %s", rec.CenteringHorizontal, CenteringFeedback(rec.CenteringHorizontal)),
		CenteringV: fmt.Sprintf("%.2f - %s", rec.CenteringVertical, CenteringFeedback(rec.CenteringVertical)),
	}
	if pred != nil {
		fb.GradeBucket = GradeBucket(pred.Grade)
	}
	return fb
}

// Lines строки пояснений для вывода пользователю.
func (f Feedback) Lines() []string {
	return []string{
		"Поверхность: " + f.Surface,
		"Углы: " + f.Corners,
		"Центровка по горизонтали: " + f.CenteringH,
		"Центровка по вертикали: " + f.CenteringV,
	}
}
