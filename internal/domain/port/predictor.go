package port

import (
	"context"

	"card-grader/internal/domain/entity"
)

// GradePredictor интерфейс внешней регрессионной модели оценки
type GradePredictor interface {
	// Predict возвращает предсказанную оценку и округлённые входы
	Predict(ctx context.Context, features entity.FeatureVector) (*entity.Prediction, error)
}
