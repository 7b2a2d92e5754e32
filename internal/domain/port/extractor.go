package port

import (
	"context"

	"card-grader/internal/domain/entity"
)

// FeatureExtractor интерфейс конвейера измерений карты
type FeatureExtractor interface {
	// Extract декодирует снимок и возвращает набор признаков карты
	Extract(ctx context.Context, imageData []byte) (*entity.FeatureRecord, error)
}
