package port

import (
	"context"

	"card-grader/internal/domain/entity"
)

// FeatureSink интерфейс табличной выгрузки признаков
type FeatureSink interface {
	// Append дописывает строку для файла filename
	Append(ctx context.Context, filename string, record *entity.FeatureRecord) error
}
