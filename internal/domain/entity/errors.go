package entity

import "errors"

var (
	// ErrUnreadableImage файл отсутствует, повреждён или не декодируется.
	ErrUnreadableImage = errors.New("unreadable image")

	// ErrDegenerateGeometry контур карты вырожден или калибровка невалидна.
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrPredictorNotConfigured модель оценки не загружена.
	ErrPredictorNotConfigured = errors.New("grade predictor is not configured")
)

// ErrNoImages в каталоге нет файлов поддерживаемых форматов.
var ErrNoImages = errors.New("no supported images found")
