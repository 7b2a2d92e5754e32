package container

import (
	"github.com/sirupsen/logrus"

	app "card-grader/internal/application"
	"card-grader/internal/domain/port"
)

type Container struct {
	UserService    *app.UserService
	GradingService *app.GradingService
	BatchService   *app.BatchService
}

// New собирает сервисы приложения. predictor может быть nil, если модель не загружена.
func New(userRepo port.UserRepository, extractor port.FeatureExtractor, predictor port.GradePredictor, workers int, logger *logrus.Logger) *Container {
	userService := app.NewUserService(userRepo)
	gradingService := app.NewGradingService(userService, extractor, predictor, logger)
	batchService := app.NewBatchService(extractor, workers, logger)

	return &Container{
		UserService:    userService,
		GradingService: gradingService,
		BatchService:   batchService,
	}
}
