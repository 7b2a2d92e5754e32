package app

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"card-grader/internal/domain/entity"
	"card-grader/internal/domain/port"
)

var errExtractorNotConfigured = errors.New("feature extractor is not configured")

// ErrNotAwaitingCard фото пришло, когда пользователь не начинал оценку.
var ErrNotAwaitingCard = errors.New("user is not awaiting a card photo")

// GradingResult признаки одного снимка, предсказание (если модель загружена) и пояснения.
type GradingResult struct {
	Record     *entity.FeatureRecord `json:"features"`
	Prediction *entity.Prediction    `json:"prediction,omitempty"`
	Feedback   Feedback              `json:"feedback"`
}

type GradingService struct {
	users     *UserService
	extractor port.FeatureExtractor
	predictor port.GradePredictor
	log       *logrus.Logger
}

// NewGradingService создаёт сервис оценки; predictor может быть nil.
func NewGradingService(users *UserService, extractor port.FeatureExtractor, predictor port.GradePredictor, logger *logrus.Logger) *GradingService {
	return &GradingService{
		users:     users,
		extractor: extractor,
		predictor: predictor,
		log:       logger,
	}
}

// Grade считает признаки снимка и, если есть модель, предсказывает оценку.
// Ошибки конвейера возвращаются вызывающему как есть.
func (s *GradingService) Grade(ctx context.Context, photo []byte) (*GradingResult, error) {
	if s.extractor == nil {
		return nil, errExtractorNotConfigured
	}

	record, err := s.extractor.Extract(ctx, photo)
	if err != nil {
		return nil, err
	}

	var prediction *entity.Prediction
	if s.predictor != nil {
		prediction, err = s.predictor.Predict(ctx, record.Vector())
		if err != nil {
			return nil, err
		}
	}

	return &GradingResult{
		Record:     record,
		Prediction: prediction,
		Feedback:   BuildFeedback(record, prediction),
	}, nil
}

// Predict отдаёт вектор признаков модели напрямую.
func (s *GradingService) Predict(ctx context.Context, features entity.FeatureVector) (*entity.Prediction, error) {
	if s.predictor == nil {
		return nil, entity.ErrPredictorNotConfigured
	}
	return s.predictor.Predict(ctx, features)
}

// AcceptCardPhoto оценивает фото из диалога. Фото принимается только после /grade;
// на время обработки пользователь в состоянии processing, затем возвращается в главное меню.
func (s *GradingService) AcceptCardPhoto(ctx context.Context, userID, chatID int64, photo []byte) (*GradingResult, error) {
	user, err := s.users.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if !user.AwaitingCard() {
		return nil, ErrNotAwaitingCard
	}

	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateProcessing); err != nil {
		return nil, err
	}

	result, gradeErr := s.Grade(ctx, photo)

	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateMainMenu); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("failed to reset user state")
	}
	if gradeErr != nil {
		s.log.WithError(gradeErr).WithField("user_id", userID).Info("card photo rejected")
		return nil, gradeErr
	}
	return result, nil
}
