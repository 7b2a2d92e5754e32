package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"card-grader/internal/domain/entity"
	"card-grader/internal/domain/port"
	"card-grader/internal/infrastructure/storage"
)

func newGradingService(predictor *fakePredictor) (*GradingService, *UserService) {
	users := NewUserService(storage.NewMemoryUserRepository())
	// nil *fakePredictor в интерфейсе не равен nil, поэтому присваиваем явно.
	var p port.GradePredictor
	if predictor != nil {
		p = predictor
	}
	return NewGradingService(users, &fakeExtractor{record: sampleRecord}, p, testLogger()), users
}

func TestGradingService_GradeWithoutPredictor(t *testing.T) {
	svc, _ := newGradingService(nil)

	res, err := svc.Grade(context.Background(), []byte("card"))
	require.NoError(t, err)
	require.Equal(t, 9.4, res.Record.SurfaceScore)
	require.Nil(t, res.Prediction)
	require.Zero(t, res.Feedback.GradeBucket)

	_, err = svc.Predict(context.Background(), res.Record.Vector())
	require.ErrorIs(t, err, entity.ErrPredictorNotConfigured)
}

func TestGradingService_GradeWithPredictor(t *testing.T) {
	svc, _ := newGradingService(&fakePredictor{grade: 8.6})

	res, err := svc.Grade(context.Background(), []byte("card"))
	require.NoError(t, err)
	require.NotNil(t, res.Prediction)
	require.Equal(t, 8.6, res.Prediction.Grade)
	require.Equal(t, sampleRecord.Vector(), res.Prediction.Inputs)
	require.Equal(t, 9, res.Feedback.GradeBucket)
}

func TestGradingService_Errors(t *testing.T) {
	svc, _ := newGradingService(nil)
	_, err := svc.Grade(context.Background(), []byte("bad"))
	require.ErrorIs(t, err, entity.ErrUnreadableImage)

	boom := errors.New("model failure")
	svc, _ = newGradingService(&fakePredictor{err: boom})
	_, err = svc.Grade(context.Background(), []byte("card"))
	require.ErrorIs(t, err, boom)

	empty := NewGradingService(nil, nil, nil, testLogger())
	_, err = empty.Grade(context.Background(), []byte("card"))
	require.Error(t, err)
}

func TestGradingService_AcceptCardPhotoRequiresGradeCommand(t *testing.T) {
	svc, users := newGradingService(nil)
	ctx := context.Background()

	_, err := svc.AcceptCardPhoto(ctx, 3, 30, []byte("card"))
	require.ErrorIs(t, err, ErrNotAwaitingCard)

	user, err := users.Get(ctx, 3, 30)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)

	_, err = users.BeginGrading(ctx, 3, 30)
	require.NoError(t, err)
	_, err = users.Cancel(ctx, 3, 30)
	require.NoError(t, err)
	_, err = svc.AcceptCardPhoto(ctx, 3, 30, []byte("card"))
	require.ErrorIs(t, err, ErrNotAwaitingCard)
}

func TestGradingService_AcceptCardPhotoResetsState(t *testing.T) {
	svc, users := newGradingService(nil)
	ctx := context.Background()

	_, err := users.BeginGrading(ctx, 1, 10)
	require.NoError(t, err)

	res, err := svc.AcceptCardPhoto(ctx, 1, 10, []byte("card"))
	require.NoError(t, err)
	require.NotNil(t, res)
	user, err := users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)

	_, err = users.BeginGrading(ctx, 1, 10)
	require.NoError(t, err)
	_, err = svc.AcceptCardPhoto(ctx, 1, 10, []byte("bad"))
	require.ErrorIs(t, err, entity.ErrUnreadableImage)
	user, err = users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}
