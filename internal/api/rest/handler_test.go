package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	app "card-grader/internal/application"
	"card-grader/internal/domain/entity"
	"card-grader/internal/domain/port"
	"card-grader/internal/infrastructure/storage"
)

type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, data []byte) (*entity.FeatureRecord, error) {
	switch string(data) {
	case "bad":
		return nil, fmt.Errorf("decode: %w", entity.ErrUnreadableImage)
	case "flat":
		return nil, fmt.Errorf("rectify: %w", entity.ErrDegenerateGeometry)
	}
	return &entity.FeatureRecord{SurfaceScore: 9, CornersScore: 8, CenteringHorizontal: 0.55, CenteringVertical: 0.65}, nil
}

type stubPredictor struct{}

func (stubPredictor) Predict(_ context.Context, v entity.FeatureVector) (*entity.Prediction, error) {
	return &entity.Prediction{Grade: 8.4, Inputs: v}, nil
}

func setup(t *testing.T, predictor port.GradePredictor) func(req *http.Request) (int, map[string]any) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	users := app.NewUserService(storage.NewMemoryUserRepository())
	grading := app.NewGradingService(users, stubExtractor{}, predictor, logger)

	srv := NewFiber()
	New(logger, validator.New(), grading).Start(srv)

	return func(req *http.Request) (int, map[string]any) {
		resp, err := srv.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		var body map[string]any
		require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(&body))
		return resp.StatusCode, body
	}
}

func uploadRequest(t *testing.T, field string, content []byte) *http.Request {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, "card.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/grade", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	do := setup(t, nil)
	status, body := do(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", body["status"])
}

func TestGrade(t *testing.T) {
	do := setup(t, stubPredictor{})

	status, body := do(uploadRequest(t, "file", []byte("card")))
	require.Equal(t, http.StatusOK, status)
	features := body["features"].(map[string]any)
	require.Equal(t, 9.0, features["surface_score"])
	require.Equal(t, 0.65, features["centering_v_label"])
	prediction := body["prediction"].(map[string]any)
	require.Equal(t, 8.4, prediction["predicted_grade"])
	feedback := body["feedback"].(map[string]any)
	require.Equal(t, 8.0, feedback["grade_bucket"])
}

func TestGrade_WithoutPredictor(t *testing.T) {
	do := setup(t, nil)

	status, body := do(uploadRequest(t, "file", []byte("card")))
	require.Equal(t, http.StatusOK, status)
	require.NotContains(t, body, "prediction")
}

func TestGrade_Errors(t *testing.T) {
	do := setup(t, nil)

	status, _ := do(uploadRequest(t, "photo", []byte("card")))
	require.Equal(t, http.StatusBadRequest, status)

	status, body := do(uploadRequest(t, "file", []byte("bad")))
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, body["error"], "unreadable image")

	status, _ = do(uploadRequest(t, "file", []byte("flat")))
	require.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestPredict(t *testing.T) {
	do := setup(t, stubPredictor{})

	req := httptest.NewRequest(http.MethodPost, "/predict",
		bytes.NewBufferString(`{"surface": 9.5, "corners": 10, "centering_h": 0.55, "centering_v": 0.6}`))
	req.Header.Set("Content-Type", "application/json")
	status, body := do(req)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 8.4, body["predicted_grade"])

	req = httptest.NewRequest(http.MethodPost, "/predict", bytes.NewBufferString(`{"surface": 11, "corners": 10, "centering_h": 0.55}`))
	req.Header.Set("Content-Type", "application/json")
	status, _ = do(req)
	require.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestPredict_NotConfigured(t *testing.T) {
	do := setup(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/predict",
		bytes.NewBufferString(`{"surface": 9.5, "corners": 10, "centering_h": 0.55, "centering_v": 0.6}`))
	req.Header.Set("Content-Type", "application/json")
	status, _ := do(req)
	require.Equal(t, http.StatusServiceUnavailable, status)
}
