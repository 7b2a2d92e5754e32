package app

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"card-grader/internal/domain/entity"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fakeExtractor отдаёт фиксированную запись; байты "bad" считаются битым снимком.
type fakeExtractor struct {
	record *entity.FeatureRecord
}

func (f *fakeExtractor) Extract(ctx context.Context, data []byte) (*entity.FeatureRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if string(data) == "bad" {
		return nil, entity.ErrUnreadableImage
	}
	rec := *f.record
	return &rec, nil
}

type fakePredictor struct {
	grade float64
	err   error
}

func (f *fakePredictor) Predict(_ context.Context, v entity.FeatureVector) (*entity.Prediction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &entity.Prediction{Grade: f.grade, Inputs: v.Rounded(2)}, nil
}

type memorySink struct {
	mu      sync.Mutex
	names   []string
	failFor string
}

func (s *memorySink) Append(_ context.Context, filename string, _ *entity.FeatureRecord) error {
	if filename == s.failFor {
		return errors.New("disk full")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append(s.names, filename)
	return nil
}

var sampleRecord = &entity.FeatureRecord{
	SurfaceScore:        9.4,
	CornersScore:        8.8,
	CenteringHorizontal: 0.55,
	CenteringVertical:   0.6,
}
