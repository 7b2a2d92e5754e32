package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"card-grader/internal/domain/entity"
)

func TestScoreFeedback(t *testing.T) {
	require.Equal(t, ScoreFeedback(4.9), ScoreFeedback(0))
	require.NotEqual(t, ScoreFeedback(4.9), ScoreFeedback(5))
	require.Equal(t, ScoreFeedback(5), ScoreFeedback(6.9))
	require.NotEqual(t, ScoreFeedback(6.9), ScoreFeedback(7))
	require.Equal(t, ScoreFeedback(7), ScoreFeedback(8.4))
	require.NotEqual(t, ScoreFeedback(8.4), ScoreFeedback(8.5))
	require.Equal(t, ScoreFeedback(8.5), ScoreFeedback(10))
}

func TestCenteringFeedback(t *testing.T) {
	require.Equal(t, CenteringFeedback(0.55), CenteringFeedback(0.60))
	require.NotEqual(t, CenteringFeedback(0.60), CenteringFeedback(0.65))
	require.NotEqual(t, CenteringFeedback(0.65), CenteringFeedback(0.70))
	require.Equal(t, CenteringFeedback(0.70), CenteringFeedback(0.80))
	require.NotEqual(t, CenteringFeedback(0.80), CenteringFeedback(0.85))
	require.Equal(t, CenteringFeedback(0.85), CenteringFeedback(0.90))
}

func TestGradeBucket(t *testing.T) {
	cases := map[float64]int{
		-3:   1,
		0:    1,
		1.49: 1,
		1.5:  2,
		7.49: 7,
		8.5:  9,
		9.49: 9,
		9.5:  10,
		12:   10,
	}
	for grade, want := range cases {
		require.Equal(t, want, GradeBucket(grade), "grade %.2f", grade)
	}
}

func TestBuildFeedback(t *testing.T) {
	rec := &entity.FeatureRecord{SurfaceScore: 9.5, CornersScore: 3, CenteringHorizontal: 0.55, CenteringVertical: 0.9}

	fb := BuildFeedback(rec, nil)
	require.Zero(t, fb.GradeBucket)
	require.Contains(t, fb.Surface, "9.50")
	require.Contains(t, fb.Corners, ScoreFeedback(3))
	require.Contains(t, fb.CenteringV, CenteringFeedback(0.9))
	require.Len(t, fb.Lines(), 4)

	fb = BuildFeedback(rec, &entity.Prediction{Grade: 8.7})
	require.Equal(t, 9, fb.GradeBucket)
}
