package vision

import (
	"context"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"card-grader/internal/domain/entity"
	"card-grader/internal/domain/port"
	"card-grader/internal/infrastructure/imgproc"
)

// Analyzer конвейер измерений карты: контур, выпрямление, калибровка,
// центровка и оценка повреждений.
type Analyzer struct {
	params Params
	log    *logrus.Logger
}

// NewAnalyzer создаёт конвейер с заданными параметрами.
func NewAnalyzer(params Params, logger *logrus.Logger) *Analyzer {
	return &Analyzer{params: params, log: logger}
}

// Extract декодирует снимок и считает признаки.
func (a *Analyzer) Extract(ctx context.Context, imageData []byte) (*entity.FeatureRecord, error) {
	img, err := imgproc.Decode(imageData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrUnreadableImage, err)
	}
	return a.ProcessCard(ctx, img)
}

// ProcessCard прогоняет изображение через весь конвейер и собирает FeatureRecord.
func (a *Analyzer) ProcessCard(ctx context.Context, img image.Image) (*entity.FeatureRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", entity.ErrUnreadableImage)
	}

	src := imgproc.Downscale(imgproc.ToRGBA(img), a.params.MaxSide)

	quad, borders := a.DetectBorder(src)
	a.log.WithFields(logrus.Fields{
		"width":  src.Rect.Dx(),
		"height": src.Rect.Dy(),
		"left":   borders.Left,
		"right":  borders.Right,
		"top":    borders.Top,
		"bottom": borders.Bottom,
	}).Debug("card border detected")

	card, err := Rectify(src, quad, a.params.MinQuadArea)
	if err != nil {
		return nil, err
	}
	w, h := card.Rect.Dx(), card.Rect.Dy()

	ppm := PixelsPerMillimetre(w, h)
	if ppm <= 0 {
		return nil, fmt.Errorf("%w: pixels per mm %.4f", entity.ErrDegenerateGeometry, ppm)
	}

	box, fallback := a.ResolveInnerBox(card)
	margins := ComputeMargins(box, w, h, ppm)

	corners := a.CornerScores(card)
	record := &entity.FeatureRecord{
		SurfaceScore:        a.SurfaceScore(card),
		CornersScore:        CornersScore(corners),
		CenteringHorizontal: CenteringLabel(margins.HorizontalDiff()),
		CenteringVertical:   CenteringLabel(margins.VerticalDiff()),
		Diagnostics: entity.Diagnostics{
			Quad:            quad,
			RectifiedWidth:  w,
			RectifiedHeight: h,
			PixelsPerMM:     ppm,
			InnerBox:        box,
			FallbackUsed:    fallback,
			Margins:         margins,
			RatioH:          CenteringRatio(margins.Left, margins.Right),
			RatioV:          CenteringRatio(margins.Top, margins.Bottom),
			CornerScores:    corners,
		},
	}

	a.log.WithFields(logrus.Fields{
		"rectified":   fmt.Sprintf("%dx%d", w, h),
		"px_per_mm":   entity.RoundTo(ppm, 4),
		"fallback":    fallback,
		"surface":     record.SurfaceScore,
		"corners":     record.CornersScore,
		"centering_h": record.CenteringHorizontal,
		"centering_v": record.CenteringVertical,
	}).Debug("card measured")

	return record, nil
}

// Проверка реализации интерфейса
var _ port.FeatureExtractor = (*Analyzer)(nil)
