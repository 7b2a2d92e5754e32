package rest

import (
	"context"
	"errors"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	app "card-grader/internal/application"
	"card-grader/internal/domain/entity"
)

// PredictRequest признаки для прямого запроса к модели.
type PredictRequest struct {
	Surface    *float64 `json:"surface" validate:"required,min=0,max=10"`
	Corners    *float64 `json:"corners" validate:"required,min=0,max=10"`
	CenteringH *float64 `json:"centering_h" validate:"required,min=0,max=1"`
	CenteringV *float64 `json:"centering_v" validate:"required,min=0,max=1"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type GradeHandler struct {
	log       *logrus.Logger
	validator *validator.Validate
	grading   *app.GradingService
}

func New(log *logrus.Logger, validate *validator.Validate, grading *app.GradingService) *GradeHandler {
	return &GradeHandler{
		log:       log,
		validator: validate,
		grading:   grading,
	}
}

func (h *GradeHandler) Start(srv fiber.Router) {
	srv.Get("/health", h.Health)
	srv.Post("/grade", h.Grade)
	srv.Post("/predict", h.Predict)
}

func (h *GradeHandler) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok"})
}

// Grade принимает снимок в multipart-поле file и возвращает признаки и оценку.
func (h *GradeHandler) Grade(ctx *fiber.Ctx) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "multipart field 'file' is required"})
	}

	f, err := fh.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "cannot open uploaded file"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "cannot read uploaded file"})
	}

	h.log.WithFields(logrus.Fields{
		"path":     ctx.Path(),
		"filename": fh.Filename,
		"size":     len(data),
	}).Debug("grade request")

	res, err := h.grading.Grade(ctx.UserContext(), data)
	if err != nil {
		return h.handleError(ctx, err)
	}
	return ctx.JSON(res)
}

// Predict отдаёт оценку модели для готового вектора признаков.
func (h *GradeHandler) Predict(ctx *fiber.Ctx) error {
	var req PredictRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid json body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(errorResponse{Error: err.Error()})
	}

	pred, err := h.grading.Predict(ctx.UserContext(), entity.FeatureVector{
		Surface:    *req.Surface,
		Corners:    *req.Corners,
		CenteringH: *req.CenteringH,
		CenteringV: *req.CenteringV,
	})
	if err != nil {
		return h.handleError(ctx, err)
	}
	return ctx.JSON(pred)
}

func (h *GradeHandler) handleError(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrUnreadableImage):
		status = fiber.StatusBadRequest
	case errors.Is(err, entity.ErrDegenerateGeometry):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrPredictorNotConfigured):
		status = fiber.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = fiber.StatusRequestTimeout
	}

	entry := h.log.WithError(err).WithField("path", ctx.Path())
	if status == fiber.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}
	return ctx.Status(status).JSON(errorResponse{Error: err.Error()})
}
