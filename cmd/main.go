package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"card-grader/config"
	"card-grader/internal/api/rest"
	"card-grader/internal/api/telegram"
	app "card-grader/internal/application"
	"card-grader/internal/container"
	"card-grader/internal/domain/entity"
	"card-grader/internal/domain/port"
	"card-grader/internal/infrastructure/predictor"
	"card-grader/internal/infrastructure/storage"
	"card-grader/internal/infrastructure/vision"
	"card-grader/pkg/log"
)

func main() {
	imagePath := flag.String("image", "", "оценить один снимок")
	dir := flag.String("dir", "", "каталог со снимками для пакетной обработки")
	out := flag.String("out", "features.csv", "CSV-файл для пакетной обработки")
	modelPath := flag.String("model", "", "JSON-модель оценки (по умолчанию MODEL_PATH)")
	serve := flag.Bool("serve", false, "запустить HTTP API")
	bot := flag.Bool("bot", false, "запустить Telegram-бота")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := log.NewLogger(log.Options{Env: cfg.AppEnv, File: cfg.LogFile, Level: cfg.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	params := vision.DefaultParams()
	params.ScanStep = cfg.ScanStep
	params.ColorTolerance = cfg.ColorTolerance
	params.MaxSide = cfg.MaxImageSide
	analyzer := vision.NewAnalyzer(params, logger)

	if *modelPath == "" {
		*modelPath = cfg.ModelPath
	}
	var gradePredictor port.GradePredictor
	if *modelPath != "" {
		forest, err := predictor.LoadForest(*modelPath)
		if err != nil {
			logger.WithError(err).WithField("path", *modelPath).Fatal("failed to load grade model")
		}
		gradePredictor = forest
		logger.WithField("path", *modelPath).Info("grade model loaded")
	}

	// Создаём хранилище пользователей
	userRepo := storage.NewMemoryUserRepository()

	// Собираем сервисы приложения
	appContainer := container.New(userRepo, analyzer, gradePredictor, cfg.Workers, logger)

	switch {
	case *imagePath != "":
		err = runSingle(ctx, appContainer.GradingService, *imagePath, os.Stdout)
	case *dir != "":
		err = runBatch(ctx, appContainer.BatchService, *dir, *out, logger)
	case *serve:
		err = runServer(ctx, cfg.HTTPAddr, appContainer, logger)
	case *bot:
		err = runBot(ctx, cfg.TelegramToken, appContainer, logger)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		logger.WithError(err).Error("exiting with error")
		os.Exit(1)
	}
}

func runSingle(ctx context.Context, grading *app.GradingService, path string, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrUnreadableImage, err)
	}

	res, err := grading.Grade(ctx, data)
	if err != nil {
		return err
	}

	printResult(w, path, res)
	return nil
}

func printResult(w io.Writer, path string, res *app.GradingResult) {
	d := res.Record.Diagnostics
	fmt.Fprintf(w, "Card: %s\n", path)
	fmt.Fprintf(w, "Contour: TL(%.1f, %.1f) TR(%.1f, %.1f) BR(%.1f, %.1f) BL(%.1f, %.1f)\n",
		d.Quad.TL.X, d.Quad.TL.Y, d.Quad.TR.X, d.Quad.TR.Y, d.Quad.BR.X, d.Quad.BR.Y, d.Quad.BL.X, d.Quad.BL.Y)
	fmt.Fprintf(w, "Rectified: %dx%d px, %.4f px/mm\n", d.RectifiedWidth, d.RectifiedHeight, d.PixelsPerMM)
	fmt.Fprintf(w, "Inner box: x=%d y=%d w=%d h=%d (fallback: %t)\n", d.InnerBox.X, d.InnerBox.Y, d.InnerBox.Width, d.InnerBox.Height, d.FallbackUsed)
	fmt.Fprintf(w, "Margins mm: left=%.2f right=%.2f top=%.2f bottom=%.2f\n", d.Margins.Left, d.Margins.Right, d.Margins.Top, d.Margins.Bottom)
	fmt.Fprintf(w, "Centering ratio: h=%.3f v=%.3f\n", d.RatioH, d.RatioV)
	fmt.Fprintf(w, "Corner scores (tl, tr, br, bl): %.1f %.1f %.1f %.1f\n", d.CornerScores[0], d.CornerScores[1], d.CornerScores[2], d.CornerScores[3])
	fmt.Fprintln(w)
	for _, line := range res.Feedback.Lines() {
		fmt.Fprintln(w, line)
	}
	if res.Prediction != nil {
		fmt.Fprintf(w, "\nPredicted grade: %.2f (nearest %d)\n", res.Prediction.Grade, res.Feedback.GradeBucket)
	}
}

func runBatch(ctx context.Context, batch *app.BatchService, dir, out string, logger *logrus.Logger) error {
	sink, err := storage.NewCSVFeatureSink(out)
	if err != nil {
		return err
	}
	defer sink.Close()

	report, err := batch.Run(ctx, dir, sink)
	if errors.Is(err, entity.ErrNoImages) {
		logger.WithField("dir", dir).Warn("nothing to process")
		return nil
	}
	if report != nil {
		logger.WithFields(logrus.Fields{
			"run_id":    report.RunID,
			"processed": report.Processed,
			"skipped":   report.Skipped,
			"out":       out,
		}).Info("batch complete")
	}
	return err
}

func runServer(ctx context.Context, addr string, c *container.Container, logger *logrus.Logger) error {
	srv := rest.NewFiber()
	rest.New(logger, validator.New(), c.GradingService).Start(srv)

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			logger.WithError(err).Error("http shutdown")
		}
	}()

	logger.WithField("addr", addr).Info("http server is running")
	return srv.Listen(addr)
}

func runBot(ctx context.Context, token string, c *container.Container, logger *logrus.Logger) error {
	if token == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}

	// Создаём бота
	b, err := telegram.NewBot(token, c, logger)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	logger.Info("bot is running")
	return b.Run(ctx)
}
