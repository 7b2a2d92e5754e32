package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"card-grader/internal/domain/entity"
	"card-grader/internal/domain/port"
	"card-grader/pkg/log"
)

// SupportedExtensions расширения файлов, которые берёт пакетная обработка.
var SupportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

type BatchService struct {
	extractor port.FeatureExtractor
	workers   int
	log       *logrus.Logger
}

type batchResult struct {
	index  int
	name   string
	record *entity.FeatureRecord
	err    error
}

// NewBatchService создаёт сервис пакетной обработки с пулом из workers горутин.
func NewBatchService(extractor port.FeatureExtractor, workers int, logger *logrus.Logger) *BatchService {
	return &BatchService{
		extractor: extractor,
		workers:   max(workers, 1),
		log:       logger,
	}
}

// ListImages возвращает отсортированные имена файлов поддерживаемых форматов в dir.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if SupportedExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Run обрабатывает все снимки каталога и дописывает строки в sink.
//
// Снимки считаются параллельно, запись в sink идёт из одной горутины в порядке имён.
// Ошибка отдельного файла попадает в отчёт и не прерывает прогон.
// При отмене ctx новые файлы не берутся, готовые строки дописываются.
func (s *BatchService) Run(ctx context.Context, dir string, sink port.FeatureSink) (*entity.BatchReport, error) {
	files, err := ListImages(dir)
	if err != nil {
		return nil, err
	}

	report := &entity.BatchReport{RunID: log.NewRunID(), Failures: []entity.FileFailure{}}
	entry := log.WithRunID(s.log, report.RunID).WithField("dir", dir)

	if len(files) == 0 {
		entry.Warn("no images to process")
		return report, fmt.Errorf("%w: %s", entity.ErrNoImages, dir)
	}
	entry.WithField("files", len(files)).Info("batch started")

	jobs := make(chan int)
	results := make(chan batchResult, s.workers)

	var wg sync.WaitGroup
	for i := 0; i < min(s.workers, len(files)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results <- s.processFile(ctx, dir, idx, files[idx])
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range files {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Строки пишутся по порядку имён, даже если воркеры закончили в другом порядке.
	writeCtx := context.WithoutCancel(ctx)
	pending := make(map[int]batchResult)
	next := 0
	for r := range results {
		pending[r.index] = r
		for {
			cur, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			s.collect(writeCtx, entry, sink, cur, report)
		}
	}

	entry.WithFields(logrus.Fields{
		"processed": report.Processed,
		"skipped":   report.Skipped,
	}).Info("batch finished")

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (s *BatchService) processFile(ctx context.Context, dir string, idx int, name string) batchResult {
	res := batchResult{index: idx, name: name}
	if err := ctx.Err(); err != nil {
		res.err = err
		return res
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		res.err = fmt.Errorf("%w: %v", entity.ErrUnreadableImage, err)
		return res
	}
	res.record, res.err = s.extractor.Extract(ctx, data)
	return res
}

func (s *BatchService) collect(ctx context.Context, entry *logrus.Entry, sink port.FeatureSink, r batchResult, report *entity.BatchReport) {
	if errors.Is(r.err, context.Canceled) || errors.Is(r.err, context.DeadlineExceeded) {
		return
	}

	err := r.err
	if err == nil {
		err = sink.Append(ctx, r.name, r.record)
	}
	if err != nil {
		report.Skipped++
		report.Failures = append(report.Failures, entity.FileFailure{Filename: r.name, Reason: err.Error()})
		entry.WithError(err).WithField("file", r.name).Warn("image skipped")
		return
	}

	report.Processed++
	entry.WithFields(logrus.Fields{
		"file":        r.name,
		"surface":     r.record.SurfaceScore,
		"corners":     r.record.CornersScore,
		"centering_h": r.record.CenteringHorizontal,
		"centering_v": r.record.CenteringVertical,
	}).Info("image processed")
}
