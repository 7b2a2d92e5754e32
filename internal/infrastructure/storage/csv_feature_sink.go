package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"card-grader/internal/domain/entity"
	"card-grader/internal/domain/port"
)

// CSVHeader заголовок файла признаков.
var CSVHeader = []string{"filename", "surface_score", "corners_score", "centering_h_label", "centering_v_label"}

// CSVFeatureSink дописывает строки признаков в CSV-файл.
// Заголовок пишется только при создании файла; строки сбрасываются на диск сразу.
type CSVFeatureSink struct {
	mu   sync.Mutex
	file *os.File
	w    *csv.Writer
}

// NewCSVFeatureSink открывает (или создаёт) файл для дозаписи.
func NewCSVFeatureSink(path string) (*CSVFeatureSink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat csv: %w", err)
	}

	s := &CSVFeatureSink{file: f, w: csv.NewWriter(f)}
	if info.Size() == 0 {
		if err := s.write(CSVHeader); err != nil {
			f.Close()
			return nil, err
		}
	}
	return s, nil
}

// Append дописывает строку для файла filename.
func (s *CSVFeatureSink) Append(ctx context.Context, filename string, record *entity.FeatureRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.write([]string{
		filename,
		formatFloat(record.SurfaceScore),
		formatFloat(record.CornersScore),
		formatFloat(record.CenteringHorizontal),
		formatFloat(record.CenteringVertical),
	})
}

// Close закрывает файл.
func (s *CSVFeatureSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

func (s *CSVFeatureSink) write(row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Проверка реализации интерфейса
var _ port.FeatureSink = (*CSVFeatureSink)(nil)
