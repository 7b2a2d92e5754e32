package entity

// FileFailure файл, пропущенный при пакетной обработке.
type FileFailure struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// BatchReport итог пакетной обработки каталога.
type BatchReport struct {
	RunID     string        `json:"run_id"`
	Processed int           `json:"processed"`
	Skipped   int           `json:"skipped"`
	Failures  []FileFailure `json:"failures"`
}
