package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AttemptLog represents a single mint attempt record
type AttemptLog struct {
	Timestamp     time.Time `json:"timestamp"`
	CandyMachine  string    `json:"candy_machine"`
	Mint          string    `json:"mint"`       // One-time mint address for this attempt
	Payer         string    `json:"payer"`      // Buyer wallet address
	Signature     string    `json:"signature"`  // Transaction signature, empty if never submitted
	Outcome       string    `json:"outcome"`    // Terminal outcome label
	ErrorCode     *int      `json:"error_code,omitempty"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	PriceLamports uint64    `json:"price_lamports"`
	Whitelisted   bool      `json:"whitelisted"`
	ElapsedMs     int64     `json:"elapsed_ms"` // Submit-to-terminal duration
}

// AttemptLogger persists mint attempt history as daily JSONL files
type AttemptLogger struct {
	baseDir string
	logger  *Logger
	mu      sync.Mutex

	totals map[string]int // outcome -> count for this session
}

// NewAttemptLogger creates a new attempt logger
func NewAttemptLogger(baseDir string, logger *Logger) (*AttemptLogger, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create attempt log directory: %w", err)
	}

	return &AttemptLogger{
		baseDir: baseDir,
		logger:  logger,
		totals:  make(map[string]int),
	}, nil
}

// LogAttempt records an attempt to both the structured log and the daily file
func (al *AttemptLogger) LogAttempt(attempt AttemptLog) error {
	al.mu.Lock()
	defer al.mu.Unlock()

	al.logger.WithFields(map[string]interface{}{
		"event":         "attempt_logged",
		"candy_machine": attempt.CandyMachine,
		"mint":          attempt.Mint,
		"signature":     attempt.Signature,
		"outcome":       attempt.Outcome,
		"price":         attempt.PriceLamports,
	}).Info("Mint attempt recorded")

	filename := fmt.Sprintf("attempts_%s.jsonl", time.Now().Format("2006-01-02"))
	path := filepath.Join(al.baseDir, filename)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open attempt log file: %w", err)
	}
	defer file.Close()

	attemptBytes, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("failed to marshal attempt: %w", err)
	}

	if _, err := file.Write(append(attemptBytes, '\n')); err != nil {
		return fmt.Errorf("failed to write attempt to file: %w", err)
	}

	al.totals[attempt.Outcome]++

	return nil
}

// SessionTotals returns outcome counts recorded during this session
func (al *AttemptLogger) SessionTotals() map[string]int {
	al.mu.Lock()
	defer al.mu.Unlock()

	out := make(map[string]int, len(al.totals))
	for k, v := range al.totals {
		out[k] = v
	}
	return out
}

// LogSessionSummary writes the session outcome totals to a summary file
func (al *AttemptLogger) LogSessionSummary() error {
	al.mu.Lock()
	defer al.mu.Unlock()

	summary := struct {
		Date      string         `json:"date"`
		Timestamp time.Time      `json:"timestamp"`
		Total     int            `json:"total_attempts"`
		Outcomes  map[string]int `json:"outcomes"`
	}{
		Date:      time.Now().Format("2006-01-02"),
		Timestamp: time.Now(),
		Outcomes:  al.totals,
	}

	for _, n := range al.totals {
		summary.Total += n
	}

	filename := fmt.Sprintf("summary_%s.json", time.Now().Format("2006-01-02"))
	path := filepath.Join(al.baseDir, filename)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	al.logger.WithFields(map[string]interface{}{
		"event":          "session_summary",
		"total_attempts": summary.Total,
	}).Info("Session summary logged")

	return nil
}
