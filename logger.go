package nutriplan

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// PlanLogger is the interface for per-meal generation logging.
type PlanLogger interface {
	LogMeal(entry MealLog) error
}

// NewPlanLogFilePath returns a log file path based on the provider mode so
// runs with different providers are easy to tell apart.
func NewPlanLogFilePath(mode string) string {
	return fmt.Sprintf(
		"./logs/%d.%s.json",
		time.Now().Unix(),
		strings.ReplaceAll(strings.ToLower(mode), ":", "_"),
	)
}

// MealLog records the outcome of one slot's generation and verification.
type MealLog struct {
	Day         int       `json:"day"`
	Slot        string    `json:"slot"`
	Timestamp   time.Time `json:"timestamp"`
	MealName    string    `json:"meal_name,omitempty"`
	Foods       int       `json:"foods"`
	Verified    int       `json:"verified"`
	Escalated   int       `json:"escalated"`
	Calories    float64   `json:"calories"`
	Accuracy    float64   `json:"accuracy"`
	Retried     bool      `json:"retried,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// FilePlanLogger buffers meal entries and flushes them as one JSON session
// document at the end of a run.
type FilePlanLogger struct {
	entries []MealLog
	writer  io.Writer
}

func NewFilePlanLogger(writer io.Writer) *FilePlanLogger {
	return &FilePlanLogger{
		entries: make([]MealLog, 0),
		writer:  writer,
	}
}

// LogMeal appends an entry to the buffer (does not flush immediately).
func (l *FilePlanLogger) LogMeal(entry MealLog) error {
	l.entries = append(l.entries, entry)
	return nil
}

// Flush writes all buffered entries to the writer.
func (l *FilePlanLogger) Flush() error {
	if l.writer == nil {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"generation_session": map[string]any{
			"timestamp": time.Now(),
			"meals":     l.entries,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan log: %w", err)
	}

	if _, err := l.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write plan log: %w", err)
	}

	l.entries = l.entries[:0]
	return nil
}

// NoOpPlanLogger discards all entries.
type NoOpPlanLogger struct{}

func NewNoOpPlanLogger() *NoOpPlanLogger { return &NoOpPlanLogger{} }

func (*NoOpPlanLogger) LogMeal(entry MealLog) error { return nil }

// StdoutPlanLogger writes each entry as a JSON line to stdout (for
// Lambda/CloudWatch).
type StdoutPlanLogger struct{}

func NewStdoutPlanLogger() *StdoutPlanLogger { return &StdoutPlanLogger{} }

func (*StdoutPlanLogger) LogMeal(entry MealLog) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
