package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/connectsphere/connect-cli/internal/model"
)

// LogLevel tags a run-log entry.
type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogSuccess LogLevel = "success"
	LogError   LogLevel = "error"
)

// LogEntry is one timestamped line of the run narrative shown to the
// user in verbose mode.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   LogLevel  `json:"level"`
	Message string    `json:"message"`
}

// RunContext carries everything one discovery run accumulates: identity,
// inputs, the narrative log, and partial results that survive a failure.
type RunContext struct {
	ID      string
	Params  model.RunParams
	Started time.Time
	Entries []LogEntry
}

func (rc *RunContext) log(level LogLevel, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	rc.Entries = append(rc.Entries, LogEntry{Time: time.Now(), Level: level, Message: msg})

	zl := zap.L().With(zap.String("run_id", rc.ID))
	switch level {
	case LogError:
		zl.Warn(msg)
	default:
		zl.Info(msg)
	}
}

// Infof records a progress entry.
func (rc *RunContext) Infof(format string, args ...any) {
	rc.log(LogInfo, format, args...)
}

// Successf records a milestone entry.
func (rc *RunContext) Successf(format string, args ...any) {
	rc.log(LogSuccess, format, args...)
}

// Errorf records a non-fatal problem entry.
func (rc *RunContext) Errorf(format string, args ...any) {
	rc.log(LogError, format, args...)
}
