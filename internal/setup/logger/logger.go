package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// GetLoggers sets up the logging infrastructure by creating a timestamped
// session directory and initializing separate loggers for the main
// application and database query logging. Both loggers carry a per-process
// instance ID so interleaved sessions can be told apart.
func GetLoggers(logDir, level string, maxLogsToKeep int) (*zap.Logger, *zap.Logger, error) {
	// Ensure log directory exists
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	// Clean up old log sessions before creating new ones
	if err := rotateLogSessions(logDir, maxLogsToKeep); err != nil {
		return nil, nil, fmt.Errorf("failed to rotate log sessions: %w", err)
	}

	// Create timestamped directory for this session's logs
	sessionDir := filepath.Join(logDir, time.Now().Format("2006-01-02_15-04-05"))
	if err := os.MkdirAll(sessionDir, os.ModePerm); err != nil {
		return nil, nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	instanceID := uuid.New().String()

	mainLogger, err := newLogger(filepath.Join(sessionDir, "main.log"), level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create main logger: %w", err)
	}

	dbLogger, err := newLogger(filepath.Join(sessionDir, "database.log"), level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create database logger: %w", err)
	}

	field := zap.String("instance_id", instanceID)

	return mainLogger.With(field), dbLogger.With(field), nil
}

// newLogger builds a logger that writes to both the console and a session
// log file at the configured level.
func newLogger(logPath, level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())

	core := zapcore.NewTee(
		zapcore.NewCore(fileEncoder, zapcore.AddSync(file), zapLevel),
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), zapLevel),
	)

	return zap.New(core, zap.AddCaller()), nil
}

// rotateLogSessions removes the oldest session directories once the count
// exceeds maxLogsToKeep.
func rotateLogSessions(logDir string, maxLogsToKeep int) error {
	sessions, err := filepath.Glob(filepath.Join(logDir, "*"))
	if err != nil {
		return err
	}

	if len(sessions) <= maxLogsToKeep {
		return nil
	}

	// Sort sessions by name; the timestamp format makes this chronological
	sort.Strings(sessions)

	for _, session := range sessions[:len(sessions)-maxLogsToKeep] {
		if err := os.RemoveAll(session); err != nil {
			return err
		}
	}

	return nil
}
