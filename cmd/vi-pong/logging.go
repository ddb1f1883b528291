package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	logDir      = "logs"
	logFileName = "vi-pong.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging builds the game logger
// The terminal owns stdout and stderr, so logs go to logs/vi-pong.log when debug is set
// and are discarded otherwise. An oversized log file is rotated with a timestamp suffix.
// The returned file is nil when logging is disabled or the file could not be opened.
func setupLogging(debug bool) (*logrus.Logger, *os.File) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
		FullTimestamp:   true,
	})

	if !debug {
		logger.SetOutput(io.Discard)
		logger.SetLevel(logrus.WarnLevel)
		return logger, nil
	}

	f, err := openLogFile()
	if err != nil {
		logger.SetOutput(io.Discard)
		return logger, nil
	}
	logger.SetOutput(f)
	logger.SetLevel(logrus.DebugLevel)
	return logger, f
}

func openLogFile() (*os.File, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("vi-pong-%s.log", time.Now().Format("20060102-150405")))
		if err := os.Rename(logPath, rotated); err != nil {
			return nil, fmt.Errorf("rotate log: %w", err)
		}
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return f, nil
}
