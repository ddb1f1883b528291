package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

// inTempDir runs the test from an empty working directory so logs/ stays out of the tree
func inTempDir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestSetupLogging_DisabledByDefault(t *testing.T) {
	inTempDir(t)

	logger, logFile := setupLogging(false)
	if logFile != nil {
		t.Error("Expected nil log file when debug=false")
		logFile.Close()
	}
	if logger.Out != io.Discard {
		t.Errorf("Expected log output to be io.Discard, got %v", logger.Out)
	}
	if _, err := os.Stat(logDir); !os.IsNotExist(err) {
		t.Error("Expected no logs directory when debug=false")
	}
}

func TestSetupLogging_EnabledWithDebug(t *testing.T) {
	inTempDir(t)

	logger, logFile := setupLogging(true)
	if logFile == nil {
		t.Fatal("Expected non-nil log file when debug=true")
	}
	defer logFile.Close()

	if logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", logger.GetLevel())
	}

	logger.WithField("state", "PreGame").Info("Test log message")

	info, err := os.Stat(filepath.Join(logDir, logFileName))
	if err != nil {
		t.Fatalf("Failed to stat log file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected log file to contain content")
	}
}

func TestSetupLogging_Rotation(t *testing.T) {
	inTempDir(t)

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		t.Fatalf("Failed to create logs directory: %v", err)
	}
	logPath := filepath.Join(logDir, logFileName)
	if err := os.WriteFile(logPath, make([]byte, maxLogSize+1), 0o644); err != nil {
		t.Fatalf("Failed to write large log file: %v", err)
	}

	_, logFile := setupLogging(true)
	if logFile == nil {
		t.Fatal("Expected non-nil log file")
	}
	defer logFile.Close()

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("Failed to read logs directory: %v", err)
	}
	rotatedFound := false
	for _, entry := range entries {
		if entry.Name() != logFileName && filepath.Ext(entry.Name()) == ".log" {
			rotatedFound = true
			break
		}
	}
	if !rotatedFound {
		t.Error("Expected to find rotated log file")
	}

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat new log file: %v", err)
	}
	if info.Size() > maxLogSize {
		t.Errorf("Expected new log file to be smaller than %d bytes, got %d", maxLogSize, info.Size())
	}
}

func TestSetupLogging_NoStdoutStderr(t *testing.T) {
	inTempDir(t)

	for _, debug := range []bool{false, true} {
		logger, logFile := setupLogging(debug)
		if logFile != nil {
			defer logFile.Close()
		}
		if logger.Out == os.Stdout || logger.Out == os.Stderr {
			t.Errorf("debug=%v: log output must not be stdout or stderr", debug)
		}
	}
}
