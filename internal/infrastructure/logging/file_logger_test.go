package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileLogger_Disabled(t *testing.T) {
	l, err := NewFileLogger(filepath.Join(t.TempDir(), "app.log"), "info", 10, false)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	if l != nil {
		t.Error("Expected nil logger when file logging is disabled")
	}
}

func TestFileLogger_Levels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := NewFileLogger(path, "warning", 10, true)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	l.Debug("debug %d", 1)
	l.Info("info %d", 2)
	l.Warning("warning %d", 3)
	l.Error("error %d", 4)
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	content := string(data)

	if strings.Contains(content, "debug 1") || strings.Contains(content, "info 2") {
		t.Errorf("Messages below the level must be filtered:\n%s", content)
	}
	if !strings.Contains(content, "[WARNING] warning 3") || !strings.Contains(content, "[ERROR] error 4") {
		t.Errorf("Expected warning and error messages:\n%s", content)
	}
}

func TestFileLogger_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := NewFileLogger(path, "info", 1, true)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer l.Close()

	message := strings.Repeat("x", 4096)
	for i := 0; i < 300; i++ {
		l.Info("%s", message)
	}

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Errorf("Expected rotated file: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size() >= 1024*1024 {
		t.Errorf("Active log file was not rotated, size %d", info.Size())
	}
}

func TestFileLogger_WriteAfterClose(t *testing.T) {
	l, err := NewFileLogger(filepath.Join(t.TempDir(), "app.log"), "info", 10, true)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	l.Close()

	// Не должно паниковать
	l.Info("after close")
}
