package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// FileLogger реализация логгера в файл
type FileLogger struct {
	mu       sync.Mutex
	filename string
	file     *os.File
	logger   *log.Logger
	logLevel string
	size     int64
	maxSize  int64
}

// NewFileLogger создает новый файловый логгер.
// Если запись в файл отключена, возвращает nil без ошибки.
func NewFileLogger(filename, logLevel string, maxSizeMB int, logToFile bool) (*FileLogger, error) {
	if !logToFile {
		return nil, nil
	}

	l := &FileLogger{
		filename: filename,
		logLevel: strings.ToLower(logLevel),
		maxSize:  int64(maxSizeMB) * 1024 * 1024,
	}
	if err := l.open(); err != nil {
		return nil, err
	}

	return l, nil
}

// Debug логирует отладочное сообщение
func (l *FileLogger) Debug(format string, args ...any) {
	if l.shouldLog("debug") {
		l.writeLog("DEBUG", format, args...)
	}
}

// Info логирует информационное сообщение
func (l *FileLogger) Info(format string, args ...any) {
	if l.shouldLog("info") {
		l.writeLog("INFO", format, args...)
	}
}

// Warning логирует предупреждение
func (l *FileLogger) Warning(format string, args ...any) {
	if l.shouldLog("warning") {
		l.writeLog("WARNING", format, args...)
	}
}

// Error логирует ошибку
func (l *FileLogger) Error(format string, args ...any) {
	if l.shouldLog("error") {
		l.writeLog("ERROR", format, args...)
	}
}

// Success логирует успешное выполнение
func (l *FileLogger) Success(format string, args ...any) {
	if l.shouldLog("info") {
		l.writeLog("SUCCESS", format, args...)
	}
}

// Close закрывает логгер
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		l.logger = nil
		return err
	}
	return nil
}

func (l *FileLogger) open() error {
	file, err := os.OpenFile(l.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}

	l.file = file
	l.size = info.Size()
	l.logger = log.New(file, "", log.LstdFlags)
	return nil
}

// rotate переносит текущий файл в <name>.1 и открывает новый
func (l *FileLogger) rotate() error {
	if err := l.file.Close(); err != nil {
		return err
	}
	if err := os.Rename(l.filename, l.filename+".1"); err != nil {
		return err
	}
	return l.open()
}

// writeLog записывает лог
func (l *FileLogger) writeLog(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logger == nil {
		return
	}

	if l.maxSize > 0 && l.size >= l.maxSize {
		if err := l.rotate(); err != nil {
			l.logger = nil
			return
		}
	}

	line := fmt.Sprintf("[%s] %s", level, fmt.Sprintf(format, args...))
	l.logger.Print(line)
	// Префикс LstdFlags + перевод строки
	l.size += int64(len(line)) + 20
}

// shouldLog проверяет, нужно ли логировать на данном уровне
func (l *FileLogger) shouldLog(level string) bool {
	levels := map[string]int{
		"debug":   0,
		"info":    1,
		"warning": 2,
		"error":   3,
	}

	currentLevel, ok := levels[l.logLevel]
	if !ok {
		currentLevel = 1 // default to info
	}

	messageLevel, ok := levels[level]
	if !ok {
		return false
	}

	return messageLevel >= currentLevel
}

// NopLogger логгер, который ничего не пишет
type NopLogger struct{}

func (NopLogger) Debug(string, ...any)   {}
func (NopLogger) Info(string, ...any)    {}
func (NopLogger) Warning(string, ...any) {}
func (NopLogger) Error(string, ...any)   {}
func (NopLogger) Success(string, ...any) {}
func (NopLogger) Close() error           { return nil }
