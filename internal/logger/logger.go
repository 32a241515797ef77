package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logFile *os.File
	sugar   *zap.SugaredLogger
	mu      sync.Mutex
	enabled = true
)

const (
	maxLogSize = 5 * 1024 * 1024 // 5MB
)

// Dir returns the directory holding rove's log, config and todo files.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "rove"), nil
}

// Init opens ~/.config/rove/rove.log and builds the zap core writing to it
func Init() error {
	logDir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("cannot create log directory: %w", err)
	}
	return InitFile(filepath.Join(logDir, "rove.log"))
}

// InitFile is Init with an explicit log path
func InitFile(logPath string) error {
	// Check if log file needs rotation
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		oldPath := logPath + ".old"
		_ = os.Remove(oldPath)
		_ = os.Rename(logPath, oldPath)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encCfg.EncodeCaller = nil
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(file),
		zapcore.DebugLevel,
	)

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file
	sugar = zap.New(core).Sugar()
	return nil
}

// Close flushes and closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if sugar != nil {
		_ = sugar.Sync()
		sugar = nil
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// Disable disables logging (useful for tests)
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = false
}

// Enable enables logging
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
}

// Error logs an error message
func Error(format string, args ...any) {
	log(zapcore.ErrorLevel, format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...any) {
	log(zapcore.WarnLevel, format, args...)
}

// Info logs an informational message
func Info(format string, args ...any) {
	log(zapcore.InfoLevel, format, args...)
}

// Debug logs a debug message
func Debug(format string, args ...any) {
	log(zapcore.DebugLevel, format, args...)
}

func log(level zapcore.Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || sugar == nil {
		return
	}
	switch level {
	case zapcore.ErrorLevel:
		sugar.Errorf(format, args...)
	case zapcore.WarnLevel:
		sugar.Warnf(format, args...)
	case zapcore.InfoLevel:
		sugar.Infof(format, args...)
	default:
		sugar.Debugf(format, args...)
	}
}
