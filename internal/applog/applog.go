package applog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	fileName    = "tabstash.log"
	maxFileSize = 5 << 20 // 5 MB
	maxValueLen = 200
	truncSuffix = "…"
)

var (
	mu     sync.Mutex
	logger = zap.NewNop()
	file   *os.File
)

// Init opens the log file for appending. Call once at startup.
// If the file exceeds 5 MB, it is rotated (renamed to .log.1) before opening.
// Safe to skip — all log calls become no-ops if not initialized.
func Init(dir, level string) error {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return fmt.Errorf("parse log level %q: %w", level, err)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, fileName)

	// Rotate if too large.
	if info, err := os.Stat(path); err == nil && info.Size() > maxFileSize {
		os.Rename(path, path+".1")
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(f), lvl)

	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		logger.Sync()
		file.Close()
	}
	file = f
	logger = zap.New(core)
	return nil
}

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		logger.Sync()
		file.Close()
		file = nil
	}
	logger = zap.NewNop()
}

// Info logs a structured event line.
//
//	applog.Info("ws.connected", "remote", addr)
//	applog.Info("catalog.create", "id", id, "tabs", 42)
func Info(event string, kv ...any) {
	current().Info(event, fields(kv)...)
}

// Debug logs a verbose event line.
func Debug(event string, kv ...any) {
	current().Debug(event, fields(kv)...)
}

// Error logs an event with an error.
//
//	applog.Error("ws.send", err, "action", "open")
func Error(event string, err error, kv ...any) {
	fs := fields(kv)
	if err != nil {
		fs = append(fs, zap.String("err", truncate(err.Error())))
	}
	current().Error(event, fs...)
}

func current() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

func fields(kv []any) []zap.Field {
	fs := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		switch v := kv[i+1].(type) {
		case string:
			fs = append(fs, zap.String(key, truncate(v)))
		case int:
			fs = append(fs, zap.Int(key, v))
		case bool:
			fs = append(fs, zap.Bool(key, v))
		default:
			fs = append(fs, zap.String(key, truncate(fmt.Sprint(v))))
		}
	}
	return fs
}

func truncate(s string) string {
	if len(s) > maxValueLen {
		return s[:maxValueLen] + truncSuffix
	}
	return s
}
