package log

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
	level       slog.LevelVar
	panicDir    atomic.Pointer[string]
)

// Setup sends the default slog logger to a rotating JSON log file.
func Setup(logFile string, debug bool) {
	initOnce.Do(func() {
		logRotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // Max size in MB
			MaxBackups: 0,
			MaxAge:     30, // Days
			Compress:   false,
		}

		SetDebug(debug)
		handler := slog.NewJSONHandler(logRotator, &slog.HandlerOptions{
			Level:     &level,
			AddSource: true,
		})

		dir := filepath.Dir(logFile)
		panicDir.Store(&dir)
		slog.SetDefault(slog.New(handler))
		initialized.Store(true)
	})
}

// SetDebug switches debug logging on or off after Setup.
func SetDebug(debug bool) {
	if debug {
		level.Set(slog.LevelDebug)
		return
	}
	level.Set(slog.LevelInfo)
}

// Initialized reports whether Setup ran.
func Initialized() bool {
	return initialized.Load()
}

// RecoverPanic is deferred at the top of goroutines. A panic is written to a
// timestamped file next to the log, then cleanup runs.
func RecoverPanic(name string, cleanup func()) {
	r := recover()
	if r == nil {
		return
	}

	dir := "."
	if d := panicDir.Load(); d != nil {
		dir = *d
	}
	timestamp := time.Now().Format("20060102-150405")
	filename := filepath.Join(dir, fmt.Sprintf("turbo-panic-%s-%s.log", name, timestamp))

	slog.Error("Recovered from panic", "name", name, "panic", r, "file", filename)
	if file, err := os.Create(filename); err == nil {
		fmt.Fprintf(file, "Panic in %s: %v\n\n", name, r)
		fmt.Fprintf(file, "Time: %s\n\n", time.Now().Format(time.RFC3339))
		fmt.Fprintf(file, "Stack Trace:\n%s\n", debug.Stack())
		file.Close()
	}

	if cleanup != nil {
		cleanup()
	}
}
