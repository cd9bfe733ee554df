// internal/logger/logger.go
//
// Structured JSON logger (Zap + Lumberjack).
//
// Context
// -------
// corpsite writes lifecycle, request, and error events as JSON to
// `<dir>/corpsite.log`.  When Console is set (interactive TTY, or a
// container that ships stdout) the same events are teed, human-readable,
// to stdout.  Rotation, compression, and retention are handled by
// Lumberjack; no external log-rotate job is required.  An empty Dir means
// console only.
//
// Usage
// -----
//
//	log, err := logger.New(logger.Options{Dir: dir, Level: "info", Console: true})
//	if err != nil { … }
//	log.Infow("server online", "addr", addr)
//
// Notes
// -----
// • Zap core uses ISO-8601 timestamps and lowercase levels.
// • The logger is installed as the process default via zap.ReplaceGlobals.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// level is shared by every core built by New so SetLevel can change
// verbosity without rebuilding sinks.
var level = zap.NewAtomicLevel()

// Options selects sinks and verbosity.
type Options struct {
	Dir     string
	Level   string
	Console bool
}

// New builds the logger described by o and installs it globally.
func New(o Options) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(o.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	level.SetLevel(lvl)

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	var (
		cores  []zapcore.Core
		errOut zapcore.WriteSyncer = zapcore.AddSync(os.Stderr)
	)

	if o.Dir != "" {
		if err := os.MkdirAll(o.Dir, 0o755); err != nil {
			return nil, err
		}
		fileSink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(o.Dir, "corpsite.log"),
			MaxSize:    50, // MB
			MaxBackups: 7,
			MaxAge:     14, // days
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileSink, level))
		errOut = fileSink
	}

	if o.Console || o.Dir == "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stdout),
			level,
		))
	}

	z := zap.New(
		zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.ErrorOutput(errOut),
	).Sugar()

	zap.ReplaceGlobals(z.Desugar())

	z.Infow("logger online", "level", lvl.String(), "dir", o.Dir, "console", o.Console)
	return z, nil
}

// SetLevel changes verbosity of loggers built by New, e.g. after a config
// reload.
func SetLevel(s string) error {
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	level.SetLevel(lvl)
	return nil
}

// Console returns a console-only logger for commands that run before (or
// without) configuration, such as sitectl.
func Console(lvl string) *zap.SugaredLogger {
	z, err := New(Options{Level: lvl, Console: true})
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return z
}
