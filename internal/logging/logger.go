package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kingrea/deckhand/internal/config"
)

// Logger writes JSON lines to .deckhand/logs/deckhand.log so users can
// inspect failures after the TUI exits. It never writes to the terminal.
type Logger struct {
	zap     *zap.Logger
	rotator *lumberjack.Logger
}

// New opens the rotating log file configured for the project.
func New(cfg *config.Config) (*Logger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("logging: config is nil")
	}
	if err := os.MkdirAll(cfg.LogsDir(), 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	level, err := zapcore.ParseLevel(cfg.Project.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.LogPath(),
		MaxSize:    cfg.Project.Logging.MaxSizeMB,
		MaxBackups: cfg.Project.Logging.MaxBackups,
		Compress:   true,
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(rotator),
		level,
	)
	return &Logger{zap: zap.New(core, zap.AddCaller()), rotator: rotator}, nil
}

// Wrap adapts an existing zap logger, typically an observer in tests.
func Wrap(l *zap.Logger) *Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &Logger{zap: l}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return Wrap(zap.NewNop())
}

func encoderConfig() zapcore.EncoderConfig {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.MessageKey = "message"
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	return enc
}

// Zap returns the structured logger.
func (l *Logger) Zap() *zap.Logger {
	if l == nil || l.zap == nil {
		return zap.NewNop()
	}
	return l.zap
}

// Named returns a structured logger tagged with component.
func (l *Logger) Named(component string) *zap.Logger {
	return l.Zap().With(zap.String("component", component))
}

// Printf writes a single informational line.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.zap == nil {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	l.zap.Info(line)
}

// Close flushes buffered entries and releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.zap == nil {
		return nil
	}
	_ = l.zap.Sync()
	if l.rotator != nil {
		return l.rotator.Close()
	}
	return nil
}
