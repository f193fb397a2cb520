package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
)

const (
	// Skip the global helpers and logWithContext wrappers so the caller
	// column points at application code.
	callerSkip = 3
)

// Logger is the structured logging interface the rest of the application
// programs against. The context carries the active span, if any.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...zap.Field)
	Info(ctx context.Context, msg string, fields ...zap.Field)
	Warn(ctx context.Context, msg string, fields ...zap.Field)
	Error(ctx context.Context, msg string, fields ...zap.Field)
	Fatal(ctx context.Context, msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	Sync() error
}

// LoggerComponent owns the zap logger lifecycle and installs itself as the
// process-wide logger on Start.
type LoggerComponent struct {
	*core.BaseComponent
	config    *Config
	zapLogger *zap.Logger
}

func NewLoggerComponent(cfg *Config) *LoggerComponent {
	return &LoggerComponent{
		BaseComponent: core.NewBaseComponent(consts.COMPONENT_LOGGING),
		config:        cfg,
	}
}

func (lc *LoggerComponent) Start(ctx context.Context) error {
	if err := lc.BaseComponent.Start(ctx); err != nil {
		return err
	}

	encoder := lc.buildEncoder()

	writeSyncer, err := lc.buildWriteSyncer()
	if err != nil {
		return fmt.Errorf("failed to create write syncer: %w", err)
	}

	level := lc.parseLevel(lc.config.Level)

	lc.zapLogger = zap.New(
		zapcore.NewCore(encoder, writeSyncer, level),
		zap.AddCaller(),
		zap.AddCallerSkip(callerSkip),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)

	lc.zapLogger.Info("logger component started",
		zap.String("level", lc.config.Level),
		zap.String("format", lc.config.Format),
		zap.String("output", lc.config.Output),
	)

	SetGlobalLogger(lc)
	return nil
}

func (lc *LoggerComponent) Stop(ctx context.Context) error {
	if lc.zapLogger != nil {
		Info(ctx, "logger component stopping")
		_ = lc.zapLogger.Sync()
	}
	return lc.BaseComponent.Stop(ctx)
}

func (lc *LoggerComponent) HealthCheck() error {
	if err := lc.BaseComponent.HealthCheck(); err != nil {
		return err
	}
	if lc.zapLogger == nil {
		return fmt.Errorf("zap logger is not initialized")
	}
	return nil
}

func (lc *LoggerComponent) buildEncoder() zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if lc.config.Format == "json" {
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func (lc *LoggerComponent) buildWriteSyncer() (zapcore.WriteSyncer, error) {
	switch strings.ToLower(lc.config.Output) {
	case "stdout", "":
		return zapcore.AddSync(os.Stdout), nil
	case "stderr":
		return zapcore.AddSync(os.Stderr), nil
	case "file":
		return lc.buildFileWriteSyncer()
	default:
		// Anything else is treated as a file path.
		return lc.openAppendFile(lc.config.Output)
	}
}

func (lc *LoggerComponent) buildFileWriteSyncer() (zapcore.WriteSyncer, error) {
	if lc.config.FileConfig == nil {
		return nil, fmt.Errorf("file config is required when output is 'file'")
	}

	if err := os.MkdirAll(lc.config.FileConfig.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile := filepath.Join(lc.config.FileConfig.Dir, lc.config.FileConfig.Filename+".log")

	if rc := lc.config.RotateConfig; rc != nil && rc.Enabled {
		maxSize := rc.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 100
		}
		lumber := &lumberjack.Logger{
			Filename:  logFile,
			MaxSize:   maxSize,
			MaxAge:    int(rc.MaxAge.Hours() / 24),
			Compress:  rc.Compress,
			LocalTime: true,
		}
		return zapcore.AddSync(lumber), nil
	}

	return lc.openAppendFile(logFile)
}

func (lc *LoggerComponent) openAppendFile(filePath string) (zapcore.WriteSyncer, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return zapcore.AddSync(file), nil
}

func (lc *LoggerComponent) parseLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "FATAL":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func (lc *LoggerComponent) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	lc.logWithContext(ctx, zapcore.DebugLevel, msg, fields...)
}

func (lc *LoggerComponent) Info(ctx context.Context, msg string, fields ...zap.Field) {
	lc.logWithContext(ctx, zapcore.InfoLevel, msg, fields...)
}

func (lc *LoggerComponent) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	lc.logWithContext(ctx, zapcore.WarnLevel, msg, fields...)
}

func (lc *LoggerComponent) Error(ctx context.Context, msg string, fields ...zap.Field) {
	lc.logWithContext(ctx, zapcore.ErrorLevel, msg, fields...)
}

func (lc *LoggerComponent) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	lc.logWithContext(ctx, zapcore.FatalLevel, msg, fields...)
}

func (lc *LoggerComponent) With(fields ...zap.Field) Logger {
	return &LoggerComponent{
		BaseComponent: lc.BaseComponent,
		config:        lc.config,
		zapLogger:     lc.zapLogger.With(fields...),
	}
}

func (lc *LoggerComponent) Sync() error {
	if lc.zapLogger != nil {
		return lc.zapLogger.Sync()
	}
	return nil
}

// logWithContext injects trace/span identifiers from the context when a
// valid span is recording.
func (lc *LoggerComponent) logWithContext(ctx context.Context, level zapcore.Level, msg string, fields ...zap.Field) {
	if lc.zapLogger == nil {
		return
	}

	if ctx != nil {
		sc := trace.SpanContextFromContext(ctx)
		if sc.IsValid() && sc.TraceID().IsValid() {
			if !hasField(fields, consts.KEY_TraceID) {
				fields = append([]zap.Field{zap.String(consts.KEY_TraceID, sc.TraceID().String())}, fields...)
			}
			if !hasField(fields, "span_id") {
				fields = append([]zap.Field{zap.String("span_id", sc.SpanID().String())}, fields...)
			}
		}
	}

	switch level {
	case zapcore.DebugLevel:
		lc.zapLogger.Debug(msg, fields...)
	case zapcore.InfoLevel:
		lc.zapLogger.Info(msg, fields...)
	case zapcore.WarnLevel:
		lc.zapLogger.Warn(msg, fields...)
	case zapcore.ErrorLevel:
		lc.zapLogger.Error(msg, fields...)
	case zapcore.FatalLevel:
		lc.zapLogger.Fatal(msg, fields...)
	}
}

func hasField(fields []zap.Field, key string) bool {
	for _, f := range fields {
		if f.Key == key {
			return true
		}
	}
	return false
}

func (lc *LoggerComponent) GetLogger() Logger { return lc }

func (lc *LoggerComponent) GetZapLogger() *zap.Logger { return lc.zapLogger }
