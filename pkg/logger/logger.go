package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogLevel int

const (
	LevelInfo LogLevel = iota
	LevelDebug
	LevelTrace
)

// ParseLevel maps a config string onto a LogLevel. Unknown values fall back to LevelInfo.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "trace":
		return LevelTrace
	default:
		return LevelInfo
	}
}

type FileOptions struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Logger struct {
	zl        zerolog.Logger
	out       io.Writer
	files     []*lumberjack.Logger
	component string
	pretty    bool
	timestamp bool
	level     LogLevel
	isVerbose bool
}

type Option func(*Logger)

func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.out = w
	}
}

// WithPrefix tags every entry with a component name. Brackets and
// surrounding spaces are stripped, so "[labelsplit] " becomes "labelsplit".
func WithPrefix(prefix string) Option {
	return func(l *Logger) {
		l.component = strings.Trim(prefix, "[] ")
	}
}

func WithTimestamp(enabled bool) Option {
	return func(l *Logger) {
		l.timestamp = enabled
	}
}

// WithJSON switches the console output from the human readable format to JSON lines.
func WithJSON() Option {
	return func(l *Logger) {
		l.pretty = false
	}
}

// WithFile adds a size-rotated log file next to the console output.
func WithFile(opts FileOptions) Option {
	return func(l *Logger) {
		if opts.Filename == "" {
			return
		}
		_ = os.MkdirAll(filepath.Dir(opts.Filename), 0755)
		l.files = append(l.files, &lumberjack.Logger{
			Filename:   opts.Filename,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		})
	}
}

func New(options ...Option) *Logger {
	l := &Logger{
		out:       os.Stdout,
		pretty:    true,
		timestamp: true,
		level:     LevelInfo,
		isVerbose: false,
	}

	for _, opt := range options {
		opt(l)
	}

	l.build()
	return l
}

func (l *Logger) build() {
	console := l.out
	if l.pretty {
		console = zerolog.ConsoleWriter{Out: l.out, NoColor: true, TimeFormat: time.RFC3339}
	}

	writers := []io.Writer{console}
	for _, f := range l.files {
		writers = append(writers, f)
	}

	// Level gating happens in the methods below, zerolog passes everything.
	ctx := zerolog.New(io.MultiWriter(writers...)).Level(zerolog.TraceLevel).With()
	if l.timestamp {
		ctx = ctx.Timestamp()
	}
	if l.component != "" {
		ctx = ctx.Str("component", l.component)
	}
	l.zl = ctx.Logger()
}

func (l *Logger) SetVerbose(verbose bool) {
	l.isVerbose = verbose
}

func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
	if level >= LevelDebug {
		l.isVerbose = true
	}
}

func (l *Logger) IsVerbose() bool {
	return l.isVerbose
}

// Zerolog exposes the underlying logger for call sites that want structured fields.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.isVerbose {
		l.zl.Debug().Msgf(format, args...)
	}
}

func (l *Logger) Trace(format string, args ...interface{}) {
	if l.level >= LevelTrace {
		l.zl.Trace().Msgf(format, args...)
	}
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.zl.Fatal().Msgf(format, args...)
}

// Close flushes and closes any rotated log files.
func (l *Logger) Close() error {
	var firstErr error
	for _, f := range l.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
