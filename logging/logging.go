package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much the process logs
type Options struct {
	Level      string // logrus level name, defaults to info
	File       string // optional path of a rotated log file, written alongside stderr
	JSON       bool
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Setup configures the standard logrus logger and returns a closer for the
// rotated file, if one was opened
func Setup(opts Options) (io.Closer, error) {
	return configure(log.StandardLogger(), os.Stderr, opts)
}

func configure(logger *log.Logger, console io.Writer, opts Options) (io.Closer, error) {
	level := log.InfoLevel
	if strings.TrimSpace(opts.Level) != "" {
		parsed, err := log.ParseLevel(strings.TrimSpace(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	logger.SetLevel(level)

	if opts.JSON {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if opts.File == "" {
		logger.SetOutput(console)
		return io.NopCloser(nil), nil
	}

	rotate := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    withDefault(opts.MaxSizeMB, 100),
		MaxBackups: withDefault(opts.MaxBackups, 5),
		MaxAge:     withDefault(opts.MaxAgeDays, 28),
		LocalTime:  false,
		Compress:   opts.Compress,
	}
	logger.SetOutput(io.MultiWriter(console, rotate))
	return rotate, nil
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
