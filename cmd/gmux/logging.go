package main

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/brianhealey/gmux/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// setupLogging installs the default slog logger. Records go to stderr and,
// when log.file is set, also to a size-rotated file.
func setupLogging(lc config.LogConfig, stderr io.Writer) (io.Closer, error) {
	level, err := config.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}

	w := stderr
	var closer io.Closer = nopCloser{}
	if lc.File != "" {
		lj := &lumberjack.Logger{
			Filename:   lc.File,
			MaxSize:    lc.MaxSizeMB,
			MaxBackups: lc.MaxBackups,
			MaxAge:     lc.MaxAgeDays,
			Compress:   lc.Compress,
		}
		w = io.MultiWriter(stderr, lj)
		closer = lj
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return closer, nil
}
