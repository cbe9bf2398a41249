// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

// Package log provides the leveled logging facade used throughout the
// SDK. Callers may swap in their own sink with UseLogger; by default
// messages go to the standard library logger.
package log

import (
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Level controls which severities are emitted.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

const prefixMsg = "Wavefront"

// Logger is the sink every leveled call is eventually routed through.
type Logger interface {
	Log(msg string)
}

type defaultLogger struct{}

func (defaultLogger) Log(msg string) { log.Print(msg) }

var (
	mu             sync.Mutex
	logger         Logger = defaultLogger{}
	levelThreshold       = LevelInfo
)

// UseLogger installs l as the sink for all subsequent log calls.
func UseLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// SetLevel adjusts the severity threshold; calls below the threshold are
// dropped cheaply, before formatting.
func SetLevel(lvl Level) {
	mu.Lock()
	defer mu.Unlock()
	levelThreshold = lvl
}

// DebugEnabled reports whether Debug-level calls are currently emitted.
func DebugEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return levelThreshold >= LevelDebug
}

func enabled(lvl Level) bool {
	mu.Lock()
	defer mu.Unlock()
	return levelThreshold >= lvl
}

func emit(lvl Level, lvlName, format string, args ...interface{}) {
	if !enabled(lvl) {
		return
	}
	logger.Log(fmt.Sprintf("%s %s: %s", prefixMsg, lvlName, fmt.Sprintf(format, args...)))
}

func Debug(format string, args ...interface{}) { emit(LevelDebug, "DEBUG", format, args...) }
func Info(format string, args ...interface{})  { emit(LevelInfo, "INFO", format, args...) }
func Warn(format string, args ...interface{})  { emit(LevelWarn, "WARN", format, args...) }

// Error logs at error severity, rate-limited per distinct format string:
// one line per errEvery gets through. The first time a format string is
// rate-limited, that occurrence is still logged with a
// "(subsequent occurrences suppressed)" suffix; later limited occurrences
// are dropped silently, and how many were dropped is never reported.
func Error(format string, args ...interface{}) {
	if !enabled(LevelError) {
		return
	}
	if errorLimiter(format).Allow() {
		emit(LevelError, "ERROR", format, args...)
		return
	}
	skipped := incrSkipped(format)
	if skipped == 1 {
		emit(LevelError, "ERROR", format+" (subsequent occurrences suppressed)", args...)
	}
}

var (
	errEvery     = time.Minute
	limiterMu    sync.Mutex
	limiters     = map[string]*rate.Limiter{}
	skippedMu    sync.Mutex
	skippedCount = map[string]int{}
)

// SetErrorRate adjusts how often a repeated Error format string is allowed
// through; a zero duration disables suppression entirely.
func SetErrorRate(d time.Duration) {
	limiterMu.Lock()
	defer limiterMu.Unlock()
	errEvery = d
	limiters = map[string]*rate.Limiter{}
}

func errorLimiter(key string) *rate.Limiter {
	limiterMu.Lock()
	defer limiterMu.Unlock()
	l, ok := limiters[key]
	if !ok {
		if errEvery <= 0 {
			l = rate.NewLimiter(rate.Inf, 1)
		} else {
			l = rate.NewLimiter(rate.Every(errEvery), 1)
		}
		limiters[key] = l
	}
	return l
}

func incrSkipped(key string) int {
	skippedMu.Lock()
	defer skippedMu.Unlock()
	skippedCount[key]++
	return skippedCount[key]
}
