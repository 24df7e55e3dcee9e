package slogobs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Format selects how the handler renders a record.
type Format string

const (
	// FormatCompact renders one line: time, level, message, then attrs as JSON.
	FormatCompact Format = "compact"
	// FormatPretty renders the message line followed by one indented line per attr.
	FormatPretty Format = "pretty"
	// FormatJSON delegates to slog.JSONHandler.
	FormatJSON Format = "json"
)

// LevelTrace sits below slog.LevelDebug.
const LevelTrace = slog.LevelDebug - 4

// ParseFormat maps a case-insensitive name to a Format, defaulting to compact.
func ParseFormat(s string) Format {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPretty:
		return FormatPretty
	case FormatJSON:
		return FormatJSON
	default:
		return FormatCompact
	}
}

// FormatFromEnv reads AISTATS_LOG_FORMAT, then LOG_FORMAT.
func FormatFromEnv() Format {
	return ParseFormat(firstEnv("AISTATS_LOG_FORMAT", "LOG_FORMAT"))
}

// ParseLevel maps TRACE, DEBUG, INFO, WARN(ING) and ERROR to slog levels.
// Unknown values fall back to INFO with an error describing the input.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "", "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// LevelFromEnv reads AISTATS_LOG_LEVEL, then LOG_LEVEL. An unknown value is
// reported on stderr and treated as INFO.
func LevelFromEnv() slog.Level {
	level, err := ParseLevel(firstEnv("AISTATS_LOG_LEVEL", "LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "slogobs: %v, using INFO\n", err)
	}
	return level
}

func levelName(level slog.Level) string {
	if level < slog.LevelDebug {
		return "TRACE"
	}
	return level.String()
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
