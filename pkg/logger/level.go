package logger

import "strings"

// ParseLevel maps a config string (e.g. from LECO_LOG_LEVEL) onto a Level,
// defaulting to INFO for anything unrecognized.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}
