package utils

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

const (
	DEBUG    = "debug"
	INFO     = "info"
	WARNING  = "warning"
	ERROR    = "error"
	CRITICAL = "critical"
)

type Logger struct {
	LogLevel    string
	Message     string
	ServiceName string
}

var slogger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{TimeFormat: time.DateTime}))

// LogMessage writes a leveled log line tagged with the emitting service and
// returns a trace id for correlating follow-ups.
func LogMessage(logLevel string, message string, service string, forcedTraceId ...string) string {
	traceId := RandString(12)
	//manually set log trace id
	if len(forcedTraceId) != 0 && forcedTraceId[0] != "" {
		traceId = forcedTraceId[0]
	}
	attrs := []any{"service", service, "trace_id", traceId}
	switch logLevel {
	case DEBUG:
		slogger.Debug(message, attrs...)
	case WARNING:
		slogger.Warn(message, attrs...)
	case ERROR, CRITICAL:
		slogger.Error(message, attrs...)
	default:
		slogger.Info(message, attrs...)
	}
	return traceId
}
