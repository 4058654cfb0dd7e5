package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func GenerateTraceId() string {
	return uuid.New().String()
}

func logEntry(entry *log.Entry, level, message string) {
	switch level {
	case "debug":
		entry.Debug(message)
	case "info":
		entry.Info(message)
	case "warn":
		entry.Warn(message)
	case "error":
		entry.Error(message)
	case "fatal":
		entry.Fatal(message)
	default:
		entry.Info(message)
	}
}

// LogMessageWithFields logs a message enriched with the request's trace id.
func LogMessageWithFields(ctx *gin.Context, level, message string) {
	traceId, _ := ctx.Value(TraceIdKey.String()).(string)

	entry := log.WithFields(log.Fields{
		"traceId": traceId,
	})

	logEntry(entry, level, message)
}

// LogMessageWithFieldsAndError behaves like LogMessageWithFields and appends the error.
func LogMessageWithFieldsAndError(ctx *gin.Context, level, message string, err error) {
	LogMessageWithFields(ctx, level, message+": "+err.Error())
}
