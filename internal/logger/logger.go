package logger

import (
	"context"
	"time"

	"github.com/natefinch/lumberjack"
	logrus "github.com/sirupsen/logrus"
)

type contextKey struct{}

// Setup initializes logrus. When file is non-empty, output goes to a
// rotating log file; otherwise logrus keeps its default stderr output.
func Setup(level string, file string) {
	if file != "" {
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 7,
			MaxAge:     7, // days
			Compress:   true,
		}
		logrus.SetOutput(rotator)
	}
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// NewContext returns a context carrying a request id for correlation.
func NewContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKey{}, requestID)
}

// FromContext returns a logrus entry scoped to the context's request id,
// or the plain standard logger when none is set.
func FromContext(ctx context.Context) *logrus.Entry {
	if rid, ok := ctx.Value(contextKey{}).(string); ok && rid != "" {
		return logrus.WithField("request_id", rid)
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
