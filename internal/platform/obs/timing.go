package obs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used for operation timing.
func SetLogger(l logrus.FieldLogger) {
	logger = l
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Log returns a log entry carrying the request id from ctx, if any.
func Log(ctx context.Context) *logrus.Entry {
	entry := logger.WithFields(logrus.Fields{})
	if id := RequestID(ctx); id != "" {
		entry = entry.WithField("req_id", id)
	}
	return entry
}

// Time logs how long an operation took. Use as:
//
//	defer obs.Time(ctx, "op")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		entry := Log(ctx).WithFields(logrus.Fields{
			"op":     name,
			"dur_ms": time.Since(start).Milliseconds(),
		})

		if errp != nil && *errp != nil {
			entry.WithError(*errp).Warn("operation failed")
			return
		}
		entry.Debug("operation done")
	}
}
