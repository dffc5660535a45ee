package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Logger is the process-wide logger. It discards output until InitLogger
// runs so packages can log from tests without setup.
var Logger = zap.NewNop()

// InitLogger installs the production JSON logger, or the development
// console logger when debug is set.
func InitLogger(debug bool) error {
	var (
		l   *zap.Logger
		err error
	)

	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}

	Logger = l.With(zap.String("service", ServiceName()))
	return nil
}

func SyncLogger() {
	_ = Logger.Sync()
}

// LoggerWithTrace returns Logger with trace_id and span_id fields taken
// from the span in ctx. The context itself is attached as a field so the
// otelzap core can emit OTLP records carrying the native trace ids; the
// string fields keep stdout JSON greppable.
func LoggerWithTrace(ctx context.Context) *zap.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return Logger
	}

	return Logger.With(
		zap.Any("context", ctx),
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
