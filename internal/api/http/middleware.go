package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"crown-hotels-booking/internal/logger"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

const traceparentHeader = "traceparent"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRemoteSpan binds a W3C traceparent sent by the caller to the request
// context so handlers and logs share the caller's trace id.
func withRemoteSpan(ctx context.Context, header string) context.Context {
	parts := strings.Split(strings.TrimSpace(header), "-")
	if len(parts) != 4 || parts[0] != "00" {
		return ctx
	}
	traceID, err := trace.TraceIDFromHex(parts[1])
	if err != nil {
		return ctx
	}
	spanID, err := trace.SpanIDFromHex(parts[2])
	if err != nil {
		return ctx
	}
	var flags trace.TraceFlags
	if parts[3] == "01" {
		flags = trace.FlagsSampled
	}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: flags,
		Remote:     true,
	})
	if !sc.IsValid() {
		return ctx
	}
	return trace.ContextWithRemoteSpanContext(ctx, sc)
}

func traceIDFrom(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now().UTC()

		ctx := withRemoteSpan(r.Context(), r.Header.Get(traceparentHeader))
		traceID := traceIDFrom(ctx)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		w.Header().Set("X-Trace-Id", traceID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.InfoContext(ctx, "HTTP request",
			"type", "access",
			"method", r.Method,
			"url", r.URL.Path,
			"status", rec.status,
			"user_agent", r.Header.Get("User-Agent"),
			"trace_id", traceID,
			"latency", time.Since(start).String(),
		)
	})
}

func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if re := recover(); re != nil {
				err, ok := re.(error)
				if !ok {
					err = fmt.Errorf("%v", re)
				}
				logger.ErrorContext(r.Context(), "Panic while serving request", "type", "panic", "path", r.URL.Path, "error", err)
				writeJSONError(w, http.StatusInternalServerError, "Internal Server Error", "")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
