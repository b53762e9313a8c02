package chiext

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Logger logs requests to log. Successful requests are logged at debug level.
func Logger(log *slog.Logger) func(next http.Handler) http.Handler {
	return middleware.RequestLogger(&RequestFormatter{Log: log})
}

type RequestFormatter struct {
	Log *slog.Logger
}

func (f *RequestFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("from", r.RemoteAddr),
	}
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		attrs = append(attrs, slog.String("request", reqID))
	}

	return &requestEntry{
		log:   f.Log,
		ctx:   r.Context(),
		attrs: attrs,
	}
}

type requestEntry struct {
	log   *slog.Logger
	ctx   context.Context
	attrs []slog.Attr
}

func (e *requestEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
	attrs := append(e.attrs,
		slog.Int("status", status),
		slog.Int("bytes", bytes),
		slog.Duration("elapsed", elapsed),
	)
	e.log.LogAttrs(e.ctx, statusLevel(status), "Request", attrs...)
}

func (e *requestEntry) Panic(v interface{}, stack []byte) {
	e.log.LogAttrs(e.ctx, slog.LevelError, "Recovered from panic", append(e.attrs, slog.Any("panic", v), slog.String("stack", string(stack)))...)
}

func statusLevel(status int) slog.Level {
	switch {
	case status < 400:
		return slog.LevelDebug
	case status < 500:
		return slog.LevelInfo
	default:
		return slog.LevelError
	}
}
