// Package reqlog is the outermost HTTP middleware: it tags each request with
// an ID, logs one line when the request finishes, records request metrics,
// and turns panics into a 500 envelope.
package reqlog

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/dalemusser/lessonhub/internal/app/system/metrics"
	"github.com/dalemusser/lessonhub/internal/app/system/respond"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Header carries the request ID in both directions.
const Header = "X-Request-ID"

type ctxKey struct{}

// ID returns the request ID stored by Middleware, or "".
func ID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// WithID returns ctx carrying id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Middleware returns the request logging middleware. A client-supplied
// X-Request-ID is kept when present; otherwise a random UUID is used.
func Middleware(log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := r.Header.Get(Header)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			w.Header().Set(Header, id)
			r = r.WithContext(WithID(r.Context(), id))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("panic serving request",
						zap.String("request_id", id),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.String("panic", fmt.Sprint(rec)),
						zap.ByteString("stack", debug.Stack()))
					if ww.Status() == 0 {
						respond.Error(ww, http.StatusInternalServerError, "internal server error")
					}
				}

				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				route := routePattern(r)
				elapsed := time.Since(start)

				metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
				metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

				log.Info("request",
					zap.String("request_id", id),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("route", route),
					zap.Int("status", status),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", elapsed),
					zap.String("remote", r.RemoteAddr))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// routePattern is the matched chi pattern ("/courses/{courseID}/pdfs"), so
// metrics labels stay bounded. Unmatched requests share one label.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
