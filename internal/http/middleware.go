package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/storefront"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const SessionHeader = "X-Session-ID"

type ctxKey int

const sessionKey ctxKey = iota

// SessionResolver maps the session header to the shopper's state.
type SessionResolver interface {
	Resolve(ctx context.Context, id string) (*storefront.Session, error)
}

// SessionMiddleware attaches the shopper's session, creating one when the
// request carries none, and echoes its id back.
func SessionMiddleware(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := sessions.Resolve(r.Context(), r.Header.Get(SessionHeader))
			if err != nil {
				if errors.Is(err, storefront.ErrInvalidSession) {
					respondError(w, http.StatusBadRequest, "invalid_session", err.Error())
					return
				}
				respondError(w, http.StatusInternalServerError, "internal_error", "could not start session")
				return
			}
			w.Header().Set(SessionHeader, s.ID)
			ctx := context.WithValue(r.Context(), sessionKey, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFrom(ctx context.Context) *storefront.Session {
	s, _ := ctx.Value(sessionKey).(*storefront.Session)
	return s
}

// RequestLogger writes one zap line per request.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// MaxBodySize caps request bodies.
func MaxBodySize(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
