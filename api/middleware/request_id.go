package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/lanort/pedidos/pkg/logger"
)

const RequestIDHeader = "X-Request-Id"

const maxRequestIDLength = 128

// RequestID propagates the caller's request id, or mints one, into the response
// header and the logging context.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if reqID == "" || len(reqID) > maxRequestIDLength {
				reqID = uuid.NewString()
			}

			w.Header().Set(RequestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
