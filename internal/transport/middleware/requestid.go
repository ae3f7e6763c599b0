package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/frahmantamala/school-admin/internal/apiclient"
	"github.com/frahmantamala/school-admin/pkg/logger"
)

// RequestID echoes the client's trace id, or mints one, and tags the
// request's logger with it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(apiclient.TraceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "traceID", traceID)
		w.Header().Set(apiclient.TraceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
