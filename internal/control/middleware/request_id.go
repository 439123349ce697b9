// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	controlhttp "github.com/ManuGH/movieinfo/internal/control/http"
	"github.com/ManuGH/movieinfo/internal/log"
)

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// RequestID adds a unique ID to every request. A well-formed inbound
// X-Request-ID is reused; anything else is replaced by a fresh UUID.
// An inbound X-Correlation-ID is carried into the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(controlhttp.HeaderRequestID)
		if !validRequestID.MatchString(reqID) {
			reqID = uuid.New().String()
		}
		w.Header().Set(controlhttp.HeaderRequestID, reqID)
		ctx := log.ContextWithRequestID(r.Context(), reqID)
		if corrID := r.Header.Get(controlhttp.HeaderCorrelationID); validRequestID.MatchString(corrID) {
			ctx = log.ContextWithCorrelationID(ctx, corrID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
