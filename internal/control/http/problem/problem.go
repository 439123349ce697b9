// SPDX-License-Identifier: MIT

// Package problem writes RFC 7807 problem details responses.
package problem

import (
	"encoding/json"
	"net/http"

	controlhttp "github.com/ManuGH/movieinfo/internal/control/http"
	"github.com/ManuGH/movieinfo/internal/log"
)

// Problem types used by the movie info API.
const (
	TypeInvalidInput = "movieinfo/invalid_input"
	TypeInternal     = "movieinfo/internal"
	TypeRateLimited  = "movieinfo/rate_limited"
)

// Write writes an RFC 7807 problem details response.
//
//   - type: canonical machine identifier (e.g. "movieinfo/internal").
//   - title: short human-readable label.
//   - code: stable machine-readable short code (e.g. "INTERNAL").
//   - detail: explanation of this occurrence; omitted when empty.
func Write(w http.ResponseWriter, r *http.Request, status int, problemType, title, code, detail string, extra map[string]any) {
	logger := log.WithComponent("problem")
	instance := ""
	reqID := ""
	if r != nil {
		instance = r.URL.EscapedPath()
		reqID = log.RequestIDFromContext(r.Context())
	} else {
		logger.Error().Str("type", problemType).Int(log.FieldStatus, status).Msg("problem.Write called with nil request")
	}
	if reqID == "" {
		reqID = w.Header().Get(controlhttp.HeaderRequestID)
	}

	res := map[string]any{
		"type":   problemType,
		"title":  title,
		"status": status,
		"code":   code,
	}
	if reqID != "" {
		res[controlhttp.JSONKeyRequestID] = reqID
		w.Header().Set(controlhttp.HeaderRequestID, reqID)
	}
	if detail != "" {
		res["detail"] = detail
	}
	if instance != "" {
		res["instance"] = instance
	}

	for k, v := range extra {
		switch k {
		case "type", "title", "status", "detail", "instance", "code":
			logger.Warn().Str("key", k).Str("problem_type", problemType).Msg("ignoring reserved key in problem extras")
			continue
		}
		res[k] = v
	}

	w.Header().Set("Content-Type", controlhttp.ContentTypeProblem)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(res); err != nil {
		logger.Error().
			Err(err).
			Str("type", problemType).
			Int(log.FieldStatus, status).
			Msg("failed to encode problem response")
	}
}

// Internal writes the generic 500 problem. The cause is never exposed.
func Internal(w http.ResponseWriter, r *http.Request) {
	Write(w, r, http.StatusInternalServerError, TypeInternal, "Internal Server Error", "INTERNAL",
		"An unexpected error occurred.", nil)
}
