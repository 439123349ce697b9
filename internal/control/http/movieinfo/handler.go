// SPDX-License-Identifier: MIT

// Package movieinfo exposes the movie info resource over HTTP.
package movieinfo

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	controlhttp "github.com/ManuGH/movieinfo/internal/control/http"
	"github.com/ManuGH/movieinfo/internal/control/http/problem"
	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/model"
	"github.com/ManuGH/movieinfo/internal/log"
	"github.com/ManuGH/movieinfo/internal/metrics"
)

// BasePath is the collection path of the resource.
const BasePath = "/v1/movieinfos"

const maxBodyBytes = 1 << 20

// Service is the use case surface the handler drives. Get and Update return a
// nil record with a nil error when the id is unknown.
type Service interface {
	Create(ctx context.Context, rec *model.MovieInfo) (*model.MovieInfo, error)
	List(ctx context.Context) ([]*model.MovieInfo, error)
	ListByYear(ctx context.Context, year int) ([]*model.MovieInfo, error)
	Get(ctx context.Context, id string) (*model.MovieInfo, error)
	Update(ctx context.Context, id string, payload *model.MovieInfo) (*model.MovieInfo, error)
	Delete(ctx context.Context, id string) error
}

// Handler serves /v1/movieinfos.
type Handler struct {
	svc Service
}

// NewHandler returns a Handler backed by svc.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the resource on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post(BasePath, h.create)
	r.Get(BasePath, h.list)
	r.Get(BasePath+"/{id}", h.get)
	r.Put(BasePath+"/{id}", h.update)
	r.Delete(BasePath+"/{id}", h.delete)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.decodeValid(w, r, "create")
	if !ok {
		return
	}
	out, err := h.svc.Create(r.Context(), rec)
	if err != nil {
		h.internal(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, out)
}

// list resolves to list-by-year when a year query parameter is present.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		out []*model.MovieInfo
		err error
	)
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, convErr := strconv.Atoi(raw)
		if convErr != nil {
			metrics.RecordMovieInfoOperation("list_by_year", metrics.OutcomeInvalid)
			problem.Write(w, r, http.StatusBadRequest, problem.TypeInvalidInput, "Bad Request", "INVALID_YEAR",
				"year must be an integer", map[string]any{"parameter": "year"})
			return
		}
		out, err = h.svc.ListByYear(r.Context(), year)
	} else {
		out, err = h.svc.List(r.Context())
	}
	if err != nil {
		h.internal(w, r, err)
		return
	}
	if out == nil {
		out = []*model.MovieInfo{}
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.internal(w, r, err)
		return
	}
	if out == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodeValid(w, r, "update")
	if !ok {
		return
	}
	out, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		h.internal(w, r, err)
		return
	}
	if out == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.internal(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var errTrailingData = errors.New("trailing data after JSON object")

// decodeValid reads the request body and applies the boundary rules. It
// writes the 400 response itself and reports false when the request must stop.
func (h *Handler) decodeValid(w http.ResponseWriter, r *http.Request, op string) (*model.MovieInfo, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var rec model.MovieInfo
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(&rec)
	if err == nil {
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errTrailingData
		}
	}
	if err != nil {
		metrics.RecordMovieInfoOperation(op, metrics.OutcomeInvalid)
		detail := "request body must be a JSON movie info object"
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			detail = "request body is empty"
		case errors.As(err, &maxErr):
			detail = "request body is too large"
		case errors.Is(err, errTrailingData):
			detail = "request body must contain a single JSON object"
		}
		problem.Write(w, r, http.StatusBadRequest, problem.TypeInvalidInput, "Bad Request", "INVALID_BODY", detail, nil)
		return nil, false
	}

	if verr := model.Validate(&rec); verr != nil {
		metrics.RecordMovieInfoOperation(op, metrics.OutcomeInvalid)
		for _, f := range verr.Fields {
			metrics.RecordValidationFailure(f.Field)
		}
		w.Header().Set("Content-Type", controlhttp.ContentTypeText)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, verr.Error())
		return nil, false
	}
	return &rec, true
}

func (h *Handler) internal(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Error().Err(err).
		Str(log.FieldMethod, r.Method).
		Str(log.FieldPath, r.URL.Path).
		Msg("movie info request failed")
	problem.Internal(w, r)
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", controlhttp.ContentTypeJSON)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; the client may see a truncated body.
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Error().Err(err).Int(log.FieldStatus, code).Msg("failed to encode JSON response")
	}
}
