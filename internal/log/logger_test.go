// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configureBuffer(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Configure(Config{Level: level, Output: &buf, Service: "test", Version: "v0"})
	t.Cleanup(func() {
		Configure(Config{Level: "info"})
	})
	return &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestConfigure_ServiceAndComponent(t *testing.T) {
	buf := configureBuffer(t, "debug")

	l := WithComponent("store")
	l.Debug().Msg("visible")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "test", lines[0]["service"])
	assert.Equal(t, "v0", lines[0]["version"])
	assert.Equal(t, "store", lines[0][FieldComponent])
}

func TestSetLevel(t *testing.T) {
	buf := configureBuffer(t, "info")

	l := WithComponent("x")
	l.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	require.NoError(t, SetLevel("debug"))
	l.Debug().Msg("shown")
	assert.Len(t, decodeLines(t, buf), 1)

	assert.Error(t, SetLevel("loud"))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestDerive(t *testing.T) {
	buf := configureBuffer(t, "info")

	l := Derive(func(c *zerolog.Context) {
		*c = c.Str(FieldBackend, "memory")
	})
	l.Info().Msg("derived")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "memory", lines[0][FieldBackend])
}

func TestWithComponentFromContext(t *testing.T) {
	buf := configureBuffer(t, "info")

	ctx := ContextWithRequestID(context.Background(), "rid-9")
	l := WithComponentFromContext(ctx, "handler")
	l.Info().Msg("ctx")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "handler", lines[0][FieldComponent])
	assert.Equal(t, "rid-9", lines[0][FieldRequestID])
}

func TestMiddleware_LogsRoutePatternAndStatus(t *testing.T) {
	buf := configureBuffer(t, "info")

	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/v1/things/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/things/42", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "warn", lines[0]["level"])
	assert.Equal(t, "/v1/things/{id}", lines[0][FieldRoute])
	assert.Equal(t, "/v1/things/42", lines[0][FieldPath])
	assert.EqualValues(t, http.StatusNotFound, lines[0][FieldStatus])
}
