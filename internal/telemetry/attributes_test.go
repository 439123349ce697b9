// SPDX-License-Identifier: MIT

package telemetry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestStoreAttributes(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		year    int
		wantLen int
	}{
		{name: "operation only", wantLen: 2},
		{name: "with id", id: "abc", wantLen: 3},
		{name: "with year", year: 2008, wantLen: 3},
		{name: "with id and year", id: "abc", year: 2008, wantLen: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := StoreAttributes("sqlite", "find_by_id", tt.id, tt.year)
			require.Len(t, attrs, tt.wantLen)

			set := attribute.NewSet(attrs...)
			v, ok := set.Value(DBSystemKey)
			require.True(t, ok)
			assert.Equal(t, "sqlite", v.AsString())
			v, _ = set.Value(DBOperationKey)
			assert.Equal(t, "find_by_id", v.AsString())

			v, ok = set.Value(MovieInfoIDKey)
			assert.Equal(t, tt.id != "", ok)
			if ok {
				assert.Equal(t, tt.id, v.AsString())
			}
			v, ok = set.Value(MovieInfoYearKey)
			assert.Equal(t, tt.year != 0, ok)
			if ok {
				assert.Equal(t, int64(tt.year), v.AsInt64())
			}
		})
	}
}

func TestErrorAttributes(t *testing.T) {
	assert.Nil(t, ErrorAttributes(nil, "none"))

	set := attribute.NewSet(ErrorAttributes(errors.New("boom"), "store_error")...)
	assert.Equal(t, 2, set.Len())
	v, ok := set.Value(ErrorKey)
	require.True(t, ok)
	assert.True(t, v.AsBool())
	v, _ = set.Value(ErrorTypeKey)
	assert.Equal(t, "store_error", v.AsString())
}
