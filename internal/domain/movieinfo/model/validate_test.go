// SPDX-License-Identifier: MIT

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      MovieInfo
		wantErr string
	}{
		{name: "valid", in: MovieInfo{Name: "Batman", Year: 2005}},
		{name: "blank name", in: MovieInfo{Name: "  ", Year: 2005}, wantErr: "name must be present"},
		{name: "empty name", in: MovieInfo{Year: 2005}, wantErr: "name must be present"},
		{name: "zero year", in: MovieInfo{Name: "Batman"}, wantErr: "year must be a positive value"},
		{name: "negative year", in: MovieInfo{Name: "Batman", Year: -1}, wantErr: "year must be a positive value"},
		{name: "both", in: MovieInfo{Name: "", Year: -2005}, wantErr: "name must be present,year must be a positive value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.in)
			if tt.wantErr == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestValidate_FieldOrder(t *testing.T) {
	err := Validate(&MovieInfo{})
	require.NotNil(t, err)
	require.Len(t, err.Fields, 2)
	assert.Equal(t, "name", err.Fields[0].Field)
	assert.Equal(t, "year", err.Fields[1].Field)
}
