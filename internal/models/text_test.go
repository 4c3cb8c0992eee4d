package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextAcceptsStringsAndNumbers(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Text
	}{
		{"string", `{"v":"01019012345"}`, "01019012345"},
		{"number", `{"v":1019012345}`, "1019012345"},
		{"null", `{"v":null}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				V Text `json:"v"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &body))
			assert.Equal(t, tt.want, body.V)
		})
	}
}

func TestTextRejectsOtherTypes(t *testing.T) {
	var body struct {
		V Text `json:"v"`
	}
	err := json.Unmarshal([]byte(`{"v":true}`), &body)

	var typeErr *json.UnmarshalTypeError
	assert.True(t, errors.As(err, &typeErr))
}
