package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexInt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want FlexInt
	}{
		{`7`, 7},
		{`"7"`, 7},
		{`" 42 "`, 42},
		{`"-3"`, -3},
		{`""`, 0},
		{`null`, 0},
	}

	for _, tt := range tests {
		var n FlexInt
		require.NoError(t, json.Unmarshal([]byte(tt.in), &n), tt.in)
		assert.Equal(t, tt.want, n, tt.in)
	}
}

func TestFlexInt_RejectsNonIntegers(t *testing.T) {
	for _, in := range []string{`"abc"`, `2.5`, `"1e3"`, `true`, `{}`} {
		var input CreateOfferInput
		err := json.Unmarshal([]byte(`{"request_id":`+in+`}`), &input)

		var typeErr *json.UnmarshalTypeError
		require.ErrorAs(t, err, &typeErr, in)
		assert.Equal(t, "request_id", typeErr.Field, in)
	}
}
