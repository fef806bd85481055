package validation

import (
	"testing"

	"campus-gig-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() JSONSchema {
	return JSONSchema{
		Type:     "object",
		Required: []string{"gigId", "amount"},
		Properties: map[string]Property{
			"gigId":  {Type: "string", MinLength: IntPtr(1), MaxLength: IntPtr(64)},
			"amount": {Type: "decimal", Minimum: FloatPtr(0.01)},
			"limit":  {Type: "integer", Minimum: FloatPtr(1), Maximum: FloatPtr(100)},
			"status": {Type: "string", Enum: []string{"COMPLETED", "FAILED"}},
			"profile": {
				Type:     "object",
				Required: []string{"id"},
				Properties: map[string]Property{
					"id": {Type: "string"},
				},
			},
			"candidates": {Type: "array", Items: &Property{Type: "object"}},
			"note":       {Type: "string", Nullable: true},
		},
	}
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		valid     bool
		badFields []string
	}{
		{name: "numeric amount", raw: `{"gigId":"g-1","amount":250}`, valid: true},
		{name: "string amount", raw: `{"gigId":"g-1","amount":"250.50"}`, valid: true},
		{name: "integer as json number", raw: `{"gigId":"g-1","amount":1,"limit":20}`, valid: true},
		{name: "enum is case insensitive", raw: `{"gigId":"g-1","amount":1,"status":"completed"}`, valid: true},
		{name: "nullable field", raw: `{"gigId":"g-1","amount":1,"note":null}`, valid: true},
		{name: "missing required", raw: `{"amount":1}`, badFields: []string{"gigId"}},
		{name: "null required", raw: `{"gigId":null,"amount":1}`, badFields: []string{"gigId"}},
		{name: "blank id", raw: `{"gigId":"  ","amount":1}`, badFields: []string{"gigId"}},
		{name: "zero amount", raw: `{"gigId":"g","amount":"0"}`, badFields: []string{"amount"}},
		{name: "garbage amount", raw: `{"gigId":"g","amount":"ten"}`, badFields: []string{"amount"}},
		{name: "fractional limit", raw: `{"gigId":"g","amount":1,"limit":2.5}`, badFields: []string{"limit"}},
		{name: "limit out of range", raw: `{"gigId":"g","amount":1,"limit":500}`, badFields: []string{"limit"}},
		{name: "bad enum", raw: `{"gigId":"g","amount":1,"status":"PENDING"}`, badFields: []string{"status"}},
		{name: "extra field", raw: `{"gigId":"g","amount":1,"admin":true}`, badFields: []string{"admin"}},
		{name: "nested required", raw: `{"gigId":"g","amount":1,"profile":{}}`, badFields: []string{"profile.id"}},
		{name: "array items", raw: `{"gigId":"g","amount":1,"candidates":[{},"x"]}`, badFields: []string{"candidates[1]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateJSON(tt.raw, testSchema())
			require.NoError(t, err)

			assert.Equal(t, tt.valid, result.Valid, result.GetErrorMessages())
			for _, f := range tt.badFields {
				assert.True(t, result.HasErrors(f), "expected error on %s, got %v", f, result.GetErrorMessages())
			}
		})
	}
}

func TestValidateJSON_NotAnObject(t *testing.T) {
	_, err := ValidateJSON(`[1,2]`, testSchema())
	assert.Error(t, err)
}

func TestValidationResult_Err(t *testing.T) {
	result, err := ValidateJSON(`{}`, testSchema())
	require.NoError(t, err)

	vErr := result.Err()

	require.Error(t, vErr)
	assert.Equal(t, errors.ErrCodeValidationFailed, errors.CodeOf(vErr))
	assert.Contains(t, vErr.Error(), "gigId")

	ok, _ := ValidateJSON(`{"gigId":"g","amount":3}`, testSchema())
	assert.NoError(t, ok.Err())
}
