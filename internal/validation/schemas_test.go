package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *SchemaValidator {
	t.Helper()
	sv, err := NewSchemaValidator()
	require.NoError(t, err)
	return sv
}

func TestNewSchemaValidator_LoadsEmbeddedSchemas(t *testing.T) {
	sv := newValidator(t)

	assert.Equal(t, []string{
		SchemaErrorResponse, SchemaFeedback, SchemaGarment,
		SchemaRecommendationRequest, SchemaRecommendationResponse, SchemaTokenRequest,
	}, sv.GetAvailableSchemas())
	assert.True(t, sv.SchemaExists(SchemaGarment))
	assert.False(t, sv.SchemaExists("content-item"))
}

func TestValidateJSON_RecommendationRequest(t *testing.T) {
	sv := newValidator(t)

	tests := []struct {
		name  string
		body  string
		valid bool
	}{
		{"empty object", `{}`, true},
		{"full request", `{"mood":"cozy","weather":"snowy","temperature":-3.5,"occasion":"office","limit_count":3}`, true},
		{"unknown mood", `{"mood":"sleepy"}`, false},
		{"unknown weather", `{"weather":"foggy"}`, false},
		{"temperature out of range", `{"temperature":99}`, false},
		{"fractional limit", `{"limit_count":2.5}`, false},
		{"zero limit", `{"limit_count":0}`, false},
		{"user id in body", `{"user_id":"someone-else"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sv.ValidateJSON(SchemaRecommendationRequest, []byte(tt.body))
			assert.Equal(t, tt.valid, result.Valid, "%+v", result.Errors)
		})
	}
}

func TestValidateJSON_Garment(t *testing.T) {
	sv := newValidator(t)

	valid := `{"name":"Wool Coat","category":"outerwear","primary_color":"camel","material":"wool","season":"winter","tags":["cozy"]}`
	assert.True(t, sv.ValidateJSON(SchemaGarment, []byte(valid)).Valid)

	missing := `{"name":"Wool Coat","category":"outerwear"}`
	result := sv.ValidateJSON(SchemaGarment, []byte(missing))
	require.False(t, result.Valid)

	apiErr := result.ToAPIError()
	errObj := apiErr["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
	details := errObj["details"].(map[string]interface{})
	assert.NotEmpty(t, details["validationErrors"])
}

func TestValidateJSON_Feedback(t *testing.T) {
	sv := newValidator(t)

	assert.True(t, sv.ValidateJSON(SchemaFeedback, []byte(`{"outfit_id":"o-1","garment_ids":["a","b"],"action":"worn"}`)).Valid)
	assert.False(t, sv.ValidateJSON(SchemaFeedback, []byte(`{"outfit_id":"o-1","garment_ids":["a"],"action":"worn"}`)).Valid)
	assert.False(t, sv.ValidateJSON(SchemaFeedback, []byte(`{"outfit_id":"o-1","garment_ids":["a","b"],"action":"liked"}`)).Valid)
}

func TestValidateStruct_TokenRequest(t *testing.T) {
	sv := newValidator(t)

	ok := map[string]string{"api_key": "k", "user_id": "4b1c6f3e-8a53-4f5e-9d3a-2f1f6f0e9c11"}
	assert.True(t, sv.ValidateStruct(SchemaTokenRequest, ok).Valid)

	bad := map[string]string{"api_key": "k", "user_id": "nope"}
	assert.False(t, sv.ValidateStruct(SchemaTokenRequest, bad).Valid)
}

func TestValidate_UnknownSchema(t *testing.T) {
	sv := newValidator(t)

	result := sv.ValidateJSON("nope", []byte(`{}`))
	require.False(t, result.Valid)
	assert.Equal(t, "SCHEMA_NOT_FOUND", result.Errors[0].Code)
}
