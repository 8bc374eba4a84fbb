package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_AllEmbeddedAreValidJSON(t *testing.T) {
	for _, name := range []string{ParsedProfileFragment, RoleDetection, FormFill} {
		t.Run(name, func(t *testing.T) {
			content, err := Schema(name)
			require.NoError(t, err)

			var v map[string]any
			require.NoError(t, json.Unmarshal([]byte(content), &v))
			assert.Equal(t, "object", v["type"])
		})
	}
}

func TestSchema_Unknown(t *testing.T) {
	_, err := Schema("nope")
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Path, "nope")
}

func TestValidate_ParsedProfileFragment(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		valid bool
	}{
		{
			name:  "full fragment",
			json:  `{"personal":{"firstName":"Jane","email":"jane@x.com"},"education":[{"institution":"MIT","startYear":"2015"}],"skills":["Go"],"languages":[]}`,
			valid: true,
		},
		{name: "empty object", json: `{}`, valid: true},
		{name: "null lists", json: `{"skills":null,"experience":null}`, valid: true},
		{name: "skills not strings", json: `{"skills":[1,2]}`, valid: false},
		{name: "personal not object", json: `{"personal":"Jane"}`, valid: false},
		{name: "numeric year", json: `{"education":[{"startYear":2015}]}`, valid: false},
		{name: "top-level array", json: `[]`, valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(ParsedProfileFragment, tt.json)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.NotEmpty(t, ve.Errors)
		})
	}
}

func TestValidate_RoleDetection(t *testing.T) {
	assert.NoError(t, Validate(RoleDetection, `{"role":"Designer","confidence":0.9,"alternatives":["UX Designer"]}`))

	err := Validate(RoleDetection, `{"confidence":0.9}`)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "role")

	assert.Error(t, Validate(RoleDetection, `{"role":"Designer","confidence":3}`))
}

func TestValidate_FormFill(t *testing.T) {
	assert.NoError(t, Validate(FormFill, `{"filled":{"Full Name":"Jane Doe","Phone":""}}`))
	assert.Error(t, Validate(FormFill, `{"filled":{"Age":30}}`))
	assert.Error(t, Validate(FormFill, `{}`))
}

func TestValidateJSONString_MalformedDocument(t *testing.T) {
	err := ValidateJSONString(`{"type":"object"}`, `{not json`)
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestValidationError_Format(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{{Field: "role", Message: "role is required"}}}
	assert.Equal(t, "validation failed:\n  1. role: role is required\n", err.Error())
}
