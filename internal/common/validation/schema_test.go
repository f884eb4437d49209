package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contactSchema = `{
	"type": "object",
	"required": ["email", "level"],
	"properties": {
		"email": {"type": "string", "minLength": 1},
		"level": {"type": "string", "enum": ["junior", "senior"]}
	}
}`

func TestSchema_Validate(t *testing.T) {
	s := MustCompile(contactSchema)

	res, err := s.Validate(map[string]interface{}{"email": "a@b.co", "level": "senior"})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)

	res, err = s.Validate(map[string]interface{}{"email": "a@b.co", "level": "principal"})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, res.HasErrors("level"))
	assert.False(t, res.HasErrors("email"))
	assert.Len(t, res.GetErrorMessages(), 1)
}

func TestSchema_ValidateStruct(t *testing.T) {
	type contact struct {
		Email string `json:"email"`
		Level string `json:"level"`
	}

	res, err := MustCompile(contactSchema).Validate(contact{Email: "", Level: "junior"})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, res.HasErrors("email"))
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("jane.doe@techflow.example"))
	assert.False(t, ValidateEmail("jane.doe"))
}
