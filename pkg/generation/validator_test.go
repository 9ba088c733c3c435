package generation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toneelevate/tonesmith/pkg/domain"
)

func body(t *testing.T, fields map[string]any) []byte {
	t.Helper()
	b, err := json.Marshal(fields)
	require.NoError(t, err)
	return b
}

func validFields() map[string]any {
	return map[string]any{
		"userInput":    "let the team know the release is delayed",
		"context":      "Email",
		"outputFormat": "Raw Text",
	}
}

func TestValidate_ValidRequestDefaultsLength(t *testing.T) {
	req, err := NewValidator(nil, 0).Validate(body(t, validFields()))
	require.NoError(t, err)

	assert.Equal(t, "let the team know the release is delayed", req.UserInput)
	assert.Equal(t, "Email", req.Context)
	assert.Equal(t, FormatRawText, req.OutputFormat)
	assert.Equal(t, LengthMedium, req.OutputLength)
}

func TestValidate_AcceptsEveryEnumMember(t *testing.T) {
	v := NewValidator(nil, 0)
	for _, ctx := range DefaultContexts {
		for _, format := range OutputFormats {
			for _, length := range OutputLengths {
				fields := validFields()
				fields["context"] = ctx
				fields["outputFormat"] = format
				fields["outputLength"] = length
				fields["userInput"] = gofakeit.Sentence(12)

				req, err := v.Validate(body(t, fields))
				require.NoError(t, err, "%s/%s/%s", ctx, format, length)
				assert.Equal(t, length, req.OutputLength)
			}
		}
	}
}

func TestValidate_MissingFields(t *testing.T) {
	for _, field := range []string{"userInput", "context", "outputFormat"} {
		t.Run("absent "+field, func(t *testing.T) {
			fields := validFields()
			delete(fields, field)

			_, err := NewValidator(nil, 0).Validate(body(t, fields))
			require.Error(t, err)
			assert.Equal(t, domain.ErrCodeMissingField, domain.GetErrorCode(err))
			assert.Contains(t, domain.PublicMessage(err), field)
		})
		t.Run("empty "+field, func(t *testing.T) {
			fields := validFields()
			fields[field] = ""

			_, err := NewValidator(nil, 0).Validate(body(t, fields))
			assert.Equal(t, domain.ErrCodeMissingField, domain.GetErrorCode(err))
		})
		t.Run("null "+field, func(t *testing.T) {
			fields := validFields()
			fields[field] = nil

			_, err := NewValidator(nil, 0).Validate(body(t, fields))
			assert.Equal(t, domain.ErrCodeMissingField, domain.GetErrorCode(err))
		})
	}
}

func TestValidate_ReportsAllMissingFields(t *testing.T) {
	_, err := NewValidator(nil, 0).Validate([]byte(`{}`))
	require.Error(t, err)
	assert.Equal(t, "Missing required fields: userInput, context, outputFormat", domain.PublicMessage(err))
}

func TestValidate_InvalidEnums(t *testing.T) {
	tests := []struct {
		field string
		value string
	}{
		{"context", "Fax"},
		{"context", "email"},
		{"outputFormat", "HTML"},
		{"outputFormat", "raw text"},
		{"outputLength", "tiny"},
		{"outputLength", "LONG"},
	}
	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			fields := validFields()
			fields[tt.field] = tt.value

			_, err := NewValidator(nil, 0).Validate(body(t, fields))
			require.Error(t, err)
			assert.Equal(t, domain.ErrCodeInvalidEnum, domain.GetErrorCode(err))
			assert.Contains(t, domain.PublicMessage(err), tt.value)
		})
	}
}

func TestValidate_WrongTypes(t *testing.T) {
	for _, field := range []string{"userInput", "context", "outputFormat", "outputLength"} {
		t.Run(field, func(t *testing.T) {
			fields := validFields()
			fields[field] = 42

			_, err := NewValidator(nil, 0).Validate(body(t, fields))
			require.Error(t, err)
			assert.Equal(t, domain.ErrCodeInvalidType, domain.GetErrorCode(err))
			assert.Contains(t, domain.PublicMessage(err), field)
		})
	}
}

func TestValidate_LengthBoundary(t *testing.T) {
	v := NewValidator(nil, 0)

	fields := validFields()
	fields["userInput"] = gofakeit.LetterN(DefaultMaxInputLength)
	_, err := v.Validate(body(t, fields))
	assert.NoError(t, err, "exactly the limit is accepted")

	fields["userInput"] = gofakeit.LetterN(DefaultMaxInputLength + 1)
	_, err = v.Validate(body(t, fields))
	require.Error(t, err)
	assert.True(t, domain.IsPayloadTooLarge(err))
	assert.Contains(t, domain.PublicMessage(err), "8192")
}

func TestValidate_LengthCountsCharactersNotBytes(t *testing.T) {
	fields := validFields()
	fields["userInput"] = strings.Repeat("é", 10)

	_, err := NewValidator(nil, 10).Validate(body(t, fields))
	assert.NoError(t, err)
}

func TestValidate_Precedence(t *testing.T) {
	v := NewValidator(nil, 5)

	// missing beats enum and length
	_, err := v.Validate([]byte(`{"userInput":"toolongtext","context":"Fax"}`))
	assert.Equal(t, domain.ErrCodeMissingField, domain.GetErrorCode(err))

	// enum beats length
	_, err = v.Validate([]byte(`{"userInput":"toolongtext","context":"Fax","outputFormat":"Raw Text"}`))
	assert.Equal(t, domain.ErrCodeInvalidEnum, domain.GetErrorCode(err))

	// context is reported before format
	_, err = v.Validate([]byte(`{"userInput":"ok","context":"Fax","outputFormat":"HTML"}`))
	assert.Contains(t, domain.PublicMessage(err), "context")

	// type beats everything
	_, err = v.Validate([]byte(`{"userInput":["a"]}`))
	assert.Equal(t, domain.ErrCodeInvalidType, domain.GetErrorCode(err))
}

func TestValidate_MalformedBody(t *testing.T) {
	for _, raw := range []string{``, `not json`, `[]`, `"text"`, `null`} {
		_, err := NewValidator(nil, 0).Validate([]byte(raw))
		require.Error(t, err, raw)
		assert.True(t, domain.IsValidation(err), raw)
	}
}

func TestValidate_CustomContexts(t *testing.T) {
	v := NewValidator([]string{"Slack"}, 0)
	assert.Equal(t, []string{"Slack"}, v.Contexts())

	fields := validFields()
	fields["context"] = "Slack"
	_, err := v.Validate(body(t, fields))
	assert.NoError(t, err)

	fields["context"] = "Email"
	_, err = v.Validate(body(t, fields))
	assert.Equal(t, domain.ErrCodeInvalidEnum, domain.GetErrorCode(err))
}
