package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svcErr "github.com/oggyb/swipe-match/internal/errors"
	"github.com/oggyb/swipe-match/internal/utils/validate"
)

type signup struct {
	Name    string  `json:"name" validate:"required,max=5"`
	Pass    string  `json:"password" validate:"required,min=8"`
	Confirm string  `json:"password_confirmation" validate:"eqfield=Pass"`
	Age     int     `json:"age" validate:"gte=18,lte=120"`
	Bio     *string `json:"bio" validate:"omitempty,max=3"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	bio := "toolong"
	err := validate.Struct(signup{Name: "abcdef", Pass: "short", Confirm: "x", Age: 10, Bio: &bio})

	var verr *svcErr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, svcErr.ErrInvalidArgument)
	assert.Equal(t, "The name may not be greater than 5 characters.", verr.Fields["name"])
	assert.Equal(t, "The password must be at least 8 characters.", verr.Fields["password"])
	assert.Equal(t, "The password confirmation does not match.", verr.Fields["password_confirmation"])
	assert.Equal(t, "The age must be at least 18.", verr.Fields["age"])
	assert.Contains(t, verr.Fields, "bio")
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, validate.Struct(signup{Name: "ada", Pass: "12345678", Confirm: "12345678", Age: 30}))
}

type contact struct {
	Name     string  `json:"name" validate:"required,singleline"`
	Location *string `json:"location" validate:"omitempty,singleline"`
}

func TestSinglelineRejectsControlCharacters(t *testing.T) {
	for _, name := range []string{"Eve\r\nBcc: victim@evil.test", "a\nb", "a\rb", "tab\there", "nul\x00"} {
		err := validate.Struct(contact{Name: name})
		var verr *svcErr.ValidationError
		require.ErrorAs(t, err, &verr, "name %q", name)
		assert.Equal(t, "The name may not contain line breaks or control characters.", verr.Fields["name"])
	}

	loc := "Paris\r\n"
	err := validate.Struct(contact{Name: "Eve", Location: &loc})
	var verr *svcErr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "location")

	loc = "São Paulo"
	assert.NoError(t, validate.Struct(contact{Name: "Zoë O'Neil", Location: &loc}))
}
