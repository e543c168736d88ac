package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	Username string `validate:"required"`
	Rating   int    `validate:"gte=0,lte=10"`
}

func TestValidate_Success(t *testing.T) {
	s := testStruct{Username: "alice", Rating: 7}
	assert.NoError(t, Validate(s))
}

func TestValidate_MissingRequired(t *testing.T) {
	s := testStruct{Rating: 7}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Username")
	assert.Equal(t, "is required", fields["Username"])
}

func TestValidate_OutOfRange(t *testing.T) {
	s := testStruct{Username: "alice", Rating: 11}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Rating")
	assert.Contains(t, fields["Rating"], "10")
}

func TestValidate_MultipleErrors(t *testing.T) {
	s := testStruct{Rating: -1}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Username")
	assert.Contains(t, fields, "Rating")
}

func TestValidationError_ErrorString(t *testing.T) {
	s := testStruct{Rating: 5}
	err := Validate(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'Username'")
	assert.Contains(t, err.Error(), "is required")
}

type minMaxStruct struct {
	Short string `validate:"min=3"`
	Long  string `validate:"max=5"`
}

func TestValidate_MinMax(t *testing.T) {
	s := minMaxStruct{Short: "ab", Long: "toolongstring"}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields["Short"], "at least 3")
	assert.Contains(t, fields["Long"], "at most 5")
}
