package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/zatekoja/learnplan/pkg/errors"
)

type sampleRequest struct {
	Topic    string   `json:"topic" validate:"required"`
	Duration int      `json:"duration" validate:"gte=1,lte=365"`
	Email    string   `json:"email" validate:"omitempty,email"`
	Tags     []string `json:"tags" validate:"omitempty,dive,max=5"`
}

func TestValidateStruct_Valid(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Topic: "go", Duration: 7, Tags: []string{"go"}})
	assert.Nil(t, err)
}

func TestValidateStruct_UsesJSONFieldNames(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Duration: 0})
	require.NotNil(t, err)
	require.Len(t, err.Fields, 2)

	assert.Equal(t, "topic", err.Fields[0].Field)
	assert.Equal(t, "topic is required", err.Fields[0].Message)
	assert.Equal(t, "duration must be greater than or equal to 1", err.Fields[1].Message)
	assert.Equal(t, "topic is required; duration must be greater than or equal to 1", err.Error())
}

func TestValidateStruct_StringLength(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Topic: "go", Duration: 3, Tags: []string{"toolong"}})
	require.NotNil(t, err)
	assert.Equal(t, "tags[0] must be at most 5 characters", err.Fields[0].Message)
}

func TestRequestValidationError_ToAppError(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Topic: "go", Duration: 3, Email: "nope"})
	require.NotNil(t, err)

	appErr := err.ToAppError()
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.Equal(t, "email must be a valid email address", appErr.Message)
}
