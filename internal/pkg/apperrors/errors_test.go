package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomErrorUnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("apply: %w", NewAlreadyAppliedError("student 4 already applied to job 9"))

	assert.True(t, errors.Is(err, ErrAlreadyApplied))
	assert.False(t, errors.Is(err, ErrInvalidStatus))
	assert.Equal(t, "apply: student 4 already applied to job 9", err.Error())
	assert.Equal(t, "student 4 already applied to job 9", MessageOf(err, "fallback"))

	var custom *CustomError
	if assert.True(t, errors.As(err, &custom)) {
		assert.Equal(t, CodeAlreadyApplied, custom.Code)
	}
}

func TestIsMatchesAnyListedError(t *testing.T) {
	err := NewRecruiterMustLeadError("students cannot open a conversation")

	assert.True(t, Is(err, ErrResourceNotFound, ErrPermissionDenied, ErrRecruiterMustLead))
	assert.False(t, Is(err, ErrResourceNotFound, ErrPermissionDenied))
	assert.Equal(t, "fallback", MessageOf(errors.New("plain"), "fallback"))
}

func TestNewBadRequestErrorRecordsField(t *testing.T) {
	err := fmt.Errorf("get job: %w", NewBadRequestError("id", "Invalid id"))

	assert.True(t, errors.Is(err, ErrBadRequest))
	assert.Equal(t, "id", FieldOf(err))
	assert.Equal(t, "Invalid id", MessageOf(err, "fallback"))
	assert.Empty(t, FieldOf(NewResourceNotFoundError("job 3 not found")))
	assert.Empty(t, FieldOf(errors.New("plain")))
}
