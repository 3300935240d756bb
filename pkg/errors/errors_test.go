package errors_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ayush-docknet/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal", errors.CodeInternal, "unexpected failure"},
		{"not found", errors.ErrCodeProjectNotFound, "project p-1 not found"},
		{"invalid stage", errors.CodeInvalidStage, "unknown stage"},
		{"rate limit", errors.CodeRateLimit, "too many requests"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ae := errors.New(tc.code, tc.message)
			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestAppError_ErrorFormat(t *testing.T) {
	ae := errors.New(errors.CodeNotFound, "project not found")
	assert.Equal(t, "[COMMON_003] project not found", ae.Error())

	withDetail := ae.WithDetail("id=abc")
	assert.Equal(t, "[COMMON_003] project not found: id=abc", withDetail.Error())
	assert.Empty(t, ae.Detail, "WithDetail must not mutate the receiver")
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "x"))
}

func TestWrap_PreservesCodeOnUnknown(t *testing.T) {
	inner := errors.InvalidStage("no such stage")
	outer := errors.Wrap(inner, errors.CodeUnknown, "complete stage")
	assert.Equal(t, errors.CodeInvalidStage, outer.Code)
	assert.True(t, stderrors.Is(outer, inner))
}

func TestIsCode_TraversesFmtWrapping(t *testing.T) {
	inner := errors.NotFound("missing")
	wrapped := fmt.Errorf("layer: %w", inner)
	assert.True(t, errors.IsCode(wrapped, errors.CodeNotFound))
	assert.True(t, errors.IsNotFound(wrapped))
	assert.False(t, errors.IsValidation(wrapped))
}

func TestPredicates(t *testing.T) {
	assert.True(t, errors.IsValidation(errors.Validation("name", "name is required")))
	assert.True(t, errors.IsValidation(errors.New(errors.ErrCodeProjectNameRequired, "x")))
	assert.True(t, errors.IsInvalidStage(errors.New(errors.ErrCodeStageNotPayload, "x")))
	assert.True(t, errors.IsServiceUnavailable(errors.ServiceUnavailable("docking", context.DeadlineExceeded)))
	assert.False(t, errors.IsServiceUnavailable(stderrors.New("plain")))
}

func TestServiceUnavailable_KeepsCause(t *testing.T) {
	err := errors.ServiceUnavailable("admet", context.Canceled)
	assert.True(t, stderrors.Is(err, context.Canceled))
	assert.Equal(t, "admet unavailable", err.Message)
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.CodeConflict, errors.GetCode(fmt.Errorf("w: %w", errors.Conflict("c"))))
}

func TestHTTPStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, errors.HTTPStatusForCode(errors.CodeValidation))
	assert.Equal(t, http.StatusNotFound, errors.HTTPStatusForCode(errors.ErrCodeProjectNotFound))
	assert.Equal(t, http.StatusUnprocessableEntity, errors.HTTPStatusForCode(errors.CodeInvalidStage))
	assert.Equal(t, http.StatusServiceUnavailable, errors.HTTPStatusForCode(errors.CodeServiceUnavailable))
	assert.Equal(t, http.StatusInternalServerError, errors.HTTPStatusForCode("NOPE_999"))
	assert.True(t, errors.IsClientError(errors.CodeValidation))
	assert.True(t, errors.IsServerError(errors.CodeServiceUnavailable))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "PIPE", errors.ModuleForCode(errors.CodeInvalidStage))
	assert.Equal(t, "SVC", errors.ModuleForCode(errors.CodeServiceUnavailable))
	assert.Equal(t, "UNKNOWN", errors.ModuleForCode("OK"))
	assert.Equal(t, "unknown error", errors.DefaultMessageForCode("NOPE_1"))
	assert.Equal(t, "project not found", errors.DefaultMessageForCode(errors.ErrCodeProjectNotFound))
}
