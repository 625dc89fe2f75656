package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "USAGE_ERROR: diff tracking was not enabled",
		Usage("diff tracking was not enabled").Error())

	wrapped := InvalidConfigWrap(fmt.Errorf("boom"), "bad step config")
	assert.Equal(t, "INVALID_CONFIG: bad step config - boom", wrapped.Error())
}

func TestAppError_UnwrapAndAs(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := fmt.Errorf("outer: %w", Wrap(cause, ErrCodeInternal, "inner"))

	assert.True(t, IsAppError(err))
	assert.True(t, errors.Is(err, cause))

	appErr, ok := GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInternal, appErr.Code)
	assert.True(t, HasCode(err, ErrCodeInternal))
	assert.False(t, HasCode(err, ErrCodeUsage))
}

func TestHasCode_WalksNestedAppErrors(t *testing.T) {
	inner := InvalidConfig("punctuations must not be empty")
	err := fmt.Errorf("step 2: %w", Wrap(fmt.Errorf("decode: %w", inner), ErrCodeInternal, "build failed"))

	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{name: "outer code", err: err, code: ErrCodeInternal, want: true},
		{name: "inner code", err: err, code: ErrCodeInvalidConfig, want: true},
		{name: "absent code", err: err, code: ErrCodeNotFound, want: false},
		{name: "plain error", err: fmt.Errorf("plain"), code: ErrCodeInternal, want: false},
		{name: "nil", err: nil, code: ErrCodeInternal, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasCode(tt.err, tt.code))
		})
	}
}

func TestAppError_IsMatchesSentinel(t *testing.T) {
	sentinel := Usage("no run recorded")
	err := fmt.Errorf("explain: %w", Usage("no run recorded").WithDetails("steps", 3))

	assert.True(t, errors.Is(err, sentinel))
	assert.False(t, errors.Is(err, Usage("something else")))
	assert.False(t, errors.Is(fmt.Errorf("plain"), sentinel))
}

func TestAppError_WithDetails(t *testing.T) {
	err := NotFound("step not found").WithDetails("name", "nope")
	assert.Equal(t, "nope", err.Details["name"])
}

func TestFileErrors(t *testing.T) {
	assert.Equal(t, ErrCodeFileTooLarge, FileTooLarge(10, 5).Code)
	assert.Contains(t, UnsupportedFormat(".doc").Error(), ".doc")
	assert.Equal(t, ErrCodeFileParseError, FileParseError(fmt.Errorf("x"), "CSV").Code)
}
