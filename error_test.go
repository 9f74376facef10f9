package lawdit_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lawdit/lawdit"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := lawdit.Errorf(lawdit.ENOTFOUND, "data room %q not found", "acme")

	assert.Equal(t, lawdit.ENOTFOUND, lawdit.ErrorCode(err))
	assert.Equal(t, "data room \"acme\" not found", lawdit.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, lawdit.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, lawdit.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("downloading: %w", lawdit.Errorf(lawdit.EINVALID, "unsupported file type"))

	assert.Equal(t, lawdit.EINVALID, lawdit.ErrorCode(err))
	assert.Equal(t, "unsupported file type", lawdit.ErrorMessage(err))
}

func TestErrorCode_PlainError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, lawdit.EINTERNAL, lawdit.ErrorCode(err))
	assert.Equal(t, "Internal error.", lawdit.ErrorMessage(err))
}
