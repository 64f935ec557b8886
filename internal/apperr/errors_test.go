package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", New(CodeNotFound, "There is no USD in the wallet.", cause))

	appErr := From(err)
	assert.Equal(t, http.StatusNotFound, appErr.Code.Status)
	assert.Equal(t, "There is no USD in the wallet.", appErr.Message)
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, CodeNotFound))
	assert.False(t, Is(err, CodeValidation))
}

func TestFrom_Unknown(t *testing.T) {
	appErr := From(errors.New("db down"))
	assert.Equal(t, CodeInternal, appErr.Code)
	assert.Equal(t, "internal error", appErr.Message)
}

func TestNew_DefaultMessage(t *testing.T) {
	err := New(CodeInsufficientBalance, "", nil)
	assert.Equal(t, "Cannot decrease amount to zero or below.", err.Error())
}
