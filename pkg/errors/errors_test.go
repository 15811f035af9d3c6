package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	custom := Clone(ErrNotFound, "student with email a@b.c not found")
	wrapped := fmt.Errorf("lookup: %w", custom)

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrEmailInUse))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	conflict := fmt.Errorf("create: %w", Clone(ErrEmailInUse, "maria@gmail.com is already in use"))
	got := FromError(conflict)
	assert.Equal(t, http.StatusConflict, got.Status)
	assert.Equal(t, "maria@gmail.com is already in use", got.Message)

	internal := FromError(errors.New("socket closed"))
	assert.Equal(t, ErrInternal.Code, internal.Code)
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Contains(t, internal.Error(), "socket closed")
}
