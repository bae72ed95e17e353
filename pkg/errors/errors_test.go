package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePriorityOrder(t *testing.T) {
	transport := errors.New("connection reset")

	assert.Equal(t, "Invalid credentials", Normalize("Invalid credentials", transport, "Login failed"))
	assert.Equal(t, "connection reset", Normalize("", transport, "Login failed"))
	assert.Equal(t, "Login failed", Normalize("", nil, "Login failed"))
}

func TestFromErrorPassesThroughTypedErrors(t *testing.T) {
	err := Clone(ErrNotFound, "Event not found")
	wrapped := fmt.Errorf("loading detail: %w", err)

	got := FromError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, ErrNotFound.Code, got.Code)
	assert.Equal(t, "Event not found", got.Message)
}

func TestFromErrorWrapsPlainErrors(t *testing.T) {
	got := FromError(errors.New("boom"))
	require.NotNil(t, got)
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.ErrorContains(t, got, "boom")
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsValidation(Clone(ErrValidation, "Please fill in all fields")))
	assert.False(t, IsValidation(Clone(ErrServer, "nope")))
	assert.True(t, IsNotFound(ErrNotFound))
	assert.False(t, IsNotFound(errors.New("boom")))
}

func TestCloneDoesNotMutateSentinel(t *testing.T) {
	clone := Clone(ErrServer, "custom message")
	assert.Equal(t, "custom message", clone.Message)
	assert.Equal(t, "request failed", ErrServer.Message)
}
