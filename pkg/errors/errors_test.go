package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppError_IsMatchesOnKind(t *testing.T) {
	missing := NewNotFound("user not found")
	require.ErrorIs(t, missing, ErrNotFound)
	require.NotErrorIs(t, missing, ErrUnauthorized)

	wrapped := NewStorage("persist snapshot", stderrors.New("disk full"))
	require.ErrorIs(t, wrapped, ErrStorage)
}

func TestAppError_ErrorIncludesInternal(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewStorage("persist snapshot", cause)
	require.Equal(t, "persist snapshot: disk full", err.Error())
	require.ErrorIs(t, err, cause, "Unwrap exposes the cause")

	plain := NewValidation("email", "Please enter a valid email address.")
	require.Equal(t, "Please enter a valid email address.", plain.Error())
}

func TestAppError_WithInternalCopies(t *testing.T) {
	base := NewNotFound("user not found")
	withCause := base.WithInternal(stderrors.New("row missing"))

	require.Nil(t, base.Internal, "the original is untouched")
	require.NotNil(t, withCause.Internal)
	require.Equal(t, base.Kind, withCause.Kind)
}

func TestFromError(t *testing.T) {
	require.Nil(t, FromError(nil))

	appErr := NewConflict("email", "taken")
	require.Same(t, appErr, FromError(appErr), "existing AppErrors pass through")

	cause := stderrors.New("boom")
	converted := FromError(cause)
	require.Equal(t, KindStorage, converted.Kind)
	require.ErrorIs(t, converted, cause)
}
