package slackerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"libslack/slackerr"
)

func TestNewAndIs(t *testing.T) {
	err := slackerr.New(slackerr.Invalid, "sequence", "Item", "index %d out of range", -5)
	require.Error(t, err)
	require.True(t, errors.Is(err, slackerr.Sentinel(slackerr.Invalid)))
	require.False(t, errors.Is(err, slackerr.Sentinel(slackerr.NotFound)))

	var slackErr *slackerr.Error
	require.True(t, errors.As(err, &slackErr))
	require.Equal(t, slackerr.Invalid, slackErr.Kind)
	require.Equal(t, "sequence", slackErr.Component)
	require.Equal(t, "Item", slackErr.Op)
}

func TestWrapNilIsNil(t *testing.T) {
	require.Nil(t, slackerr.Wrap(slackerr.Timeout, "rwlock", "LockContext", nil))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := slackerr.Wrap(slackerr.Capacity, "hashmap", "grow", cause)
	require.ErrorIs(t, err, cause)
}
