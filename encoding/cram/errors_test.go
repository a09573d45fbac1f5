package cram

import (
	"errors"
	"testing"

	grailerrors "github.com/grailbio/base/errors"
	"github.com/stretchr/testify/require"
)

func TestErrorConstructorsSetKind(t *testing.T) {
	cases := []struct {
		err  error
		kind grailerrors.Kind
	}{
		{StructuralError("bad field %d", 3), grailerrors.Invalid},
		{PolicyError("caller broke a precondition"), grailerrors.Precondition},
		{StateError("internal invariant violated"), grailerrors.Internal},
		{IOError(errors.New("disk gone"), "writing block"), grailerrors.IO},
	}
	for _, c := range cases {
		e, ok := c.err.(*grailerrors.Error)
		require.True(t, ok, "%v is not a *errors.Error", c.err)
		require.Equal(t, c.kind, e.Kind)
	}
}

func TestIOErrorPreservesUnderlyingCause(t *testing.T) {
	cause := errors.New("disk gone")
	err := IOError(cause, "writing block")
	require.Contains(t, err.Error(), "disk gone")
}
