package cram

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReferenceContextKinds(t *testing.T) {
	single := SingleRefContext(3)
	require.True(t, single.IsSingleRef())
	require.Equal(t, int32(3), single.ReferenceID())
	require.Equal(t, int32(3), single.SerializableID())

	require.True(t, MultiRefContext.IsMultiRef())
	require.Equal(t, multiRefContextID, MultiRefContext.SerializableID())

	require.True(t, UnmappedContext.IsUnmapped())
	require.Equal(t, unmappedContextID, UnmappedContext.SerializableID())

	require.True(t, UninitializedContext.IsUninitialized())
}

func TestReferenceContextEqual(t *testing.T) {
	require.True(t, SingleRefContext(1).Equal(SingleRefContext(1)))
	require.False(t, SingleRefContext(1).Equal(SingleRefContext(2)))
	require.False(t, SingleRefContext(1).Equal(MultiRefContext))
	require.True(t, MultiRefContext.Equal(MultiRefContext))
	require.True(t, UnmappedContext.Equal(UnmappedContext))
}

func TestSingleRefContextRejectsNegativeID(t *testing.T) {
	require.Panics(t, func() { SingleRefContext(-1) })
}

func TestReferenceIDPanicsOffSingleRef(t *testing.T) {
	require.Panics(t, func() { MultiRefContext.ReferenceID() })
}

func TestUninitializedHasNoSerializableID(t *testing.T) {
	require.Panics(t, func() { UninitializedContext.SerializableID() })
}
