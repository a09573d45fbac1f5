package cram

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartitionerStartsSingleRefFromUninitialized(t *testing.T) {
	p := NewSlicePartitioner(Config{MaxRecordsPerSlice: 10, MinSingleRefSliceThreshold: 5, CoordinateSorted: true})
	ctx, err := p.Decide(UninitializedContext, 2, 0, 0)
	require.NoError(t, err)
	require.Equal(t, SingleRefContext(2), ctx)
}

func TestPartitionerStartsUnmappedFromUninitialized(t *testing.T) {
	p := NewSlicePartitioner(Config{MaxRecordsPerSlice: 10, MinSingleRefSliceThreshold: 5, CoordinateSorted: true})
	ctx, err := p.Decide(UninitializedContext, unmappedContextID, 0, 0)
	require.NoError(t, err)
	require.Equal(t, UnmappedContext, ctx)
}

func TestPartitionerUninitializedRejectsNonZeroAccumulated(t *testing.T) {
	p := NewSlicePartitioner(Config{MaxRecordsPerSlice: 10})
	_, err := p.Decide(UninitializedContext, 2, 3, 0)
	require.Error(t, err)
}

func TestPartitionerSingleRefContinuesOnSameRef(t *testing.T) {
	p := NewSlicePartitioner(Config{MaxRecordsPerSlice: 10, MinSingleRefSliceThreshold: 5})
	ctx, err := p.Decide(SingleRefContext(2), 2, 5, 0)
	require.NoError(t, err)
	require.Equal(t, SingleRefContext(2), ctx)
}

func TestPartitionerSingleRefFlushesAtMaxRecords(t *testing.T) {
	p := NewSlicePartitioner(Config{MaxRecordsPerSlice: 10, MinSingleRefSliceThreshold: 5})
	ctx, err := p.Decide(SingleRefContext(2), 2, 10, 0)
	require.NoError(t, err)
	require.True(t, ctx.IsUninitialized())
}

func TestPartitionerSingleRefBelowThresholdPromotesToMultiRef(t *testing.T) {
	// S3: switching references before MinSingleRefSliceThreshold is reached,
	// and no slice has been staged yet in this container, widens the
	// context to multi-reference instead of flushing early.
	p := NewSlicePartitioner(Config{MaxRecordsPerSlice: 100, MinSingleRefSliceThreshold: 50})
	ctx, err := p.Decide(SingleRefContext(2), 3, 4, 0)
	require.NoError(t, err)
	require.True(t, ctx.IsMultiRef())
}

func TestPartitionerSingleRefFlushesAtThresholdEvenOnRefSwitch(t *testing.T) {
	p := NewSlicePartitioner(Config{MaxRecordsPerSlice: 100, MinSingleRefSliceThreshold: 50})
	ctx, err := p.Decide(SingleRefContext(2), 3, 60, 0)
	require.NoError(t, err)
	require.True(t, ctx.IsUninitialized())
}

func TestPartitionerSingleRefFlushesOnRefSwitchWhenSliceAlreadyStaged(t *testing.T) {
	// S4: a slice has already been staged in the current container, so a
	// reference switch below threshold must flush rather than widen to
	// multi-reference -- multi-reference only ever starts a container's
	// first slice.
	p := NewSlicePartitioner(Config{MaxRecordsPerSlice: 100, MinSingleRefSliceThreshold: 50})
	ctx, err := p.Decide(SingleRefContext(2), 3, 4, 1)
	require.NoError(t, err)
	require.True(t, ctx.IsUninitialized())
}

func TestPartitionerMultiRefCoordinateSortedFlushesAtThreshold(t *testing.T) {
	p := NewSlicePartitioner(Config{MaxRecordsPerSlice: 100, MinSingleRefSliceThreshold: 10, CoordinateSorted: true})
	ctx, err := p.Decide(MultiRefContext, 5, 10, 0)
	require.NoError(t, err)
	require.True(t, ctx.IsUninitialized())
}

func TestPartitionerMultiRefUnsortedUsesMaxRecords(t *testing.T) {
	// S5: unsorted input ignores MinSingleRefSliceThreshold for a
	// multi-reference slice and only flushes at MaxRecordsPerSlice.
	p := NewSlicePartitioner(Config{MaxRecordsPerSlice: 100, MinSingleRefSliceThreshold: 10, CoordinateSorted: false})
	ctx, err := p.Decide(MultiRefContext, 5, 50, 0)
	require.NoError(t, err)
	require.True(t, ctx.IsMultiRef())

	ctx, err = p.Decide(MultiRefContext, 5, 100, 0)
	require.NoError(t, err)
	require.True(t, ctx.IsUninitialized())
}

func TestPartitionerUnmappedContinuesUntilMaxRecords(t *testing.T) {
	p := NewSlicePartitioner(Config{MaxRecordsPerSlice: 10})
	ctx, err := p.Decide(UnmappedContext, unmappedContextID, 9, 0)
	require.NoError(t, err)
	require.True(t, ctx.IsUnmapped())

	ctx, err = p.Decide(UnmappedContext, unmappedContextID, 10, 0)
	require.NoError(t, err)
	require.True(t, ctx.IsUninitialized())
}

func TestPartitionerCoordinateSortedRejectsMappedAfterUnmapped(t *testing.T) {
	p := NewSlicePartitioner(Config{MaxRecordsPerSlice: 10, CoordinateSorted: true})
	_, err := p.Decide(UnmappedContext, 2, 3, 0)
	require.Error(t, err)
}

func TestPartitionerUnsortedWidensUnmappedToMultiRef(t *testing.T) {
	p := NewSlicePartitioner(Config{MaxRecordsPerSlice: 10, CoordinateSorted: false})
	ctx, err := p.Decide(UnmappedContext, 2, 3, 0)
	require.NoError(t, err)
	require.True(t, ctx.IsMultiRef())
}
