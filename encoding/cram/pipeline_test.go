package cram

import (
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/require"
)

var pipelineTestRef, pipelineOtherRef = mustTwoRefs()

func plainRecord(name string, pos int) *sam.Record {
	return &sam.Record{Name: name, Ref: pipelineTestRef, Pos: pos}
}

// TestSlicingPipelineFlushesAtMaxRecordsPerSlice exercises the common
// coordinate-sorted, single-reference path: once a slice reaches
// MaxRecordsPerSlice, admitting the next record seals the slice into
// its own container and starts a fresh one.
func TestSlicingPipelineFlushesAtMaxRecordsPerSlice(t *testing.T) {
	cfg := Config{MaxRecordsPerSlice: 3, MinSingleRefSliceThreshold: 2, CoordinateSorted: true}
	p := NewSlicingPipeline(cfg, nil, nil)

	var sealedContainers []*Container
	for i := 0; i < 4; i++ {
		sealed, err := p.Admit(plainRecord("r", 100+i))
		require.NoError(t, err)
		if sealed != nil {
			sealedContainers = append(sealedContainers, sealed)
		}
	}

	require.Len(t, sealedContainers, 1)
	require.Len(t, sealedContainers[0].Slices, 1)
	require.EqualValues(t, 3, sealedContainers[0].Slices[0].NumRecords())

	trailing, err := p.Close()
	require.NoError(t, err)
	require.NotNil(t, trailing)
	require.EqualValues(t, 1, trailing.Slices[0].NumRecords())
}

// TestSlicingPipelineCloseWithNothingStagedIsNil covers the trivial
// end-to-end case: no records admitted means Close has nothing to
// seal.
func TestSlicingPipelineCloseWithNothingStagedIsNil(t *testing.T) {
	p := NewSlicingPipeline(Config{MaxRecordsPerSlice: 10}, nil, nil)
	c, err := p.Close()
	require.NoError(t, err)
	require.Nil(t, c)
}

// TestSlicingPipelineSealsOncePerContainerByDefault checks the
// orchestrator's default policy: each sealed Container carries exactly
// one Slice, never more.
func TestSlicingPipelineSealsOncePerContainerByDefault(t *testing.T) {
	cfg := Config{MaxRecordsPerSlice: 2, MinSingleRefSliceThreshold: 1, CoordinateSorted: true}
	p := NewSlicingPipeline(cfg, nil, nil)

	var containers []*Container
	for i := 0; i < 6; i++ {
		sealed, err := p.Admit(plainRecord("r", 100+i))
		require.NoError(t, err)
		if sealed != nil {
			containers = append(containers, sealed)
		}
	}
	if trailing, err := p.Close(); err == nil && trailing != nil {
		containers = append(containers, trailing)
	}

	for _, c := range containers {
		require.Len(t, c.Slices, 1)
	}
}

func TestSlicingPipelineRefSwitchWidensToMultiRef(t *testing.T) {
	cfg := Config{MaxRecordsPerSlice: 100, MinSingleRefSliceThreshold: 50, CoordinateSorted: false}
	p := NewSlicingPipeline(cfg, nil, nil)

	_, err := p.Admit(plainRecord("a", 10))
	require.NoError(t, err)
	rec := &sam.Record{Name: "b", Ref: pipelineOtherRef, Pos: 5}
	sealed, err := p.Admit(rec)
	require.NoError(t, err)
	require.Nil(t, sealed)
	require.True(t, p.current.IsMultiRef())
}
