package cram

// Config holds the tunables that drive SlicePartitioner's decisions.
type Config struct {
	// MaxRecordsPerSlice bounds how many records a single slice may
	// accumulate before it must be flushed.
	MaxRecordsPerSlice int
	// MinSingleRefSliceThreshold is the minimum record count a
	// single-reference (or small multi-reference) slice must reach
	// before the partitioner will flush it on a reference-context
	// transition, rather than promoting it to MultiRef.
	MinSingleRefSliceThreshold int
	// CoordinateSorted indicates the input stream is sorted by
	// coordinate. It changes how an unmapped-to-mapped transition and
	// a MultiRef slice are handled (§4.1).
	CoordinateSorted bool
}

// SlicePartitioner is the stateless decision function described in
// §4.1: given the slice-in-progress's current context, the next
// incoming record's reference id, how many records have accumulated,
// and how many slices are already staged in the current container, it
// decides whether the next record continues the current slice
// (possibly under a promoted context) or whether the current slice
// must be flushed first.
//
// SlicePartitioner carries no mutable state of its own; all state
// (current context, accumulated count, staged count) is owned by the
// caller, typically a SlicingPipeline.
type SlicePartitioner struct {
	Config Config
}

// NewSlicePartitioner returns a SlicePartitioner configured by cfg.
func NewSlicePartitioner(cfg Config) *SlicePartitioner {
	return &SlicePartitioner{Config: cfg}
}

// Decide implements the §4.1 transition table. nextRef is the
// reference id of the next incoming record, or unmappedContextID (-1)
// if it is unmapped.
//
// It returns the ReferenceContext the partitioner should continue
// accumulating into. A returned UninitializedContext means: flush the
// current slice (stage it, and in the common case seal its container)
// before processing the next record against a freshly-decided
// context.
func (p *SlicePartitioner) Decide(current ReferenceContext, nextRef int32, accumulatedCount, stagedSliceCount int) (ReferenceContext, error) {
	M := p.Config.MaxRecordsPerSlice
	T := p.Config.MinSingleRefSliceThreshold
	CS := p.Config.CoordinateSorted
	R := accumulatedCount
	S := stagedSliceCount
	nextIsUnmapped := nextRef == unmappedContextID

	switch {
	case current.IsUninitialized():
		if R != 0 {
			return ReferenceContext{}, StateError(
				"cram: SlicePartitioner asked to transition from Uninitialized with a non-zero accumulated count")
		}
		if nextIsUnmapped {
			return UnmappedContext, nil
		}
		return SingleRefContext(nextRef), nil

	case current.IsUnmapped():
		if nextIsUnmapped {
			if R < M {
				return current, nil
			}
			return UninitializedContext, nil
		}
		if CS {
			return ReferenceContext{}, PolicyError(
				"cram: coordinate-sorted input has a mapped record after an unmapped one")
		}
		if R < M {
			return MultiRefContext, nil
		}
		return UninitializedContext, nil

	case current.IsMultiRef():
		if CS {
			if R >= T {
				return UninitializedContext, nil
			}
			return current, nil
		}
		if R < M {
			return current, nil
		}
		return UninitializedContext, nil

	case current.IsSingleRef():
		if !nextIsUnmapped && nextRef == current.ReferenceID() {
			if R < M {
				return current, nil
			}
			return UninitializedContext, nil
		}
		if R >= T {
			return UninitializedContext, nil
		}
		if S > 0 {
			return UninitializedContext, nil
		}
		return MultiRefContext, nil
	}
	panic("cram: unreachable ReferenceContext kind")
}
