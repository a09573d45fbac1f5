package cram

// AlignmentSpan summarizes the records of a slice (or a constituent
// reference context within a multi-reference slice): where they
// start, how far they extend, and how many fall into each of the
// three record categories CRAM distinguishes for indexing purposes.
type AlignmentSpan struct {
	// AlignmentStart is the 1-based start position. It is 0 for a
	// pure unmapped-unplaced span.
	AlignmentStart int32
	// AlignmentSpan is the length covered. It is 0 for a pure
	// unmapped-unplaced span; legacy inputs may produce 1 (see
	// NewAlignmentSpan's strict parameter).
	AlignmentSpan int32
	MappedCount           int32
	UnmappedPlacedCount   int32
	UnmappedUnplacedCount int32
}

// NewAlignmentSpan constructs an AlignmentSpan, validating the
// unmapped-unplaced start/span invariant from §3 of the design: for
// ctx.IsUnmapped(), start must be 0 (or, when strict is false, the
// legacy -1) and span must be 0 (or, when strict is false, the legacy
// 1).
//
// strict is a toggle for the Open Question carried from the source:
// whether to keep tolerating the legacy (-1, 1) pair. Set strict to
// true to reject it.
func NewAlignmentSpan(ctx ReferenceContext, start, span, mapped, unmappedPlaced, unmappedUnplaced int32, strict bool) (AlignmentSpan, error) {
	if ctx.IsUnmapped() {
		if err := validateUnplacedSpan(start, span, strict); err != nil {
			return AlignmentSpan{}, err
		}
	}
	return AlignmentSpan{
		AlignmentStart:        start,
		AlignmentSpan:         span,
		MappedCount:           mapped,
		UnmappedPlacedCount:   unmappedPlaced,
		UnmappedUnplacedCount: unmappedUnplaced,
	}, nil
}

func validateUnplacedSpan(start, span int32, strict bool) error {
	if start == 0 && span == 0 {
		return nil
	}
	if !strict && start == -1 && span == 1 {
		return nil
	}
	return StructuralError(
		"cram: unmapped-unplaced AlignmentSpan has illegal start=%d span=%d", start, span)
}

// end returns the exclusive end coordinate (AlignmentStart +
// AlignmentSpan) used when merging spans.
func (s AlignmentSpan) end() int32 {
	return s.AlignmentStart + s.AlignmentSpan
}

// merge combines s with o, widening the covered range to their union
// and summing their per-category counts. It is used while decomposing
// a multi-reference slice into per-context AlignmentSpans (§4.5).
func (s AlignmentSpan) merge(o AlignmentSpan) AlignmentSpan {
	if s.AlignmentSpan == 0 && s.MappedCount == 0 && s.UnmappedPlacedCount == 0 && s.UnmappedUnplacedCount == 0 {
		return o
	}
	start := s.AlignmentStart
	if o.AlignmentStart < start {
		start = o.AlignmentStart
	}
	end := s.end()
	if oe := o.end(); oe > end {
		end = oe
	}
	return AlignmentSpan{
		AlignmentStart:        start,
		AlignmentSpan:         end - start,
		MappedCount:           s.MappedCount + o.MappedCount,
		UnmappedPlacedCount:   s.UnmappedPlacedCount + o.UnmappedPlacedCount,
		UnmappedUnplacedCount: s.UnmappedUnplacedCount + o.UnmappedUnplacedCount,
	}
}
