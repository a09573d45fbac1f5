package cram

import "sort"

// IndexEntry is a single row destined for a coordinate-sorted binary
// (BAI-style) index: it describes one slice, or one constituent
// reference context of a decomposed multi-reference slice.
type IndexEntry struct {
	ReferenceContext                  ReferenceContext
	AlignmentSpan                     AlignmentSpan
	ContainerStartByteOffset          int64
	SliceOffsetFromCompressionHeader  int64
	LandmarkIndex                     int32
}

// NewIndexEntry constructs an IndexEntry, enforcing the invariant that
// MultiRefContext may never appear in an index entry (§3): a
// multi-reference slice must be decomposed into per-context entries
// by the caller (see DecomposeSliceIndexEntries) before reaching this
// constructor.
func NewIndexEntry(ctx ReferenceContext, span AlignmentSpan, containerStartByteOffset, sliceOffsetFromCompressionHeader int64, landmarkIndex int32) (IndexEntry, error) {
	if ctx.IsMultiRef() {
		return IndexEntry{}, PolicyError(
			"cram: IndexEntry must not carry a multi-reference context; decompose the slice first")
	}
	return IndexEntry{
		ReferenceContext:                 ctx,
		AlignmentSpan:                    span,
		ContainerStartByteOffset:         containerStartByteOffset,
		SliceOffsetFromCompressionHeader: sliceOffsetFromCompressionHeader,
		LandmarkIndex:                    landmarkIndex,
	}, nil
}

// Compare implements the §3 total ordering: unmapped-unplaced entries
// sort last; otherwise entries compare by ascending reference id, then
// (for placed entries) ascending alignment start, then ascending
// container byte offset, then ascending slice offset from the
// compression header.
func (e IndexEntry) Compare(o IndexEntry) int {
	eUnmapped := e.ReferenceContext.IsUnmapped()
	oUnmapped := o.ReferenceContext.IsUnmapped()
	if eUnmapped != oUnmapped {
		if eUnmapped {
			return 1
		}
		return -1
	}
	if !eUnmapped {
		if d := e.ReferenceContext.ReferenceID() - o.ReferenceContext.ReferenceID(); d != 0 {
			return int(d)
		}
		if d := e.AlignmentSpan.AlignmentStart - o.AlignmentSpan.AlignmentStart; d != 0 {
			return int(d)
		}
	}
	if e.ContainerStartByteOffset != o.ContainerStartByteOffset {
		if e.ContainerStartByteOffset < o.ContainerStartByteOffset {
			return -1
		}
		return 1
	}
	if e.SliceOffsetFromCompressionHeader != o.SliceOffsetFromCompressionHeader {
		if e.SliceOffsetFromCompressionHeader < o.SliceOffsetFromCompressionHeader {
			return -1
		}
		return 1
	}
	return 0
}

// SortIndexEntries sorts entries in place per Compare. The sort is
// stable so that entries which compare equal (sharing every ordering
// key) retain their relative emission order.
func SortIndexEntries(entries []IndexEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Compare(entries[j]) < 0
	})
}
