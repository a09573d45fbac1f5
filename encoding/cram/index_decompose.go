package cram

import "github.com/biogo/hts/sam"

// DecomposeSliceIndexEntries produces the IndexEntry values a sealed
// slice contributes to the container's index (§4.5). A single-
// reference or unmapped slice contributes exactly one entry. A
// multi-reference slice is decomposed into one entry per constituent
// reference context represented among its records, plus (when any
// unmapped-unplaced records are present) a single trailing entry for
// them; SortIndexEntries then places that trailing entry last
// regardless of the order it was produced in here.
func DecomposeSliceIndexEntries(s *Slice, containerStartByteOffset, sliceOffsetFromCompressionHeader int64, landmarkIndex int32) ([]IndexEntry, error) {
	if !s.Context.IsMultiRef() {
		span, err := spanForSlice(s)
		if err != nil {
			return nil, err
		}
		entry, err := NewIndexEntry(s.Context, span, containerStartByteOffset, sliceOffsetFromCompressionHeader, landmarkIndex)
		if err != nil {
			return nil, err
		}
		return []IndexEntry{entry}, nil
	}

	spans := make(map[int32]AlignmentSpan)
	order := make([]int32, 0)
	var unplaced AlignmentSpan
	haveUnplaced := false

	for _, r := range s.Records {
		rec := r.Record
		if rec.Flags&sam.Unmapped != 0 && rec.Pos < 0 {
			unplaced = unplaced.merge(AlignmentSpan{UnmappedUnplacedCount: 1})
			haveUnplaced = true
			continue
		}
		refID := int32(rec.Ref.ID())
		entry := AlignmentSpan{AlignmentStart: int32(rec.Pos), AlignmentSpan: recordSpan(rec)}
		if rec.Flags&sam.Unmapped != 0 {
			entry.UnmappedPlacedCount = 1
		} else {
			entry.MappedCount = 1
		}
		if existing, ok := spans[refID]; ok {
			spans[refID] = existing.merge(entry)
		} else {
			spans[refID] = entry
			order = append(order, refID)
		}
	}

	entries := make([]IndexEntry, 0, len(order)+1)
	for _, refID := range order {
		entry, err := NewIndexEntry(SingleRefContext(refID), spans[refID], containerStartByteOffset, sliceOffsetFromCompressionHeader, landmarkIndex)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if haveUnplaced {
		entry, err := NewIndexEntry(UnmappedContext, unplaced, containerStartByteOffset, sliceOffsetFromCompressionHeader, landmarkIndex)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	SortIndexEntries(entries)
	return entries, nil
}

func spanForSlice(s *Slice) (AlignmentSpan, error) {
	if s.Context.IsUninitialized() {
		return AlignmentSpan{}, StateError("cram: cannot build an IndexEntry for an uninitialized slice")
	}
	mapped, unmappedPlaced, unmappedUnplaced := int32(0), int32(0), int32(0)
	for _, r := range s.Records {
		rec := r.Record
		switch {
		case rec.Flags&sam.Unmapped != 0 && rec.Pos < 0:
			unmappedUnplaced++
		case rec.Flags&sam.Unmapped != 0:
			unmappedPlaced++
		default:
			mapped++
		}
	}
	return NewAlignmentSpan(s.Context, s.AlignmentStart, s.AlignmentSpanLen, mapped, unmappedPlaced, unmappedUnplaced, false)
}
