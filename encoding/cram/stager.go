package cram

import (
	"crypto/md5"

	"github.com/biogo/hts/sam"
)

// SliceStager accumulates records for a single in-progress slice and,
// on Seal, turns them into a finished Slice. A stager is scoped to one
// slice's lifetime: once sealed, its staged state is cleared and it is
// ready to stage the next slice's records.
type SliceStager struct {
	context ReferenceContext
	records []*StagedRecord
	refs    ReferenceProvider
	mates   *MateResolver
}

// NewSliceStager returns a SliceStager that consults refs to compute a
// sealed slice's reference MD5.
func NewSliceStager(refs ReferenceProvider) *SliceStager {
	return &SliceStager{refs: refs, mates: NewMateResolver()}
}

// Stage appends records to the slice currently being accumulated,
// assigning GlobalRecordCounter values starting at startingCounter.
// ctx must equal the context of any records already staged, or be
// MultiRefContext, which widens the slice in progress to multi-
// reference; it exists so an empty stager can record which context it
// was opened for.
func (s *SliceStager) Stage(ctx ReferenceContext, recs []*sam.Record, startingCounter uint64) error {
	if len(s.records) == 0 || ctx.IsMultiRef() {
		s.context = ctx
	} else if !s.context.Equal(ctx) {
		return StateError(
			"cram: SliceStager.Stage called with a context that does not match the slice in progress")
	}
	for i, r := range recs {
		s.records = append(s.records, &StagedRecord{
			Record:              r,
			GlobalRecordCounter: startingCounter + uint64(i),
		})
	}
	return nil
}

// NumStaged returns the number of records staged since the last Seal.
func (s *SliceStager) NumStaged() int { return len(s.records) }

// AllRecordsView returns the records staged so far, in staging order.
// The returned slice aliases the stager's internal state and must not
// be mutated by the caller.
func (s *SliceStager) AllRecordsView() []*StagedRecord {
	return s.records
}

// Seal resolves mates among the staged records, builds the wire-ready
// Slice, computes its span and reference MD5, and clears the stager's
// staged state.
func (s *SliceStager) Seal(coordinateSorted bool, compressionHeader CompressionHeader) (*Slice, error) {
	if len(s.records) == 0 {
		return nil, PolicyError("cram: Seal called with no staged records")
	}
	s.mates.Resolve(s.records, coordinateSorted)

	var span AlignmentSpan
	first := true
	for _, r := range s.records {
		rec := r.Record
		var entry AlignmentSpan
		switch {
		case rec.Flags&sam.Unmapped != 0 && rec.Pos < 0:
			entry = AlignmentSpan{UnmappedUnplacedCount: 1}
		case rec.Flags&sam.Unmapped != 0:
			entry = AlignmentSpan{AlignmentStart: int32(rec.Pos), AlignmentSpan: recordSpan(rec), UnmappedPlacedCount: 1}
		default:
			entry = AlignmentSpan{AlignmentStart: int32(rec.Pos), AlignmentSpan: recordSpan(rec), MappedCount: 1}
		}
		if first {
			span = entry
			first = false
		} else {
			span = span.merge(entry)
		}
	}

	slice := &Slice{
		Context:              s.context,
		AlignmentStart:       span.AlignmentStart,
		AlignmentSpanLen:     span.AlignmentSpan,
		GlobalRecordCounter:  int64(s.records[0].GlobalRecordCounter),
		EmbeddedRefContentID: -1,
		Records:              s.records,
		CompressionHeader:    compressionHeader,
	}

	if s.context.IsSingleRef() && s.refs != nil {
		bases, err := s.refs.Bases(s.context.ReferenceID())
		if err != nil {
			return nil, IOError(err, "cram: fetching reference bases for slice MD5")
		}
		if bases != nil {
			slice.RefMD5 = md5.Sum(bases)
			slice.RefMD5Present = true
		}
	}

	s.records = nil
	return slice, nil
}

// recordSpan returns the number of reference bases rec's alignment
// consumes, per its CIGAR. Records with no CIGAR (unmapped or
// unplaced) are treated as spanning a single position.
func recordSpan(rec *sam.Record) int32 {
	span := rec.Len()
	if span <= 0 {
		return 1
	}
	return int32(span)
}
