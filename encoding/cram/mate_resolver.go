package cram

import (
	"github.com/biogo/hts/sam"
	"github.com/grailbio/base/log"
)

// StagedRecord wraps a source aligned record (the "source
// aligned-record domain type" of §6) with the bookkeeping the
// slicing/mate-resolution pipeline needs: its position in the global
// record stream, and, once MateResolver has run, whether it carries a
// forward pointer to its in-slice mate or is detached.
type StagedRecord struct {
	Record              *sam.Record
	GlobalRecordCounter  uint64

	// Mate is set on the earlier of a resolved pair and points at its
	// mate; it is nil on the later record of the pair, and nil on any
	// unresolved record. Mate attachment always points forward in
	// input order, per §4.2 step 3.
	Mate *StagedRecord

	// Detached is true if this record's mate could not be resolved
	// within the slice (or the input was not coordinate-sorted, or
	// this record is unpaired).
	Detached bool
}

// MateResolver links each paired record destined for one slice to its
// in-slice mate, so the encoder can emit a compact intra-slice
// reference instead of duplicating the mate's coordinates. Records
// whose mate cannot be resolved within the slice are left Detached.
//
// Resolution keeps a single table of unmatched candidates keyed by
// read name (§4.2, §9 Open Questions): the first record seen for a
// name is filed as a candidate and stays filed until something links
// to it. A later record for that name is checked against the filed
// candidate via acceptMate; on a match the pair links and the slot is
// freed, but on a mismatch only the later record is rejected (and left
// Detached) -- the filed candidate is left in place rather than
// evicted, so a genuine mate arriving after an interposed secondary or
// supplementary alignment of the same name still finds it and links
// (§8 scenario S6). The remaining known gap is the inverse case: two
// records that could each validly match a *future* same-named record
// are in flight at once. Only the first is kept as the candidate; the
// second is rejected and permanently Detached even if a later record
// would have matched it instead of the filed one.
type MateResolver struct{}

// NewMateResolver returns a MateResolver. MateResolver carries no
// state between calls to Resolve.
func NewMateResolver() *MateResolver { return &MateResolver{} }

// Resolve links mates among records, in input order. records must be
// in the order they will be written to the slice. coordinateSorted
// must reflect whether the overall input stream is sorted by
// coordinate; when it is not, every record is marked Detached (§4.2
// step 1) since off-coordinate input gives the resolver no ordering
// guarantee to exploit.
func (*MateResolver) Resolve(records []*StagedRecord, coordinateSorted bool) {
	if !coordinateSorted {
		for _, r := range records {
			r.Detached = true
		}
		return
	}

	candidates := make(map[string]*StagedRecord)
	linked := make(map[*StagedRecord]bool, len(records))

	for _, r := range records {
		if r.Record.Flags&sam.Paired == 0 {
			r.Detached = true
			continue
		}
		name := r.Record.Name
		if m, ok := candidates[name]; ok {
			if acceptMate(m.Record, r.Record) {
				delete(candidates, name)
				m.Mate = r
				linked[m] = true
				linked[r] = true
				continue
			}
			// m stays filed: r is rejected outright rather than
			// evicting a candidate that a later, genuine mate for
			// this name might still match (§8 scenario S6).
			log.Debug.Printf("cram: rejecting candidate mate %s for %s", name, name)
			r.Detached = true
			continue
		}
		candidates[name] = r
	}

	// §4.2 step 4: a second pass re-checks each resolved pair against
	// the later record's own declared hints, not just the earlier
	// record's. In the common case this repeats step 3's check and
	// never fires; it exists so an implementation-defined asymmetry
	// between the two records' flags doesn't silently survive.
	for _, r := range records {
		if r.Mate == nil {
			continue
		}
		if !acceptMate(r.Mate.Record, r.Record) {
			r.Mate.Detached = true
			r.Detached = true
			r.Mate = nil
		}
	}

	for _, r := range records {
		if !linked[r] {
			r.Detached = true
		}
	}
}

// acceptMate implements the §4.2 predicate: candidate is rejected as
// first's mate when first's own flags declare something about the
// mate that candidate contradicts, or when candidate's alignment
// start doesn't match what first recorded as its mate's start.
func acceptMate(first, candidate *sam.Record) bool {
	if first.Flags&sam.MateReverse != 0 && candidate.Flags&sam.Reverse == 0 {
		return false
	}
	if first.Flags&sam.MateUnmapped != 0 && candidate.Flags&sam.Unmapped == 0 {
		return false
	}
	if candidate.Pos != first.MatePos {
		return false
	}
	return true
}
