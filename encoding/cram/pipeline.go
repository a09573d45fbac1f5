package cram

import (
	"github.com/biogo/hts/sam"
)

// SlicingPipeline is the in-memory orchestrator that wires a
// SlicePartitioner, a SliceStager (and the MateResolver it owns), and
// a CompressionHeaderBuilder together over a stream of incoming
// records (§2). It decides, one record at a time, whether the record
// belongs to the slice currently being accumulated or forces that
// slice to be sealed into a new container first.
//
// SlicingPipeline is not the file-level container iterator: it never
// touches a Writer, never assigns byte offsets, and never calls
// SliceHeaderCodec itself. Those are the job of the external
// container-serialization layer, which calls Admit/Close, serializes
// whatever Container comes back, and only then has the byte offsets
// needed to call DecomposeSliceIndexEntries.
//
// Its container-sealing policy is the simplest one consistent with
// this package's end-to-end scenarios: every sealed slice immediately
// becomes its own single-slice container. SlicePartitioner's
// stagedSliceCount parameter exists for callers who want a multi-slice-
// per-container policy instead; SlicingPipeline always passes 0.
type SlicingPipeline struct {
	Config Config

	partitioner *SlicePartitioner
	stager      *SliceStager
	chBuilder   CompressionHeaderBuilder

	current          ReferenceContext
	accumulatedCount int
	globalCounter    uint64
}

// NewSlicingPipeline returns a SlicingPipeline. refs may be nil if the
// caller does not need reference MD5s computed (e.g. tests). chBuilder
// may be nil; in that case sealed containers carry a nil
// CompressionHeader.
func NewSlicingPipeline(cfg Config, refs ReferenceProvider, chBuilder CompressionHeaderBuilder) *SlicingPipeline {
	return &SlicingPipeline{
		Config:      cfg,
		partitioner: NewSlicePartitioner(cfg),
		stager:      NewSliceStager(refs),
		chBuilder:   chBuilder,
		current:     UninitializedContext,
	}
}

// Admit offers rec to the pipeline. If rec can join the slice
// currently being accumulated, Admit stages it and returns a nil
// Container. If admitting rec requires sealing the in-progress slice
// first, Admit seals it into a Container, stages rec under the new
// context, and returns the sealed Container.
func (p *SlicingPipeline) Admit(rec *sam.Record) (*Container, error) {
	nextRef := refContextIDFor(rec)

	decision, err := p.partitioner.Decide(p.current, nextRef, p.accumulatedCount, 0)
	if err != nil {
		return nil, err
	}

	var sealed *Container
	if decision.IsUninitialized() {
		sealed, err = p.seal()
		if err != nil {
			return nil, err
		}
		decision, err = p.partitioner.Decide(UninitializedContext, nextRef, 0, 0)
		if err != nil {
			return nil, err
		}
	}

	if err := p.stager.Stage(decision, []*sam.Record{rec}, p.globalCounter); err != nil {
		return nil, err
	}
	p.current = decision
	p.accumulatedCount++
	p.globalCounter++
	return sealed, nil
}

// Close seals any slice still being accumulated. It returns a nil
// Container if nothing was staged.
func (p *SlicingPipeline) Close() (*Container, error) {
	if p.accumulatedCount == 0 {
		return nil, nil
	}
	return p.seal()
}

func (p *SlicingPipeline) seal() (*Container, error) {
	var ch CompressionHeader
	if p.chBuilder != nil {
		var err error
		if ch, err = p.chBuilder.Build(p.stager.AllRecordsView()); err != nil {
			return nil, err
		}
	}
	slice, err := p.stager.Seal(p.Config.CoordinateSorted, ch)
	if err != nil {
		return nil, err
	}
	p.current = UninitializedContext
	p.accumulatedCount = 0
	return &Container{CompressionHeader: ch, Slices: []*Slice{slice}}, nil
}

// refContextIDFor returns the reference context id a record
// contributes for partitioning purposes: the id of the reference it
// is placed against, or unmappedContextID for a record with no
// placement at all. A record that is flagged unmapped but still
// carries a placement (e.g. a mate-rescued read) is treated as
// belonging to that reference, matching how such records are indexed.
func refContextIDFor(rec *sam.Record) int32 {
	if rec.Ref == nil || rec.Pos < 0 {
		return unmappedContextID
	}
	return int32(rec.Ref.ID())
}
