package cram

import "io"

// This file declares the external collaborators listed in spec §6 as
// Go interfaces. Their implementations -- the generic compressed
// block codec, the compression-header builder, the reference sequence
// provider, and the record-level base/quality/feature encoder -- are
// out of scope for this package; only the shapes this package needs
// to call through are defined here.

// ContentType tags the kind of payload a Block carries. The two
// values this package cares about are CompressionHeader and
// MappedSliceHeader; external block-codec content types (external
// data, core data, file header) are opaque to this package and simply
// round-trip through Block.ContentType.
type ContentType int

const (
	// ContentTypeFileHeader tags a file header block.
	ContentTypeFileHeader ContentType = iota + 1
	// ContentTypeCompressionHeader tags a compression header block.
	ContentTypeCompressionHeader
	// ContentTypeMappedSliceHeader tags the slice header block this
	// package reads and writes.
	ContentTypeMappedSliceHeader
	// ContentTypeExternal tags an external data block.
	ContentTypeExternal
	// ContentTypeCore tags a core data block.
	ContentTypeCore
)

// Block is a single decompressed block payload together with the
// metadata the real (out-of-scope) block codec attaches to it.
type Block struct {
	ContentType ContentType
	ContentID   int32
	Data        []byte
}

// BlockCodec is the external collaborator that frames a Block for the
// underlying compressed container format and parses it back. The real
// implementation lives in the (out-of-scope) generic block layer;
// SliceHeaderCodec only needs this much of its surface.
type BlockCodec interface {
	WriteBlock(major int, blk *Block, w io.Writer) error
	ReadBlock(major int, r io.Reader) (*Block, error)
}

// CompressionHeader is an opaque handle to the compression header
// produced by the (out-of-scope) compression-header builder. This
// package never interprets its contents; it only threads it through
// SliceStager.Seal into the sealed Slice.
type CompressionHeader interface{}

// CompressionHeaderBuilder is the external collaborator that inspects
// every record destined for a container and produces its
// CompressionHeader.
type CompressionHeaderBuilder interface {
	Build(records []*StagedRecord) (CompressionHeader, error)
}

// ReferenceProvider is the external collaborator giving access to
// reference sequence bases, used by SliceStager.Seal to snapshot the
// bases a slice's reference MD5 is computed from.
type ReferenceProvider interface {
	Bases(referenceIndex int32) ([]byte, error)
	CurrentBases() ([]byte, error)
}

// RecordEncoder is the external collaborator that turns a source
// aligned record into the per-slice record representation (bases,
// qualities, read features) that actually gets written to a CRAM
// core/external data block. This package treats its output as opaque.
type RecordEncoder interface {
	Encode(rec *StagedRecord) (interface{}, error)
}
