package cram

// Tag is one entry of a slice header's optional tag chain (major
// version >= 3): a two-byte key, a one-byte type code, and an opaque
// value. Unknown tags are preserved verbatim rather than rejected, so
// a tag chain this package didn't originate still round-trips.
type Tag struct {
	Key   [2]byte
	Type  byte
	Value []byte
}

// TagSet is an ordered chain of Tags. Order is preserved on
// round-trip.
type TagSet []Tag

// Slice is a sealed slice: the records staged for it, bound to a
// CompressionHeader and a reference MD5, ready to have its header
// serialized by SliceHeaderCodec and its index entries produced.
type Slice struct {
	Context                ReferenceContext
	AlignmentStart         int32
	AlignmentSpanLen       int32
	GlobalRecordCounter    int64
	ExternalContentIDs     []int32
	EmbeddedRefContentID   int32 // -1 if no embedded reference block
	RefMD5                 [16]byte
	RefMD5Present          bool
	Tags                   TagSet
	Records                []*StagedRecord
	CompressionHeader      CompressionHeader
}

// NumRecords returns the number of records in the slice.
func (s *Slice) NumRecords() int32 { return int32(len(s.Records)) }

// NumBlocks returns the slice header's nofBlocks value: one core
// block plus one per external content id (the embedded reference
// block, when present, is already counted among ExternalContentIDs).
func (s *Slice) NumBlocks() int32 { return 1 + int32(len(s.ExternalContentIDs)) }
