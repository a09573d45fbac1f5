package cram

import (
	"bytes"
	"io"
)

const refMD5Size = 16

// SliceHeaderCodec serializes and parses the CRAM slice header block
// described in spec §6: a fixed sequence of ITF8/LTF8 fields, a raw
// 16-byte (possibly zero-filled) reference MD5, and, for major
// version >= 3, a trailing tag chain.
type SliceHeaderCodec struct {
	// Codec is the external block codec used to frame the serialized
	// payload as a Block and parse it back. Tests may supply an
	// in-memory fake; production code supplies the real block layer.
	Codec BlockCodec
}

// NewSliceHeaderCodec returns a SliceHeaderCodec that frames payloads
// with codec.
func NewSliceHeaderCodec(codec BlockCodec) *SliceHeaderCodec {
	return &SliceHeaderCodec{Codec: codec}
}

// Write serializes s's header fields in wire order, wraps the result
// in a mapped-slice-header Block, and writes it via the configured
// BlockCodec.
func (c *SliceHeaderCodec) Write(major int, s *Slice, w io.Writer) error {
	var buf bytes.Buffer
	if err := WriteITF8(&buf, s.Context.SerializableID()); err != nil {
		return IOError(err, "cram: writing slice header referenceContextId")
	}
	if err := WriteITF8(&buf, s.AlignmentStart); err != nil {
		return IOError(err, "cram: writing slice header alignmentStart")
	}
	if err := WriteITF8(&buf, s.AlignmentSpanLen); err != nil {
		return IOError(err, "cram: writing slice header alignmentSpan")
	}
	if err := WriteITF8(&buf, s.NumRecords()); err != nil {
		return IOError(err, "cram: writing slice header nofRecords")
	}
	if err := WriteLTF8(&buf, s.GlobalRecordCounter); err != nil {
		return IOError(err, "cram: writing slice header globalRecordCounter")
	}
	if err := WriteITF8(&buf, s.NumBlocks()); err != nil {
		return IOError(err, "cram: writing slice header nofBlocks")
	}
	if err := WriteITF8(&buf, int32(len(s.ExternalContentIDs))); err != nil {
		return IOError(err, "cram: writing slice header externalContentIdCount")
	}
	for _, id := range s.ExternalContentIDs {
		if err := WriteITF8(&buf, id); err != nil {
			return IOError(err, "cram: writing slice header externalContentIds")
		}
	}
	if err := WriteITF8(&buf, s.EmbeddedRefContentID); err != nil {
		return IOError(err, "cram: writing slice header embeddedRefContentId")
	}
	if s.RefMD5Present {
		buf.Write(s.RefMD5[:])
	} else {
		var zero [refMD5Size]byte
		buf.Write(zero[:])
	}
	if major >= 3 {
		if err := writeTagSet(&buf, s.Tags); err != nil {
			return err
		}
	}

	blk := &Block{
		ContentType: ContentTypeMappedSliceHeader,
		Data:        buf.Bytes(),
	}
	if err := c.Codec.WriteBlock(major, blk, w); err != nil {
		return IOError(err, "cram: writing slice header block")
	}
	return nil
}

// Read reads a single block via the configured BlockCodec, asserts it
// is a mapped-slice-header block, and parses its payload in the same
// field order Write used.
func (c *SliceHeaderCodec) Read(major int, compressionHeader CompressionHeader, r io.Reader) (*Slice, error) {
	blk, err := c.Codec.ReadBlock(major, r)
	if err != nil {
		return nil, IOError(err, "cram: reading slice header block")
	}
	if blk.ContentType != ContentTypeMappedSliceHeader {
		return nil, StructuralError("cram: slice header block has the wrong content type")
	}

	buf := bytes.NewReader(blk.Data)
	s := &Slice{CompressionHeader: compressionHeader}

	refCtxID, err := ReadITF8(buf)
	if err != nil {
		return nil, truncatedErr("referenceContextId", err)
	}
	switch refCtxID {
	case multiRefContextID:
		s.Context = MultiRefContext
	case unmappedContextID:
		s.Context = UnmappedContext
	default:
		if refCtxID < 0 {
			return nil, StructuralError("cram: slice header has an illegal negative referenceContextId")
		}
		s.Context = SingleRefContext(refCtxID)
	}

	if s.AlignmentStart, err = ReadITF8(buf); err != nil {
		return nil, truncatedErr("alignmentStart", err)
	}
	if s.AlignmentSpanLen, err = ReadITF8(buf); err != nil {
		return nil, truncatedErr("alignmentSpan", err)
	}
	nofRecords, err := ReadITF8(buf)
	if err != nil {
		return nil, truncatedErr("nofRecords", err)
	}
	if s.GlobalRecordCounter, err = ReadLTF8(buf); err != nil {
		return nil, truncatedErr("globalRecordCounter", err)
	}
	if _, err = ReadITF8(buf); err != nil { // nofBlocks; derivable, not stored directly
		return nil, truncatedErr("nofBlocks", err)
	}
	idCount, err := ReadITF8(buf)
	if err != nil {
		return nil, truncatedErr("externalContentIdCount", err)
	}
	if idCount < 0 {
		return nil, StructuralError("cram: slice header has a negative externalContentIdCount")
	}
	s.ExternalContentIDs = make([]int32, idCount)
	for i := range s.ExternalContentIDs {
		if s.ExternalContentIDs[i], err = ReadITF8(buf); err != nil {
			return nil, truncatedErr("externalContentIds", err)
		}
	}
	if s.EmbeddedRefContentID, err = ReadITF8(buf); err != nil {
		return nil, truncatedErr("embeddedRefContentId", err)
	}
	var md5 [refMD5Size]byte
	if _, err = io.ReadFull(buf, md5[:]); err != nil {
		return nil, truncatedErr("refMD5", err)
	}
	s.RefMD5 = md5
	s.RefMD5Present = md5 != [refMD5Size]byte{}

	if major >= 3 {
		if s.Tags, err = readTagSet(buf); err != nil {
			return nil, err
		}
	}

	s.Records = make([]*StagedRecord, nofRecords)
	return s, nil
}

func truncatedErr(field string, err error) error {
	return StructuralError("cram: truncated slice header reading %s: %v", field, err)
}

func writeTagSet(w io.Writer, tags TagSet) error {
	if err := WriteITF8(w, int32(len(tags))); err != nil {
		return IOError(err, "cram: writing tag chain count")
	}
	for _, t := range tags {
		if _, err := w.Write(t.Key[:]); err != nil {
			return IOError(err, "cram: writing tag key")
		}
		if _, err := w.Write([]byte{t.Type}); err != nil {
			return IOError(err, "cram: writing tag type")
		}
		if err := WriteITF8(w, int32(len(t.Value))); err != nil {
			return IOError(err, "cram: writing tag value length")
		}
		if _, err := w.Write(t.Value); err != nil {
			return IOError(err, "cram: writing tag value")
		}
	}
	return nil
}

func readTagSet(r io.Reader) (TagSet, error) {
	count, err := ReadITF8(r)
	if err != nil {
		return nil, truncatedErr("tag chain count", err)
	}
	if count < 0 {
		return nil, StructuralError("cram: negative tag chain count")
	}
	tags := make(TagSet, count)
	for i := range tags {
		var key [2]byte
		if _, err := io.ReadFull(r, key[:]); err != nil {
			return nil, truncatedErr("tag key", err)
		}
		var typeBuf [1]byte
		if _, err := io.ReadFull(r, typeBuf[:]); err != nil {
			return nil, truncatedErr("tag type", err)
		}
		valLen, err := ReadITF8(r)
		if err != nil {
			return nil, truncatedErr("tag value length", err)
		}
		if valLen < 0 {
			return nil, StructuralError("cram: negative tag value length")
		}
		val := make([]byte, valLen)
		if _, err := io.ReadFull(r, val); err != nil {
			return nil, truncatedErr("tag value", err)
		}
		tags[i] = Tag{Key: key, Type: typeBuf[0], Value: val}
	}
	return tags, nil
}
