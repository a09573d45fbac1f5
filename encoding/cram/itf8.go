package cram

import (
	"io"

	"github.com/pkg/errors"
)

// ITF8 and LTF8 are the variable-length integer encodings used
// throughout the CRAM wire format: ITF8 encodes a 32-bit value in 1-5
// bytes, LTF8 extends the same high-bit-prefix scheme to 64-bit
// values in 1-9 bytes. Both are most-significant-byte first. These
// are the only functions in this package that encode integers into
// the slice-header byte stream, so endianness and bit-packing
// concerns stay contained here.

// WriteITF8 writes v in CRAM's ITF8 encoding.
func WriteITF8(w io.Writer, v int32) error {
	u := uint32(v)
	var buf [5]byte
	var n int
	switch {
	case u>>7 == 0:
		buf[0] = byte(u)
		n = 1
	case u>>14 == 0:
		buf[0] = byte(u>>8) | 0x80
		buf[1] = byte(u)
		n = 2
	case u>>21 == 0:
		buf[0] = byte(u>>16) | 0xC0
		buf[1] = byte(u >> 8)
		buf[2] = byte(u)
		n = 3
	case u>>28 == 0:
		buf[0] = byte(u>>24) | 0xE0
		buf[1] = byte(u >> 16)
		buf[2] = byte(u >> 8)
		buf[3] = byte(u)
		n = 4
	default:
		buf[0] = byte(u>>28) | 0xF0
		buf[1] = byte(u >> 20)
		buf[2] = byte(u >> 12)
		buf[3] = byte(u >> 4)
		buf[4] = byte(u)
		n = 5
	}
	_, err := w.Write(buf[:n])
	return err
}

// ReadITF8 reads a value written by WriteITF8.
func ReadITF8(r io.Reader) (int32, error) {
	b1, err := readByte(r)
	if err != nil {
		return 0, err
	}
	switch {
	case b1&0x80 == 0:
		return int32(b1), nil
	case b1&0x40 == 0:
		b2, err := readByte(r)
		if err != nil {
			return 0, err
		}
		return int32(b1&0x7F)<<8 | int32(b2), nil
	case b1&0x20 == 0:
		rest, err := readBytes(r, 2)
		if err != nil {
			return 0, err
		}
		return int32(b1&0x3F)<<16 | int32(rest[0])<<8 | int32(rest[1]), nil
	case b1&0x10 == 0:
		rest, err := readBytes(r, 3)
		if err != nil {
			return 0, err
		}
		return int32(b1&0x1F)<<24 | int32(rest[0])<<16 | int32(rest[1])<<8 | int32(rest[2]), nil
	default:
		rest, err := readBytes(r, 4)
		if err != nil {
			return 0, err
		}
		u := uint32(b1&0x0F)<<28 | uint32(rest[0])<<20 | uint32(rest[1])<<12 | uint32(rest[2])<<4 | uint32(rest[3])&0x0F
		return int32(u), nil
	}
}

// WriteLTF8 writes v in CRAM's LTF8 encoding, the 64-bit extension of
// ITF8's leading-ones-count prefix scheme: an N-byte encoding's first
// byte has its top N-1 bits set to 1 (N<=8) followed by a 0 marker bit
// and 8-N data bits (the 9-byte form's leading byte is all-ones and
// carries no data bits), and the remaining bytes each carry 8 data
// bits, most-significant first.
func WriteLTF8(w io.Writer, v int64) error {
	u := uint64(v)
	var buf [9]byte
	var n int
	switch {
	case u>>7 == 0:
		buf[0] = byte(u)
		n = 1
	case u>>14 == 0:
		buf[0] = byte(u>>8) | 0x80
		buf[1] = byte(u)
		n = 2
	case u>>21 == 0:
		buf[0] = byte(u>>16) | 0xC0
		buf[1] = byte(u >> 8)
		buf[2] = byte(u)
		n = 3
	case u>>28 == 0:
		buf[0] = byte(u>>24) | 0xE0
		buf[1] = byte(u >> 16)
		buf[2] = byte(u >> 8)
		buf[3] = byte(u)
		n = 4
	case u>>35 == 0:
		buf[0] = byte(u>>32) | 0xF0
		buf[1] = byte(u >> 24)
		buf[2] = byte(u >> 16)
		buf[3] = byte(u >> 8)
		buf[4] = byte(u)
		n = 5
	case u>>42 == 0:
		buf[0] = byte(u>>40) | 0xF8
		buf[1] = byte(u >> 32)
		buf[2] = byte(u >> 24)
		buf[3] = byte(u >> 16)
		buf[4] = byte(u >> 8)
		buf[5] = byte(u)
		n = 6
	case u>>49 == 0:
		buf[0] = byte(u>>48) | 0xFC
		buf[1] = byte(u >> 40)
		buf[2] = byte(u >> 32)
		buf[3] = byte(u >> 24)
		buf[4] = byte(u >> 16)
		buf[5] = byte(u >> 8)
		buf[6] = byte(u)
		n = 7
	case u>>56 == 0:
		buf[0] = byte(u>>56) | 0xFE
		buf[1] = byte(u >> 48)
		buf[2] = byte(u >> 40)
		buf[3] = byte(u >> 32)
		buf[4] = byte(u >> 24)
		buf[5] = byte(u >> 16)
		buf[6] = byte(u >> 8)
		buf[7] = byte(u)
		n = 8
	default:
		buf[0] = 0xFF
		buf[1] = byte(u >> 56)
		buf[2] = byte(u >> 48)
		buf[3] = byte(u >> 40)
		buf[4] = byte(u >> 32)
		buf[5] = byte(u >> 24)
		buf[6] = byte(u >> 16)
		buf[7] = byte(u >> 8)
		buf[8] = byte(u)
		n = 9
	}
	_, err := w.Write(buf[:n])
	return err
}

// ReadLTF8 reads a value written by WriteLTF8.
func ReadLTF8(r io.Reader) (int64, error) {
	b1, err := readByte(r)
	if err != nil {
		return 0, err
	}
	switch {
	case b1&0x80 == 0:
		return int64(b1), nil
	case b1&0x40 == 0:
		b2, err := readByte(r)
		if err != nil {
			return 0, err
		}
		return int64(b1&0x7F)<<8 | int64(b2), nil
	case b1&0x20 == 0:
		rest, err := readBytes(r, 2)
		if err != nil {
			return 0, err
		}
		return int64(b1&0x3F)<<16 | int64(rest[0])<<8 | int64(rest[1]), nil
	case b1&0x10 == 0:
		rest, err := readBytes(r, 3)
		if err != nil {
			return 0, err
		}
		return int64(b1&0x1F)<<24 | int64(rest[0])<<16 | int64(rest[1])<<8 | int64(rest[2]), nil
	case b1&0x08 == 0:
		rest, err := readBytes(r, 4)
		if err != nil {
			return 0, err
		}
		return int64(b1&0x0F)<<32 | int64(rest[0])<<24 | int64(rest[1])<<16 | int64(rest[2])<<8 | int64(rest[3]), nil
	case b1&0x04 == 0:
		rest, err := readBytes(r, 5)
		if err != nil {
			return 0, err
		}
		return int64(b1&0x07)<<40 | int64(rest[0])<<32 | int64(rest[1])<<24 | int64(rest[2])<<16 | int64(rest[3])<<8 | int64(rest[4]), nil
	case b1&0x02 == 0:
		rest, err := readBytes(r, 6)
		if err != nil {
			return 0, err
		}
		return int64(b1&0x03)<<48 | int64(rest[0])<<40 | int64(rest[1])<<32 | int64(rest[2])<<24 | int64(rest[3])<<16 | int64(rest[4])<<8 | int64(rest[5]), nil
	case b1&0x01 == 0:
		rest, err := readBytes(r, 7)
		if err != nil {
			return 0, err
		}
		u := uint64(b1&0x01)<<56 | uint64(rest[0])<<48 | uint64(rest[1])<<40 | uint64(rest[2])<<32 | uint64(rest[3])<<24 | uint64(rest[4])<<16 | uint64(rest[5])<<8 | uint64(rest[6])
		return int64(u), nil
	default: // b1 == 0xFF
		rest, err := readBytes(r, 8)
		if err != nil {
			return 0, err
		}
		u := uint64(rest[0])<<56 | uint64(rest[1])<<48 | uint64(rest[2])<<40 | uint64(rest[3])<<32 |
			uint64(rest[4])<<24 | uint64(rest[5])<<16 | uint64(rest[6])<<8 | uint64(rest[7])
		return int64(u), nil
	}
}

func readByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errors.Wrap(err, "cram: reading ITF8/LTF8 byte")
	}
	return buf[0], nil
}

func readBytes(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errors.Wrap(err, "cram: reading ITF8/LTF8 bytes")
	}
	return buf, nil
}
