// Package header implements the fixed-size metadata header (C1) that
// precedes every channel's record region: packing, validation, and the
// checksum discipline spec.md §4.1 requires.
package header

import (
	"encoding/binary"
	"hash/crc32"
)

// Signature is the constant magic discriminating a kekbit channel file
// from arbitrary bytes. Chosen to be readable in a hex dump, following
// the same spirit as the original "*KEKBIT*" ASCII signature.
const Signature uint64 = 0x2A4B_454B_4249_542A

// Version is the only layout version this codec understands.
const Version uint32 = 1

// Len is the total encoded size of a header, in bytes. The fields
// (checksum included) sum to 48 bytes; 8 reserved zero bytes before
// the checksum bring the total to 56, a multiple of the 8-byte record
// alignment.
const Len = 56

// RecordAlign is the byte alignment every record frame and every
// cursor value must respect.
const RecordAlign = 8

// MinCapacity is the smallest usable record-region size accepted at
// creation time.
const MinCapacity = RecordAlign

// frameOverhead is the fixed per-record overhead (the length word)
// that bounds how large max_record_len may be relative to capacity.
const frameOverhead = 4

// Metadata is the decoded form of a channel header. All multi-byte
// fields are little-endian on the wire.
type Metadata struct {
	ChannelID    uint64
	Capacity     uint32
	MaxRecordLen uint32
	TimeoutNs    uint64
	CreationNs   uint64
}

// Error is a discriminated header decode failure.
type Error struct {
	Kind string
	Msg  string
}

func (e *Error) Error() string { return e.Kind + ": " + e.Msg }

func newErr(kind, msg string) error { return &Error{Kind: kind, Msg: msg} }

// Kind constants matching spec.md §4.1 and §7.
const (
	KindBadMagic         = "BadMagic"
	KindUnsupportedVer   = "UnsupportedVersion"
	KindBadChecksum      = "BadChecksum"
	KindInvalidCapacity  = "InvalidCapacity"
	KindInvalidMaxRecord = "InvalidMaxRecord"
)

// Validate checks a Metadata value against the invariants in spec.md
// §3 before it is ever encoded, independent of the wire round-trip
// check Decode performs.
func (m Metadata) Validate() error {
	if m.Capacity == 0 || m.Capacity%RecordAlign != 0 || m.Capacity < MinCapacity {
		return newErr(KindInvalidCapacity, "capacity must be a positive multiple of 8 no smaller than MinCapacity")
	}
	if m.MaxRecordLen == 0 || m.MaxRecordLen >= 0x3FFF_FFFF {
		return newErr(KindInvalidMaxRecord, "max_record_len must be nonzero and below the sentinel reservation")
	}
	if uint64(m.MaxRecordLen)+frameOverhead > uint64(m.Capacity) {
		return newErr(KindInvalidMaxRecord, "max_record_len exceeds capacity minus frame overhead")
	}
	return nil
}

// MaxRecordLenForCapacity mirrors the original source's
// compute_max_msg_len heuristic: a conservative default max record
// length derived purely from capacity, used when a caller doesn't
// supply one explicitly.
func MaxRecordLenForCapacity(capacity uint32) uint32 {
	if capacity>>7 <= frameOverhead {
		return 1
	}
	return capacity>>7 - frameOverhead
}

// Encode packs m into its little-endian, checksummed wire form.
func Encode(m Metadata) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, Len)
	binary.LittleEndian.PutUint64(buf[0:8], Signature)
	binary.LittleEndian.PutUint32(buf[8:12], Version)
	binary.LittleEndian.PutUint64(buf[12:20], m.ChannelID)
	binary.LittleEndian.PutUint32(buf[20:24], m.Capacity)
	binary.LittleEndian.PutUint32(buf[24:28], m.MaxRecordLen)
	binary.LittleEndian.PutUint64(buf[28:36], m.TimeoutNs)
	binary.LittleEndian.PutUint64(buf[36:44], m.CreationNs)
	// buf[44:52] reserved, left zero.
	sum := crc32.ChecksumIEEE(buf[:52])
	binary.LittleEndian.PutUint32(buf[52:56], sum)
	return buf, nil
}

// Decode validates and unpacks a header previously produced by
// Encode. Any corruption — including a single bit flip — must be
// rejected with a typed Error per spec.md invariant 1.
func Decode(buf []byte) (Metadata, error) {
	if len(buf) < Len {
		return Metadata{}, newErr(KindBadMagic, "buffer shorter than header length")
	}
	magic := binary.LittleEndian.Uint64(buf[0:8])
	if magic != Signature {
		return Metadata{}, newErr(KindBadMagic, "signature mismatch")
	}
	ver := binary.LittleEndian.Uint32(buf[8:12])
	if ver != Version {
		return Metadata{}, newErr(KindUnsupportedVer, "unknown layout version")
	}
	wantSum := binary.LittleEndian.Uint32(buf[52:56])
	gotSum := crc32.ChecksumIEEE(buf[:52])
	if wantSum != gotSum {
		return Metadata{}, newErr(KindBadChecksum, "checksum mismatch")
	}
	m := Metadata{
		ChannelID:    binary.LittleEndian.Uint64(buf[12:20]),
		Capacity:     binary.LittleEndian.Uint32(buf[20:24]),
		MaxRecordLen: binary.LittleEndian.Uint32(buf[24:28]),
		TimeoutNs:    binary.LittleEndian.Uint64(buf[28:36]),
		CreationNs:   binary.LittleEndian.Uint64(buf[36:44]),
	}
	if err := m.Validate(); err != nil {
		return Metadata{}, err
	}
	return m, nil
}
