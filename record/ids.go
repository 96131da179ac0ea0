package record

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
)

// Codec errors. The processor maps these onto its own error kinds; callers
// embedding the record package directly can test against them with errors.Is.
var (
	ErrShortBuffer    = errors.New("record: buffer too short")
	ErrBadVersion     = errors.New("record: unsupported record version")
	ErrBadEventKind   = errors.New("record: unknown event kind")
	ErrBadInstruction = errors.New("record: undecodable instruction")
)

// Version is the current layout version carried as the first byte of every
// lazily-created record. A zero version byte means the record has not been
// initialized yet.
const Version uint8 = 1

const idSize = 32

// ID is an opaque 32-byte identity: a storage key, an owner, a mint or an
// oracle source.
type ID [idSize]byte

// IDFromBytes copies up to 32 bytes of b into an ID.
func IDFromBytes(b []byte) ID {
	var id ID
	copy(id[:], b)
	return id
}

// IsZero reports whether the ID is all zero bytes.
func (id ID) IsZero() bool {
	return id == ID{}
}

// String renders the ID as lowercase hex.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// U128 is an unsigned 128-bit order identifier, encoded little-endian with
// the low word first.
type U128 struct {
	Lo uint64
	Hi uint64
}

// IsZero reports whether the value is zero.
func (u U128) IsZero() bool {
	return u.Lo == 0 && u.Hi == 0
}

func putU128(dst []byte, u U128) {
	binary.LittleEndian.PutUint64(dst[0:8], u.Lo)
	binary.LittleEndian.PutUint64(dst[8:16], u.Hi)
}

func getU128(src []byte) U128 {
	return U128{
		Lo: binary.LittleEndian.Uint64(src[0:8]),
		Hi: binary.LittleEndian.Uint64(src[8:16]),
	}
}

func putBool(dst []byte, v bool) {
	if v {
		dst[0] = 1
	} else {
		dst[0] = 0
	}
}
