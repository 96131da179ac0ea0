package record

import (
	"encoding/binary"
	"math"
)

// OraclePriceSize is the canonical encoded size of an OraclePrice record.
const OraclePriceSize = 3 * 8

// OraclePrice is the price record for one oracle source.
//
// Layout (little-endian): [price:8][confidence:8][last_updated_slot:8]
type OraclePrice struct {
	Price           int64
	Confidence      uint64
	LastUpdatedSlot uint64
}

// UnconfidentOraclePrice is the default used when no valid record exists
// yet: zero price at the least trustworthy confidence.
func UnconfidentOraclePrice() OraclePrice {
	return OraclePrice{Price: 0, Confidence: math.MaxUint64, LastUpdatedSlot: 0}
}

// EncodeOraclePrice serializes an oracle price into a fixed-size buffer.
func EncodeOraclePrice(dst []byte, p OraclePrice) []byte {
	if cap(dst) < OraclePriceSize {
		dst = make([]byte, OraclePriceSize)
	} else {
		dst = dst[:OraclePriceSize]
	}

	binary.LittleEndian.PutUint64(dst[0:8], uint64(p.Price))
	binary.LittleEndian.PutUint64(dst[8:16], p.Confidence)
	binary.LittleEndian.PutUint64(dst[16:24], p.LastUpdatedSlot)

	return dst
}

// DecodeOraclePrice parses an oracle price record from the front of src.
func DecodeOraclePrice(src []byte) (OraclePrice, error) {
	if len(src) < OraclePriceSize {
		return OraclePrice{}, ErrShortBuffer
	}
	return OraclePrice{
		Price:           int64(binary.LittleEndian.Uint64(src[0:8])),
		Confidence:      binary.LittleEndian.Uint64(src[8:16]),
		LastUpdatedSlot: binary.LittleEndian.Uint64(src[16:24]),
	}, nil
}
