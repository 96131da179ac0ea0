package record

import "encoding/binary"

// MarketSize is the canonical encoded size of a Market record.
const MarketSize = 1 + 4*idSize + 2 + 1 + 5

// Market is the per-market configuration record.
//
// Layout (little-endian):
//
//	[version:1][admin:32][base_mint:32][quote_mint:32][oracle:32]
//	[fee_bps:2][is_active:1][reserved:5]
type Market struct {
	Version   uint8
	Admin     ID
	BaseMint  ID
	QuoteMint ID
	Oracle    ID
	FeeBps    uint16
	IsActive  bool
}

// EncodeMarket serializes a market into a fixed-size buffer. dst is reused
// when it has enough capacity.
func EncodeMarket(dst []byte, m Market) []byte {
	if cap(dst) < MarketSize {
		dst = make([]byte, MarketSize)
	} else {
		dst = dst[:MarketSize]
	}

	dst[0] = m.Version
	copy(dst[1:33], m.Admin[:])
	copy(dst[33:65], m.BaseMint[:])
	copy(dst[65:97], m.QuoteMint[:])
	copy(dst[97:129], m.Oracle[:])
	binary.LittleEndian.PutUint16(dst[129:131], m.FeeBps)
	putBool(dst[131:132], m.IsActive)
	for i := 132; i < MarketSize; i++ {
		dst[i] = 0
	}

	return dst
}

// DecodeMarket parses a market record from the front of src. A version byte
// other than the current version is rejected; use IsUninitialized on the
// storage handle to detect fresh records before decoding.
func DecodeMarket(src []byte) (Market, error) {
	if len(src) < MarketSize {
		return Market{}, ErrShortBuffer
	}
	if src[0] != Version {
		return Market{}, ErrBadVersion
	}
	return Market{
		Version:   src[0],
		Admin:     IDFromBytes(src[1:33]),
		BaseMint:  IDFromBytes(src[33:65]),
		QuoteMint: IDFromBytes(src[65:97]),
		Oracle:    IDFromBytes(src[97:129]),
		FeeBps:    binary.LittleEndian.Uint16(src[129:131]),
		IsActive:  src[131] != 0,
	}, nil
}
