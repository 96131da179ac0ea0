package record

import "encoding/binary"

const (
	// MaxOpenOrders is the fixed number of order slots embedded in every
	// user account.
	MaxOpenOrders = 8

	// OrderSize is the canonical encoded size of one order slot.
	OrderSize = 16 + 8 + 8 + 1 + 1

	// UserAccountSize is the canonical encoded size of a UserAccount record.
	UserAccountSize = 1 + 2*idSize + 3*8 + MaxOpenOrders*OrderSize
)

// Order is one resting-order slot embedded in a UserAccount. An inactive
// slot is free for reuse; zero base lots implies inactive.
//
// Layout (little-endian): [id:16][price_lots:8][base_lots:8][side_is_bid:1][is_active:1]
type Order struct {
	ID        U128
	PriceLots int64
	BaseLots  int64
	SideIsBid bool
	IsActive  bool
}

// UserAccount tracks one owner's net exposure and open orders on a single
// market. Positions are signed transfers, not wallet balances, and may go
// negative.
//
// Layout (little-endian):
//
//	[version:1][owner:32][market:32][base_position:8][quote_position:8]
//	[last_update_ts:8][open_orders:8*OrderSize]
type UserAccount struct {
	Version       uint8
	Owner         ID
	Market        ID
	BasePosition  int64
	QuotePosition int64
	LastUpdateTs  int64
	OpenOrders    [MaxOpenOrders]Order
}

// NewUserAccount returns a fresh account for the given owner and market.
func NewUserAccount(owner, market ID, now int64) UserAccount {
	return UserAccount{
		Version:      Version,
		Owner:        owner,
		Market:       market,
		LastUpdateTs: now,
	}
}

func encodeOrder(dst []byte, o Order) {
	putU128(dst[0:16], o.ID)
	binary.LittleEndian.PutUint64(dst[16:24], uint64(o.PriceLots))
	binary.LittleEndian.PutUint64(dst[24:32], uint64(o.BaseLots))
	putBool(dst[32:33], o.SideIsBid)
	putBool(dst[33:34], o.IsActive)
}

func decodeOrder(src []byte) Order {
	return Order{
		ID:        getU128(src[0:16]),
		PriceLots: int64(binary.LittleEndian.Uint64(src[16:24])),
		BaseLots:  int64(binary.LittleEndian.Uint64(src[24:32])),
		SideIsBid: src[32] != 0,
		IsActive:  src[33] != 0,
	}
}

// EncodeUserAccount serializes a user account into a fixed-size buffer.
func EncodeUserAccount(dst []byte, u UserAccount) []byte {
	if cap(dst) < UserAccountSize {
		dst = make([]byte, UserAccountSize)
	} else {
		dst = dst[:UserAccountSize]
	}

	dst[0] = u.Version
	copy(dst[1:33], u.Owner[:])
	copy(dst[33:65], u.Market[:])
	binary.LittleEndian.PutUint64(dst[65:73], uint64(u.BasePosition))
	binary.LittleEndian.PutUint64(dst[73:81], uint64(u.QuotePosition))
	binary.LittleEndian.PutUint64(dst[81:89], uint64(u.LastUpdateTs))

	off := 89
	for i := 0; i < MaxOpenOrders; i++ {
		encodeOrder(dst[off:off+OrderSize], u.OpenOrders[i])
		off += OrderSize
	}

	return dst
}

// DecodeUserAccount parses a user account record from the front of src.
func DecodeUserAccount(src []byte) (UserAccount, error) {
	if len(src) < UserAccountSize {
		return UserAccount{}, ErrShortBuffer
	}
	if src[0] != Version {
		return UserAccount{}, ErrBadVersion
	}

	u := UserAccount{
		Version:       src[0],
		Owner:         IDFromBytes(src[1:33]),
		Market:        IDFromBytes(src[33:65]),
		BasePosition:  int64(binary.LittleEndian.Uint64(src[65:73])),
		QuotePosition: int64(binary.LittleEndian.Uint64(src[73:81])),
		LastUpdateTs:  int64(binary.LittleEndian.Uint64(src[81:89])),
	}

	off := 89
	for i := 0; i < MaxOpenOrders; i++ {
		u.OpenOrders[i] = decodeOrder(src[off : off+OrderSize])
		off += OrderSize
	}

	return u, nil
}
