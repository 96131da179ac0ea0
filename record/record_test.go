package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testID(b byte) ID {
	var id ID
	for i := range id {
		id[i] = b
	}
	return id
}

func TestMarketRoundTrip(t *testing.T) {
	m := Market{
		Version:   Version,
		Admin:     testID(1),
		BaseMint:  testID(2),
		QuoteMint: testID(3),
		Oracle:    testID(4),
		FeeBps:    25,
		IsActive:  true,
	}

	buf := EncodeMarket(nil, m)
	assert.Len(t, buf, MarketSize)

	got, err := DecodeMarket(buf)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestMarketDecodeErrors(t *testing.T) {
	t.Run("ShortBuffer", func(t *testing.T) {
		_, err := DecodeMarket(make([]byte, MarketSize-1))
		assert.ErrorIs(t, err, ErrShortBuffer)
	})

	t.Run("ZeroVersion", func(t *testing.T) {
		_, err := DecodeMarket(make([]byte, MarketSize))
		assert.ErrorIs(t, err, ErrBadVersion)
	})

	t.Run("FutureVersion", func(t *testing.T) {
		buf := EncodeMarket(nil, Market{Version: Version})
		buf[0] = Version + 1
		_, err := DecodeMarket(buf)
		assert.ErrorIs(t, err, ErrBadVersion)
	})
}

func TestUserAccountRoundTrip(t *testing.T) {
	u := NewUserAccount(testID(7), testID(8), 1700000000)
	u.BasePosition = -42
	u.QuotePosition = 99_000
	u.OpenOrders[0] = Order{
		ID:        U128{Lo: 11, Hi: 22},
		PriceLots: 50,
		BaseLots:  20,
		SideIsBid: false,
		IsActive:  true,
	}
	u.OpenOrders[7] = Order{
		ID:        U128{Lo: 33},
		PriceLots: -5,
		BaseLots:  1,
		SideIsBid: true,
		IsActive:  true,
	}

	buf := EncodeUserAccount(nil, u)
	assert.Len(t, buf, UserAccountSize)

	got, err := DecodeUserAccount(buf)
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestUserAccountEncodeReusesBuffer(t *testing.T) {
	buf := make([]byte, UserAccountSize)
	u := NewUserAccount(testID(1), testID(2), 5)

	out := EncodeUserAccount(buf, u)
	assert.Equal(t, &buf[0], &out[0])
}

func TestOraclePriceRoundTrip(t *testing.T) {
	p := OraclePrice{Price: -120, Confidence: 3, LastUpdatedSlot: 9001}

	got, err := DecodeOraclePrice(EncodeOraclePrice(nil, p))
	require.NoError(t, err)
	assert.Equal(t, p, got)

	def := UnconfidentOraclePrice()
	assert.Equal(t, int64(0), def.Price)
	assert.Equal(t, ^uint64(0), def.Confidence)
}

func TestEventSlotSizeCoversAllVariants(t *testing.T) {
	variants := []Event{
		TradeEvent(testID(1), testID(2), 50, 10),
		FundingEvent(testID(3), -7),
	}

	for _, ev := range variants {
		buf, err := EncodeEvent(nil, ev)
		require.NoError(t, err)
		assert.Len(t, buf, EventSlotSize)
	}

	assert.GreaterOrEqual(t, EventSlotSize, tradeEventSize)
	assert.GreaterOrEqual(t, EventSlotSize, fundingEventSize)
}

func TestEventRoundTrip(t *testing.T) {
	t.Run("Trade", func(t *testing.T) {
		ev := TradeEvent(testID(1), testID(2), 50, 10)
		got, err := DecodeEvent(mustEncodeEvent(t, ev))
		require.NoError(t, err)
		assert.Equal(t, ev, got)
	})

	t.Run("FundingUpdate", func(t *testing.T) {
		ev := FundingEvent(testID(9), -25)
		got, err := DecodeEvent(mustEncodeEvent(t, ev))
		require.NoError(t, err)
		assert.Equal(t, ev, got)
	})

	t.Run("UnknownKind", func(t *testing.T) {
		buf := make([]byte, EventSlotSize)
		buf[0] = 0xFF
		_, err := DecodeEvent(buf)
		assert.ErrorIs(t, err, ErrBadEventKind)
	})
}

func mustEncodeEvent(t *testing.T, ev Event) []byte {
	t.Helper()
	buf, err := EncodeEvent(nil, ev)
	require.NoError(t, err)
	return buf
}

func TestQueueHeaderRoundTrip(t *testing.T) {
	h := EventQueueHeader{Head: 3, Tail: 10, Capacity: 8}

	got, err := DecodeQueueHeader(EncodeQueueHeader(nil, h))
	require.NoError(t, err)
	assert.Equal(t, h, got)
	assert.Equal(t, uint64(7), h.Len())
}

func TestQueueHeaderLenWraps(t *testing.T) {
	h := EventQueueHeader{Head: ^uint64(0) - 1, Tail: 2, Capacity: 8}
	assert.Equal(t, uint64(4), h.Len())
}

func TestInstructionRoundTrip(t *testing.T) {
	cases := []Instruction{
		{Op: OpInitializeMarket, FeeBps: 30},
		{Op: OpDeposit, Amount: 1_000},
		{Op: OpWithdraw, Amount: 250},
		{Op: OpPlaceOrder, PriceLots: 50, MaxBaseLots: 10, SideIsBid: true},
		{Op: OpCancelOrder, OrderID: U128{Lo: 5, Hi: 6}},
		{Op: OpUpdateOracle, PriceLots: -75, Confidence: 2},
		{Op: OpLiquidate, Amount: 10},
	}

	for _, ins := range cases {
		t.Run(ins.Op.String(), func(t *testing.T) {
			data, err := EncodeInstruction(ins)
			require.NoError(t, err)

			got, err := DecodeInstruction(data)
			require.NoError(t, err)
			assert.Equal(t, ins, got)
		})
	}
}

func TestInstructionDecodeErrors(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, err := DecodeInstruction(nil)
		assert.ErrorIs(t, err, ErrBadInstruction)
	})

	t.Run("UnknownTag", func(t *testing.T) {
		_, err := DecodeInstruction([]byte{42})
		assert.ErrorIs(t, err, ErrBadInstruction)
	})

	t.Run("TruncatedPayload", func(t *testing.T) {
		_, err := DecodeInstruction([]byte{byte(OpDeposit), 1, 2})
		assert.ErrorIs(t, err, ErrBadInstruction)
	})

	t.Run("TrailingBytes", func(t *testing.T) {
		data, err := EncodeInstruction(Instruction{Op: OpDeposit, Amount: 1})
		require.NoError(t, err)
		_, err = DecodeInstruction(append(data, 0))
		assert.ErrorIs(t, err, ErrBadInstruction)
	})
}

func TestAccountIsUninitialized(t *testing.T) {
	acc := &Account{Data: make([]byte, UserAccountSize)}
	assert.True(t, acc.IsUninitialized())

	acc.Data[40] = 1
	assert.False(t, acc.IsUninitialized())

	acc = &Account{Data: EncodeUserAccount(nil, NewUserAccount(testID(1), testID(2), 0))}
	assert.False(t, acc.IsUninitialized())
}
