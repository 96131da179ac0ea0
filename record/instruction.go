package record

import "encoding/binary"

// OpKind tags the instruction union. Values are wire format and must not be
// reordered.
type OpKind uint8

const (
	OpInitializeMarket OpKind = 0
	OpDeposit          OpKind = 1
	OpWithdraw         OpKind = 2
	OpPlaceOrder       OpKind = 3
	OpCancelOrder      OpKind = 4
	OpUpdateOracle     OpKind = 5
	OpLiquidate        OpKind = 6
)

// String returns the operation name for logs and receipts.
func (op OpKind) String() string {
	switch op {
	case OpInitializeMarket:
		return "initialize_market"
	case OpDeposit:
		return "deposit"
	case OpWithdraw:
		return "withdraw"
	case OpPlaceOrder:
		return "place_order"
	case OpCancelOrder:
		return "cancel_order"
	case OpUpdateOracle:
		return "update_oracle"
	case OpLiquidate:
		return "liquidate"
	default:
		return "unknown"
	}
}

// Instruction is one decoded operation. Op selects which fields carry the
// payload:
//
//	InitializeMarket: FeeBps
//	Deposit/Withdraw/Liquidate: Amount
//	PlaceOrder: PriceLots, MaxBaseLots, SideIsBid
//	CancelOrder: OrderID
//	UpdateOracle: PriceLots, Confidence
type Instruction struct {
	Op OpKind

	FeeBps      uint16
	Amount      uint64
	PriceLots   int64
	MaxBaseLots int64
	SideIsBid   bool
	OrderID     U128
	Confidence  uint64
}

func instructionSize(op OpKind) (int, bool) {
	switch op {
	case OpInitializeMarket:
		return 1 + 2, true
	case OpDeposit, OpWithdraw, OpLiquidate:
		return 1 + 8, true
	case OpPlaceOrder:
		return 1 + 8 + 8 + 1, true
	case OpCancelOrder:
		return 1 + 16, true
	case OpUpdateOracle:
		return 1 + 8 + 8, true
	default:
		return 0, false
	}
}

// EncodeInstruction serializes an instruction: a one-byte tag followed by
// the little-endian fields of the selected operation.
func EncodeInstruction(ins Instruction) ([]byte, error) {
	size, ok := instructionSize(ins.Op)
	if !ok {
		return nil, ErrBadInstruction
	}

	dst := make([]byte, size)
	dst[0] = byte(ins.Op)

	switch ins.Op {
	case OpInitializeMarket:
		binary.LittleEndian.PutUint16(dst[1:3], ins.FeeBps)
	case OpDeposit, OpWithdraw, OpLiquidate:
		binary.LittleEndian.PutUint64(dst[1:9], ins.Amount)
	case OpPlaceOrder:
		binary.LittleEndian.PutUint64(dst[1:9], uint64(ins.PriceLots))
		binary.LittleEndian.PutUint64(dst[9:17], uint64(ins.MaxBaseLots))
		putBool(dst[17:18], ins.SideIsBid)
	case OpCancelOrder:
		putU128(dst[1:17], ins.OrderID)
	case OpUpdateOracle:
		binary.LittleEndian.PutUint64(dst[1:9], uint64(ins.PriceLots))
		binary.LittleEndian.PutUint64(dst[9:17], ins.Confidence)
	}

	return dst, nil
}

// DecodeInstruction parses instruction bytes. The payload length must match
// the operation exactly; trailing bytes are an encoding error.
func DecodeInstruction(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return Instruction{}, ErrBadInstruction
	}

	op := OpKind(data[0])
	size, ok := instructionSize(op)
	if !ok || len(data) != size {
		return Instruction{}, ErrBadInstruction
	}

	ins := Instruction{Op: op}
	switch op {
	case OpInitializeMarket:
		ins.FeeBps = binary.LittleEndian.Uint16(data[1:3])
	case OpDeposit, OpWithdraw, OpLiquidate:
		ins.Amount = binary.LittleEndian.Uint64(data[1:9])
	case OpPlaceOrder:
		ins.PriceLots = int64(binary.LittleEndian.Uint64(data[1:9]))
		ins.MaxBaseLots = int64(binary.LittleEndian.Uint64(data[9:17]))
		ins.SideIsBid = data[17] != 0
	case OpCancelOrder:
		ins.OrderID = getU128(data[1:17])
	case OpUpdateOracle:
		ins.PriceLots = int64(binary.LittleEndian.Uint64(data[1:9]))
		ins.Confidence = binary.LittleEndian.Uint64(data[9:17])
	}

	return ins, nil
}
