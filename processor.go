package venue

import (
	"encoding/binary"

	"github.com/quagmt/udecimal"
	"github.com/rs/xid"

	"github.com/openvenue/venue-core/record"
)

// Receipt reports what one processed instruction did. Events are the same
// ones appended to the event queue, in execution order.
type Receipt struct {
	Op                record.OpKind
	FilledBaseLots    int64
	RemainingBaseLots int64
	QuoteVolume       int64
	Fee               udecimal.Decimal
	Events            []record.Event
	RestingOrderID    record.U128
}

// Processor is the instruction dispatcher: it decodes one operation,
// validates ownership and record layout of every storage handle it touches,
// runs the matching engine / event queue / oracle accessor, and re-encodes
// results into the handles. One invocation is one short-lived transaction;
// any error aborts it immediately with no local recovery. Whole-invocation
// atomicity is the external runtime's job (see Host).
type Processor struct {
	programID     record.ID
	clock         Clock
	rules         StorageRules
	restingOrders bool
	nextOrderID   func() record.U128
}

// NewProcessor creates a processor executing as programID.
func NewProcessor(programID record.ID, opts ...ProcessorOption) *Processor {
	p := &Processor{
		programID:   programID,
		clock:       SystemClock{},
		rules:       ExemptAll{},
		nextOrderID: xidOrderID,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// xidOrderID widens a fresh 12-byte xid into a u128 order id.
func xidOrderID() record.U128 {
	raw := xid.New().Bytes()
	var b [16]byte
	copy(b[:], raw)
	return record.U128{
		Lo: binary.LittleEndian.Uint64(b[0:8]),
		Hi: binary.LittleEndian.Uint64(b[8:16]),
	}
}

// Process decodes and executes one instruction against the supplied storage
// handles. Handle order is positional per operation; see the op methods.
func (p *Processor) Process(accounts []*record.Account, data []byte) (*Receipt, error) {
	ins, err := record.DecodeInstruction(data)
	if err != nil {
		return nil, ErrInvalidInstruction
	}

	switch ins.Op {
	case record.OpInitializeMarket:
		return p.initializeMarket(accounts, ins.FeeBps)
	case record.OpDeposit:
		return p.deposit(accounts, ins.Amount)
	case record.OpWithdraw:
		return p.withdraw(accounts, ins.Amount)
	case record.OpPlaceOrder:
		return p.placeOrder(accounts, ins.PriceLots, ins.MaxBaseLots, ins.SideIsBid)
	case record.OpCancelOrder:
		return p.cancelOrder(accounts, ins.OrderID)
	case record.OpUpdateOracle:
		return p.updateOracle(accounts, ins.PriceLots, ins.Confidence)
	case record.OpLiquidate:
		return p.liquidate(accounts, ins.Amount)
	default:
		return nil, ErrInvalidInstruction
	}
}

func (p *Processor) ownedByProgram(accounts ...*record.Account) error {
	for _, a := range accounts {
		if a.Owner != p.programID {
			return ErrInvalidOwner
		}
	}
	return nil
}

func need(accounts []*record.Account, n int) error {
	if len(accounts) < n {
		return ErrMissingAccounts
	}
	return nil
}

func writeMarket(acc *record.Account, m record.Market) error {
	if len(acc.Data) < record.MarketSize {
		return ErrInvalidAccountData
	}
	record.EncodeMarket(acc.Data[:record.MarketSize], m)
	return nil
}

func writeUser(acc *record.Account, u record.UserAccount) error {
	if len(acc.Data) < record.UserAccountSize {
		return ErrInvalidAccountData
	}
	record.EncodeUserAccount(acc.Data[:record.UserAccountSize], u)
	return nil
}

// initializeMarket handles [market*, admin, oracle].
//
// A fresh market record is created with the supplied admin and oracle and
// defaulted mints. Re-initializing an existing market requires the supplied
// admin to match the stored one; fee, oracle and active flag are then
// overwritten.
func (p *Processor) initializeMarket(accounts []*record.Account, feeBps uint16) (*Receipt, error) {
	if err := need(accounts, 3); err != nil {
		return nil, err
	}
	marketAcc, adminAcc, oracleAcc := accounts[0], accounts[1], accounts[2]

	if err := p.ownedByProgram(marketAcc); err != nil {
		return nil, err
	}
	if !p.rules.IsExempt(marketAcc.Balance, len(marketAcc.Data)) {
		return nil, ErrNotRentExempt
	}

	var market record.Market
	if marketAcc.IsUninitialized() {
		market = record.Market{
			Version: record.Version,
			Admin:   adminAcc.Key,
		}
	} else {
		var err error
		market, err = record.DecodeMarket(marketAcc.Data)
		if err != nil {
			return nil, ErrInvalidAccountData
		}
		if market.Admin != adminAcc.Key {
			return nil, ErrUnauthorized
		}
	}

	market.FeeBps = feeBps
	market.Oracle = oracleAcc.Key
	market.IsActive = true

	if err := writeMarket(marketAcc, market); err != nil {
		return nil, err
	}
	return &Receipt{Op: record.OpInitializeMarket}, nil
}

// deposit handles [market, user*, owner]. A user record whose version byte
// is still zero is created lazily for the supplied owner.
func (p *Processor) deposit(accounts []*record.Account, amount uint64) (*Receipt, error) {
	if err := need(accounts, 3); err != nil {
		return nil, err
	}
	marketAcc, userAcc, ownerAcc := accounts[0], accounts[1], accounts[2]

	if err := p.ownedByProgram(marketAcc, userAcc); err != nil {
		return nil, err
	}
	if _, err := record.DecodeMarket(marketAcc.Data); err != nil {
		logger.Error("failed to decode market record", "key", marketAcc.Key.String())
		return nil, ErrInvalidAccountData
	}

	var user record.UserAccount
	if userAcc.IsUninitialized() {
		user = record.NewUserAccount(ownerAcc.Key, marketAcc.Key, p.clock.Unix())
	} else {
		var err error
		user, err = record.DecodeUserAccount(userAcc.Data)
		if err != nil {
			return nil, ErrInvalidAccountData
		}
	}

	delta, err := i64FromU64(amount)
	if err != nil {
		return nil, err
	}
	if user.QuotePosition, err = addI64(user.QuotePosition, delta); err != nil {
		return nil, err
	}
	user.LastUpdateTs = p.clock.Unix()

	if err := writeUser(userAcc, user); err != nil {
		return nil, err
	}
	return &Receipt{Op: record.OpDeposit}, nil
}

// withdraw handles [market, user*, recipient]. The quote position is
// debited unconditionally; no minimum-balance or negative-balance check
// lives at this layer.
func (p *Processor) withdraw(accounts []*record.Account, amount uint64) (*Receipt, error) {
	if err := need(accounts, 3); err != nil {
		return nil, err
	}
	marketAcc, userAcc := accounts[0], accounts[1]

	if err := p.ownedByProgram(marketAcc, userAcc); err != nil {
		return nil, err
	}

	user, err := record.DecodeUserAccount(userAcc.Data)
	if err != nil {
		logger.Error("failed to decode user record", "key", userAcc.Key.String())
		return nil, ErrInvalidAccountData
	}

	delta, err := i64FromU64(amount)
	if err != nil {
		return nil, err
	}
	if user.QuotePosition, err = subI64(user.QuotePosition, delta); err != nil {
		return nil, err
	}
	user.LastUpdateTs = p.clock.Unix()

	if err := writeUser(userAcc, user); err != nil {
		return nil, err
	}
	return &Receipt{Op: record.OpWithdraw}, nil
}

// placeOrder handles [market, taker*, event-queue*, makers*...]. The taker
// quantity is matched against the makers in the order supplied; resulting
// trades are appended to the event queue with one header read and one
// header write for the whole batch.
func (p *Processor) placeOrder(accounts []*record.Account, priceLots, maxBaseLots int64, sideIsBid bool) (*Receipt, error) {
	if err := need(accounts, 3); err != nil {
		return nil, err
	}
	marketAcc, takerAcc, queueAcc := accounts[0], accounts[1], accounts[2]
	makerAccs := accounts[3:]

	if err := p.ownedByProgram(marketAcc, takerAcc, queueAcc); err != nil {
		return nil, err
	}
	if err := p.ownedByProgram(makerAccs...); err != nil {
		return nil, err
	}

	market, err := record.DecodeMarket(marketAcc.Data)
	if err != nil {
		logger.Error("failed to decode market record", "key", marketAcc.Key.String())
		return nil, ErrInvalidAccountData
	}
	if !market.IsActive {
		return nil, ErrMarketInactive
	}

	taker, err := record.DecodeUserAccount(takerAcc.Data)
	if err != nil {
		return nil, ErrInvalidAccountData
	}

	makers := make([]record.UserAccount, len(makerAccs))
	for i, acc := range makerAccs {
		if makers[i], err = record.DecodeUserAccount(acc.Data); err != nil {
			return nil, ErrInvalidAccountData
		}
	}

	res, err := MatchOrders(&taker, makers, maxBaseLots, sideIsBid)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{
		Op:                record.OpPlaceOrder,
		FilledBaseLots:    maxBaseLots - res.Remaining,
		RemainingBaseLots: res.Remaining,
		QuoteVolume:       res.QuoteVolume,
		Fee:               FeeOnQuote(res.QuoteVolume, market.FeeBps),
		Events:            res.Events,
	}

	if p.restingOrders && res.Remaining > 0 {
		if id, ok := restRemainder(&taker, priceLots, res.Remaining, sideIsBid, p.nextOrderID); ok {
			receipt.RestingOrderID = id
		} else {
			logger.Warn("no free order slot for unmatched remainder",
				"taker", taker.Owner.String(), "remaining", res.Remaining)
		}
	}

	taker.LastUpdateTs = p.clock.Unix()

	if err := writeUser(takerAcc, taker); err != nil {
		return nil, err
	}
	for i, acc := range makerAccs {
		if err := writeUser(acc, makers[i]); err != nil {
			return nil, err
		}
	}

	if err := appendToQueue(queueAcc, res.Events); err != nil {
		return nil, err
	}
	return receipt, nil
}

// restRemainder parks the unmatched remainder in the first free order slot.
func restRemainder(taker *record.UserAccount, priceLots, baseLots int64, sideIsBid bool, nextID func() record.U128) (record.U128, bool) {
	for i := range taker.OpenOrders {
		if taker.OpenOrders[i].IsActive {
			continue
		}
		id := nextID()
		taker.OpenOrders[i] = record.Order{
			ID:        id,
			PriceLots: priceLots,
			BaseLots:  baseLots,
			SideIsBid: sideIsBid,
			IsActive:  true,
		}
		return id, true
	}
	return record.U128{}, false
}

// appendToQueue reads the queue header once, pushes the whole batch, and
// writes the header back once. A zero-capacity header is bootstrapped from
// the region size.
func appendToQueue(queueAcc *record.Account, events []record.Event) error {
	if len(queueAcc.Data) < record.QueueHeaderSize {
		return ErrInvalidAccountData
	}

	header, err := record.DecodeQueueHeader(queueAcc.Data)
	if err != nil {
		return ErrInvalidAccountData
	}
	region := queueAcc.Data[record.QueueHeaderSize:]

	if header.Capacity == 0 {
		if err := InitQueueHeader(&header, region); err != nil {
			return err
		}
	}

	for _, ev := range events {
		if err := PushEvent(&header, region, ev); err != nil {
			return err
		}
	}

	record.EncodeQueueHeader(queueAcc.Data[:record.QueueHeaderSize], header)
	return nil
}

// cancelOrder handles [market, user*]. Every slot carrying the id is
// deactivated and zeroed, so duplicate ids cancel together and cancelling
// twice is a no-op.
func (p *Processor) cancelOrder(accounts []*record.Account, orderID record.U128) (*Receipt, error) {
	if err := need(accounts, 2); err != nil {
		return nil, err
	}
	marketAcc, userAcc := accounts[0], accounts[1]

	if err := p.ownedByProgram(marketAcc, userAcc); err != nil {
		return nil, err
	}

	user, err := record.DecodeUserAccount(userAcc.Data)
	if err != nil {
		return nil, ErrInvalidAccountData
	}

	for i := range user.OpenOrders {
		if user.OpenOrders[i].ID == orderID {
			user.OpenOrders[i].IsActive = false
			user.OpenOrders[i].BaseLots = 0
		}
	}

	if err := writeUser(userAcc, user); err != nil {
		return nil, err
	}
	return &Receipt{Op: record.OpCancelOrder}, nil
}

// updateOracle handles [oracle*] and delegates to the oracle accessor's
// write path.
func (p *Processor) updateOracle(accounts []*record.Account, price int64, confidence uint64) (*Receipt, error) {
	if err := need(accounts, 1); err != nil {
		return nil, err
	}
	oracleAcc := accounts[0]

	if err := p.ownedByProgram(oracleAcc); err != nil {
		return nil, err
	}
	if err := WritePrice(oracleAcc, price, confidence, p.clock.Slot()); err != nil {
		return nil, err
	}
	return &Receipt{Op: record.OpUpdateOracle}, nil
}

// liquidate handles [market, liqor*, liqee*, oracle]. The requested base
// amount moves from liquidatee to liquidator and the oracle-priced quote
// amount moves back, unconditionally: no health check gates it.
func (p *Processor) liquidate(accounts []*record.Account, maxLiqAmount uint64) (*Receipt, error) {
	if err := need(accounts, 4); err != nil {
		return nil, err
	}
	marketAcc, liqorAcc, liqeeAcc, oracleAcc := accounts[0], accounts[1], accounts[2], accounts[3]

	if err := p.ownedByProgram(marketAcc, liqorAcc, liqeeAcc); err != nil {
		return nil, err
	}
	if _, err := record.DecodeMarket(marketAcc.Data); err != nil {
		return nil, ErrInvalidAccountData
	}

	oracle, err := ReadPrice(oracleAcc)
	if err != nil {
		return nil, err
	}

	liqor, err := record.DecodeUserAccount(liqorAcc.Data)
	if err != nil {
		return nil, ErrInvalidAccountData
	}
	liqee, err := record.DecodeUserAccount(liqeeAcc.Data)
	if err != nil {
		return nil, ErrInvalidAccountData
	}

	maxBase, err := i64FromU64(maxLiqAmount)
	if err != nil {
		return nil, err
	}
	quoteChange, err := mulI64(maxBase, oracle.Price)
	if err != nil {
		return nil, err
	}

	if liqor.BasePosition, err = addI64(liqor.BasePosition, maxBase); err != nil {
		return nil, err
	}
	if liqor.QuotePosition, err = subI64(liqor.QuotePosition, quoteChange); err != nil {
		return nil, err
	}
	if liqee.BasePosition, err = subI64(liqee.BasePosition, maxBase); err != nil {
		return nil, err
	}
	if liqee.QuotePosition, err = addI64(liqee.QuotePosition, quoteChange); err != nil {
		return nil, err
	}

	if err := writeUser(liqorAcc, liqor); err != nil {
		return nil, err
	}
	if err := writeUser(liqeeAcc, liqee); err != nil {
		return nil, err
	}

	return &Receipt{Op: record.OpLiquidate, FilledBaseLots: maxBase, QuoteVolume: quoteChange}, nil
}
