package venue

import "errors"

var (
	ErrInvalidInstruction = errors.New("the instruction data is undecodable")
	ErrInvalidOwner       = errors.New("record storage has an unexpected owner")
	ErrInvalidAccountData = errors.New("record bytes have an unexpected layout")
	ErrMath               = errors.New("math operation overflowed or underflowed")
	ErrMarketInactive     = errors.New("market is inactive")
	ErrUnauthorized       = errors.New("unauthorized operation")
	ErrNotRentExempt      = errors.New("record storage balance is below the minimum")
	ErrQueueTooSmall      = errors.New("event queue region cannot hold a single slot")
	ErrMissingAccounts    = errors.New("not enough storage handles for the operation")
)
