package venue

// StorageRules answers minimum-balance questions for record storage. The
// execution environment decides the actual policy; the processor only asks.
type StorageRules interface {
	// IsExempt reports whether a record with the given balance and data
	// size meets the minimum-balance requirement.
	IsExempt(balance uint64, size int) bool
}

// PerByteRules requires a flat base plus a per-byte amount.
type PerByteRules struct {
	Base    uint64
	PerByte uint64
}

func (r PerByteRules) IsExempt(balance uint64, size int) bool {
	need := r.Base + r.PerByte*uint64(size)
	return balance >= need
}

// ExemptAll waives the minimum-balance requirement entirely.
type ExemptAll struct{}

func (ExemptAll) IsExempt(uint64, int) bool {
	return true
}
