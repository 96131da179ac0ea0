package record

// Account is one caller-supplied storage handle: a fixed-layout byte buffer
// plus its identity and ownership metadata. The execution environment
// guarantees exclusive mutable access to Data for the duration of one
// processor invocation.
type Account struct {
	Key     ID
	Owner   ID
	Balance uint64
	Data    []byte
}

// IsUninitialized reports whether the record has never been written: the
// leading version byte (or the whole buffer, for versionless records) is
// still zero.
func (a *Account) IsUninitialized() bool {
	if len(a.Data) == 0 {
		return true
	}
	if a.Data[0] != 0 {
		return false
	}
	for _, b := range a.Data {
		if b != 0 {
			return false
		}
	}
	return true
}
