package venue

import "time"

// Clock supplies the trusted time values the processor stamps into records.
// It is injected so the core carries no platform dependency.
type Clock interface {
	// Unix returns the current unix timestamp in seconds.
	Unix() int64
	// Slot returns the current slot of the execution environment.
	Slot() uint64
}

// SystemClock derives timestamps from the wall clock and slots from
// milliseconds since the unix epoch.
type SystemClock struct{}

func (SystemClock) Unix() int64 {
	return time.Now().Unix()
}

func (SystemClock) Slot() uint64 {
	return uint64(time.Now().UnixMilli())
}

// FixedClock always reports the same instant, for deterministic tests and
// replay.
type FixedClock struct {
	Timestamp int64
	SlotValue uint64
}

func (c FixedClock) Unix() int64 {
	return c.Timestamp
}

func (c FixedClock) Slot() uint64 {
	return c.SlotValue
}
