package venue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeeOnQuote(t *testing.T) {
	tests := []struct {
		name        string
		quoteVolume int64
		feeBps      uint16
		want        string
	}{
		{"Basic", 500, 25, "1.25"},
		{"ZeroVolume", 0, 25, "0"},
		{"ZeroFee", 500, 0, "0"},
		{"SubUnitFee", 3, 1, "0.0003"},
		{"NegativeVolumeUsesMagnitude", -500, 25, "1.25"},
		{"FullBps", 1_000_000, 10_000, "1000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FeeOnQuote(tt.quoteVolume, tt.feeBps)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
