package venue

import (
	"github.com/quagmt/udecimal"
)

// FeeOnQuote computes the taker fee charged on matched quote volume at the
// market's fee rate. Fee policy lives here in the processor layer; the
// matching routine only reports volume.
func FeeOnQuote(quoteVolume int64, feeBps uint16) udecimal.Decimal {
	if quoteVolume < 0 {
		quoteVolume = -quoteVolume
	}
	volume := udecimal.MustFromInt64(quoteVolume, 0)
	rate := udecimal.MustFromInt64(int64(feeBps), 4)
	return volume.Mul(rate)
}
