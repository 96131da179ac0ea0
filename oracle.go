package venue

import (
	"github.com/openvenue/venue-core/record"
)

// ReadPrice decodes the oracle price record held in source.
func ReadPrice(source *record.Account) (record.OraclePrice, error) {
	price, err := record.DecodeOraclePrice(source.Data)
	if err != nil {
		return record.OraclePrice{}, ErrInvalidAccountData
	}
	return price, nil
}

// WritePrice overwrites the oracle record with the given price and
// confidence, stamping the current slot. A record that does not decode yet
// starts from the maximally-unconfident default. No staleness or deviation
// checks: any caller permitted to reach this can set any price.
func WritePrice(source *record.Account, price int64, confidence uint64, slot uint64) error {
	oracle, err := ReadPrice(source)
	if err != nil {
		oracle = record.UnconfidentOraclePrice()
	}

	oracle.Price = price
	oracle.Confidence = confidence
	oracle.LastUpdatedSlot = slot

	if len(source.Data) < record.OraclePriceSize {
		return ErrInvalidAccountData
	}
	record.EncodeOraclePrice(source.Data[:record.OraclePriceSize], oracle)
	return nil
}
