package bitcoinfees

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	satoshiUnit  = "sat"
	microBTCUnit = "μBTC"
	bitcoinSign  = "฿"

	satoshisPerMicroBTC = 1000
	// 1 BTC = 10^8 satoshis.
	bitcoinExponent = -8

	// Amounts below these thresholds are rendered in the smaller unit.
	satoshiThreshold  = 10 * satoshisPerMicroBTC
	microBTCThreshold = 10 * satoshisPerMicroBTC * satoshisPerMicroBTC
)

// FormatSatoshis renders a satoshi amount using the smallest readable unit:
// raw satoshis below 10k, whole μBTC below 10M and exact BTC above that.
func FormatSatoshis(satoshis int64) string {
	if satoshis < satoshiThreshold {
		return fmt.Sprintf("%d %s", satoshis, satoshiUnit)
	}
	if satoshis < microBTCThreshold {
		return fmt.Sprintf("%d %s", satoshis/satoshisPerMicroBTC, microBTCUnit)
	}
	return fmt.Sprintf("%s %s", bitcoinSign, decimal.New(satoshis, bitcoinExponent).String())
}
