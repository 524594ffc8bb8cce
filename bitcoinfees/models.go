package bitcoinfees

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// RecommendedFees is the response of the "recommended" endpoint.
// The three estimates are independent and not guaranteed to be monotonic.
type RecommendedFees struct {
	// FastestFee is the lowest fee (satoshis per byte) that currently results
	// in the fastest confirmation, usually 0 to 1 block delay.
	FastestFee int64 `json:"fastestFee"`
	// HalfHourFee is the lowest fee (satoshis per byte) that confirms within
	// half an hour with 90% probability.
	HalfHourFee int64 `json:"halfHourFee"`
	// HourFee is the lowest fee (satoshis per byte) that confirms within an
	// hour with 90% probability.
	HourFee int64 `json:"hourFee"`
}

func (fees RecommendedFees) String() string {
	return fmt.Sprintf("Recommended fees: fastest @ %s / byte; 30 min @ %s / byte; hour @ %s / byte",
		FormatSatoshis(fees.FastestFee),
		FormatSatoshis(fees.HalfHourFee),
		FormatSatoshis(fees.HourFee))
}

// UnmarshalJSON rejects payloads that omit any of the three estimates.
func (fees *RecommendedFees) UnmarshalJSON(data []byte) error {
	values, err := decodeIntegerFields(data, "fastestFee", "halfHourFee", "hourFee")
	if err != nil {
		return err
	}

	*fees = RecommendedFees{
		FastestFee:  values["fastestFee"],
		HalfHourFee: values["halfHourFee"],
		HourFee:     values["hourFee"],
	}
	return nil
}

// FeeList is the response of the "list" endpoint. Fees keep server order.
type FeeList struct {
	Fees []Fee `json:"fees"`
}

// UnmarshalJSON requires the "fees" array to be present.
func (list *FeeList) UnmarshalJSON(data []byte) error {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(data, &object); err != nil {
		return err
	}
	raw, found := object["fees"]
	if !found || isNull(raw) {
		return &MissingFieldError{Fields: []string{"fees"}}
	}

	var fees []Fee
	if err := json.Unmarshal(raw, &fees); err != nil {
		return fmt.Errorf("field fees: %w", err)
	}

	*list = FeeList{Fees: fees}
	return nil
}

// Fee is the prediction for transactions paying between MinFee and MaxFee
// satoshis per byte.
type Fee struct {
	// DayCount is the number of confirmed transactions with this fee in the
	// last 24 hours.
	DayCount int64 `json:"dayCount"`
	// MaxDelay is the estimated maximum delay in blocks until confirmation
	// (90% confidence interval).
	MaxDelay int64 `json:"maxDelay"`
	MaxFee   int64 `json:"maxFee"`
	MinFee   int64 `json:"minFee"`
	// MaxMinutes is the estimated maximum time in minutes until confirmation
	// (90% confidence interval).
	MaxMinutes int64 `json:"maxMinutes"`
	// MemCount is the number of unconfirmed transactions with this fee.
	MemCount int64 `json:"memCount"`
	// MinDelay is the estimated minimum delay in blocks until confirmation
	// (90% confidence interval).
	MinDelay int64 `json:"minDelay"`
	// MinMinutes is the estimated minimum time in minutes until confirmation
	// (90% confidence interval).
	MinMinutes int64 `json:"minMinutes"`
}

func (fee Fee) String() string {
	return fmt.Sprintf("Data for %s-%s / byte: delays are %d-%d blocks(%d-%d min), processed %d txs during last 24 hours, %d txs in mempool",
		FormatSatoshis(fee.MinFee),
		FormatSatoshis(fee.MaxFee),
		fee.MinDelay, fee.MaxDelay,
		fee.MinMinutes, fee.MaxMinutes,
		fee.DayCount,
		fee.MemCount)
}

// UnmarshalJSON rejects brackets with any missing or null field.
func (fee *Fee) UnmarshalJSON(data []byte) error {
	values, err := decodeIntegerFields(data,
		"dayCount", "maxDelay", "maxFee", "minFee",
		"maxMinutes", "memCount", "minDelay", "minMinutes")
	if err != nil {
		return err
	}

	*fee = Fee{
		DayCount:   values["dayCount"],
		MaxDelay:   values["maxDelay"],
		MaxFee:     values["maxFee"],
		MinFee:     values["minFee"],
		MaxMinutes: values["maxMinutes"],
		MemCount:   values["memCount"],
		MinDelay:   values["minDelay"],
		MinMinutes: values["minMinutes"],
	}
	return nil
}

// MissingFieldError reports required JSON fields that were absent or null.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return "missing required field(s): " + strings.Join(e.Fields, ", ")
}

// decodeIntegerFields reads the named integer fields of a JSON object.
// Names match exactly; encoding/json alone would accept any letter case.
func decodeIntegerFields(data []byte, names ...string) (map[string]int64, error) {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(data, &object); err != nil {
		return nil, err
	}

	values := make(map[string]int64, len(names))
	var missing []string
	for _, name := range names {
		raw, found := object[name]
		if !found || isNull(raw) {
			missing = append(missing, name)
			continue
		}
		var value int64
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		values[name] = value
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingFieldError{Fields: missing}
	}
	return values, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
