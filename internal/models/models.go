package models

import (
	"time"

	"github.com/dalfonso89/bitcoin-fees-service/bitcoinfees"
)

type FormattedRecommendedFees struct {
	Fastest  string `json:"fastest"`
	HalfHour string `json:"halfHour"`
	Hour     string `json:"hour"`
}

type RecommendedFeesResponse struct {
	Fees      bitcoinfees.RecommendedFees `json:"fees"`
	Formatted FormattedRecommendedFees    `json:"formatted"`
	Summary   string                      `json:"summary"`
}

type FeeEntry struct {
	Fee     bitcoinfees.Fee `json:"fee"`
	Summary string          `json:"summary"`
}

type FeeListResponse struct {
	Fees []FeeEntry `json:"fees"`
}

type SnapshotResponse struct {
	Recommended RecommendedFeesResponse `json:"recommended"`
	List        FeeListResponse         `json:"list"`
	FetchedAt   time.Time               `json:"fetchedAt"`
}

type FormatResponse struct {
	Satoshis  int64  `json:"satoshis"`
	Formatted string `json:"formatted"`
}

type HealthCheck struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Upstream  string    `json:"upstream"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// NewRecommendedFeesResponse adds display strings to the upstream estimates.
func NewRecommendedFeesResponse(fees bitcoinfees.RecommendedFees) RecommendedFeesResponse {
	return RecommendedFeesResponse{
		Fees: fees,
		Formatted: FormattedRecommendedFees{
			Fastest:  bitcoinfees.FormatSatoshis(fees.FastestFee),
			HalfHour: bitcoinfees.FormatSatoshis(fees.HalfHourFee),
			Hour:     bitcoinfees.FormatSatoshis(fees.HourFee),
		},
		Summary: fees.String(),
	}
}

// NewFeeListResponse keeps upstream order and adds a summary per bracket.
func NewFeeListResponse(list bitcoinfees.FeeList) FeeListResponse {
	entries := make([]FeeEntry, 0, len(list.Fees))
	for _, fee := range list.Fees {
		entries = append(entries, FeeEntry{Fee: fee, Summary: fee.String()})
	}
	return FeeListResponse{Fees: entries}
}
