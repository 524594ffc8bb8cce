package testutils

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/dalfonso89/bitcoin-fees-service/bitcoinfees"
	"github.com/dalfonso89/bitcoin-fees-service/internal/config"
	"github.com/dalfonso89/bitcoin-fees-service/internal/logger"
)

// MockLogger creates a debug logger that discards output
func MockLogger() *logger.Logger {
	return logger.NewWithOutput("debug", io.Discard)
}

// MockConfig creates a mock configuration for testing
func MockConfig() *config.Config {
	return &config.Config{
		Port:     "8081",
		LogLevel: "debug",

		FeesAPIBaseURL:        "https://fees.test/api/v1/fees/",
		FeesAPITimeoutSeconds: 5,

		RateLimitEnabled:       true,
		RateLimitRequests:      100,
		RateLimitWindowSeconds: 60,
		RateLimitBurst:         10,
	}
}

// MockRecommendedFees matches RecommendedFixture
func MockRecommendedFees() bitcoinfees.RecommendedFees {
	return bitcoinfees.RecommendedFees{FastestFee: 20, HalfHourFee: 10, HourFee: 5}
}

// MockFeeList matches ListFixture
func MockFeeList() bitcoinfees.FeeList {
	return bitcoinfees.FeeList{Fees: []bitcoinfees.Fee{
		{
			DayCount:   100,
			MaxDelay:   2,
			MaxFee:     50,
			MinFee:     40,
			MaxMinutes: 30,
			MemCount:   10,
			MinDelay:   1,
			MinMinutes: 15,
		},
	}}
}

// FakeFetcher is an in-memory bitcoinfees.FeeFetcher
type FakeFetcher struct {
	Recommended    bitcoinfees.RecommendedFees
	RecommendedErr error
	List           bitcoinfees.FeeList
	ListErr        error

	// RecommendedDelay holds GetRecommendedFees until it elapses or ctx ends
	RecommendedDelay time.Duration
	// OnRecommendedCancel runs when ctx ends during RecommendedDelay
	OnRecommendedCancel func()

	recommendedCalls int32
	listCalls        int32
}

var _ bitcoinfees.FeeFetcher = (*FakeFetcher)(nil)

func (fake *FakeFetcher) GetRecommendedFees(ctx context.Context) (bitcoinfees.RecommendedFees, error) {
	atomic.AddInt32(&fake.recommendedCalls, 1)
	if fake.RecommendedDelay > 0 {
		timer := time.NewTimer(fake.RecommendedDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			if fake.OnRecommendedCancel != nil {
				fake.OnRecommendedCancel()
			}
			return bitcoinfees.RecommendedFees{}, ctx.Err()
		}
	}
	if fake.RecommendedErr != nil {
		return bitcoinfees.RecommendedFees{}, fake.RecommendedErr
	}
	return fake.Recommended, nil
}

func (fake *FakeFetcher) GetFeeList(ctx context.Context) (bitcoinfees.FeeList, error) {
	atomic.AddInt32(&fake.listCalls, 1)
	if fake.ListErr != nil {
		return bitcoinfees.FeeList{}, fake.ListErr
	}
	return fake.List, nil
}

func (fake *FakeFetcher) RecommendedCalls() int32 {
	return atomic.LoadInt32(&fake.recommendedCalls)
}

func (fake *FakeFetcher) ListCalls() int32 {
	return atomic.LoadInt32(&fake.listCalls)
}
