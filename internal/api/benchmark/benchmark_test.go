package benchmark

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dalfonso89/bitcoin-fees-service/bitcoinfees"
	"github.com/dalfonso89/bitcoin-fees-service/internal/api"
	"github.com/dalfonso89/bitcoin-fees-service/internal/service"
	"github.com/dalfonso89/bitcoin-fees-service/internal/testutils"
)

// BenchmarkTestSuite provides shared setup for benchmark tests
type BenchmarkTestSuite struct {
	upstream *testutils.MockFeesServer
	server   *httptest.Server
}

// NewBenchmarkTestSuite wires the real client to a mock upstream
func NewBenchmarkTestSuite() *BenchmarkTestSuite {
	upstream := testutils.NewMockFeesServer()
	cfg := testutils.MockConfigWithServer(upstream.BaseURL())
	log := testutils.MockLogger()

	handlers := api.NewHandlers(api.HandlerConfig{
		Logger:      log,
		FeesService: service.NewFeesService(cfg.NewFeesClient(), log),
	})

	gin.SetMode(gin.TestMode)
	return &BenchmarkTestSuite{
		upstream: upstream,
		server:   httptest.NewServer(handlers.SetupRoutes()),
	}
}

// Global benchmark suite to avoid port conflicts
var (
	globalBenchmarkSuite *BenchmarkTestSuite
	once                 sync.Once
)

func getBenchmarkSuite() *BenchmarkTestSuite {
	once.Do(func() {
		globalBenchmarkSuite = NewBenchmarkTestSuite()
	})
	return globalBenchmarkSuite
}

func benchmarkGet(b *testing.B, path string) {
	suite := getBenchmarkSuite()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resp, err := http.Get(suite.server.URL + path)
		if err != nil {
			b.Fatalf("Request error: %v", err)
		}
		resp.Body.Close()
	}
}

// BenchmarkRecommendedEndpoint benchmarks single requests to the recommended endpoint
func BenchmarkRecommendedEndpoint(b *testing.B) {
	benchmarkGet(b, "/api/v1/fees/recommended")
}

// BenchmarkListEndpoint benchmarks single requests to the list endpoint
func BenchmarkListEndpoint(b *testing.B) {
	benchmarkGet(b, "/api/v1/fees/list")
}

// BenchmarkSnapshotEndpoint benchmarks the concurrent two-endpoint fetch
func BenchmarkSnapshotEndpoint(b *testing.B) {
	benchmarkGet(b, "/api/v1/fees/snapshot")
}

// BenchmarkConcurrentRecommended benchmarks the recommended endpoint under parallel load
func BenchmarkConcurrentRecommended(b *testing.B) {
	suite := getBenchmarkSuite()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			resp, err := http.Get(suite.server.URL + "/api/v1/fees/recommended")
			if err != nil {
				b.Errorf("Request error: %v", err)
				return
			}
			resp.Body.Close()
		}
	})
}

// BenchmarkClientDirect benchmarks the library client without the HTTP facade
func BenchmarkClientDirect(b *testing.B) {
	suite := getBenchmarkSuite()
	client := bitcoinfees.NewClient(suite.upstream.BaseURL(), 0)
	defer client.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := client.GetFeeList(context.Background()); err != nil {
			b.Fatalf("GetFeeList error: %v", err)
		}
	}
}

// BenchmarkFormatSatoshis benchmarks all three formatting tiers
func BenchmarkFormatSatoshis(b *testing.B) {
	amounts := []int64{9_999, 5_000_000, 150_000_000}
	for i := 0; i < b.N; i++ {
		_ = bitcoinfees.FormatSatoshis(amounts[i%len(amounts)])
	}
}
