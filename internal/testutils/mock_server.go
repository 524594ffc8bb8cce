package testutils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dalfonso89/bitcoin-fees-service/internal/config"
)

const (
	// FeesPath is where the mock server mounts the fee API
	FeesPath = "/api/v1/fees/"

	RecommendedFixture = `{"fastestFee":20,"halfHourFee":10,"hourFee":5}`
	ListFixture        = `{"fees":[{"dayCount":100,"maxDelay":2,"maxFee":50,"minFee":40,"maxMinutes":30,"memCount":10,"minDelay":1,"minMinutes":15}]}`
)

// MockResponse is a canned upstream reply
type MockResponse struct {
	Status int
	Body   string
}

// MockFeesServer imitates bitcoinfees.earn.com
type MockFeesServer struct {
	server *httptest.Server

	mutex     sync.RWMutex
	responses map[string]MockResponse

	requests int64
}

// NewMockFeesServer creates a mock fee API serving the default fixtures
func NewMockFeesServer() *MockFeesServer {
	mock := &MockFeesServer{
		responses: map[string]MockResponse{
			"recommended": {Status: http.StatusOK, Body: RecommendedFixture},
			"list":        {Status: http.StatusOK, Body: ListFixture},
		},
	}
	mock.server = httptest.NewServer(http.HandlerFunc(mock.handler))
	return mock
}

func (m *MockFeesServer) handler(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt64(&m.requests, 1)

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !strings.HasPrefix(r.URL.Path, FeesPath) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	m.mutex.RLock()
	response, found := m.responses[strings.TrimPrefix(r.URL.Path, FeesPath)]
	m.mutex.RUnlock()
	if !found {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.Status)
	_, _ = w.Write([]byte(response.Body))
}

// BaseURL returns the fee API root on the mock server
func (m *MockFeesServer) BaseURL() string {
	return m.server.URL + FeesPath
}

// SetResponse replaces the reply for an endpoint ("recommended" or "list")
func (m *MockFeesServer) SetResponse(endpoint string, response MockResponse) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.responses[endpoint] = response
}

// Requests returns how many requests the server received
func (m *MockFeesServer) Requests() int64 {
	return atomic.LoadInt64(&m.requests)
}

// Close closes the mock server
func (m *MockFeesServer) Close() {
	m.server.Close()
}

// MockConfigWithServer returns a test configuration pointing at baseURL
func MockConfigWithServer(baseURL string) *config.Config {
	cfg := MockConfig()
	cfg.LogLevel = "error"
	cfg.Port = "0"
	cfg.FeesAPIBaseURL = baseURL
	cfg.RateLimitEnabled = false
	return cfg
}
