// Package bitcoinfees is a client for the bitcoinfees.earn.com fee estimate API.
package bitcoinfees

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public API root. Endpoint names are appended to it.
const DefaultBaseURL = "https://bitcoinfees.earn.com/api/v1/fees/"

const (
	recommendedEndpoint = "recommended"
	listEndpoint        = "list"
)

// FeeFetcher is the read surface of the API.
type FeeFetcher interface {
	GetRecommendedFees(ctx context.Context) (RecommendedFees, error)
	GetFeeList(ctx context.Context) (FeeList, error)
}

// Client talks to the fee API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// ownedTransport is non-nil only when the client built its own transport.
	ownedTransport *http.Transport
}

var _ FeeFetcher = (*Client)(nil)

// NewClient creates a client that owns its HTTP transport. Call Close when
// done to release idle connections. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	httpTransport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		baseURL:        normalizeBaseURL(baseURL),
		httpClient:     &http.Client{Timeout: timeout, Transport: httpTransport},
		ownedTransport: httpTransport,
	}
}

// NewClientWithHTTPClient creates a client that borrows httpClient. The
// caller keeps ownership: Close does not touch it.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    normalizeBaseURL(baseURL),
		httpClient: httpClient,
	}
}

// BaseURL returns the API root the client sends requests to.
func (client *Client) BaseURL() string {
	return client.baseURL
}

// Close releases the transport when the client owns it.
func (client *Client) Close() error {
	if client.ownedTransport != nil {
		client.ownedTransport.CloseIdleConnections()
	}
	return nil
}

// GetRecommendedFees fetches the fastest, half hour and hour fee estimates.
func (client *Client) GetRecommendedFees(ctx context.Context) (RecommendedFees, error) {
	var fees RecommendedFees
	if err := client.getJSON(ctx, recommendedEndpoint, &fees); err != nil {
		return RecommendedFees{}, err
	}
	return fees, nil
}

// GetFeeList fetches the per-bracket fee predictions.
func (client *Client) GetFeeList(ctx context.Context) (FeeList, error) {
	var list FeeList
	if err := client.getJSON(ctx, listEndpoint, &list); err != nil {
		return FeeList{}, err
	}
	return list, nil
}

// getJSON performs a single GET and decodes the body into target.
func (client *Client) getJSON(ctx context.Context, endpoint string, target interface{}) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+endpoint, nil)
	if err != nil {
		return &Error{Kind: KindTransport, Endpoint: endpoint, Cause: fmt.Errorf("failed to create request: %w", err)}
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return &Error{Kind: KindTransport, Endpoint: endpoint, Cause: err}
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return &Error{Kind: KindTransport, Endpoint: endpoint, StatusCode: response.StatusCode}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Endpoint: endpoint, Cause: fmt.Errorf("failed to read response body: %w", err)}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return &Error{Kind: KindDeserialization, Endpoint: endpoint, Cause: err}
	}
	return nil
}

func normalizeBaseURL(baseURL string) string {
	if baseURL == "" {
		return DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		return baseURL + "/"
	}
	return baseURL
}
