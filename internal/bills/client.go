package bills

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// NewHTTPClient creates an HTTP client with optional TLS configuration. Set
// skipTLSVerify for upstreams with misconfigured certificate chains (e.g.
// servers that don't send intermediate certificates).
func NewHTTPClient(timeout time.Duration, skipTLSVerify bool) *http.Client {
	transport := &http.Transport{}
	if skipTLSVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// DefaultHTTPClient returns a standard HTTP client with 30s timeout, so a
// hung upstream can never block a dashboard view indefinitely.
func DefaultHTTPClient() *http.Client {
	return NewHTTPClient(30*time.Second, false)
}

// Client fetches raw bills from the upstream utilities API.
type Client struct {
	base string
	http *http.Client
}

// NewClient builds a Client for the given API base URL. A nil httpClient gets
// the default 30s-timeout client.
func NewClient(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = DefaultHTTPClient()
	}
	return &Client{base: base, http: httpClient}
}

type billsEnvelope struct {
	Bills []RawBill `json:"bills"`
}

// FetchBills retrieves all bills for one hotel. The hotel key is stamped onto
// each bill so downstream aggregation can run over mixed-hotel sets.
func (c *Client) FetchBills(ctx context.Context, hotelID string) ([]RawBill, error) {
	url := fmt.Sprintf("%s/utilities/%s/bills", c.base, hotelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bills for %s: %w", hotelID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch bills for %s: unexpected status %d", hotelID, resp.StatusCode)
	}

	var env billsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode bills for %s: %w", hotelID, err)
	}

	for i := range env.Bills {
		if env.Bills[i].HotelID == "" {
			env.Bills[i].HotelID = hotelID
		}
	}
	return env.Bills, nil
}
