package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"visitor-analytics-service/internal/tracking/core/domain"
	"visitor-analytics-service/internal/tracking/core/ports"
)

const DefaultEndpoint = "https://ipapi.co/%s/json/"

// maxBody caps how much of a lookup response is read.
const maxBody = 64 << 10

var ErrLookupFailed = errors.New("geolocation lookup failed")

// Client resolves an IP through an ipapi-compatible JSON endpoint. The
// endpoint is a format string with a single %s for the IP.
type Client struct {
	endpoint string
	http     *http.Client
}

var _ ports.GeoLocatorPort = (*Client)(nil)

func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type lookupResponse struct {
	IP          string `json:"ip"`
	City        string `json:"city"`
	CountryName string `json:"country_name"`

	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

func (c *Client) Locate(ctx context.Context, ip string) (*domain.Location, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return nil, fmt.Errorf("%w: empty ip", ErrLookupFailed)
	}

	target := fmt.Sprintf(c.endpoint, url.PathEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrLookupFailed, err)
	}
	if body.Error {
		return nil, fmt.Errorf("%w: %s", ErrLookupFailed, body.Reason)
	}

	loc := &domain.Location{
		IP:      body.IP,
		Country: body.CountryName,
		City:    body.City,
	}
	if loc.IP == "" {
		loc.IP = ip
	}
	return loc, nil
}
