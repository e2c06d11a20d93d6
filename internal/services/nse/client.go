package nse

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://www.nseindia.com"
	defaultDataURL = "https://www.nseindia.com/api/option-chain-indices"

	// NSE rejects requests that don't look like a browser.
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"
	acceptLanguage = "en-US,en;q=0.9"
)

// UpstreamError wraps any failure to obtain a snapshot from NSE: network
// errors, non-2xx statuses and undecodable top-level JSON.
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("nse %s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("nse %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Fetcher is the upstream dependency consumed by the chain service.
type Fetcher interface {
	FetchOptionChain(ctx context.Context, symbol string) (*RawChain, error)
}

// Client fetches option-chain snapshots from NSE. A single token-bucket
// limiter spaces out real upstream hits across all symbols; the resty
// client's cookie jar keeps the session established by the warmup request.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	baseURL string
	dataURL string
	log     *logrus.Entry
}

func NewClient(minInterval, timeout time.Duration) *Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", userAgent)
	client.SetHeader("Accept-Language", acceptLanguage)

	return &Client{
		http:    client,
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
		baseURL: defaultBaseURL,
		dataURL: defaultDataURL,
		log:     logrus.WithField("component", "nse"),
	}
}

// SetEndpoints overrides the landing and data URLs. Used by tests.
func (c *Client) SetEndpoints(baseURL, dataURL string) {
	c.baseURL = baseURL
	c.dataURL = dataURL
}

// FetchOptionChain performs the warmup GET against the landing page to pick
// up session cookies, then requests the option-chain document for symbol.
// Both requests share the client timeout and session.
func (c *Client) FetchOptionChain(ctx context.Context, symbol string) (*RawChain, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &UpstreamError{Op: "throttle", Err: err}
	}

	// Session warmup; the data endpoint requires the cookies set here.
	if _, err := c.http.R().SetContext(ctx).Get(c.baseURL); err != nil {
		return nil, &UpstreamError{Op: "session", Err: err}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("symbol", symbol).
		Get(c.dataURL)
	if err != nil {
		return nil, &UpstreamError{Op: "fetch", Err: err}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		c.log.WithFields(logrus.Fields{"symbol": symbol, "status": resp.StatusCode()}).Warn("upstream rejected option-chain request")
		return nil, &UpstreamError{Op: "fetch", Status: resp.StatusCode()}
	}

	var raw RawChain
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, &UpstreamError{Op: "decode", Err: err}
	}

	c.log.WithFields(logrus.Fields{"symbol": symbol, "entries": len(raw.Records.Data)}).Debug("fetched option chain")
	return &raw, nil
}
