package chain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"option-master/internal/services/nse"
)

type fakeFetcher struct {
	calls int
	raw   *nse.RawChain
	err   error
}

func (f *fakeFetcher) FetchOptionChain(ctx context.Context, symbol string) (*nse.RawChain, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.raw, nil
}

func sampleRaw() *nse.RawChain {
	return &nse.RawChain{Records: nse.RawRecords{
		ExpiryDates:     []string{"28-DEC-2024"},
		UnderlyingValue: 21500,
		Data: []map[string]any{
			rawEntry(21500.0, "28-DEC-2024",
				map[string]any{"openInterest": 10.0, "totalTradedVolume": 100.0},
				map[string]any{"openInterest": 20.0, "totalTradedVolume": 300.0}),
		},
	}}
}

func TestGetOptionChainCachesWithinTTL(t *testing.T) {
	fetcher := &fakeFetcher{raw: sampleRaw()}
	svc := NewService(fetcher, Options{CacheTTL: 200 * time.Millisecond, IncludeAnalytics: true})

	first, err := svc.GetOptionChain(context.Background(), "nifty", "")
	require.NoError(t, err)
	second, err := svc.GetOptionChain(context.Background(), "NIFTY", "")
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.calls)
	assert.Same(t, first, second)

	time.Sleep(250 * time.Millisecond)
	_, err = svc.GetOptionChain(context.Background(), "NIFTY", "")
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}

func TestGetOptionChainDistinctKeys(t *testing.T) {
	fetcher := &fakeFetcher{raw: sampleRaw()}
	svc := NewService(fetcher, Options{CacheTTL: time.Minute, IncludeAnalytics: true})

	_, err := svc.GetOptionChain(context.Background(), "NIFTY", "")
	require.NoError(t, err)
	_, err = svc.GetOptionChain(context.Background(), "NIFTY", "28-DEC-2024")
	require.NoError(t, err)
	_, err = svc.GetOptionChain(context.Background(), "BANKNIFTY", "")
	require.NoError(t, err)

	assert.Equal(t, 3, fetcher.calls)
}

func TestGetOptionChainErrorNotCached(t *testing.T) {
	fetcher := &fakeFetcher{err: &nse.UpstreamError{Op: "fetch", Status: 503}}
	svc := NewService(fetcher, Options{CacheTTL: time.Minute, IncludeAnalytics: true})

	_, err := svc.GetOptionChain(context.Background(), "NIFTY", "")
	require.Error(t, err)
	var ue *nse.UpstreamError
	assert.ErrorAs(t, err, &ue)

	fetcher.err = nil
	fetcher.raw = sampleRaw()
	_, err = svc.GetOptionChain(context.Background(), "NIFTY", "")
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}

func TestGetOptionChainAnalyticsToggle(t *testing.T) {
	fetcher := &fakeFetcher{raw: sampleRaw()}
	svc := NewService(fetcher, Options{CacheTTL: time.Minute, IncludeAnalytics: false})

	res, err := svc.GetOptionChain(context.Background(), "NIFTY", "")
	require.NoError(t, err)
	assert.Nil(t, res.Analytics)
	require.NotNil(t, res.Payload)
	assert.Len(t, res.Payload.Data, 1)
}

func TestGetOptionChainAnalyticsContent(t *testing.T) {
	fetcher := &fakeFetcher{raw: sampleRaw()}
	svc := NewService(fetcher, Options{CacheTTL: time.Minute, IncludeAnalytics: true})

	res, err := svc.GetOptionChain(context.Background(), "NIFTY", "")
	require.NoError(t, err)
	require.NotNil(t, res.Analytics)
	require.NotNil(t, res.Analytics.VolPCR)
	assert.Equal(t, 3.0, *res.Analytics.VolPCR)
	require.NotNil(t, res.Analytics.MaxPain.Strike)
	assert.Equal(t, 21500.0, *res.Analytics.MaxPain.Strike)
}

func TestGetOptionChainMarketHoursGate(t *testing.T) {
	fetcher := &fakeFetcher{raw: sampleRaw()}
	svc := NewService(fetcher, Options{CacheTTL: time.Minute, IncludeAnalytics: true, EnforceMarketHours: true})

	// Saturday evening IST
	svc.now = func() time.Time {
		return time.Date(2024, 12, 28, 18, 0, 0, 0, istLocation)
	}

	_, err := svc.GetOptionChain(context.Background(), "NIFTY", "")
	require.Error(t, err)
	var mc *MarketClosedError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, time.Monday, mc.NextOpen.Weekday())
	assert.Equal(t, 9, mc.NextOpen.Hour())
	assert.Equal(t, 15, mc.NextOpen.Minute())
	assert.Equal(t, 0, fetcher.calls)

	// Tuesday mid-session passes through to the fetcher
	svc.now = func() time.Time {
		return time.Date(2024, 12, 31, 11, 0, 0, 0, istLocation)
	}
	_, err = svc.GetOptionChain(context.Background(), "NIFTY", "")
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
}

func TestMarketOpenAtBoundaries(t *testing.T) {
	day := func(h, m int) time.Time {
		return time.Date(2024, 12, 31, h, m, 0, 0, istLocation) // Tuesday
	}
	assert.False(t, marketOpenAt(day(9, 14)))
	assert.True(t, marketOpenAt(day(9, 15)))
	assert.True(t, marketOpenAt(day(15, 30)))
	assert.False(t, marketOpenAt(day(15, 31)))
}

func TestCacheKeyCanonical(t *testing.T) {
	assert.Equal(t, cacheKey("NIFTY", ""), cacheKey("NIFTY", ""))
	assert.NotEqual(t, cacheKey("NIFTY", ""), cacheKey("NIFTY", "28-DEC-2024"))
	assert.NotEqual(t, cacheKey("NIFTY", ""), cacheKey("BANKNIFTY", ""))
}

func TestGetOptionChainWrapsFetchError(t *testing.T) {
	cause := errors.New("connection reset")
	fetcher := &fakeFetcher{err: &nse.UpstreamError{Op: "session", Err: cause}}
	svc := NewService(fetcher, Options{CacheTTL: time.Minute})

	_, err := svc.GetOptionChain(context.Background(), "NIFTY", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}
