package chain

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"option-master/internal/models"
	"option-master/internal/quant"
	"option-master/internal/services/nse"
)

// DefaultSymbol is assumed when a query names no instrument.
const DefaultSymbol = "NIFTY"

// Options configures the chain service. The two booleans correspond to the
// deployment variants: metrics on/off and the trading-hours short circuit.
type Options struct {
	CacheTTL           time.Duration
	IncludeAnalytics   bool
	EnforceMarketHours bool
}

// Service orchestrates fetch -> normalize -> analytics for one query, behind a
// per-key TTL cache. The cache sweeps expired entries in the background so
// diverse query parameters cannot grow it without bound. Concurrent callers on
// a cold key may each recompute; last write wins, which is safe because the
// computation is idempotent and the fetch gate throttles the upstream side.
type Service struct {
	fetcher nse.Fetcher
	cache   *gocache.Cache
	opts    Options
	log     *logrus.Entry

	now func() time.Time
}

func NewService(fetcher nse.Fetcher, opts Options) *Service {
	return &Service{
		fetcher: fetcher,
		cache:   gocache.New(opts.CacheTTL, 2*opts.CacheTTL),
		opts:    opts,
		log:     logrus.WithField("component", "chain"),
		now:     time.Now,
	}
}

// GetOptionChain returns the normalized chain plus analytics for symbol,
// reusing a cached result when one is younger than the TTL. Expiry, when
// non-empty, restricts rows to that upstream expiry date.
func (s *Service) GetOptionChain(ctx context.Context, symbol, expiry string) (*models.ChainResult, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		symbol = DefaultSymbol
	}

	if s.opts.EnforceMarketHours {
		local := s.now().In(istLocation)
		if !marketOpenAt(local) {
			return nil, &MarketClosedError{NextOpen: nextOpenAfter(local)}
		}
	}

	key := cacheKey(symbol, expiry)
	if v, ok := s.cache.Get(key); ok {
		s.log.WithField("key", key).Debug("cache hit")
		return v.(*models.ChainResult), nil
	}

	raw, err := s.fetcher.FetchOptionChain(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch option chain: %w", err)
	}

	payload := Normalize(raw, symbol, expiry, s.now().UTC())
	result := &models.ChainResult{Payload: payload}
	if s.opts.IncludeAnalytics {
		result.Analytics = &models.Analytics{
			PCR:     quant.ComputePCR(payload.Data),
			MaxPain: quant.ComputeMaxPain(payload.Data),
			Elastic: quant.ComputeElastic(payload.Data),
		}
	}

	s.cache.Set(key, result, gocache.DefaultExpiration)
	s.log.WithFields(logrus.Fields{"key": key, "rows": len(payload.Data)}).Info("option chain refreshed")
	return result, nil
}

// cacheKey canonicalizes the query parameters; url.Values encodes keys in
// sorted order, so logically identical queries share one entry.
func cacheKey(symbol, expiry string) string {
	v := url.Values{}
	v.Set("symbol", symbol)
	if expiry != "" {
		v.Set("expiry", expiry)
	}
	return v.Encode()
}
