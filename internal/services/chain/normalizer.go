package chain

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"option-master/internal/models"
	"option-master/internal/services/nse"
)

// Normalize converts a raw upstream snapshot into the canonical strike-ascending
// payload. Entries not matching expiryFilter (trimmed, exact) are dropped; leg
// numeric fields default to zero when absent or malformed. A snapshot without a
// records/data container yields an empty row set, not an error.
func Normalize(raw *nse.RawChain, symbol, expiryFilter string, now time.Time) *models.ChainPayload {
	records := raw.Records
	rows := make([]models.StrikeRow, 0, len(records.Data))

	filter := strings.TrimSpace(expiryFilter)
	for _, entry := range records.Data {
		expiry := asString(entry["expiryDate"])
		if filter != "" && strings.TrimSpace(expiry) != filter {
			continue
		}
		rows = append(rows, models.StrikeRow{
			Strike: asStrike(entry["strikePrice"]),
			Expiry: expiry,
			CE:     legFromBlock(entry["CE"]),
			PE:     legFromBlock(entry["PE"]),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return strikeOrZero(rows[i].Strike) < strikeOrZero(rows[j].Strike)
	})

	effectiveExpiry := filter
	if effectiveExpiry == "" && len(records.ExpiryDates) > 0 {
		effectiveExpiry = records.ExpiryDates[0]
	}

	return &models.ChainPayload{
		Instrument:  symbol,
		ExpiryDates: records.ExpiryDates,
		Expiry:      effectiveExpiry,
		Underlying:  records.UnderlyingValue,
		Data:        rows,
		Timestamp:   now,
	}
}

// legFromBlock builds a fully-populated LegQuote from a raw CE/PE block, or
// returns nil when the block itself is absent. A present block always yields
// all five fields, zero-defaulted.
func legFromBlock(block any) *models.LegQuote {
	m, ok := block.(map[string]any)
	if !ok || m == nil {
		return nil
	}
	return &models.LegQuote{
		OpenInterest: asInt64(m["openInterest"]),
		ChangeOI:     asInt64(m["changeinOpenInterest"]),
		IV:           asFloat64(m["impliedVolatility"]),
		LTP:          asFloat64(m["lastPrice"]),
		Volume:       asInt64(m["totalTradedVolume"]),
	}
}

// Rows with no strike sort as if the strike were zero.
func strikeOrZero(s *float64) float64 {
	if s == nil {
		return 0
	}
	return *s
}

func asStrike(v any) *float64 {
	if n, ok := v.(float64); ok {
		return &n
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return 0
}

func asInt64(v any) int64 {
	return int64(asFloat64(v))
}
