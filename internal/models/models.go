package models

import (
	"time"
)

// LegQuote holds the derived fields for one option leg (CE or PE) at a strike.
// All fields are populated after normalization; a missing source field becomes
// zero, never a partially filled leg.
type LegQuote struct {
	OpenInterest int64   `json:"oi"`
	ChangeOI     int64   `json:"changeOi"`
	IV           float64 `json:"iv"`
	LTP          float64 `json:"ltp"`
	Volume       int64   `json:"volume"`
}

// StrikeRow is one canonical per-strike record. Either leg may be nil when the
// upstream source omits it for that strike/expiry.
type StrikeRow struct {
	Strike *float64  `json:"strike"`
	Expiry string    `json:"expiry"`
	CE     *LegQuote `json:"ce"`
	PE     *LegQuote `json:"pe"`
}

// ChainPayload is the normalized snapshot returned to clients.
type ChainPayload struct {
	Instrument  string      `json:"instrument"`
	ExpiryDates []string    `json:"expiryDates"`
	Expiry      string      `json:"expiry"`
	Underlying  float64     `json:"underlying"`
	Data        []StrikeRow `json:"data"`
	Timestamp   time.Time   `json:"timestamp"`
}

// PCR holds volume- and OI-based put-call ratios plus the raw totals.
// Ratios are nil when the call-side denominator is zero.
type PCR struct {
	VolPCR       *float64 `json:"vol_pcr"`
	OIPCR        *float64 `json:"oi_pcr"`
	TotalPutVol  int64    `json:"total_put_vol"`
	TotalCallVol int64    `json:"total_call_vol"`
	TotalPutOI   int64    `json:"total_put_oi"`
	TotalCallOI  int64    `json:"total_call_oi"`
}

// MaxPain is the settlement strike minimizing aggregate option-writer payout.
type MaxPain struct {
	Strike *float64 `json:"max_pain_strike"`
	Value  *int64   `json:"max_pain_value"`
}

// ElasticDetail is the per-strike breakdown behind the Elastic-of-Ends score.
type ElasticDetail struct {
	Strike   *float64 `json:"strike"`
	CEChange int64    `json:"ce_change"`
	PEChange int64    `json:"pe_change"`
	Score    int64    `json:"score"`
}

// Elastic flags the strike with the largest combined absolute OI change.
type Elastic struct {
	Strike  *float64        `json:"elastic_strike"`
	Score   int64           `json:"elastic_score"`
	Details []ElasticDetail `json:"details"`
}

// Analytics bundles all derived metrics for one normalized chain.
type Analytics struct {
	PCR
	MaxPain
	Elastic
}

// ChainResult is the orchestrated, cacheable outcome of one query.
type ChainResult struct {
	Payload   *ChainPayload `json:"payload"`
	Analytics *Analytics    `json:"analytics,omitempty"`
}
