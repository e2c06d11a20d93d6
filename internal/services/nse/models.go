package nse

// RawChain is the upstream option-chain document as served by the NSE
// indices endpoint. Per-strike entries stay untyped so that malformed or
// missing fields degrade to defaults during normalization instead of
// failing the whole snapshot.
type RawChain struct {
	Records RawRecords `json:"records"`
}

type RawRecords struct {
	Data            []map[string]any `json:"data"`
	ExpiryDates     []string         `json:"expiryDates"`
	UnderlyingValue float64          `json:"underlyingValue"`
}
