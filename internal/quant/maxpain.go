package quant

import (
	"option-master/internal/models"
)

// ComputeMaxPain evaluates every strike as a hypothetical settlement price and
// returns the one minimizing the aggregate option-writer payout
// (sum over strikes k of max(0, s-k)*callOI(k) + max(0, k-s)*putOI(k)).
// Ties keep the first candidate in row order; with pre-sorted rows that is the
// lowest strike. O(n^2) over the strike set, which stays in the low hundreds
// for a single chain.
func ComputeMaxPain(rows []models.StrikeRow) models.MaxPain {
	ceOI := make(map[float64]int64, len(rows))
	peOI := make(map[float64]int64, len(rows))
	strikes := make([]float64, 0, len(rows))
	seen := make(map[float64]bool, len(rows))

	for _, r := range rows {
		if r.Strike == nil {
			continue
		}
		s := *r.Strike
		// Duplicate strikes (multiple expiries) overwrite, last row wins.
		if r.CE != nil {
			ceOI[s] = r.CE.OpenInterest
		} else {
			ceOI[s] = 0
		}
		if r.PE != nil {
			peOI[s] = r.PE.OpenInterest
		} else {
			peOI[s] = 0
		}
		if !seen[s] {
			seen[s] = true
			strikes = append(strikes, s)
		}
	}

	var result models.MaxPain
	var minPain float64
	found := false
	for _, s := range strikes {
		pain := 0.0
		for _, k := range strikes {
			if s > k {
				pain += (s - k) * float64(ceOI[k])
			}
			if k > s {
				pain += (k - s) * float64(peOI[k])
			}
		}
		if !found || pain < minPain {
			found = true
			minPain = pain
			strike := s
			result.Strike = &strike
		}
	}
	if found {
		value := int64(minPain)
		result.Value = &value
	}
	return result
}
