package quant

import (
	"option-master/internal/models"
)

// ComputeElastic scores every strike by the combined absolute change in open
// interest across both legs and reports the maximum. The per-strike breakdown
// is returned alongside. Ties keep the first row in iteration order; an empty
// chain reports a score of -1 and no strike.
func ComputeElastic(rows []models.StrikeRow) models.Elastic {
	result := models.Elastic{
		Score:   -1,
		Details: make([]models.ElasticDetail, 0, len(rows)),
	}
	for _, r := range rows {
		var ceChange, peChange int64
		if r.CE != nil {
			ceChange = abs64(r.CE.ChangeOI)
		}
		if r.PE != nil {
			peChange = abs64(r.PE.ChangeOI)
		}
		score := ceChange + peChange
		result.Details = append(result.Details, models.ElasticDetail{
			Strike:   r.Strike,
			CEChange: ceChange,
			PEChange: peChange,
			Score:    score,
		})
		if score > result.Score {
			result.Score = score
			result.Strike = r.Strike
		}
	}
	return result
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
