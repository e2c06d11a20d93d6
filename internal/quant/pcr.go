package quant

import (
	"math"

	"option-master/internal/models"
)

// ComputePCR sums traded volume and open interest across both legs and derives
// the put-call ratios. A ratio is nil when its call-side total is zero.
func ComputePCR(rows []models.StrikeRow) models.PCR {
	var putVol, callVol, putOI, callOI int64
	for _, r := range rows {
		if r.PE != nil {
			putVol += r.PE.Volume
			putOI += r.PE.OpenInterest
		}
		if r.CE != nil {
			callVol += r.CE.Volume
			callOI += r.CE.OpenInterest
		}
	}

	result := models.PCR{
		TotalPutVol:  putVol,
		TotalCallVol: callVol,
		TotalPutOI:   putOI,
		TotalCallOI:  callOI,
	}
	if callVol > 0 {
		v := round4(float64(putVol) / float64(callVol))
		result.VolPCR = &v
	}
	if callOI > 0 {
		v := round4(float64(putOI) / float64(callOI))
		result.OIPCR = &v
	}
	return result
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
