package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"option-master/internal/models"
	"option-master/internal/services/chain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportOptionChain renders the same orchestrated result as an xlsx download.
// GET /api/v1/option-chain/export?symbol=NIFTY&expiry=28-DEC-2024
func (h *APIHandler) ExportOptionChain(c *gin.Context) {
	symbol := c.DefaultQuery("symbol", chain.DefaultSymbol)
	expiry := c.Query("expiry")

	result, err := h.chain.GetOptionChain(c.Request.Context(), symbol, expiry)
	if err != nil {
		h.renderError(c, err)
		return
	}

	file, err := buildWorkbook(result)
	if err != nil {
		h.log.WithError(err).Error("failed to build export workbook")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "export failed"})
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("option-chain-%s.xlsx", strings.ToLower(result.Payload.Instrument))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Header("Content-Type", xlsxContentType)
	if _, err := file.WriteTo(c.Writer); err != nil {
		h.log.WithError(err).Warn("export download interrupted")
	}
}

func buildWorkbook(result *models.ChainResult) (*excelize.File, error) {
	f := excelize.NewFile()

	const sheet = "Chain"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []any{
		"Strike", "Expiry",
		"CE OI", "CE Chg OI", "CE IV", "CE LTP", "CE Volume",
		"PE OI", "PE Chg OI", "PE IV", "PE LTP", "PE Volume",
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, err
	}

	for i, row := range result.Payload.Data {
		values := make([]any, 0, len(headers))
		if row.Strike != nil {
			values = append(values, *row.Strike)
		} else {
			values = append(values, nil)
		}
		values = append(values, row.Expiry)
		values = append(values, legCells(row.CE)...)
		values = append(values, legCells(row.PE)...)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	if result.Analytics != nil {
		if err := writeAnalyticsSheet(f, result.Analytics); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func legCells(leg *models.LegQuote) []any {
	if leg == nil {
		return []any{nil, nil, nil, nil, nil}
	}
	return []any{leg.OpenInterest, leg.ChangeOI, leg.IV, leg.LTP, leg.Volume}
}

func writeAnalyticsSheet(f *excelize.File, a *models.Analytics) error {
	const sheet = "Analytics"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]any{
		{"Metric", "Value"},
		{"Total Put Volume", a.TotalPutVol},
		{"Total Call Volume", a.TotalCallVol},
		{"Total Put OI", a.TotalPutOI},
		{"Total Call OI", a.TotalCallOI},
		{"Volume PCR", floatCell(a.VolPCR)},
		{"OI PCR", floatCell(a.OIPCR)},
		{"Max Pain Strike", floatCell(a.MaxPain.Strike)},
		{"Max Pain Value", intCell(a.MaxPain.Value)},
		{"Elastic Strike", floatCell(a.Elastic.Strike)},
		{"Elastic Score", a.Elastic.Score},
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func floatCell(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func intCell(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
