package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"option-master/internal/models"
	"option-master/internal/services/chain"
)

// ChainService is the orchestrated option-chain operation the handlers sit on.
type ChainService interface {
	GetOptionChain(ctx context.Context, symbol, expiry string) (*models.ChainResult, error)
}

type APIHandler struct {
	chain ChainService
	log   *logrus.Entry
}

func SetupRoutes(r *gin.RouterGroup, svc ChainService) *APIHandler {
	handler := &APIHandler{
		chain: svc,
		log:   logrus.WithField("component", "api"),
	}

	r.GET("/option-chain", handler.GetOptionChain)
	r.GET("/option-chain/export", handler.ExportOptionChain)
	r.GET("/status", handler.Status)

	return handler
}

// GetOptionChain serves the normalized chain plus analytics for a symbol.
// GET /api/v1/option-chain?symbol=NIFTY&expiry=28-DEC-2024
func (h *APIHandler) GetOptionChain(c *gin.Context) {
	symbol := c.DefaultQuery("symbol", chain.DefaultSymbol)
	expiry := c.Query("expiry")

	result, err := h.chain.GetOptionChain(c.Request.Context(), symbol, expiry)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, successEnvelope(result))
}

func (h *APIHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "Backend is live",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func successEnvelope(result *models.ChainResult) gin.H {
	envelope := gin.H{"ok": true, "payload": result.Payload}
	if result.Analytics != nil {
		envelope["analytics"] = result.Analytics
	}
	return envelope
}

// renderError maps core failures onto the uniform failure envelope. Nothing
// below the orchestrator reaches the client as an unhandled fault.
func (h *APIHandler) renderError(c *gin.Context, err error) {
	var closed *chain.MarketClosedError
	if errors.As(err, &closed) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"ok":            false,
			"error":         closed.Error(),
			"market_closed": true,
			"next_open":     closed.NextOpen.Format(time.RFC3339),
		})
		return
	}

	h.log.WithError(err).Warn("option chain request failed")
	c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
}
