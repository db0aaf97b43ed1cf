package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/andresuchdata/stockcast/internal/service"
)

type ForecastHandler struct {
	service *service.ForecastService
}

func NewForecastHandler(service *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

type runRequest struct {
	AsOf string   `json:"as_of"`
	SKUs []string `json:"skus"`
}

// Run triggers a forecast batch. as_of defaults to today (UTC); skus defaults
// to the whole catalog.
func (h *ForecastHandler) Run(c *gin.Context) {
	var req runRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
	}

	asOf := time.Now().UTC().Truncate(24 * time.Hour)
	if req.AsOf != "" {
		parsed, err := time.Parse("2006-01-02", req.AsOf)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "as_of must be YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	run, err := h.service.Run(c.Request.Context(), asOf, req.SKUs)
	if err != nil {
		var cfgErr *forecast.ConfigError
		if errors.As(err, &cfgErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid forecast configuration", "details": cfgErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "forecast run failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, run)
}

func (h *ForecastHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch summary", "details": err.Error()})
		return
	}
	if summary == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no completed forecast run"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetResults returns the latest batch, most urgent first, optionally filtered
// by ?urgency=critical,high.
func (h *ForecastHandler) GetResults(c *gin.Context) {
	results, err := h.service.LatestResults(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch results", "details": err.Error()})
		return
	}

	if raw := strings.TrimSpace(c.Query("urgency")); raw != "" {
		wanted := make(map[domain.Urgency]struct{})
		for _, part := range strings.Split(raw, ",") {
			u, ok := domain.ParseUrgency(strings.TrimSpace(part))
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown urgency tier: " + part})
				return
			}
			wanted[u] = struct{}{}
		}
		filtered := make([]*domain.ForecastResult, 0, len(results))
		for _, res := range results {
			if _, ok := wanted[res.Urgency]; ok {
				filtered = append(filtered, res)
			}
		}
		results = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}

func (h *ForecastHandler) GetResult(c *gin.Context) {
	sku := strings.TrimSpace(c.Param("sku"))
	if sku == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sku is required"})
		return
	}

	result, err := h.service.ResultForSKU(c.Request.Context(), sku)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch result", "details": err.Error()})
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no forecast for SKU " + sku})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ForecastHandler) GetSkipped(c *gin.Context) {
	skipped, err := h.service.Skipped(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch skipped SKUs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"skipped": skipped,
		"total":   len(skipped),
	})
}

func (h *ForecastHandler) GetLatestRun(c *gin.Context) {
	run, err := h.service.LatestRun(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch run", "details": err.Error()})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no forecast run yet"})
		return
	}

	c.JSON(http.StatusOK, run)
}
