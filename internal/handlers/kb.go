package handlers

import (
	"net/http"

	"github.com/rishuramani/RC/pkg/middleware"
)

// GetFirmFacts lists firm facts, optionally filtered by category or search.
func GetFirmFacts(c middleware.Context) {
	ctx := c.Request.Context()
	var err error
	var facts interface{}

	switch {
	case c.Query("category") != "":
		facts, err = store.FirmFactsByCategory(ctx, c.Query("category"))
	case c.Query("q") != "":
		facts, err = store.SearchFirmFacts(ctx, c.Query("q"))
	default:
		facts, err = store.AllFirmFacts(ctx)
	}
	if err != nil {
		logger.WithError(err).Error("Failed to load firm facts")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, middleware.H{"facts": facts})
}

// AddFirmFact stores a fact about the firm.
func AddFirmFact(c middleware.Context) {
	var req struct {
		Category string `json:"category" binding:"required"`
		Key      string `json:"key" binding:"required"`
		Value    string `json:"value" binding:"required"`
		Source   string `json:"source"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}

	id, err := store.AddFirmFact(c.Request.Context(), req.Category, req.Key, req.Value, req.Source)
	if err != nil {
		logger.WithError(err).Error("Failed to add firm fact")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, middleware.H{"id": id})
}

// UpdateFirmFact updates a fact's value and source.
func UpdateFirmFact(c middleware.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Value  string `json:"value" binding:"required"`
		Source string `json:"source"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}

	if err := store.UpdateFirmFact(c.Request.Context(), id, req.Value, req.Source); err != nil {
		respondStoreError(c, err, "Failed to update firm fact")
		return
	}
	c.JSON(http.StatusOK, middleware.H{"id": id})
}

// DeleteFirmFact removes a fact.
func DeleteFirmFact(c middleware.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := store.DeleteFirmFact(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "Failed to delete firm fact")
		return
	}
	c.JSON(http.StatusOK, middleware.H{"deleted": id})
}

// GetMarketData lists market data, optionally filtered by market or metric.
func GetMarketData(c middleware.Context) {
	ctx := c.Request.Context()
	var err error
	var data interface{}

	switch {
	case c.Query("metric") != "":
		data, err = store.MarketDataByMetric(ctx, c.Query("metric"), c.Query("market"))
	case c.Query("market") != "":
		data, err = store.MarketDataByMarket(ctx, c.Query("market"))
	default:
		data, err = store.AllMarketData(ctx)
	}
	if err != nil {
		logger.WithError(err).Error("Failed to load market data")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, middleware.H{"market_data": data})
}

// AddMarketData stores a market metric observation.
func AddMarketData(c middleware.Context) {
	var req struct {
		Market string `json:"market" binding:"required"`
		Metric string `json:"metric" binding:"required"`
		Value  string `json:"value" binding:"required"`
		Period string `json:"period"`
		Source string `json:"source"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}

	id, err := store.AddMarketData(c.Request.Context(), req.Market, req.Metric, req.Value, req.Period, req.Source)
	if err != nil {
		logger.WithError(err).Error("Failed to add market data")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, middleware.H{"id": id})
}

// DeleteMarketData removes a market data record.
func DeleteMarketData(c middleware.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := store.DeleteMarketData(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "Failed to delete market data")
		return
	}
	c.JSON(http.StatusOK, middleware.H{"deleted": id})
}

// GetBrandRules lists brand rules, optionally filtered by type.
func GetBrandRules(c middleware.Context) {
	ctx := c.Request.Context()
	var err error
	var rules interface{}

	if ruleType := c.Query("type"); ruleType != "" {
		rules, err = store.BrandRulesByType(ctx, ruleType)
	} else {
		rules, err = store.AllBrandRules(ctx)
	}
	if err != nil {
		logger.WithError(err).Error("Failed to load brand rules")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, middleware.H{"rules": rules})
}

// AddBrandRule stores a voice or compliance rule.
func AddBrandRule(c middleware.Context) {
	var req struct {
		RuleType string `json:"rule_type" binding:"required"`
		Rule     string `json:"rule" binding:"required"`
		Example  string `json:"example"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}

	id, err := store.AddBrandRule(c.Request.Context(), req.RuleType, req.Rule, req.Example)
	if err != nil {
		logger.WithError(err).Error("Failed to add brand rule")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, middleware.H{"id": id})
}

// DeleteBrandRule removes a brand rule.
func DeleteBrandRule(c middleware.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := store.DeleteBrandRule(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "Failed to delete brand rule")
		return
	}
	c.JSON(http.StatusOK, middleware.H{"deleted": id})
}
