package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rishuramani/RC/internal/inspire"
	"github.com/rishuramani/RC/internal/knowledge"
	"github.com/rishuramani/RC/internal/orchestrator"
	"github.com/rishuramani/RC/internal/pipeline"
	"github.com/rishuramani/RC/internal/publish"
	"github.com/rishuramani/RC/internal/scanner"
	"github.com/rishuramani/RC/pkg/llm"
	"github.com/rishuramani/RC/pkg/logging"
	"github.com/rishuramani/RC/pkg/middleware"
)

var (
	store       *knowledge.Store
	contentPipe *pipeline.Pipeline
	planner     *orchestrator.Orchestrator
	contentScan *scanner.Scanner
	pub         *publish.Publisher
	urlFetcher  *inspire.Fetcher
	provider    llm.Provider
	logger      logging.Logger
)

// Deps carries everything the handlers need.
type Deps struct {
	Store        *knowledge.Store
	Pipeline     *pipeline.Pipeline
	Orchestrator *orchestrator.Orchestrator
	Scanner      *scanner.Scanner
	Publisher    *publish.Publisher
	Fetcher      *inspire.Fetcher
	Provider     llm.Provider
	Logger       logging.Logger
}

// Init initializes the handlers with their dependencies.
func Init(deps Deps) {
	store = deps.Store
	contentPipe = deps.Pipeline
	planner = deps.Orchestrator
	contentScan = deps.Scanner
	pub = deps.Publisher
	urlFetcher = deps.Fetcher
	provider = deps.Provider
	logger = deps.Logger
}

// RegisterRoutes mounts the JSON API.
func RegisterRoutes(router middleware.Engine) {
	api := router.Group("/api")
	{
		// Content lifecycle
		api.GET("/review", GetReviewQueue)
		api.GET("/content/:id", GetContent)
		api.POST("/content/:id/approve", ApproveContent)
		api.POST("/content/:id/reject", RejectContent)
		api.POST("/content/:id/edit", EditContent)
		api.POST("/content/:id/publish", PublishContent)
		api.POST("/content/:id/cross-promote", CrossPromoteContent)
		api.POST("/generate", GenerateContent)
		api.POST("/plan", PlanContent)
		api.POST("/check", CheckCompliance)
		api.GET("/stats", GetStats)
		api.GET("/usage", GetLLMUsage)

		// Planning and calendar
		api.GET("/suggestions", GetTopicSuggestions)
		api.GET("/calendar", GetCalendarReview)
		api.GET("/calendar/entries", GetCalendarEntries)
		api.POST("/calendar", AddCalendarEntry)
		api.POST("/calendar/:id/generate", GenerateFromCalendarEntry)
		api.PUT("/calendar/:id", UpdateCalendarEntry)
		api.DELETE("/calendar/:id", DeleteCalendarEntry)

		// Scanning and inspiration
		api.POST("/scan", TriggerScan)
		api.GET("/digests", GetDigests)
		api.GET("/digests/:id", GetDigest)
		api.POST("/digests/:id/items/:item_id/like", LikeScannedContent)
		api.GET("/inspiration", GetInspiration)
		api.POST("/inspiration", AddInspiration)
		api.GET("/accounts", GetMonitoredAccounts)
		api.POST("/accounts", AddMonitoredAccount)
		api.POST("/accounts/:id/toggle", ToggleMonitoredAccount)
		api.DELETE("/accounts/:id", DeleteMonitoredAccount)

		// Knowledge base
		api.GET("/facts", GetFirmFacts)
		api.POST("/facts", AddFirmFact)
		api.PUT("/facts/:id", UpdateFirmFact)
		api.DELETE("/facts/:id", DeleteFirmFact)
		api.GET("/market-data", GetMarketData)
		api.POST("/market-data", AddMarketData)
		api.DELETE("/market-data/:id", DeleteMarketData)
		api.GET("/brand-rules", GetBrandRules)
		api.POST("/brand-rules", AddBrandRule)
		api.DELETE("/brand-rules/:id", DeleteBrandRule)
	}
}

func paramID(c middleware.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// respondStoreError maps store errors to 404/500.
func respondStoreError(c middleware.Context, err error, msg string) {
	if errors.Is(err, knowledge.ErrNotFound) {
		c.JSON(http.StatusNotFound, middleware.H{"error": "not found"})
		return
	}
	logger.WithError(err).Error(msg)
	c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
}
