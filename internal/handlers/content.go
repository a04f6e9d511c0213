package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rishuramani/RC/internal/brand"
	"github.com/rishuramani/RC/internal/generator"
	"github.com/rishuramani/RC/internal/knowledge"
	"github.com/rishuramani/RC/pkg/llm"
	"github.com/rishuramani/RC/pkg/middleware"
)

// GetReviewQueue returns queued and draft content with live compliance checks.
func GetReviewQueue(c middleware.Context) {
	items, err := contentPipe.ReviewQueue(c.Request.Context())
	if err != nil {
		logger.WithError(err).Error("Failed to load review queue")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, middleware.H{"items": items, "count": len(items)})
}

// GetContent returns a piece of content with a fresh compliance check.
func GetContent(c middleware.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	content, err := store.GetContent(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "Failed to load content")
		return
	}

	check := brand.Check(content.Body, content.ContentType)
	c.JSON(http.StatusOK, middleware.H{
		"content":      content,
		"is_compliant": check.Compliant,
		"issues":       check.Issues,
		"suggestions":  check.Suggestions,
	})
}

// ApproveContent approves draft or queued content for publishing.
func ApproveContent(c middleware.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := contentPipe.Approve(c.Request.Context(), id); err != nil {
		if errors.Is(err, knowledge.ErrNotFound) {
			c.JSON(http.StatusNotFound, middleware.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusConflict, middleware.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, middleware.H{"status": knowledge.StatusApproved})
}

// RejectContent marks content as rejected.
func RejectContent(c middleware.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := contentPipe.Reject(c.Request.Context(), id, req.Reason); err != nil {
		if errors.Is(err, knowledge.ErrNotFound) {
			c.JSON(http.StatusNotFound, middleware.H{"error": "not found"})
			return
		}
		logger.WithError(err).Error("Failed to reject content")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, middleware.H{"status": knowledge.StatusRejected})
}

// EditContent replaces the body (and optionally title) and requeues the piece.
func EditContent(c middleware.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Body  string `json:"body" binding:"required"`
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}

	if err := contentPipe.EditAndRequeue(c.Request.Context(), id, req.Body, req.Title); err != nil {
		if errors.Is(err, knowledge.ErrNotFound) {
			c.JSON(http.StatusNotFound, middleware.H{"error": "not found"})
			return
		}
		logger.WithError(err).Error("Failed to edit content")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, middleware.H{"status": knowledge.StatusQueued})
}

// PublishContent publishes approved content, or previews it on dry runs.
func PublishContent(c middleware.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		DryRun bool `json:"dry_run"`
	}
	_ = c.ShouldBindJSON(&req)

	result, err := contentPipe.Publish(c.Request.Context(), id, pub, req.DryRun)
	if err != nil {
		if errors.Is(err, knowledge.ErrNotFound) {
			c.JSON(http.StatusNotFound, middleware.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusConflict, middleware.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GenerateContent generates a piece from an explicit task and queues it.
func GenerateContent(c middleware.Context) {
	var task generator.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(task.ContentType) == "" || strings.TrimSpace(task.Topic) == "" {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "content_type and topic are required"})
		return
	}
	if task.Platform == "" {
		task.Platform = generator.PlatformForKind(task.ContentType)
	}

	contentID, err := contentPipe.GenerateAndQueue(c.Request.Context(), task)
	if err != nil {
		logger.WithError(err).Error("Generation failed")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, middleware.H{"content_id": contentID})
}

// PlanContent has the orchestrator plan the upcoming period and
// generates every planned piece.
func PlanContent(c middleware.Context) {
	var req struct {
		DaysAhead    int    `json:"days_ahead"`
		Instructions string `json:"instructions"`
	}
	_ = c.ShouldBindJSON(&req)

	contentIDs, err := contentPipe.PlanAndGenerate(c.Request.Context(), req.DaysAhead, req.Instructions)
	if err != nil {
		logger.WithError(err).Error("Planning failed")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, middleware.H{"content_ids": contentIDs, "count": len(contentIDs)})
}

// CheckCompliance runs the brand check over an arbitrary body.
func CheckCompliance(c middleware.Context) {
	var req struct {
		Body        string `json:"body" binding:"required"`
		ContentType string `json:"content_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}

	check := brand.Check(req.Body, req.ContentType)
	c.JSON(http.StatusOK, check)
}

// GetStats returns content counts by status and platform.
func GetStats(c middleware.Context) {
	stats, err := store.Stats(c.Request.Context())
	if err != nil {
		logger.WithError(err).Error("Failed to load stats")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetLLMUsage reports cumulative token consumption for the current process.
func GetLLMUsage(c middleware.Context) {
	reporter, ok := provider.(interface{ Usage() llm.UsageStats })
	if !ok {
		c.JSON(http.StatusOK, middleware.H{"total_calls": 0, "input_tokens": 0, "output_tokens": 0, "total_tokens": 0})
		return
	}
	usage := reporter.Usage()
	c.JSON(http.StatusOK, middleware.H{
		"total_calls":   usage.TotalCalls,
		"input_tokens":  usage.InputTokens,
		"output_tokens": usage.OutputTokens,
		"total_tokens":  usage.TotalTokens(),
	})
}
