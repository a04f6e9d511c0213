package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/rishuramani/RC/internal/generator"
	"github.com/rishuramani/RC/internal/knowledge"
	"github.com/rishuramani/RC/pkg/middleware"
)

// GetTopicSuggestions proposes topics from uncovered market data.
func GetTopicSuggestions(c middleware.Context) {
	suggestions, err := planner.SuggestTopics(c.Request.Context())
	if err != nil {
		logger.WithError(err).Error("Failed to suggest topics")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, middleware.H{"suggestions": suggestions})
}

// CrossPromoteContent returns adaptation tasks for an existing piece.
func CrossPromoteContent(c middleware.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	tasks, err := planner.CrossPromote(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, knowledge.ErrNotFound) {
			c.JSON(http.StatusNotFound, middleware.H{"error": "not found"})
			return
		}
		logger.WithError(err).Error("Cross-promotion failed")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, middleware.H{"tasks": tasks})
}

// GetCalendarReview summarizes pending, upcoming, and overdue entries.
func GetCalendarReview(c middleware.Context) {
	review, err := planner.ReviewCalendar(c.Request.Context())
	if err != nil {
		logger.WithError(err).Error("Failed to review calendar")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, review)
}

// GetCalendarEntries lists every calendar entry.
func GetCalendarEntries(c middleware.Context) {
	entries, err := store.AllCalendarEntries(c.Request.Context())
	if err != nil {
		logger.WithError(err).Error("Failed to load calendar entries")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, middleware.H{"entries": entries})
}

// AddCalendarEntry schedules a new content slot.
func AddCalendarEntry(c middleware.Context) {
	var req struct {
		ContentType   string `json:"content_type" binding:"required"`
		Platform      string `json:"platform"`
		Topic         string `json:"topic"`
		Principal     string `json:"principal"`
		ScheduledDate string `json:"scheduled_date" binding:"required"`
		Notes         string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.ScheduledDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "scheduled_date must be YYYY-MM-DD"})
		return
	}
	platform := req.Platform
	if platform == "" {
		platform = generator.PlatformForKind(req.ContentType)
	}

	id, err := store.AddCalendarEntry(c.Request.Context(), knowledge.NewCalendarEntry{
		ContentType:   req.ContentType,
		Platform:      platform,
		Topic:         req.Topic,
		Principal:     req.Principal,
		ScheduledDate: date,
		Notes:         req.Notes,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to add calendar entry")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, middleware.H{"id": id})
}

// UpdateCalendarEntry changes fields on a scheduled slot. Only fields
// present in the request body are applied.
func UpdateCalendarEntry(c middleware.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		ContentType   *string `json:"content_type"`
		Platform      *string `json:"platform"`
		Topic         *string `json:"topic"`
		Principal     *string `json:"principal"`
		ScheduledDate *string `json:"scheduled_date"`
		Notes         *string `json:"notes"`
		Status        *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}

	if _, err := store.GetCalendarEntry(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "Failed to load calendar entry")
		return
	}

	upd := knowledge.CalendarEntryUpdate{
		ContentType: req.ContentType,
		Platform:    req.Platform,
		Topic:       req.Topic,
		Principal:   req.Principal,
		Notes:       req.Notes,
		Status:      req.Status,
	}
	if req.ScheduledDate != nil {
		date, err := time.Parse("2006-01-02", *req.ScheduledDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, middleware.H{"error": "scheduled_date must be YYYY-MM-DD"})
			return
		}
		upd.ScheduledDate = &date
	}

	if err := store.UpdateCalendarEntry(c.Request.Context(), id, upd); err != nil {
		logger.WithError(err).Error("Failed to update calendar entry")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, middleware.H{"id": id, "updated": true})
}

// GenerateFromCalendarEntry generates content for a scheduled slot and
// links the result back to the entry.
func GenerateFromCalendarEntry(c middleware.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	entry, err := store.GetCalendarEntry(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "Failed to load calendar entry")
		return
	}

	contentID, err := contentPipe.GenerateAndQueue(c.Request.Context(), generator.Task{
		ContentType:     entry.ContentType,
		Platform:        entry.Platform,
		Topic:           entry.Topic,
		Principal:       entry.Principal,
		CalendarEntryID: &entry.ID,
	})
	if err != nil {
		logger.WithError(err).Error("Generation from calendar entry failed")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, middleware.H{"content_id": contentID})
}

// DeleteCalendarEntry removes a calendar entry.
func DeleteCalendarEntry(c middleware.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := store.DeleteCalendarEntry(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "Failed to delete calendar entry")
		return
	}
	c.JSON(http.StatusOK, middleware.H{"deleted": id})
}
