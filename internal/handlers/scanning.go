package handlers

import (
	"net/http"
	"strings"

	"github.com/rishuramani/RC/internal/knowledge"
	"github.com/rishuramani/RC/pkg/middleware"
)

// TriggerScan runs a manual scan and returns the resulting digest.
// Pass twitter_only to skip the LinkedIn scan.
func TriggerScan(c middleware.Context) {
	var req struct {
		TwitterOnly bool `json:"twitter_only"`
	}
	_ = c.ShouldBindJSON(&req)

	digest, err := contentScan.Scan(c.Request.Context(), "manual", req.TwitterOnly)
	if err != nil {
		logger.WithError(err).Error("Scan failed")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, digest)
}

// GetDigests lists recent digests.
func GetDigests(c middleware.Context) {
	digests, err := store.RecentDigests(c.Request.Context(), 20)
	if err != nil {
		logger.WithError(err).Error("Failed to load digests")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, middleware.H{"digests": digests})
}

// GetDigest returns a digest with its scanned items, ranked by engagement.
func GetDigest(c middleware.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	digest, err := store.GetDigest(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "Failed to load digest")
		return
	}
	items, err := store.ScannedContentByDigest(c.Request.Context(), id)
	if err != nil {
		logger.WithError(err).Error("Failed to load digest items")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, middleware.H{"digest": digest, "items": items})
}

// LikeScannedContent saves a scanned post to the inspiration library.
func LikeScannedContent(c middleware.Context) {
	if _, ok := paramID(c, "id"); !ok {
		return
	}
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}

	var req struct {
		Notes   string `json:"notes"`
		LikedBy string `json:"liked_by"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.LikedBy == "" {
		req.LikedBy = "user"
	}

	scanned, err := store.GetScannedContent(c.Request.Context(), itemID)
	if err != nil {
		respondStoreError(c, err, "Failed to load scanned content")
		return
	}

	id, err := store.AddInspiration(c.Request.Context(), knowledge.Inspiration{
		SourceType:       "digest_like",
		ScannedContentID: &scanned.ID,
		URL:              scanned.URL,
		Body:             scanned.Body,
		Author:           scanned.Author,
		Notes:            req.Notes,
		LikedBy:          req.LikedBy,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to save inspiration")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, middleware.H{"id": id})
}

// GetInspiration lists recent inspiration, grouped by source.
func GetInspiration(c middleware.Context) {
	items, err := store.RecentInspiration(c.Request.Context(), 50)
	if err != nil {
		logger.WithError(err).Error("Failed to load inspiration")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}

	var digestLikes, pastedURLs []knowledge.Inspiration
	for _, item := range items {
		switch item.SourceType {
		case "digest_like":
			digestLikes = append(digestLikes, item)
		case "pasted_url":
			pastedURLs = append(pastedURLs, item)
		}
	}
	c.JSON(http.StatusOK, middleware.H{
		"digest_likes": digestLikes,
		"pasted_urls":  pastedURLs,
	})
}

// AddInspiration saves a pasted URL with a fetched preview of the page.
func AddInspiration(c middleware.Context) {
	var req struct {
		URL     string `json:"url" binding:"required"`
		Notes   string `json:"notes"`
		LikedBy string `json:"liked_by"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}
	if req.LikedBy == "" {
		req.LikedBy = "user"
	}

	body := urlFetcher.Preview(c.Request.Context(), req.URL)

	id, err := store.AddInspiration(c.Request.Context(), knowledge.Inspiration{
		SourceType: "pasted_url",
		URL:        req.URL,
		Body:       body,
		Notes:      req.Notes,
		LikedBy:    req.LikedBy,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to save inspiration")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, middleware.H{"id": id})
}

// GetMonitoredAccounts lists every monitored account.
func GetMonitoredAccounts(c middleware.Context) {
	accounts, err := store.AllMonitoredAccounts(c.Request.Context())
	if err != nil {
		logger.WithError(err).Error("Failed to load accounts")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, middleware.H{"accounts": accounts})
}

// AddMonitoredAccount registers an account for scanning.
func AddMonitoredAccount(c middleware.Context) {
	var req struct {
		Platform string `json:"platform" binding:"required"`
		Handle   string `json:"handle" binding:"required"`
		Name     string `json:"name"`
		Category string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}

	handle := strings.TrimSpace(req.Handle)
	if req.Platform == "twitter" {
		handle = strings.TrimPrefix(handle, "@")
	}

	id, err := store.AddMonitoredAccount(c.Request.Context(), req.Platform, handle, req.Name, req.Category)
	if err != nil {
		logger.WithError(err).Error("Failed to add account")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, middleware.H{"id": id})
}

// ToggleMonitoredAccount enables or disables an account.
func ToggleMonitoredAccount(c middleware.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}

	if err := store.ToggleMonitoredAccount(c.Request.Context(), id, req.Active); err != nil {
		respondStoreError(c, err, "Failed to toggle account")
		return
	}
	c.JSON(http.StatusOK, middleware.H{"id": id, "active": req.Active})
}

// DeleteMonitoredAccount removes an account.
func DeleteMonitoredAccount(c middleware.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := store.DeleteMonitoredAccount(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "Failed to delete account")
		return
	}
	c.JSON(http.StatusOK, middleware.H{"deleted": id})
}
