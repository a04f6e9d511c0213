package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rishuramani/RC/internal/brand"
	"github.com/rishuramani/RC/internal/generator"
	"github.com/rishuramani/RC/internal/knowledge"
	"github.com/rishuramani/RC/internal/publish"
	"github.com/rishuramani/RC/pkg/logging"
)

// Generator produces content drafts from tasks.
type Generator interface {
	Generate(ctx context.Context, task generator.Task) (generator.Draft, error)
}

// Planner proposes content tasks for the upcoming period.
type Planner interface {
	PlanContent(ctx context.Context, daysAhead int, instructions string) ([]generator.Task, error)
}

// Publisher posts approved content to its target platform.
type Publisher interface {
	Publish(ctx context.Context, content knowledge.Content) publish.Result
}

// Store is the knowledge base surface the pipeline depends on.
type Store interface {
	AddContent(ctx context.Context, nc knowledge.NewContent) (int64, error)
	GetContent(ctx context.Context, id int64) (knowledge.Content, error)
	ContentByStatus(ctx context.Context, status string) ([]knowledge.Content, error)
	UpdateContentStatus(ctx context.Context, id int64, status string) error
	UpdateContentBody(ctx context.Context, id int64, body, title string) error
	SetPlatformPostID(ctx context.Context, id int64, postID string) error
	UpdateCalendarEntryStatus(ctx context.Context, id int64, status string, contentID *int64) error
}

// PublishResult is the outcome of a publish request. Dry runs carry a
// body preview instead of a platform result.
type PublishResult struct {
	publish.Result
	Status      string `json:"status,omitempty"`
	ContentID   int64  `json:"content_id,omitempty"`
	BodyPreview string `json:"body_preview,omitempty"`
}

// ReviewItem is one entry in the review queue, with a fresh compliance
// check over the stored body.
type ReviewItem struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Platform  string    `json:"platform"`
	Principal string    `json:"principal,omitempty"`
	Status    string    `json:"status"`
	Preview   string    `json:"preview"`
	Compliant bool      `json:"is_compliant"`
	Issues    []string  `json:"issues"`
	CreatedAt time.Time `json:"created_at"`
}

// Metrics are the optional pipeline counters exported to Prometheus.
type Metrics struct {
	Generated          *prometheus.CounterVec
	Published          *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
}

// Pipeline manages the content lifecycle from generation to publishing.
type Pipeline struct {
	generator Generator
	planner   Planner
	store     Store
	logger    logging.Logger
	metrics   *Metrics
}

func New(gen Generator, planner Planner, store Store, logger logging.Logger) *Pipeline {
	return &Pipeline{
		generator: gen,
		planner:   planner,
		store:     store,
		logger:    logger,
	}
}

// WithMetrics attaches Prometheus counters to the pipeline.
func (p *Pipeline) WithMetrics(m Metrics) *Pipeline {
	p.metrics = &m
	return p
}

// GenerateAndQueue generates content for a task and stores it. Compliant
// content enters the review queue directly; content with violations is
// held as a draft. A linked calendar entry is marked generated.
func (p *Pipeline) GenerateAndQueue(ctx context.Context, task generator.Task) (int64, error) {
	start := time.Now()
	draft, err := p.generator.Generate(ctx, task)
	if err != nil {
		return 0, err
	}
	if p.metrics != nil {
		p.metrics.GenerationDuration.WithLabelValues(draft.ContentType).Observe(time.Since(start).Seconds())
	}

	check := brand.Check(draft.Body, draft.ContentType)
	status := knowledge.StatusDraft
	if check.Compliant {
		status = knowledge.StatusQueued
	}

	contentID, err := p.store.AddContent(ctx, knowledge.NewContent{
		ContentType: draft.ContentType,
		Platform:    draft.Platform,
		Principal:   draft.Principal,
		Title:       draft.Title,
		Body:        draft.Body,
		Topic:       draft.Topic,
		Status:      status,
	})
	if err != nil {
		return 0, fmt.Errorf("store generated content: %w", err)
	}

	if p.metrics != nil {
		p.metrics.Generated.WithLabelValues(draft.ContentType, strconv.FormatBool(check.Compliant)).Inc()
	}

	if task.CalendarEntryID != nil {
		if err := p.store.UpdateCalendarEntryStatus(ctx, *task.CalendarEntryID, "generated", &contentID); err != nil {
			return 0, fmt.Errorf("link calendar entry %d: %w", *task.CalendarEntryID, err)
		}
	}

	p.logger.WithFields(logging.Fields{
		"content_id":   contentID,
		"content_type": draft.ContentType,
		"status":       status,
		"compliant":    check.Compliant,
	}).Info("Generated content")

	return contentID, nil
}

// PlanAndGenerate plans the upcoming period and generates every piece.
func (p *Pipeline) PlanAndGenerate(ctx context.Context, daysAhead int, instructions string) ([]int64, error) {
	tasks, err := p.planner.PlanContent(ctx, daysAhead, instructions)
	if err != nil {
		return nil, err
	}

	contentIDs := make([]int64, 0, len(tasks))
	for _, task := range tasks {
		contentID, err := p.GenerateAndQueue(ctx, task)
		if err != nil {
			return contentIDs, err
		}
		contentIDs = append(contentIDs, contentID)
	}
	return contentIDs, nil
}

// Approve marks draft or queued content as approved for publishing.
func (p *Pipeline) Approve(ctx context.Context, contentID int64) error {
	content, err := p.store.GetContent(ctx, contentID)
	if err != nil {
		return fmt.Errorf("load content %d: %w", contentID, err)
	}
	if content.Status != knowledge.StatusDraft && content.Status != knowledge.StatusQueued {
		return fmt.Errorf("cannot approve content with status %q", content.Status)
	}
	return p.store.UpdateContentStatus(ctx, contentID, knowledge.StatusApproved)
}

// Reject marks content as rejected. Any existing content can be
// rejected, including already-approved pieces.
func (p *Pipeline) Reject(ctx context.Context, contentID int64, reason string) error {
	if _, err := p.store.GetContent(ctx, contentID); err != nil {
		return fmt.Errorf("load content %d: %w", contentID, err)
	}
	if reason != "" {
		p.logger.WithField("content_id", contentID).WithField("reason", reason).Info("Rejected content")
	}
	return p.store.UpdateContentStatus(ctx, contentID, knowledge.StatusRejected)
}

// EditAndRequeue replaces the body (and optionally the title) of a
// piece and returns it to the review queue.
func (p *Pipeline) EditAndRequeue(ctx context.Context, contentID int64, newBody, newTitle string) error {
	if _, err := p.store.GetContent(ctx, contentID); err != nil {
		return fmt.Errorf("load content %d: %w", contentID, err)
	}
	if err := p.store.UpdateContentBody(ctx, contentID, newBody, newTitle); err != nil {
		return fmt.Errorf("update content %d: %w", contentID, err)
	}
	return p.store.UpdateContentStatus(ctx, contentID, knowledge.StatusQueued)
}

// Publish posts approved content to its platform. A dry run previews
// what would be posted without touching the platform or the status.
func (p *Pipeline) Publish(ctx context.Context, contentID int64, publisher Publisher, dryRun bool) (PublishResult, error) {
	content, err := p.store.GetContent(ctx, contentID)
	if err != nil {
		return PublishResult{}, fmt.Errorf("load content %d: %w", contentID, err)
	}
	if content.Status != knowledge.StatusApproved {
		return PublishResult{}, fmt.Errorf("cannot publish content with status %q, content must be approved first", content.Status)
	}

	if dryRun {
		return PublishResult{
			Status:      "dry_run",
			ContentID:   contentID,
			Result:      publish.Result{Platform: content.Platform},
			BodyPreview: truncate(content.Body, 200),
		}, nil
	}

	if publisher == nil {
		return PublishResult{}, fmt.Errorf("publisher required for actual publishing")
	}

	result := publisher.Publish(ctx, content)
	if p.metrics != nil {
		status := "failed"
		if result.Success {
			status = "published"
		}
		p.metrics.Published.WithLabelValues(content.Platform, status).Inc()
	}
	if result.Success {
		if err := p.store.UpdateContentStatus(ctx, contentID, knowledge.StatusPublished); err != nil {
			return PublishResult{Result: result, ContentID: contentID}, fmt.Errorf("mark content %d published: %w", contentID, err)
		}
		if result.PostID != "" {
			if err := p.store.SetPlatformPostID(ctx, contentID, result.PostID); err != nil {
				return PublishResult{Result: result, ContentID: contentID}, fmt.Errorf("store platform post id for content %d: %w", contentID, err)
			}
		}
		p.logger.WithFields(logging.Fields{
			"content_id": contentID,
			"platform":   result.Platform,
			"post_id":    result.PostID,
		}).Info("Published content")
	}

	return PublishResult{Result: result, ContentID: contentID}, nil
}

// ReviewQueue lists queued and draft content with a live compliance
// check, so edits made outside the pipeline are re-validated.
func (p *Pipeline) ReviewQueue(ctx context.Context) ([]ReviewItem, error) {
	queued, err := p.store.ContentByStatus(ctx, knowledge.StatusQueued)
	if err != nil {
		return nil, err
	}
	drafts, err := p.store.ContentByStatus(ctx, knowledge.StatusDraft)
	if err != nil {
		return nil, err
	}

	var items []ReviewItem
	for _, content := range append(queued, drafts...) {
		check := brand.Check(content.Body, content.ContentType)
		items = append(items, ReviewItem{
			ID:        content.ID,
			Type:      content.ContentType,
			Platform:  content.Platform,
			Principal: content.Principal,
			Status:    content.Status,
			Preview:   truncate(content.Body, 150),
			Compliant: check.Compliant,
			Issues:    check.Issues,
			CreatedAt: content.CreatedAt,
		})
	}
	return items, nil
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
