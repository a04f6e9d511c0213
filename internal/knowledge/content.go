package knowledge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const contentColumns = `id, content_type, platform, principal, title, body, topic, status,
	scheduled_for, published_at, platform_post_id, created_at, updated_at`

// NewContent holds the fields for inserting a content row.
type NewContent struct {
	ContentType  string
	Platform     string
	Principal    string
	Title        string
	Body         string
	Topic        string
	Status       string
	ScheduledFor *time.Time
}

func (s *Store) AddContent(ctx context.Context, nc NewContent) (int64, error) {
	status := nc.Status
	if status == "" {
		status = StatusDraft
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO content (content_type, platform, principal, title, body, topic, status, scheduled_for)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''), $7, $8)
		RETURNING id
	`, nc.ContentType, nc.Platform, nc.Principal, nc.Title, nc.Body, nc.Topic, status, nc.ScheduledFor).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert content: %w", err)
	}
	return id, nil
}

func (s *Store) GetContent(ctx context.Context, id int64) (Content, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM content WHERE id = $1`, id)
	content, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Content{}, ErrNotFound
	}
	return content, err
}

func (s *Store) ContentByStatus(ctx context.Context, status string) ([]Content, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contentColumns+` FROM content WHERE status = $1 ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("list content by status: %w", err)
	}
	return collectContent(rows)
}

func (s *Store) ContentByPlatform(ctx context.Context, platform string, limit int) ([]Content, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contentColumns+` FROM content WHERE platform = $1 ORDER BY created_at DESC LIMIT $2`,
		platform, limit)
	if err != nil {
		return nil, fmt.Errorf("list content by platform: %w", err)
	}
	return collectContent(rows)
}

func (s *Store) RecentContent(ctx context.Context, limit int) ([]Content, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contentColumns+` FROM content ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent content: %w", err)
	}
	return collectContent(rows)
}

func (s *Store) SearchContent(ctx context.Context, query string) ([]Content, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contentColumns+` FROM content WHERE body ILIKE $1 OR title ILIKE $1 OR topic ILIKE $1`,
		pattern)
	if err != nil {
		return nil, fmt.Errorf("search content: %w", err)
	}
	return collectContent(rows)
}

// UpdateContentStatus transitions a content row to the given status.
// Publishing also stamps published_at.
func (s *Store) UpdateContentStatus(ctx context.Context, id int64, status string) error {
	var err error
	if status == StatusPublished {
		_, err = s.db.ExecContext(ctx,
			`UPDATE content SET status = $2, updated_at = NOW(), published_at = NOW() WHERE id = $1`,
			id, status)
	} else {
		_, err = s.db.ExecContext(ctx,
			`UPDATE content SET status = $2, updated_at = NOW() WHERE id = $1`,
			id, status)
	}
	if err != nil {
		return fmt.Errorf("update content status: %w", err)
	}
	return nil
}

// UpdateContentBody replaces the body and optionally the title.
func (s *Store) UpdateContentBody(ctx context.Context, id int64, body, title string) error {
	var err error
	if title != "" {
		_, err = s.db.ExecContext(ctx,
			`UPDATE content SET body = $2, title = $3, updated_at = NOW() WHERE id = $1`,
			id, body, title)
	} else {
		_, err = s.db.ExecContext(ctx,
			`UPDATE content SET body = $2, updated_at = NOW() WHERE id = $1`,
			id, body)
	}
	if err != nil {
		return fmt.Errorf("update content body: %w", err)
	}
	return nil
}

func (s *Store) SetPlatformPostID(ctx context.Context, id int64, postID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE content SET platform_post_id = $2 WHERE id = $1`, id, postID)
	if err != nil {
		return fmt.Errorf("set platform post id: %w", err)
	}
	return nil
}

func (s *Store) DeleteContent(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM content_metrics WHERE content_id = $1`, id); err != nil {
		return fmt.Errorf("delete content metrics: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM content WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

func (s *Store) AddContentMetrics(ctx context.Context, m ContentMetrics) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO content_metrics (content_id, impressions, likes, comments, shares, clicks)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, m.ContentID, m.Impressions, m.Likes, m.Comments, m.Shares, m.Clicks).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert content metrics: %w", err)
	}
	return id, nil
}

func (s *Store) ContentMetricsHistory(ctx context.Context, contentID int64) ([]ContentMetrics, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content_id, impressions, likes, comments, shares, clicks, fetched_at
		FROM content_metrics WHERE content_id = $1 ORDER BY id DESC
	`, contentID)
	if err != nil {
		return nil, fmt.Errorf("list content metrics: %w", err)
	}
	defer rows.Close()

	var metrics []ContentMetrics
	for rows.Next() {
		var m ContentMetrics
		if err := rows.Scan(&m.ID, &m.ContentID, &m.Impressions, &m.Likes, &m.Comments, &m.Shares, &m.Clicks, &m.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan content metrics: %w", err)
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content metrics: %w", err)
	}
	return metrics, nil
}

func (s *Store) LatestContentMetrics(ctx context.Context, contentID int64) (ContentMetrics, error) {
	var m ContentMetrics
	err := s.db.QueryRowContext(ctx, `
		SELECT id, content_id, impressions, likes, comments, shares, clicks, fetched_at
		FROM content_metrics WHERE content_id = $1 ORDER BY id DESC LIMIT 1
	`, contentID).Scan(&m.ID, &m.ContentID, &m.Impressions, &m.Likes, &m.Comments, &m.Shares, &m.Clicks, &m.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ContentMetrics{}, ErrNotFound
	}
	if err != nil {
		return ContentMetrics{}, fmt.Errorf("get latest content metrics: %w", err)
	}
	return m, nil
}

const calendarColumns = `id, content_type, platform, topic, principal, scheduled_date, status, content_id, notes, created_at`

// NewCalendarEntry holds the fields for inserting a calendar row.
type NewCalendarEntry struct {
	ContentType   string
	Platform      string
	Topic         string
	Principal     string
	ScheduledDate time.Time
	Notes         string
}

func (s *Store) AddCalendarEntry(ctx context.Context, ne NewCalendarEntry) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO content_calendar (content_type, platform, topic, principal, scheduled_date, notes)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''))
		RETURNING id
	`, ne.ContentType, ne.Platform, ne.Topic, ne.Principal, ne.ScheduledDate, ne.Notes).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert calendar entry: %w", err)
	}
	return id, nil
}

func (s *Store) GetCalendarEntry(ctx context.Context, id int64) (CalendarEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+calendarColumns+` FROM content_calendar WHERE id = $1`, id)
	entry, err := scanCalendarEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return CalendarEntry{}, ErrNotFound
	}
	return entry, err
}

func (s *Store) CalendarEntriesByDateRange(ctx context.Context, start, end time.Time) ([]CalendarEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+calendarColumns+` FROM content_calendar
		WHERE scheduled_date BETWEEN $1 AND $2 ORDER BY scheduled_date`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("list calendar entries: %w", err)
	}
	return collectCalendarEntries(rows)
}

func (s *Store) PendingCalendarEntries(ctx context.Context) ([]CalendarEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+calendarColumns+` FROM content_calendar
		WHERE status = 'planned' ORDER BY scheduled_date`)
	if err != nil {
		return nil, fmt.Errorf("list pending calendar entries: %w", err)
	}
	return collectCalendarEntries(rows)
}

func (s *Store) AllCalendarEntries(ctx context.Context) ([]CalendarEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+calendarColumns+` FROM content_calendar ORDER BY scheduled_date`)
	if err != nil {
		return nil, fmt.Errorf("list calendar entries: %w", err)
	}
	return collectCalendarEntries(rows)
}

// UpdateCalendarEntryStatus transitions an entry and optionally links the
// generated content row.
func (s *Store) UpdateCalendarEntryStatus(ctx context.Context, id int64, status string, contentID *int64) error {
	var err error
	if contentID != nil {
		_, err = s.db.ExecContext(ctx,
			`UPDATE content_calendar SET status = $2, content_id = $3 WHERE id = $1`,
			id, status, *contentID)
	} else {
		_, err = s.db.ExecContext(ctx,
			`UPDATE content_calendar SET status = $2 WHERE id = $1`,
			id, status)
	}
	if err != nil {
		return fmt.Errorf("update calendar entry status: %w", err)
	}
	return nil
}

// CalendarEntryUpdate carries optional field changes; nil fields are
// left untouched.
type CalendarEntryUpdate struct {
	ContentType   *string
	Platform      *string
	Topic         *string
	Principal     *string
	ScheduledDate *time.Time
	Notes         *string
	Status        *string
}

func (s *Store) UpdateCalendarEntry(ctx context.Context, id int64, upd CalendarEntryUpdate) error {
	sets := []string{}
	args := []any{id}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.ContentType != nil {
		add("content_type", *upd.ContentType)
	}
	if upd.Platform != nil {
		add("platform", *upd.Platform)
	}
	if upd.Topic != nil {
		add("topic", *upd.Topic)
	}
	if upd.Principal != nil {
		add("principal", *upd.Principal)
	}
	if upd.ScheduledDate != nil {
		add("scheduled_date", *upd.ScheduledDate)
	}
	if upd.Notes != nil {
		add("notes", *upd.Notes)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if len(sets) == 0 {
		return nil
	}
	query := `UPDATE content_calendar SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update calendar entry: %w", err)
	}
	return nil
}

func (s *Store) DeleteCalendarEntry(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM content_calendar WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete calendar entry: %w", err)
	}
	return nil
}

func scanContent(r rowScanner) (Content, error) {
	var c Content
	var principal, title, topic, postID sql.NullString
	var scheduledFor, publishedAt, updatedAt sql.NullTime
	if err := r.Scan(
		&c.ID,
		&c.ContentType,
		&c.Platform,
		&principal,
		&title,
		&c.Body,
		&topic,
		&c.Status,
		&scheduledFor,
		&publishedAt,
		&postID,
		&c.CreatedAt,
		&updatedAt,
	); err != nil {
		return Content{}, err
	}
	c.Principal = principal.String
	c.Title = title.String
	c.Topic = topic.String
	c.PlatformPostID = postID.String
	if scheduledFor.Valid {
		c.ScheduledFor = &scheduledFor.Time
	}
	if publishedAt.Valid {
		c.PublishedAt = &publishedAt.Time
	}
	if updatedAt.Valid {
		c.UpdatedAt = &updatedAt.Time
	}
	return c, nil
}

func collectContent(rows *sql.Rows) ([]Content, error) {
	defer rows.Close()
	var items []Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content: %w", err)
	}
	return items, nil
}

func scanCalendarEntry(r rowScanner) (CalendarEntry, error) {
	var e CalendarEntry
	var topic, principal, notes sql.NullString
	var contentID sql.NullInt64
	if err := r.Scan(
		&e.ID,
		&e.ContentType,
		&e.Platform,
		&topic,
		&principal,
		&e.ScheduledDate,
		&e.Status,
		&contentID,
		&notes,
		&e.CreatedAt,
	); err != nil {
		return CalendarEntry{}, err
	}
	e.Topic = topic.String
	e.Principal = principal.String
	e.Notes = notes.String
	if contentID.Valid {
		e.ContentID = &contentID.Int64
	}
	return e, nil
}

func collectCalendarEntries(rows *sql.Rows) ([]CalendarEntry, error) {
	defer rows.Close()
	var entries []CalendarEntry
	for rows.Next() {
		e, err := scanCalendarEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calendar entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calendar entries: %w", err)
	}
	return entries, nil
}
