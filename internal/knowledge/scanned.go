package knowledge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const scannedColumns = `id, platform, external_id, author, author_url, body, url,
	engagement_score, topic_tags, scanned_at, digest_id`

func (s *Store) AddScannedContent(ctx context.Context, sc ScannedContent) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO scanned_content (platform, external_id, author, author_url, body, url,
			engagement_score, topic_tags, digest_id)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''), $7, NULLIF($8, ''), $9)
		RETURNING id
	`, sc.Platform, sc.ExternalID, sc.Author, sc.AuthorURL, sc.Body, sc.URL,
		sc.EngagementScore, sc.TopicTags, sc.DigestID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert scanned content: %w", err)
	}
	return id, nil
}

func (s *Store) GetScannedContent(ctx context.Context, id int64) (ScannedContent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+scannedColumns+` FROM scanned_content WHERE id = $1`, id)
	sc, err := scanScannedContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ScannedContent{}, ErrNotFound
	}
	return sc, err
}

func (s *Store) ScannedContentByDigest(ctx context.Context, digestID int64) ([]ScannedContent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+scannedColumns+` FROM scanned_content
		WHERE digest_id = $1 ORDER BY engagement_score DESC`, digestID)
	if err != nil {
		return nil, fmt.Errorf("list scanned content: %w", err)
	}
	return collectScannedContent(rows)
}

func (s *Store) SearchScannedContent(ctx context.Context, query string) ([]ScannedContent, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+scannedColumns+` FROM scanned_content
		WHERE body ILIKE $1 OR author ILIKE $1 OR topic_tags ILIKE $1
		ORDER BY scanned_at DESC`, pattern)
	if err != nil {
		return nil, fmt.Errorf("search scanned content: %w", err)
	}
	return collectScannedContent(rows)
}

// ScannedContentExists reports whether a post with the given external id
// was already captured for a platform.
func (s *Store) ScannedContentExists(ctx context.Context, externalID, platform string) (bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM scanned_content WHERE external_id = $1 AND platform = $2`,
		externalID, platform).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check scanned content: %w", err)
	}
	return true, nil
}

func (s *Store) AddDigest(ctx context.Context, title, summary, scanType string) (int64, error) {
	if scanType == "" {
		scanType = "scheduled"
	}
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO digests (title, summary, scan_type)
		VALUES (NULLIF($1, ''), NULLIF($2, ''), $3)
		RETURNING id
	`, title, summary, scanType).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert digest: %w", err)
	}
	return id, nil
}

func (s *Store) GetDigest(ctx context.Context, id int64) (Digest, error) {
	var d Digest
	var title, summary sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, summary, scan_type, created_at FROM digests WHERE id = $1
	`, id).Scan(&d.ID, &title, &summary, &d.ScanType, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Digest{}, ErrNotFound
	}
	if err != nil {
		return Digest{}, fmt.Errorf("get digest: %w", err)
	}
	d.Title = title.String
	d.Summary = summary.String
	return d, nil
}

func (s *Store) RecentDigests(ctx context.Context, limit int) ([]Digest, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, summary, scan_type, created_at
		FROM digests ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list digests: %w", err)
	}
	defer rows.Close()

	var digests []Digest
	for rows.Next() {
		var d Digest
		var title, summary sql.NullString
		if err := rows.Scan(&d.ID, &title, &summary, &d.ScanType, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan digest: %w", err)
		}
		d.Title = title.String
		d.Summary = summary.String
		digests = append(digests, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate digests: %w", err)
	}
	return digests, nil
}

func (s *Store) UpdateDigest(ctx context.Context, id int64, title, summary string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE digests SET title = $2, summary = $3 WHERE id = $1`,
		id, title, summary)
	if err != nil {
		return fmt.Errorf("update digest: %w", err)
	}
	return nil
}

const inspirationColumns = `id, source_type, scanned_content_id, url, body, author, notes, liked_by, created_at`

func (s *Store) AddInspiration(ctx context.Context, insp Inspiration) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO inspiration (source_type, scanned_content_id, url, body, author, notes, liked_by)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''))
		RETURNING id
	`, insp.SourceType, insp.ScannedContentID, insp.URL, insp.Body, insp.Author, insp.Notes, insp.LikedBy).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert inspiration: %w", err)
	}
	return id, nil
}

func (s *Store) GetInspiration(ctx context.Context, id int64) (Inspiration, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+inspirationColumns+` FROM inspiration WHERE id = $1`, id)
	insp, err := scanInspiration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Inspiration{}, ErrNotFound
	}
	return insp, err
}

func (s *Store) RecentInspiration(ctx context.Context, limit int) ([]Inspiration, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+inspirationColumns+` FROM inspiration ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list inspiration: %w", err)
	}
	return collectInspiration(rows)
}

func (s *Store) InspirationByUser(ctx context.Context, likedBy string) ([]Inspiration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+inspirationColumns+` FROM inspiration WHERE liked_by = $1 ORDER BY created_at DESC`,
		likedBy)
	if err != nil {
		return nil, fmt.Errorf("list inspiration: %w", err)
	}
	return collectInspiration(rows)
}

func (s *Store) DeleteInspiration(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM inspiration WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete inspiration: %w", err)
	}
	return nil
}

func (s *Store) AddMonitoredAccount(ctx context.Context, platform, handle, name, category string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO monitored_accounts (platform, handle, name, category)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		RETURNING id
	`, platform, handle, name, category).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert monitored account: %w", err)
	}
	return id, nil
}

// ActiveMonitoredAccounts lists active accounts, optionally filtered by
// platform.
func (s *Store) ActiveMonitoredAccounts(ctx context.Context, platform string) ([]MonitoredAccount, error) {
	var rows *sql.Rows
	var err error
	if platform != "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, platform, handle, name, category, active, created_at
			FROM monitored_accounts WHERE platform = $1 AND active ORDER BY handle
		`, platform)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, platform, handle, name, category, active, created_at
			FROM monitored_accounts WHERE active ORDER BY handle
		`)
	}
	if err != nil {
		return nil, fmt.Errorf("list monitored accounts: %w", err)
	}
	return collectMonitoredAccounts(rows)
}

func (s *Store) AllMonitoredAccounts(ctx context.Context) ([]MonitoredAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, platform, handle, name, category, active, created_at
		FROM monitored_accounts ORDER BY handle
	`)
	if err != nil {
		return nil, fmt.Errorf("list monitored accounts: %w", err)
	}
	return collectMonitoredAccounts(rows)
}

func (s *Store) ToggleMonitoredAccount(ctx context.Context, id int64, active bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE monitored_accounts SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("toggle monitored account: %w", err)
	}
	return nil
}

func (s *Store) DeleteMonitoredAccount(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM monitored_accounts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete monitored account: %w", err)
	}
	return nil
}

func scanScannedContent(r rowScanner) (ScannedContent, error) {
	var sc ScannedContent
	var externalID, author, authorURL, url, tags sql.NullString
	var digestID sql.NullInt64
	if err := r.Scan(
		&sc.ID,
		&sc.Platform,
		&externalID,
		&author,
		&authorURL,
		&sc.Body,
		&url,
		&sc.EngagementScore,
		&tags,
		&sc.ScannedAt,
		&digestID,
	); err != nil {
		return ScannedContent{}, err
	}
	sc.ExternalID = externalID.String
	sc.Author = author.String
	sc.AuthorURL = authorURL.String
	sc.URL = url.String
	sc.TopicTags = tags.String
	if digestID.Valid {
		sc.DigestID = &digestID.Int64
	}
	return sc, nil
}

func collectScannedContent(rows *sql.Rows) ([]ScannedContent, error) {
	defer rows.Close()
	var items []ScannedContent
	for rows.Next() {
		sc, err := scanScannedContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scanned content: %w", err)
		}
		items = append(items, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scanned content: %w", err)
	}
	return items, nil
}

func scanInspiration(r rowScanner) (Inspiration, error) {
	var insp Inspiration
	var scannedContentID sql.NullInt64
	var url, body, author, notes, likedBy sql.NullString
	if err := r.Scan(
		&insp.ID,
		&insp.SourceType,
		&scannedContentID,
		&url,
		&body,
		&author,
		&notes,
		&likedBy,
		&insp.CreatedAt,
	); err != nil {
		return Inspiration{}, err
	}
	if scannedContentID.Valid {
		insp.ScannedContentID = &scannedContentID.Int64
	}
	insp.URL = url.String
	insp.Body = body.String
	insp.Author = author.String
	insp.Notes = notes.String
	insp.LikedBy = likedBy.String
	return insp, nil
}

func collectInspiration(rows *sql.Rows) ([]Inspiration, error) {
	defer rows.Close()
	var items []Inspiration
	for rows.Next() {
		insp, err := scanInspiration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inspiration: %w", err)
		}
		items = append(items, insp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inspiration: %w", err)
	}
	return items, nil
}

func collectMonitoredAccounts(rows *sql.Rows) ([]MonitoredAccount, error) {
	defer rows.Close()
	var accounts []MonitoredAccount
	for rows.Next() {
		var a MonitoredAccount
		var name, category sql.NullString
		if err := rows.Scan(&a.ID, &a.Platform, &a.Handle, &name, &category, &a.Active, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan monitored account: %w", err)
		}
		a.Name = name.String
		a.Category = category.String
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monitored accounts: %w", err)
	}
	return accounts, nil
}
