package knowledge

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db), mock
}

func TestAddFirmFact(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO firm_facts`).
		WithArgs("track_record", "units", "143 units across 5 properties", "internal").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := store.AddFirmFact(context.Background(), "track_record", "units", "143 units across 5 properties", "internal")
	if err != nil {
		t.Fatalf("AddFirmFact: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected id 7, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestAddContentDefaultsStatus(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO content \(`).
		WithArgs("linkedin_post", "linkedin", "michael", "", "body text", "houston occupancy", "draft", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := store.AddContent(context.Background(), NewContent{
		ContentType: "linkedin_post",
		Platform:    "linkedin",
		Principal:   "michael",
		Body:        "body text",
		Topic:       "houston occupancy",
	})
	if err != nil {
		t.Fatalf("AddContent: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateContentStatusPublishedStampsTime(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE content SET status = \$2, updated_at = NOW\(\), published_at = NOW\(\)`).
		WithArgs(int64(5), StatusPublished).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.UpdateContentStatus(context.Background(), 5, StatusPublished); err != nil {
		t.Fatalf("UpdateContentStatus: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateContentStatusNonPublished(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE content SET status = \$2, updated_at = NOW\(\) WHERE`).
		WithArgs(int64(5), StatusQueued).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.UpdateContentStatus(context.Background(), 5, StatusQueued); err != nil {
		t.Fatalf("UpdateContentStatus: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetContentNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .* FROM content WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(contentRowColumns()))

	_, err := store.GetContent(context.Background(), 99)
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContentByStatus(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now()
	rows := sqlmock.NewRows(contentRowColumns()).
		AddRow(int64(1), "tweet", "twitter", nil, nil, "tweet body", "supply", StatusQueued, nil, nil, nil, now, nil).
		AddRow(int64(2), "blog", "blog", "company", "Title", "article body", nil, StatusQueued, nil, nil, nil, now, nil)

	mock.ExpectQuery(`SELECT .* FROM content WHERE status = \$1`).
		WithArgs(StatusQueued).
		WillReturnRows(rows)

	items, err := store.ContentByStatus(context.Background(), StatusQueued)
	if err != nil {
		t.Fatalf("ContentByStatus: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ContentType != "tweet" || items[1].Title != "Title" {
		t.Fatalf("unexpected rows: %+v", items)
	}
}

func TestScannedContentExists(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id FROM scanned_content`).
		WithArgs("tw-1", "twitter").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	exists, err := store.ScannedContentExists(context.Background(), "tw-1", "twitter")
	if err != nil {
		t.Fatalf("ScannedContentExists: %v", err)
	}
	if !exists {
		t.Fatal("expected exists")
	}

	mock.ExpectQuery(`SELECT id FROM scanned_content`).
		WithArgs("tw-2", "twitter").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	exists, err = store.ScannedContentExists(context.Background(), "tw-2", "twitter")
	if err != nil {
		t.Fatalf("ScannedContentExists: %v", err)
	}
	if exists {
		t.Fatal("expected not exists")
	}
}

func TestUpdateCalendarEntryStatusLinksContent(t *testing.T) {
	store, mock := newMockStore(t)

	contentID := int64(12)
	mock.ExpectExec(`UPDATE content_calendar SET status = \$2, content_id = \$3`).
		WithArgs(int64(4), "generated", contentID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.UpdateCalendarEntryStatus(context.Background(), 4, "generated", &contentID); err != nil {
		t.Fatalf("UpdateCalendarEntryStatus: %v", err)
	}

	mock.ExpectExec(`UPDATE content_calendar SET status = \$2 WHERE`).
		WithArgs(int64(4), "done").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.UpdateCalendarEntryStatus(context.Background(), 4, "done", nil); err != nil {
		t.Fatalf("UpdateCalendarEntryStatus: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteContentRemovesMetricsFirst(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM content_metrics WHERE content_id = \$1`).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM content WHERE id = \$1`).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := store.DeleteContent(context.Background(), 8); err != nil {
		t.Fatalf("DeleteContent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestStats(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM content`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM content GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow(StatusDraft, 3).
			AddRow(StatusPublished, 7))
	mock.ExpectQuery(`SELECT platform, COUNT\(\*\) FROM content GROUP BY platform`).
		WillReturnRows(sqlmock.NewRows([]string{"platform", "count"}).
			AddRow("twitter", 6).
			AddRow("linkedin", 4))

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 10 {
		t.Fatalf("expected total 10, got %d", stats.Total)
	}
	if stats.ByStatus[StatusPublished] != 7 {
		t.Fatalf("unexpected status counts: %v", stats.ByStatus)
	}
	if stats.ByPlatform["twitter"] != 6 {
		t.Fatalf("unexpected platform counts: %v", stats.ByPlatform)
	}
}

func TestContextForTopicCapsRecentContent(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`FROM firm_facts WHERE key ILIKE`).
		WithArgs("%houston%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "category", "key", "value", "source", "created_at", "updated_at"}).
			AddRow(int64(1), "market", "houston_focus", "workforce housing", nil, now, nil))
	mock.ExpectQuery(`FROM market_data WHERE metric ILIKE`).
		WithArgs("%houston%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "market", "metric", "value", "period", "source", "created_at"}).
			AddRow(int64(1), "houston", "occupancy", "90.4%", "Q4 2025", nil, now))
	mock.ExpectQuery(`FROM brand_rules ORDER BY rule_type`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rule_type", "rule", "example", "created_at"}))

	contentRows := sqlmock.NewRows(contentRowColumns())
	for i := 1; i <= 7; i++ {
		contentRows.AddRow(int64(i), "tweet", "twitter", nil, nil, "body", "houston", StatusPublished, nil, nil, nil, now, nil)
	}
	mock.ExpectQuery(`FROM content WHERE body ILIKE`).
		WithArgs("%houston%").
		WillReturnRows(contentRows)
	mock.ExpectQuery(`FROM inspiration ORDER BY created_at DESC`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "source_type", "scanned_content_id", "url", "body", "author", "notes", "liked_by", "created_at"}))

	tc, err := store.ContextForTopic(context.Background(), "houston")
	if err != nil {
		t.Fatalf("ContextForTopic: %v", err)
	}
	if len(tc.RecentContent) != 5 {
		t.Fatalf("expected recent content capped at 5, got %d", len(tc.RecentContent))
	}
	if len(tc.FirmFacts) != 1 || len(tc.MarketData) != 1 {
		t.Fatalf("unexpected context: %+v", tc)
	}
}

func contentRowColumns() []string {
	return []string{"id", "content_type", "platform", "principal", "title", "body", "topic",
		"status", "scheduled_for", "published_at", "platform_post_id", "created_at", "updated_at"}
}

func TestUpdateCalendarEntryPartial(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE content_calendar SET topic = \$2, status = \$3 WHERE id = \$1`).
		WithArgs(int64(9), "supply pipeline", "planned").
		WillReturnResult(sqlmock.NewResult(0, 1))

	topic := "supply pipeline"
	status := "planned"
	err := store.UpdateCalendarEntry(context.Background(), 9, CalendarEntryUpdate{
		Topic:  &topic,
		Status: &status,
	})
	if err != nil {
		t.Fatalf("UpdateCalendarEntry: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateCalendarEntryNoFields(t *testing.T) {
	store, mock := newMockStore(t)

	if err := store.UpdateCalendarEntry(context.Background(), 9, CalendarEntryUpdate{}); err != nil {
		t.Fatalf("UpdateCalendarEntry: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
