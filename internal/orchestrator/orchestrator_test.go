package orchestrator

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rishuramani/RC/internal/generator"
	"github.com/rishuramani/RC/internal/knowledge"
	"github.com/rishuramani/RC/pkg/llm"
	"github.com/rishuramani/RC/pkg/logging"
)

type fakeProvider struct {
	response string
}

func (f *fakeProvider) Complete(context.Context, llm.Request) (string, error) {
	return f.response, nil
}

type fakeStore struct {
	calendar   []knowledge.CalendarEntry
	pending    []knowledge.CalendarEntry
	recent     []knowledge.Content
	marketData map[string][]knowledge.MarketData
	content    map[int64]knowledge.Content
}

func (f *fakeStore) CalendarEntriesByDateRange(_ context.Context, _, _ time.Time) ([]knowledge.CalendarEntry, error) {
	return f.calendar, nil
}

func (f *fakeStore) PendingCalendarEntries(context.Context) ([]knowledge.CalendarEntry, error) {
	return f.pending, nil
}

func (f *fakeStore) RecentContent(_ context.Context, _ int) ([]knowledge.Content, error) {
	return f.recent, nil
}

func (f *fakeStore) MarketDataByMarket(_ context.Context, market string) ([]knowledge.MarketData, error) {
	return f.marketData[market], nil
}

func (f *fakeStore) GetContent(_ context.Context, id int64) (knowledge.Content, error) {
	c, ok := f.content[id]
	if !ok {
		return knowledge.Content{}, knowledge.ErrNotFound
	}
	return c, nil
}

func newTestOrchestrator(provider *fakeProvider, store *fakeStore) *Orchestrator {
	o := New(provider, store, logging.NewLoggerWithService("orchestrator-test"))
	o.now = func() time.Time {
		return time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)
	}
	return o
}

func TestPlanContentParsesJSONArray(t *testing.T) {
	provider := &fakeProvider{response: `Here is the plan:
[
  {"content_type": "tweet", "platform": "twitter", "topic": "occupancy", "principal": "company", "instructions": "lead with the number"},
  {"topic": "supply pipeline"}
]
Let me know if you want changes.`}
	store := &fakeStore{marketData: map[string][]knowledge.MarketData{}}

	tasks, err := newTestOrchestrator(provider, store).PlanContent(context.Background(), 7, "")
	if err != nil {
		t.Fatalf("PlanContent: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ContentType != generator.KindTweet || tasks[0].Platform != generator.PlatformTwitter {
		t.Fatalf("unexpected first task: %+v", tasks[0])
	}
	if tasks[1].ContentType != generator.KindLinkedInPost || tasks[1].Platform != generator.PlatformLinkedIn {
		t.Fatalf("expected defaults for sparse task, got %+v", tasks[1])
	}
}

func TestPlanContentMalformedResponseYieldsEmptyPlan(t *testing.T) {
	provider := &fakeProvider{response: "I could not produce a plan."}
	store := &fakeStore{marketData: map[string][]knowledge.MarketData{}}

	tasks, err := newTestOrchestrator(provider, store).PlanContent(context.Background(), 7, "")
	if err != nil {
		t.Fatalf("PlanContent: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected empty plan, got %v", tasks)
	}
}

func TestSuggestTopics(t *testing.T) {
	store := &fakeStore{
		marketData: map[string][]knowledge.MarketData{
			"houston": {
				{Market: "houston", Metric: "occupancy", Value: "90.4%", Period: "Q4 2025", Source: "CoStar"},
				{Market: "houston", Metric: "absorption", Value: "26,510 units", Period: "2025"},
			},
		},
		recent: []knowledge.Content{
			{Topic: "occupancy_Q4 2025"},
		},
	}

	suggestions, err := newTestOrchestrator(&fakeProvider{}, store).SuggestTopics(context.Background())
	if err != nil {
		t.Fatalf("SuggestTopics: %v", err)
	}

	// Covered metric skipped, fresh metric suggested, cadence suggestion appended.
	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %v", suggestions)
	}
	if suggestions[0].Topic != "Houston absorption: 26,510 units (2025)" {
		t.Fatalf("unexpected suggestion: %+v", suggestions[0])
	}
	if suggestions[1].Topic != "Weekly market commentary" {
		t.Fatalf("expected cadence suggestion last, got %+v", suggestions[1])
	}
}

func TestCrossPromoteBlog(t *testing.T) {
	store := &fakeStore{
		content: map[int64]knowledge.Content{
			1: {
				ID:          1,
				ContentType: generator.KindBlog,
				Platform:    generator.PlatformBlog,
				Title:       "The Supply Story",
				Body:        "Article body.",
				Topic:       "supply",
				Principal:   "michael",
			},
		},
	}

	tasks, err := newTestOrchestrator(&fakeProvider{}, store).CrossPromote(context.Background(), 1)
	if err != nil {
		t.Fatalf("CrossPromote: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected linkedin + thread tasks, got %v", tasks)
	}
	if tasks[0].ContentType != generator.KindLinkedInPost || tasks[1].ContentType != generator.KindTweetThread {
		t.Fatalf("unexpected task kinds: %+v", tasks)
	}
}

func TestCrossPromoteLinkedInPost(t *testing.T) {
	store := &fakeStore{
		content: map[int64]knowledge.Content{
			2: {
				ID:          2,
				ContentType: generator.KindLinkedInPost,
				Platform:    generator.PlatformLinkedIn,
				Body:        "Post body.",
			},
		},
	}

	tasks, err := newTestOrchestrator(&fakeProvider{}, store).CrossPromote(context.Background(), 2)
	if err != nil {
		t.Fatalf("CrossPromote: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ContentType != generator.KindTweet {
		t.Fatalf("expected single tweet task, got %v", tasks)
	}
	if tasks[0].Topic != "linkedin adaptation" {
		t.Fatalf("expected fallback topic, got %q", tasks[0].Topic)
	}
}

func TestCrossPromoteExcerptKeepsRunesIntact(t *testing.T) {
	// 200 three-byte runes; byte 500 falls mid-rune.
	store := &fakeStore{
		content: map[int64]knowledge.Content{
			3: {
				ID:          3,
				ContentType: generator.KindLinkedInPost,
				Platform:    generator.PlatformLinkedIn,
				Body:        strings.Repeat("市", 200),
			},
		},
	}

	tasks, err := newTestOrchestrator(&fakeProvider{}, store).CrossPromote(context.Background(), 3)
	if err != nil {
		t.Fatalf("CrossPromote: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected single tweet task, got %v", tasks)
	}
	if !utf8.ValidString(tasks[0].Instructions) {
		t.Fatalf("excerpt split a rune: %q", tasks[0].Instructions)
	}
}

func TestCrossPromoteUnknownContent(t *testing.T) {
	store := &fakeStore{content: map[int64]knowledge.Content{}}
	if _, err := newTestOrchestrator(&fakeProvider{}, store).CrossPromote(context.Background(), 99); err == nil {
		t.Fatal("expected error for missing content")
	}
}

func TestReviewCalendar(t *testing.T) {
	today := time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{
		pending: []knowledge.CalendarEntry{
			{ID: 1, ScheduledDate: today.AddDate(0, 0, -2), Status: "planned"},
			{ID: 2, ScheduledDate: today.AddDate(0, 0, 3), Status: "planned"},
		},
		calendar: []knowledge.CalendarEntry{
			{ID: 2, ContentType: "tweet", Platform: "twitter", ScheduledDate: today.AddDate(0, 0, 3), Status: "planned"},
		},
	}

	review, err := newTestOrchestrator(&fakeProvider{}, store).ReviewCalendar(context.Background())
	if err != nil {
		t.Fatalf("ReviewCalendar: %v", err)
	}
	if review.TotalPending != 2 || review.Upcoming7d != 1 || review.Overdue != 1 {
		t.Fatalf("unexpected review: %+v", review)
	}
	if len(review.Entries) != 1 || review.Entries[0].Date != "2026-02-20" {
		t.Fatalf("unexpected entries: %+v", review.Entries)
	}
}
