package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rishuramani/RC/internal/brand"
	"github.com/rishuramani/RC/internal/generator"
	"github.com/rishuramani/RC/internal/knowledge"
	"github.com/rishuramani/RC/pkg/llm"
	"github.com/rishuramani/RC/pkg/logging"
)

const planningPrompt = brand.Voice + `
## YOUR ROLE: Senior Marketing Strategist

You are the senior marketing strategist for RC Investment Properties. Your job is to:
1. Plan content calendars aligned with market events and firm activity
2. Decide what content to create, when, and for which platform
3. Ensure content variety — mix data commentary, thought leadership, operational insights, and market analysis
4. Avoid repetition — check what's been posted recently before suggesting topics
5. Think about cross-platform synergy — a blog post should spawn LinkedIn and Twitter promotions

When suggesting topics, always ground them in real data from the knowledge base. Prefer timely, market-driven content over generic thought leadership.

Output your plans as structured JSON with fields: content_type, platform, topic, principal, instructions.
`

// Store is the knowledge base surface the orchestrator depends on.
type Store interface {
	CalendarEntriesByDateRange(ctx context.Context, start, end time.Time) ([]knowledge.CalendarEntry, error)
	PendingCalendarEntries(ctx context.Context) ([]knowledge.CalendarEntry, error)
	RecentContent(ctx context.Context, limit int) ([]knowledge.Content, error)
	MarketDataByMarket(ctx context.Context, market string) ([]knowledge.MarketData, error)
	GetContent(ctx context.Context, id int64) (knowledge.Content, error)
}

// TopicSuggestion is a proposed content topic with its rationale.
type TopicSuggestion struct {
	Topic     string   `json:"topic"`
	Reason    string   `json:"reason"`
	Platforms []string `json:"platforms"`
}

// CalendarReview summarizes the state of the content calendar.
type CalendarReview struct {
	TotalPending int                   `json:"total_pending"`
	Upcoming7d   int                   `json:"upcoming_7_days"`
	Overdue      int                   `json:"overdue"`
	Entries      []CalendarReviewEntry `json:"entries"`
}

// CalendarReviewEntry is one upcoming slot in a calendar review.
type CalendarReviewEntry struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Platform string `json:"platform"`
	Topic    string `json:"topic,omitempty"`
	Date     string `json:"date"`
	Status   string `json:"status"`
}

// Orchestrator plans content and fans tasks out across platforms.
type Orchestrator struct {
	provider llm.Provider
	store    Store
	logger   logging.Logger
	now      func() time.Time
}

func New(provider llm.Provider, store Store, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// PlanContent asks the LLM to plan upcoming content from the calendar,
// recent output, and the latest market data.
func (o *Orchestrator) PlanContent(ctx context.Context, daysAhead int, instructions string) ([]generator.Task, error) {
	if daysAhead <= 0 {
		daysAhead = 7
	}

	calendarStatus, err := o.calendarStatus(ctx, daysAhead)
	if err != nil {
		return nil, err
	}
	recentContent, err := o.recentContentSummary(ctx)
	if err != nil {
		return nil, err
	}
	marketData, err := o.marketDataSummary(ctx)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("Plan the upcoming content for RC Investment Properties.\n\n")
	b.WriteString("## CURRENT CALENDAR STATUS\n")
	b.WriteString(calendarStatus)
	b.WriteString("\n\n## RECENTLY PUBLISHED CONTENT\n")
	b.WriteString(recentContent)
	b.WriteString("\n\n## LATEST MARKET DATA\n")
	b.WriteString(marketData)
	if instructions != "" {
		fmt.Fprintf(&b, "\n\nAdditional instructions: %s", instructions)
	}
	b.WriteString(`

Suggest 3-5 content pieces to create. For each, provide:
- content_type (linkedin_post, tweet, tweet_thread, blog, market_report)
- platform (linkedin, twitter, blog, report)
- topic (specific, data-driven topic)
- principal (michael, bradley, or company)
- instructions (specific guidance for the content creator)

Return as a JSON array.`)

	response, err := o.provider.Complete(ctx, llm.Request{
		System: planningPrompt,
		Prompt: b.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("plan content: %w", err)
	}

	tasks := parsePlan(response)
	o.logger.WithField("task_count", len(tasks)).Info("Planned content tasks")
	return tasks, nil
}

// SuggestTopics proposes topics from fresh market data that recent
// content has not covered yet.
func (o *Orchestrator) SuggestTopics(ctx context.Context) ([]TopicSuggestion, error) {
	marketData, err := o.store.MarketDataByMarket(ctx, "houston")
	if err != nil {
		return nil, err
	}
	recent, err := o.store.RecentContent(ctx, 10)
	if err != nil {
		return nil, err
	}

	recentTopics := make(map[string]bool)
	for _, c := range recent {
		if c.Topic != "" {
			recentTopics[c.Topic] = true
		}
	}

	var suggestions []TopicSuggestion
	if len(marketData) > 10 {
		marketData = marketData[:10]
	}
	for _, data := range marketData {
		topicKey := fmt.Sprintf("%s_%s", data.Metric, data.Period)
		if recentTopics[topicKey] {
			continue
		}
		source := data.Source
		if source == "" {
			source = "knowledge base"
		}
		suggestions = append(suggestions, TopicSuggestion{
			Topic:     fmt.Sprintf("%s %s: %s (%s)", titleCase(data.Market), data.Metric, data.Value, data.Period),
			Reason:    fmt.Sprintf("Fresh data from %s not yet covered", source),
			Platforms: []string{"linkedin", "twitter"},
		})
	}

	suggestions = append(suggestions, TopicSuggestion{
		Topic:     "Weekly market commentary",
		Reason:    "Maintain consistent posting cadence",
		Platforms: []string{"linkedin", "twitter"},
	})

	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}
	return suggestions, nil
}

// CrossPromote creates tasks that adapt existing content to the other
// platforms: blogs spawn LinkedIn posts and tweet threads, LinkedIn posts
// spawn tweets.
func (o *Orchestrator) CrossPromote(ctx context.Context, contentID int64) ([]generator.Task, error) {
	content, err := o.store.GetContent(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("load content %d: %w", contentID, err)
	}

	excerpt := truncate(content.Body, 500)

	var tasks []generator.Task
	switch content.ContentType {
	case generator.KindBlog:
		topic := content.Topic
		if topic == "" {
			topic = "blog promotion"
		}
		if content.Platform != generator.PlatformLinkedIn {
			tasks = append(tasks, generator.Task{
				ContentType: generator.KindLinkedInPost,
				Platform:    generator.PlatformLinkedIn,
				Topic:       topic,
				Principal:   content.Principal,
				Instructions: fmt.Sprintf("Promote this blog article: %s. Key points from the article:\n%s",
					content.Title, excerpt),
			})
		}
		if content.Platform != generator.PlatformTwitter {
			tasks = append(tasks, generator.Task{
				ContentType: generator.KindTweetThread,
				Platform:    generator.PlatformTwitter,
				Topic:       topic,
				Principal:   content.Principal,
				Instructions: fmt.Sprintf("Create a thread summarizing this article: %s.\n%s",
					content.Title, excerpt),
			})
		}
	case generator.KindLinkedInPost:
		if content.Platform != generator.PlatformTwitter {
			topic := content.Topic
			if topic == "" {
				topic = "linkedin adaptation"
			}
			tasks = append(tasks, generator.Task{
				ContentType:  generator.KindTweet,
				Platform:     generator.PlatformTwitter,
				Topic:        topic,
				Principal:    content.Principal,
				Instructions: fmt.Sprintf("Condense this LinkedIn post into a tweet:\n%s", excerpt),
			})
		}
	}

	return tasks, nil
}

// ReviewCalendar reports pending, upcoming, and overdue calendar entries.
func (o *Orchestrator) ReviewCalendar(ctx context.Context) (CalendarReview, error) {
	today := o.today()
	weekAhead := today.AddDate(0, 0, 7)

	pending, err := o.store.PendingCalendarEntries(ctx)
	if err != nil {
		return CalendarReview{}, err
	}
	upcoming, err := o.store.CalendarEntriesByDateRange(ctx, today, weekAhead)
	if err != nil {
		return CalendarReview{}, err
	}

	overdue := 0
	for _, e := range pending {
		if e.ScheduledDate.Before(today) {
			overdue++
		}
	}

	review := CalendarReview{
		TotalPending: len(pending),
		Upcoming7d:   len(upcoming),
		Overdue:      overdue,
	}
	for _, e := range upcoming {
		review.Entries = append(review.Entries, CalendarReviewEntry{
			ID:       e.ID,
			Type:     e.ContentType,
			Platform: e.Platform,
			Topic:    e.Topic,
			Date:     e.ScheduledDate.Format("2006-01-02"),
			Status:   e.Status,
		})
	}
	return review, nil
}

func (o *Orchestrator) today() time.Time {
	now := o.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (o *Orchestrator) calendarStatus(ctx context.Context, daysAhead int) (string, error) {
	today := o.today()
	entries, err := o.store.CalendarEntriesByDateRange(ctx, today, today.AddDate(0, 0, daysAhead))
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "No content scheduled for the upcoming period.", nil
	}

	var lines []string
	for _, e := range entries {
		topic := e.Topic
		if topic == "" {
			topic = "No topic specified"
		}
		lines = append(lines, fmt.Sprintf("- %s: %s on %s [%s] - %s",
			e.ScheduledDate.Format("2006-01-02"), e.ContentType, e.Platform, e.Status, topic))
	}
	return strings.Join(lines, "\n"), nil
}

func (o *Orchestrator) recentContentSummary(ctx context.Context) (string, error) {
	recent, err := o.store.RecentContent(ctx, 10)
	if err != nil {
		return "", err
	}
	if len(recent) == 0 {
		return "No content has been created yet.", nil
	}

	var lines []string
	for _, c := range recent {
		preview := strings.ReplaceAll(truncate(c.Body, 100), "\n", " ")
		lines = append(lines, fmt.Sprintf("- [%s] (%s) %s...", c.ContentType, c.Status, preview))
	}
	return strings.Join(lines, "\n"), nil
}

func (o *Orchestrator) marketDataSummary(ctx context.Context) (string, error) {
	houston, err := o.store.MarketDataByMarket(ctx, "houston")
	if err != nil {
		return "", err
	}
	phoenix, err := o.store.MarketDataByMarket(ctx, "phoenix")
	if err != nil {
		return "", err
	}

	lines := []string{"### Houston"}
	if len(houston) > 10 {
		houston = houston[:10]
	}
	for _, d := range houston {
		period := d.Period
		if period == "" {
			period = "latest"
		}
		lines = append(lines, fmt.Sprintf("- %s: %s (%s)", d.Metric, d.Value, period))
	}

	if len(phoenix) > 0 {
		lines = append(lines, "\n### Phoenix")
		if len(phoenix) > 5 {
			phoenix = phoenix[:5]
		}
		for _, d := range phoenix {
			period := d.Period
			if period == "" {
				period = "latest"
			}
			lines = append(lines, fmt.Sprintf("- %s: %s (%s)", d.Metric, d.Value, period))
		}
	}

	return strings.Join(lines, "\n"), nil
}

// parsePlan extracts the JSON array from a planning response. Malformed
// responses yield an empty plan rather than an error.
func parsePlan(response string) []generator.Task {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start < 0 || end <= start {
		return nil
	}

	var items []struct {
		ContentType  string `json:"content_type"`
		Platform     string `json:"platform"`
		Topic        string `json:"topic"`
		Principal    string `json:"principal"`
		Instructions string `json:"instructions"`
	}
	if err := json.Unmarshal([]byte(response[start:end+1]), &items); err != nil {
		return nil
	}

	var tasks []generator.Task
	for _, item := range items {
		contentType := item.ContentType
		if contentType == "" {
			contentType = generator.KindLinkedInPost
		}
		platform := item.Platform
		if platform == "" {
			platform = generator.PlatformLinkedIn
		}
		tasks = append(tasks, generator.Task{
			ContentType:  contentType,
			Platform:     platform,
			Topic:        item.Topic,
			Principal:    item.Principal,
			Instructions: item.Instructions,
		})
	}
	return tasks
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
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
