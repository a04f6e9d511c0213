package knowledge

import "time"

// FirmFact is a single fact about the firm (track record, strategy,
// principals) keyed within a category.
type FirmFact struct {
	ID        int64      `json:"id"`
	Category  string     `json:"category"`
	Key       string     `json:"key"`
	Value     string     `json:"value"`
	Source    string     `json:"source,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// MarketData is one observed metric for a market and period.
type MarketData struct {
	ID        int64     `json:"id"`
	Market    string    `json:"market"`
	Metric    string    `json:"metric"`
	Value     string    `json:"value"`
	Period    string    `json:"period,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BrandRule is a voice or compliance rule surfaced to generation prompts.
type BrandRule struct {
	ID        int64     `json:"id"`
	RuleType  string    `json:"rule_type"`
	Rule      string    `json:"rule"`
	Example   string    `json:"example,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Content lifecycle statuses.
const (
	StatusDraft     = "draft"
	StatusQueued    = "queued"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusPublished = "published"
)

// Content is a generated piece of content moving through the pipeline.
type Content struct {
	ID             int64      `json:"id"`
	ContentType    string     `json:"content_type"`
	Platform       string     `json:"platform"`
	Principal      string     `json:"principal,omitempty"`
	Title          string     `json:"title,omitempty"`
	Body           string     `json:"body"`
	Topic          string     `json:"topic,omitempty"`
	Status         string     `json:"status"`
	ScheduledFor   *time.Time `json:"scheduled_for,omitempty"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	PlatformPostID string     `json:"platform_post_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// ContentMetrics is an engagement snapshot for a published piece.
type ContentMetrics struct {
	ID          int64     `json:"id"`
	ContentID   int64     `json:"content_id"`
	Impressions int       `json:"impressions"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	Shares      int       `json:"shares"`
	Clicks      int       `json:"clicks"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// CalendarEntry is a planned slot on the content calendar.
type CalendarEntry struct {
	ID            int64     `json:"id"`
	ContentType   string    `json:"content_type"`
	Platform      string    `json:"platform"`
	Topic         string    `json:"topic,omitempty"`
	Principal     string    `json:"principal,omitempty"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Status        string    `json:"status"`
	ContentID     *int64    `json:"content_id,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ScannedContent is a post captured from an external platform.
type ScannedContent struct {
	ID              int64     `json:"id"`
	Platform        string    `json:"platform"`
	ExternalID      string    `json:"external_id,omitempty"`
	Author          string    `json:"author,omitempty"`
	AuthorURL       string    `json:"author_url,omitempty"`
	Body            string    `json:"body"`
	URL             string    `json:"url,omitempty"`
	EngagementScore int       `json:"engagement_score"`
	TopicTags       string    `json:"topic_tags,omitempty"`
	ScannedAt       time.Time `json:"scanned_at"`
	DigestID        *int64    `json:"digest_id,omitempty"`
}

// Digest summarizes one scan run.
type Digest struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	ScanType  string    `json:"scan_type"`
	CreatedAt time.Time `json:"created_at"`
}

// Inspiration is a saved piece of external content the principals liked.
type Inspiration struct {
	ID               int64     `json:"id"`
	SourceType       string    `json:"source_type"`
	ScannedContentID *int64    `json:"scanned_content_id,omitempty"`
	URL              string    `json:"url,omitempty"`
	Body             string    `json:"body,omitempty"`
	Author           string    `json:"author,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	LikedBy          string    `json:"liked_by,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// MonitoredAccount is an external account the scanner follows.
type MonitoredAccount struct {
	ID        int64     `json:"id"`
	Platform  string    `json:"platform"`
	Handle    string    `json:"handle"`
	Name      string    `json:"name,omitempty"`
	Category  string    `json:"category,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// TopicContext aggregates the knowledge base data relevant to a
// generation topic.
type TopicContext struct {
	FirmFacts     []FirmFact    `json:"firm_facts"`
	MarketData    []MarketData  `json:"market_data"`
	BrandRules    []BrandRule   `json:"brand_rules"`
	RecentContent []Content     `json:"recent_content"`
	Inspiration   []Inspiration `json:"inspiration"`
}

// ContentStats summarizes the content table.
type ContentStats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByPlatform map[string]int `json:"by_platform"`
}
