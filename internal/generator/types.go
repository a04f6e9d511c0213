package generator

// Content kinds produced by the generators.
const (
	KindLinkedInPost = "linkedin_post"
	KindTweet        = "tweet"
	KindTweetThread  = "tweet_thread"
	KindBlog         = "blog"
	KindMarketReport = "market_report"
)

// Target platforms.
const (
	PlatformLinkedIn = "linkedin"
	PlatformTwitter  = "twitter"
	PlatformBlog     = "blog"
	PlatformReport   = "report"
)

// PlatformForKind maps a content kind to its publishing platform.
func PlatformForKind(kind string) string {
	switch kind {
	case KindLinkedInPost:
		return PlatformLinkedIn
	case KindTweet, KindTweetThread:
		return PlatformTwitter
	case KindBlog:
		return PlatformBlog
	case KindMarketReport:
		return PlatformReport
	}
	return ""
}

// Task is a content generation assignment, typically produced by the
// orchestrator or submitted through the API.
type Task struct {
	ContentType     string `json:"content_type"`
	Platform        string `json:"platform"`
	Topic           string `json:"topic"`
	Principal       string `json:"principal,omitempty"`
	Instructions    string `json:"instructions,omitempty"`
	CalendarEntryID *int64 `json:"calendar_entry_id,omitempty"`
}

// Draft is the output of a generator before it enters the pipeline.
type Draft struct {
	ContentType string         `json:"content_type"`
	Platform    string         `json:"platform"`
	Principal   string         `json:"principal,omitempty"`
	Title       string         `json:"title,omitempty"`
	Body        string         `json:"body"`
	Topic       string         `json:"topic"`
	Hashtags    []string       `json:"hashtags,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
