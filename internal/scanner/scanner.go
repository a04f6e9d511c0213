package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rishuramani/RC/internal/brand"
	"github.com/rishuramani/RC/internal/knowledge"
	"github.com/rishuramani/RC/internal/platforms/linkedin"
	"github.com/rishuramani/RC/internal/platforms/twitter"
	"github.com/rishuramani/RC/pkg/llm"
	"github.com/rishuramani/RC/pkg/logging"
)

const digestPrompt = brand.Voice + `
## YOUR ROLE: Industry Content Analyst

You analyze scanned social media posts from real estate industry accounts (competitors, analysts, influencers, media) and create a concise digest for the RC Investment Properties team.

### TASKS
1. **Title**: Create a digest title (e.g., "Industry Digest — Feb 17, 2026")
2. **Summary**: Identify 3-5 top themes from the scanned content as bullet points
3. **Topic Tags**: For each scanned item, suggest comma-separated tags (e.g., "houston,multifamily,supply")
4. **Highlights**: Identify 3-5 posts worth paying attention to and explain why
5. **Content Opportunities**: Suggest 2-3 content ideas for RC based on what competitors/analysts are discussing

### OUTPUT FORMAT
Return as JSON:
` + "```json" + `
{
    "title": "Industry Digest — Feb 17, 2026",
    "summary": "- Theme 1\n- Theme 2\n- Theme 3",
    "highlights": [
        {"index": 0, "reason": "Why this post matters"},
    ],
    "topic_tags": [
        {"index": 0, "tags": "houston,multifamily,supply"},
    ],
    "opportunities": [
        "Content idea 1",
        "Content idea 2"
    ]
}
` + "```" + `

### RULES
- Focus on content relevant to multifamily, workforce housing, Sunbelt markets (Houston, Phoenix)
- Flag competitive intelligence — what are other firms saying about these markets?
- Identify data points we could respond to or build on
- Keep the summary professional and actionable
`

// TwitterReader covers the read endpoints the scanner uses.
type TwitterReader interface {
	SearchRecent(ctx context.Context, query string, maxResults int) ([]twitter.Tweet, error)
	UserTweets(ctx context.Context, username string, maxResults int) ([]twitter.Tweet, error)
	Configured() bool
}

// LinkedInReader covers the read surface of the LinkedIn client.
type LinkedInReader interface {
	RecentPosts(ctx context.Context, queries, accounts []string, limit int) ([]linkedin.Post, error)
	Configured() bool
}

// Store is the knowledge base surface the scanner depends on.
type Store interface {
	ActiveMonitoredAccounts(ctx context.Context, platform string) ([]knowledge.MonitoredAccount, error)
	ScannedContentExists(ctx context.Context, externalID, platform string) (bool, error)
	AddScannedContent(ctx context.Context, sc knowledge.ScannedContent) (int64, error)
	AddDigest(ctx context.Context, title, summary, scanType string) (int64, error)
	GetDigest(ctx context.Context, id int64) (knowledge.Digest, error)
}

// Config controls what a scan fetches.
type Config struct {
	Queries         []string
	Accounts        []string
	LinkedInQueries []string
	MaxResults      int
}

const linkedinScanLimit = 30

// Scanner fetches industry content, deduplicates it, and produces
// LLM-summarized digests.
type Scanner struct {
	provider llm.Provider
	store    Store
	twitter  TwitterReader
	linkedin LinkedInReader
	cfg      Config
	logger   logging.Logger
	now      func() time.Time
}

func New(provider llm.Provider, store Store, twitterReader TwitterReader, linkedinReader LinkedInReader, cfg Config, logger logging.Logger) *Scanner {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 50
	}
	if len(cfg.LinkedInQueries) == 0 {
		cfg.LinkedInQueries = []string{
			"multifamily real estate",
			"workforce housing investment",
			"houston apartment market",
		}
	}
	return &Scanner{
		provider: provider,
		store:    store,
		twitter:  twitterReader,
		linkedin: linkedinReader,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Scan runs the full pipeline: fetch, deduplicate, rank, digest. It
// always produces a digest record, even when nothing was found. With
// twitterOnly set the LinkedIn scan is skipped.
func (s *Scanner) Scan(ctx context.Context, scanType string, twitterOnly bool) (knowledge.Digest, error) {
	accounts := s.cfg.Accounts
	monitored, err := s.store.ActiveMonitoredAccounts(ctx, "twitter")
	if err != nil {
		return knowledge.Digest{}, fmt.Errorf("load monitored accounts: %w", err)
	}
	for _, account := range monitored {
		accounts = append(accounts, account.Handle)
	}

	items := s.scanTwitter(ctx, accounts)

	if !twitterOnly {
		linkedinMonitored, err := s.store.ActiveMonitoredAccounts(ctx, "linkedin")
		if err != nil {
			return knowledge.Digest{}, fmt.Errorf("load monitored accounts: %w", err)
		}
		linkedinAccounts := make([]string, 0, len(linkedinMonitored))
		for _, account := range linkedinMonitored {
			linkedinAccounts = append(linkedinAccounts, account.Handle)
		}
		items = append(items, s.scanLinkedIn(ctx, linkedinAccounts)...)
	}

	if len(items) == 0 {
		return s.emptyDigest(ctx, "Empty Scan", "No content found.", scanType)
	}

	unique, err := s.deduplicate(ctx, items)
	if err != nil {
		return knowledge.Digest{}, err
	}
	if len(unique) == 0 {
		return s.emptyDigest(ctx, "No New Content", "All scanned content was already in the database.", scanType)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].EngagementScore > unique[j].EngagementScore
	})

	return s.createDigest(ctx, unique, scanType)
}

// scanTwitter searches configured queries and monitored account
// timelines, deduplicating within the batch by tweet ID.
func (s *Scanner) scanTwitter(ctx context.Context, accounts []string) []knowledge.ScannedContent {
	if s.twitter == nil || !s.twitter.Configured() {
		return nil
	}

	var items []knowledge.ScannedContent
	seen := make(map[string]bool)

	perQuery := s.cfg.MaxResults
	if len(s.cfg.Queries) > 0 {
		perQuery = s.cfg.MaxResults / len(s.cfg.Queries)
	}
	if perQuery < 1 {
		perQuery = 1
	}

	for _, query := range s.cfg.Queries {
		tweets, err := s.twitter.SearchRecent(ctx, query, perQuery)
		if err != nil {
			s.logger.WithError(err).WithField("query", query).Warn("Twitter search failed")
			continue
		}
		items = appendTweets(items, seen, tweets, "")
	}

	for _, handle := range accounts {
		username := strings.TrimPrefix(handle, "@")
		tweets, err := s.twitter.UserTweets(ctx, username, 10)
		if err != nil {
			s.logger.WithError(err).WithField("username", username).Warn("Failed to get account tweets")
			continue
		}
		items = appendTweets(items, seen, tweets, username)
	}

	return items
}

func appendTweets(items []knowledge.ScannedContent, seen map[string]bool, tweets []twitter.Tweet, username string) []knowledge.ScannedContent {
	for _, tweet := range tweets {
		if tweet.ID == "" || seen[tweet.ID] {
			continue
		}
		seen[tweet.ID] = true

		author := tweet.AuthorUsername
		if username != "" {
			author = username
		}
		items = append(items, knowledge.ScannedContent{
			Platform:        "twitter",
			ExternalID:      tweet.ID,
			Author:          author,
			AuthorURL:       "https://twitter.com/" + author,
			Body:            tweet.Text,
			URL:             "https://twitter.com/i/status/" + tweet.ID,
			EngagementScore: tweet.Metrics.Engagement(),
		})
	}
	return items
}

// scanLinkedIn fetches public posts for the configured LinkedIn
// queries and monitored accounts.
func (s *Scanner) scanLinkedIn(ctx context.Context, accounts []string) []knowledge.ScannedContent {
	if s.linkedin == nil || !s.linkedin.Configured() {
		return nil
	}

	posts, err := s.linkedin.RecentPosts(ctx, s.cfg.LinkedInQueries, accounts, linkedinScanLimit)
	if err != nil {
		s.logger.WithError(err).Warn("LinkedIn scan failed")
		return nil
	}

	items := make([]knowledge.ScannedContent, 0, len(posts))
	for _, post := range posts {
		if post.ID == "" {
			continue
		}
		items = append(items, knowledge.ScannedContent{
			Platform:        "linkedin",
			ExternalID:      post.ID,
			Author:          post.Author,
			AuthorURL:       post.AuthorURL,
			Body:            post.Body,
			URL:             post.URL,
			EngagementScore: post.Engagement,
		})
	}
	return items
}

// deduplicate drops items already persisted from earlier scans.
func (s *Scanner) deduplicate(ctx context.Context, items []knowledge.ScannedContent) ([]knowledge.ScannedContent, error) {
	unique := make([]knowledge.ScannedContent, 0, len(items))
	for _, item := range items {
		if item.ExternalID != "" {
			exists, err := s.store.ScannedContentExists(ctx, item.ExternalID, item.Platform)
			if err != nil {
				return nil, fmt.Errorf("check scanned content: %w", err)
			}
			if exists {
				continue
			}
		}
		unique = append(unique, item)
	}
	return unique, nil
}

func (s *Scanner) emptyDigest(ctx context.Context, title, summary, scanType string) (knowledge.Digest, error) {
	id, err := s.store.AddDigest(ctx, title, summary, scanType)
	if err != nil {
		return knowledge.Digest{}, fmt.Errorf("store digest: %w", err)
	}
	return s.store.GetDigest(ctx, id)
}

type digestAnalysis struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	TopicTags []struct {
		Index *int   `json:"index"`
		Tags  string `json:"tags"`
	} `json:"topic_tags"`
}

// createDigest has the LLM summarize ranked items, then persists the
// digest and every item with its suggested topic tags.
func (s *Scanner) createDigest(ctx context.Context, items []knowledge.ScannedContent, scanType string) (knowledge.Digest, error) {
	var posts strings.Builder
	fmt.Fprintf(&posts, "Analyze these %d scanned industry posts and create a digest:\n\n", len(items))
	for i, item := range items {
		fmt.Fprintf(&posts, "[%d] @%s (%s) [engagement: %d]\n%s\n\n",
			i, item.Author, item.Platform, item.EngagementScore, item.Body)
	}

	analysis := s.analyze(ctx, posts.String(), len(items))

	title := analysis.Title
	if title == "" {
		title = "Industry Digest"
	}
	digestID, err := s.store.AddDigest(ctx, title, analysis.Summary, scanType)
	if err != nil {
		return knowledge.Digest{}, fmt.Errorf("store digest: %w", err)
	}

	tags := make(map[int]string)
	for _, entry := range analysis.TopicTags {
		if entry.Index != nil && *entry.Index >= 0 && *entry.Index < len(items) {
			tags[*entry.Index] = entry.Tags
		}
	}

	for i, item := range items {
		item.DigestID = &digestID
		item.TopicTags = tags[i]
		if _, err := s.store.AddScannedContent(ctx, item); err != nil {
			return knowledge.Digest{}, fmt.Errorf("store scanned content: %w", err)
		}
	}

	s.logger.WithFields(logging.Fields{
		"digest_id":  digestID,
		"item_count": len(items),
	}).Info("Created scan digest")

	return s.store.GetDigest(ctx, digestID)
}

// analyze asks the LLM for a digest. Failures fall back to a plain
// summary so a scan never loses its items.
func (s *Scanner) analyze(ctx context.Context, prompt string, itemCount int) digestAnalysis {
	response, err := s.provider.Complete(ctx, llm.Request{
		System:    digestPrompt,
		Prompt:    prompt,
		MaxTokens: 2000,
	})
	if err == nil {
		if analysis, ok := parseDigest(response); ok {
			return analysis
		}
		s.logger.Warn("Failed to parse digest response")
	} else {
		s.logger.WithError(err).Warn("Digest analysis failed")
	}

	return digestAnalysis{
		Title:   "Industry Digest — " + s.now().Format("Jan 2, 2006"),
		Summary: fmt.Sprintf("Scanned %d posts across platforms.", itemCount),
	}
}

func parseDigest(response string) (digestAnalysis, bool) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return digestAnalysis{}, false
	}

	var analysis digestAnalysis
	if err := json.Unmarshal([]byte(response[start:end+1]), &analysis); err != nil {
		return digestAnalysis{}, false
	}
	return analysis, true
}
