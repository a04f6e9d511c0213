package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rishuramani/RC/pkg/logging"
)

const defaultBaseURL = "https://api.twitter.com/2"

// Config holds Twitter API v2 credentials. With MockMode set the client
// returns deterministic canned results and never touches the network.
type Config struct {
	BearerToken string
	BaseURL     string
	MockMode    bool
}

// Client talks to the Twitter API v2.
type Client struct {
	client      *http.Client
	bearerToken string
	baseURL     string
	mock        bool
	logger      logging.Logger
}

func NewClient(cfg Config, logger logging.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		client:      &http.Client{Timeout: 30 * time.Second},
		bearerToken: cfg.BearerToken,
		baseURL:     baseURL,
		mock:        cfg.MockMode,
		logger:      logger,
	}
}

// Configured reports whether the client can serve requests.
func (c *Client) Configured() bool {
	return c.mock || c.bearerToken != ""
}

// Tweet is a single post returned by the read endpoints.
type Tweet struct {
	ID             string        `json:"id"`
	Text           string        `json:"text"`
	AuthorID       string        `json:"author_id"`
	AuthorUsername string        `json:"author_username"`
	CreatedAt      string        `json:"created_at"`
	Metrics        PublicMetrics `json:"public_metrics"`
}

// PublicMetrics are the engagement counters Twitter exposes per tweet.
type PublicMetrics struct {
	Likes       int `json:"like_count"`
	Retweets    int `json:"retweet_count"`
	Replies     int `json:"reply_count"`
	Quotes      int `json:"quote_count"`
	Impressions int `json:"impression_count"`
}

// Engagement is the combined interaction count for ranking scanned posts.
func (m PublicMetrics) Engagement() int {
	return m.Likes + m.Retweets + m.Replies + m.Quotes
}

// EngagementMetrics normalizes tweet metrics to the shared snapshot shape.
type EngagementMetrics struct {
	Impressions int `json:"impressions"`
	Likes       int `json:"likes"`
	Comments    int `json:"comments"`
	Shares      int `json:"shares"`
	Clicks      int `json:"clicks"`
}

// CreateTweet posts a single tweet and returns its ID.
func (c *Client) CreateTweet(ctx context.Context, text string) (string, error) {
	if c.mock {
		c.logger.Info("Mock mode: tweet not sent")
		return "mock_tweet_123", nil
	}
	return c.postTweet(ctx, text, "")
}

// CreateThread posts tweets in order, each replying to the previous one.
// It returns the IDs of all posted tweets, the first being the thread root.
func (c *Client) CreateThread(ctx context.Context, tweets []string) ([]string, error) {
	if len(tweets) == 0 {
		return nil, fmt.Errorf("twitter: no tweets to post")
	}

	if c.mock {
		ids := make([]string, len(tweets))
		for i := range tweets {
			if i == 0 {
				ids[i] = "mock_thread_123"
			} else {
				ids[i] = fmt.Sprintf("mock_thread_123_%d", i)
			}
		}
		c.logger.WithField("tweet_count", len(ids)).Info("Mock mode: thread not sent")
		return ids, nil
	}

	ids := make([]string, 0, len(tweets))
	replyTo := ""
	for _, text := range tweets {
		id, err := c.postTweet(ctx, text, replyTo)
		if err != nil {
			return ids, fmt.Errorf("twitter: post tweet %d of %d: %w", len(ids)+1, len(tweets), err)
		}
		ids = append(ids, id)
		replyTo = id
	}

	c.logger.WithField("tweet_count", len(ids)).Info("Posted tweet thread")
	return ids, nil
}

func (c *Client) postTweet(ctx context.Context, text, replyTo string) (string, error) {
	body := map[string]any{"text": text}
	if replyTo != "" {
		body["reply"] = map[string]string{"in_reply_to_tweet_id": replyTo}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("twitter: marshal tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tweets", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("twitter: create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("twitter: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", c.statusError(resp)
	}

	var decoded struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("twitter: decode response: %w", err)
	}
	return decoded.Data.ID, nil
}

// TweetMetrics fetches the public engagement metrics for a tweet.
// Click counts are not available through the basic API tier.
func (c *Client) TweetMetrics(ctx context.Context, tweetID string) (EngagementMetrics, error) {
	if c.mock {
		return EngagementMetrics{Impressions: 2500, Likes: 30, Comments: 5, Shares: 15, Clicks: 120}, nil
	}
	endpoint := fmt.Sprintf("%s/tweets/%s?tweet.fields=public_metrics", c.baseURL, url.PathEscape(tweetID))

	var decoded struct {
		Data struct {
			Metrics PublicMetrics `json:"public_metrics"`
		} `json:"data"`
	}
	if err := c.get(ctx, endpoint, &decoded); err != nil {
		return EngagementMetrics{}, err
	}

	m := decoded.Data.Metrics
	return EngagementMetrics{
		Impressions: m.Impressions,
		Likes:       m.Likes,
		Comments:    m.Replies,
		Shares:      m.Retweets + m.Quotes,
	}, nil
}

// SearchRecent queries the recent-search endpoint and resolves author
// usernames from the response includes.
func (c *Client) SearchRecent(ctx context.Context, query string, maxResults int) ([]Tweet, error) {
	if c.mock {
		return mockSearchResults(query, maxResults), nil
	}
	if maxResults > 100 {
		maxResults = 100
	}
	params := url.Values{
		"query":        {query},
		"max_results":  {strconv.Itoa(maxResults)},
		"tweet.fields": {"created_at,public_metrics,author_id"},
		"expansions":   {"author_id"},
		"user.fields":  {"username"},
	}

	var decoded struct {
		Data []struct {
			ID        string        `json:"id"`
			Text      string        `json:"text"`
			AuthorID  string        `json:"author_id"`
			CreatedAt string        `json:"created_at"`
			Metrics   PublicMetrics `json:"public_metrics"`
		} `json:"data"`
		Includes struct {
			Users []struct {
				ID       string `json:"id"`
				Username string `json:"username"`
			} `json:"users"`
		} `json:"includes"`
	}
	if err := c.get(ctx, c.baseURL+"/tweets/search/recent?"+params.Encode(), &decoded); err != nil {
		return nil, err
	}

	usernames := make(map[string]string, len(decoded.Includes.Users))
	for _, u := range decoded.Includes.Users {
		usernames[u.ID] = u.Username
	}

	tweets := make([]Tweet, 0, len(decoded.Data))
	for _, t := range decoded.Data {
		tweets = append(tweets, Tweet{
			ID:             t.ID,
			Text:           t.Text,
			AuthorID:       t.AuthorID,
			AuthorUsername: usernames[t.AuthorID],
			CreatedAt:      t.CreatedAt,
			Metrics:        t.Metrics,
		})
	}
	return tweets, nil
}

// UserTweets returns recent tweets from a user, resolving the handle to
// a user ID first.
func (c *Client) UserTweets(ctx context.Context, username string, maxResults int) ([]Tweet, error) {
	if c.mock {
		return mockUserTweets(username, maxResults), nil
	}
	var userLookup struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	endpoint := c.baseURL + "/users/by/username/" + url.PathEscape(username)
	if err := c.get(ctx, endpoint, &userLookup); err != nil {
		return nil, fmt.Errorf("twitter: look up user %s: %w", username, err)
	}
	if userLookup.Data.ID == "" {
		return nil, nil
	}

	if maxResults > 100 {
		maxResults = 100
	}
	params := url.Values{
		"max_results":  {strconv.Itoa(maxResults)},
		"tweet.fields": {"created_at,public_metrics"},
	}

	var decoded struct {
		Data []struct {
			ID        string        `json:"id"`
			Text      string        `json:"text"`
			CreatedAt string        `json:"created_at"`
			Metrics   PublicMetrics `json:"public_metrics"`
		} `json:"data"`
	}
	timeline := fmt.Sprintf("%s/users/%s/tweets?%s", c.baseURL, userLookup.Data.ID, params.Encode())
	if err := c.get(ctx, timeline, &decoded); err != nil {
		return nil, err
	}

	tweets := make([]Tweet, 0, len(decoded.Data))
	for _, t := range decoded.Data {
		tweets = append(tweets, Tweet{
			ID:             t.ID,
			Text:           t.Text,
			AuthorID:       userLookup.Data.ID,
			AuthorUsername: username,
			CreatedAt:      t.CreatedAt,
			Metrics:        t.Metrics,
		})
	}
	return tweets, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("twitter: create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("twitter: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("twitter: decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	req.Header.Set("Content-Type", "application/json")
}

func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("twitter: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
}

func mockSearchResults(query string, maxResults int) []Tweet {
	count := maxResults
	if count > 5 {
		count = 5
	}
	tweets := make([]Tweet, 0, count)
	for i := 0; i < count; i++ {
		tweets = append(tweets, Tweet{
			ID:             fmt.Sprintf("mock_search_%d", i),
			Text:           fmt.Sprintf("Sample tweet about %s - multifamily market update #%d", query, i),
			AuthorID:       fmt.Sprintf("user_%d", i),
			AuthorUsername: fmt.Sprintf("analyst_%d", i),
			CreatedAt:      "2026-02-16T12:00:00Z",
			Metrics: PublicMetrics{
				Likes:       50 + 10*i,
				Retweets:    15 + 3*i,
				Replies:     5 + i,
				Quotes:      2 + i,
				Impressions: 2000 + 500*i,
			},
		})
	}
	return tweets
}

func mockUserTweets(username string, maxResults int) []Tweet {
	count := maxResults
	if count > 5 {
		count = 5
	}
	tweets := make([]Tweet, 0, count)
	for i := 0; i < count; i++ {
		tweets = append(tweets, Tweet{
			ID:             fmt.Sprintf("mock_user_tweet_%d", i),
			Text:           fmt.Sprintf("Latest insight from @%s on CRE trends #%d", username, i),
			AuthorID:       "mock_user_id",
			AuthorUsername: username,
			CreatedAt:      "2026-02-16T10:00:00Z",
			Metrics: PublicMetrics{
				Likes:       100 + 20*i,
				Retweets:    30 + 5*i,
				Replies:     10 + 2*i,
				Quotes:      5 + i,
				Impressions: 5000 + 1000*i,
			},
		})
	}
	return tweets
}
