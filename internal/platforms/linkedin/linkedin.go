package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rishuramani/RC/pkg/logging"
)

const defaultBaseURL = "https://api.linkedin.com/v2"

// Config holds LinkedIn API credentials. AuthorURN identifies the
// member or organization posts are attributed to, for example
// "urn:li:person:abcd1234". With MockMode set the client returns
// deterministic canned results and never touches the network.
type Config struct {
	AccessToken string
	AuthorURN   string
	BaseURL     string
	MockMode    bool
}

// Client talks to the LinkedIn API v2.
type Client struct {
	client      *http.Client
	accessToken string
	authorURN   string
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
		accessToken: cfg.AccessToken,
		authorURN:   cfg.AuthorURN,
		baseURL:     baseURL,
		mock:        cfg.MockMode,
		logger:      logger,
	}
}

// Configured reports whether the client can serve requests.
func (c *Client) Configured() bool {
	return c.mock || (c.accessToken != "" && c.authorURN != "")
}

// CreatePost publishes a public text post as the configured author and
// returns the post URN.
func (c *Client) CreatePost(ctx context.Context, text string) (string, error) {
	if c.mock {
		c.logger.Info("Mock mode: post not sent")
		return "mock_linkedin_post_123", nil
	}
	payload, err := json.Marshal(map[string]any{
		"author":         c.authorURN,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]string{"text": text},
				"shareMediaCategory": "NONE",
			},
		},
		"visibility": map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	})
	if err != nil {
		return "", fmt.Errorf("linkedin: marshal post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ugcPosts", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("linkedin: create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("linkedin: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", c.statusError(resp)
	}

	var decoded struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("linkedin: decode response: %w", err)
	}

	c.logger.WithField("post_id", decoded.ID).Info("Posted to LinkedIn")
	return decoded.ID, nil
}

// Profile describes the authenticated member.
type Profile struct {
	ID        string `json:"id"`
	FirstName string `json:"localizedFirstName"`
	LastName  string `json:"localizedLastName"`
}

// Profile fetches the authenticated member's profile. Useful as a
// credential check before publishing.
func (c *Client) Profile(ctx context.Context) (Profile, error) {
	if c.mock {
		return Profile{ID: "mock_user_id", FirstName: "Michael", LastName: "Rosen"}, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me", nil)
	if err != nil {
		return Profile{}, fmt.Errorf("linkedin: create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("linkedin: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return Profile{}, c.statusError(resp)
	}

	var decoded Profile
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Profile{}, fmt.Errorf("linkedin: decode response: %w", err)
	}
	return decoded, nil
}

// SocialActions fetches the raw engagement counts for a post.
type SocialActions struct {
	LikesSummary struct {
		TotalLikes int `json:"totalLikes"`
	} `json:"likesSummary"`
	CommentsSummary struct {
		TotalComments int `json:"aggregatedTotalComments"`
	} `json:"commentsSummary"`
}

// PostMetrics returns engagement counts for a post URN.
func (c *Client) PostMetrics(ctx context.Context, postID string) (SocialActions, error) {
	if c.mock {
		var actions SocialActions
		actions.LikesSummary.TotalLikes = 45
		actions.CommentsSummary.TotalComments = 8
		return actions, nil
	}
	endpoint := c.baseURL + "/socialActions/" + url.PathEscape(postID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return SocialActions{}, fmt.Errorf("linkedin: create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return SocialActions{}, fmt.Errorf("linkedin: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return SocialActions{}, c.statusError(resp)
	}

	var decoded SocialActions
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return SocialActions{}, fmt.Errorf("linkedin: decode response: %w", err)
	}
	return decoded, nil
}

// Post is a public LinkedIn post surfaced by a content scan.
type Post struct {
	ID         string
	Author     string
	AuthorURL  string
	Body       string
	URL        string
	Engagement int
}

// RecentPosts returns public posts matching the given queries. The
// LinkedIn API offers no search or member-feed endpoint at the standard
// OAuth scopes, so outside mock mode this returns nothing; accounts is
// accepted for parity with the Twitter reader but unused.
func (c *Client) RecentPosts(ctx context.Context, queries, accounts []string, limit int) ([]Post, error) {
	if !c.mock {
		return nil, nil
	}
	posts := make([]Post, 0, len(queries))
	for i, query := range queries {
		if len(posts) >= limit {
			break
		}
		posts = append(posts, Post{
			ID:        fmt.Sprintf("li_post_%d", i),
			Author:    fmt.Sprintf("Industry Analyst %d", i+1),
			AuthorURL: fmt.Sprintf("https://linkedin.com/in/analyst-%d", i+1),
			Body: fmt.Sprintf("Key insights on %s: The market continues to show strong fundamentals in Sunbelt markets. "+
				"Workforce housing demand remains robust with occupancy above 90%% in major metros.", query),
			URL:        fmt.Sprintf("https://linkedin.com/posts/analyst-%d_post-%d", i+1, i),
			Engagement: 120 + i*30,
		})
	}
	return posts, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
}

func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("linkedin: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
}
