package publish

import (
	"context"
	"fmt"

	"github.com/rishuramani/RC/internal/generator"
	"github.com/rishuramani/RC/internal/knowledge"
	"github.com/rishuramani/RC/pkg/logging"
)

// TwitterClient posts tweets and threads.
type TwitterClient interface {
	CreateTweet(ctx context.Context, text string) (string, error)
	CreateThread(ctx context.Context, tweets []string) ([]string, error)
	Configured() bool
}

// LinkedInClient posts to LinkedIn.
type LinkedInClient interface {
	CreatePost(ctx context.Context, text string) (string, error)
	Configured() bool
}

// Result reports the outcome of a publish attempt.
type Result struct {
	Success    bool     `json:"success"`
	PostID     string   `json:"post_id,omitempty"`
	Platform   string   `json:"platform,omitempty"`
	TweetCount int      `json:"tweet_count,omitempty"`
	TweetIDs   []string `json:"tweet_ids,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Publisher routes content to the client for its target platform.
// Nil clients publish nothing; the result carries the error instead.
type Publisher struct {
	twitter  TwitterClient
	linkedin LinkedInClient
	logger   logging.Logger
}

func New(twitterClient TwitterClient, linkedinClient LinkedInClient, logger logging.Logger) *Publisher {
	return &Publisher{
		twitter:  twitterClient,
		linkedin: linkedinClient,
		logger:   logger,
	}
}

// Publish posts content to its target platform.
func (p *Publisher) Publish(ctx context.Context, content knowledge.Content) Result {
	switch content.Platform {
	case generator.PlatformLinkedIn:
		return p.publishLinkedIn(ctx, content)
	case generator.PlatformTwitter:
		return p.publishTwitter(ctx, content)
	default:
		return Result{
			Success: false,
			Error:   fmt.Sprintf("Publishing not supported for platform: %s", content.Platform),
		}
	}
}

func (p *Publisher) publishLinkedIn(ctx context.Context, content knowledge.Content) Result {
	if p.linkedin == nil || !p.linkedin.Configured() {
		return Result{Success: false, Error: "LinkedIn API not configured"}
	}

	postID, err := p.linkedin.CreatePost(ctx, content.Body)
	if err != nil {
		p.logger.WithError(err).WithField("content_id", content.ID).Error("LinkedIn publish failed")
		return Result{Success: false, Platform: generator.PlatformLinkedIn, Error: err.Error()}
	}

	return Result{Success: true, PostID: postID, Platform: generator.PlatformLinkedIn}
}

func (p *Publisher) publishTwitter(ctx context.Context, content knowledge.Content) Result {
	if p.twitter == nil || !p.twitter.Configured() {
		return Result{Success: false, Error: "Twitter API not configured"}
	}

	if content.ContentType == generator.KindTweetThread {
		tweets := generator.SplitThread(content.Body)
		ids, err := p.twitter.CreateThread(ctx, tweets)
		if err != nil {
			p.logger.WithError(err).WithField("content_id", content.ID).Error("Twitter thread publish failed")
			return Result{Success: false, Platform: generator.PlatformTwitter, Error: err.Error()}
		}
		return Result{
			Success:    true,
			PostID:     ids[0],
			Platform:   generator.PlatformTwitter,
			TweetCount: len(ids),
			TweetIDs:   ids,
		}
	}

	postID, err := p.twitter.CreateTweet(ctx, content.Body)
	if err != nil {
		p.logger.WithError(err).WithField("content_id", content.ID).Error("Twitter publish failed")
		return Result{Success: false, Platform: generator.PlatformTwitter, Error: err.Error()}
	}
	return Result{Success: true, PostID: postID, Platform: generator.PlatformTwitter}
}
