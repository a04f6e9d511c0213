package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/rishuramani/RC/internal/knowledge"
	"github.com/rishuramani/RC/pkg/llm"
	"github.com/rishuramani/RC/pkg/logging"
)

// ContextStore provides knowledge base context for a generation topic.
type ContextStore interface {
	ContextForTopic(ctx context.Context, topic string) (knowledge.TopicContext, error)
}

// KindSpec holds the prompt builder and response parser for one content kind.
type KindSpec struct {
	System      string
	BuildPrompt func(task Task, context knowledge.TopicContext) string
	Parse       func(body string, task Task) Draft
}

// Generator produces brand-voiced content drafts via the LLM provider.
// Content kinds are dispatched through an explicit registry built at
// construction time; Register can extend or replace entries.
type Generator struct {
	provider llm.Provider
	store    ContextStore
	kinds    map[string]KindSpec
	logger   logging.Logger
}

func New(provider llm.Provider, store ContextStore, logger logging.Logger) *Generator {
	g := &Generator{
		provider: provider,
		store:    store,
		kinds:    make(map[string]KindSpec),
		logger:   logger,
	}
	g.Register(KindLinkedInPost, KindSpec{
		System:      linkedinPrompt,
		BuildPrompt: buildLinkedInUserPrompt,
		Parse:       parseLinkedInPost,
	})
	g.Register(KindTweet, KindSpec{
		System: twitterPrompt,
		BuildPrompt: func(task Task, context knowledge.TopicContext) string {
			return buildTwitterUserPrompt(task, context, false)
		},
		Parse: parseTweet,
	})
	g.Register(KindTweetThread, KindSpec{
		System: twitterPrompt,
		BuildPrompt: func(task Task, context knowledge.TopicContext) string {
			return buildTwitterUserPrompt(task, context, true)
		},
		Parse: parseTweetThread,
	})
	g.Register(KindBlog, KindSpec{
		System:      blogPrompt,
		BuildPrompt: buildBlogUserPrompt,
		Parse:       parseBlog,
	})
	g.Register(KindMarketReport, KindSpec{
		System:      reportPrompt,
		BuildPrompt: buildReportUserPrompt,
		Parse:       parseMarketReport,
	})
	return g
}

// Register adds or replaces the spec for a content kind.
func (g *Generator) Register(kind string, spec KindSpec) {
	g.kinds[kind] = spec
}

// Generate runs the task through the registered spec for its content kind.
func (g *Generator) Generate(ctx context.Context, task Task) (Draft, error) {
	if task.Topic == "" {
		return Draft{}, fmt.Errorf("task topic is required")
	}
	if task.ContentType == "" {
		return Draft{}, fmt.Errorf("task content type is required")
	}

	spec, ok := g.kinds[task.ContentType]
	if !ok {
		return Draft{}, fmt.Errorf("unsupported content type: %s", task.ContentType)
	}

	topicContext, err := g.store.ContextForTopic(ctx, task.Topic)
	if err != nil {
		return Draft{}, fmt.Errorf("load topic context: %w", err)
	}

	response, err := g.provider.Complete(ctx, llm.Request{
		System: spec.System,
		Prompt: spec.BuildPrompt(task, topicContext),
	})
	if err != nil {
		return Draft{}, fmt.Errorf("generate %s: %w", task.ContentType, err)
	}

	draft := spec.Parse(strings.TrimSpace(response), task)

	g.logger.WithFields(logging.Fields{
		"content_type": draft.ContentType,
		"platform":     draft.Platform,
		"topic":        draft.Topic,
		"body_length":  len(draft.Body),
	}).Info("Generated content draft")

	return draft, nil
}

func parseLinkedInPost(body string, task Task) Draft {
	parsed, hashtags := extractHashtags(body)
	return Draft{
		ContentType: KindLinkedInPost,
		Platform:    PlatformLinkedIn,
		Principal:   task.Principal,
		Body:        parsed,
		Topic:       task.Topic,
		Hashtags:    hashtags,
	}
}

func parseTweet(body string, task Task) Draft {
	return Draft{
		ContentType: KindTweet,
		Platform:    PlatformTwitter,
		Principal:   task.Principal,
		Body:        body,
		Topic:       task.Topic,
	}
}

func parseTweetThread(body string, task Task) Draft {
	tweets := SplitThread(body)
	return Draft{
		ContentType: KindTweetThread,
		Platform:    PlatformTwitter,
		Principal:   task.Principal,
		Body:        body,
		Topic:       task.Topic,
		Metadata: map[string]any{
			"tweets":      tweets,
			"tweet_count": len(tweets),
		},
	}
}

func parseBlog(body string, task Task) Draft {
	return Draft{
		ContentType: KindBlog,
		Platform:    PlatformBlog,
		Title:       extractBlogTitle(body),
		Body:        body,
		Topic:       task.Topic,
		Metadata: map[string]any{
			"meta_description": extractMetaDescription(body),
			"word_count":       wordCount(body),
		},
	}
}

func parseMarketReport(body string, task Task) Draft {
	return Draft{
		ContentType: KindMarketReport,
		Platform:    PlatformReport,
		Title:       extractReportTitle(body),
		Body:        body,
		Topic:       task.Topic,
	}
}
