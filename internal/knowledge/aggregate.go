package knowledge

import (
	"context"
	"fmt"
)

// ContextForTopic gathers the knowledge base data relevant to a
// generation topic: matching facts and market data, all brand rules,
// recent matching content, and the latest inspiration.
func (s *Store) ContextForTopic(ctx context.Context, topic string) (TopicContext, error) {
	facts, err := s.SearchFirmFacts(ctx, topic)
	if err != nil {
		return TopicContext{}, err
	}
	market, err := s.SearchMarketData(ctx, topic)
	if err != nil {
		return TopicContext{}, err
	}
	rules, err := s.AllBrandRules(ctx)
	if err != nil {
		return TopicContext{}, err
	}
	recent, err := s.SearchContent(ctx, topic)
	if err != nil {
		return TopicContext{}, err
	}
	if len(recent) > 5 {
		recent = recent[:5]
	}
	inspiration, err := s.RecentInspiration(ctx, 5)
	if err != nil {
		return TopicContext{}, err
	}

	return TopicContext{
		FirmFacts:     facts,
		MarketData:    market,
		BrandRules:    rules,
		RecentContent: recent,
		Inspiration:   inspiration,
	}, nil
}

// Stats summarizes the content table by status and platform.
func (s *Store) Stats(ctx context.Context) (ContentStats, error) {
	stats := ContentStats{
		ByStatus:   make(map[string]int),
		ByPlatform: make(map[string]int),
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM content`).Scan(&stats.Total); err != nil {
		return ContentStats{}, fmt.Errorf("count content: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM content GROUP BY status`)
	if err != nil {
		return ContentStats{}, fmt.Errorf("count content by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return ContentStats{}, fmt.Errorf("scan status count: %w", err)
		}
		stats.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return ContentStats{}, fmt.Errorf("iterate status counts: %w", err)
	}

	platformRows, err := s.db.QueryContext(ctx, `SELECT platform, COUNT(*) FROM content GROUP BY platform`)
	if err != nil {
		return ContentStats{}, fmt.Errorf("count content by platform: %w", err)
	}
	defer platformRows.Close()
	for platformRows.Next() {
		var platform string
		var count int
		if err := platformRows.Scan(&platform, &count); err != nil {
			return ContentStats{}, fmt.Errorf("scan platform count: %w", err)
		}
		stats.ByPlatform[platform] = count
	}
	if err := platformRows.Err(); err != nil {
		return ContentStats{}, fmt.Errorf("iterate platform counts: %w", err)
	}

	return stats, nil
}
