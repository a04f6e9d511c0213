package knowledge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store provides access to the knowledge base tables.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) AddFirmFact(ctx context.Context, category, key, value, source string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO firm_facts (category, key, value, source)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING id
	`, category, key, value, source).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert firm fact: %w", err)
	}
	return id, nil
}

func (s *Store) GetFirmFact(ctx context.Context, id int64) (FirmFact, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, category, key, value, source, created_at, updated_at
		FROM firm_facts WHERE id = $1
	`, id)
	fact, err := scanFirmFact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return FirmFact{}, ErrNotFound
	}
	return fact, err
}

func (s *Store) FirmFactsByCategory(ctx context.Context, category string) ([]FirmFact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, key, value, source, created_at, updated_at
		FROM firm_facts WHERE category = $1 ORDER BY key
	`, category)
	if err != nil {
		return nil, fmt.Errorf("list firm facts: %w", err)
	}
	return collectFirmFacts(rows)
}

func (s *Store) AllFirmFacts(ctx context.Context) ([]FirmFact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, key, value, source, created_at, updated_at
		FROM firm_facts ORDER BY category, key
	`)
	if err != nil {
		return nil, fmt.Errorf("list firm facts: %w", err)
	}
	return collectFirmFacts(rows)
}

func (s *Store) SearchFirmFacts(ctx context.Context, query string) ([]FirmFact, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, key, value, source, created_at, updated_at
		FROM firm_facts WHERE key ILIKE $1 OR value ILIKE $1
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("search firm facts: %w", err)
	}
	return collectFirmFacts(rows)
}

func (s *Store) UpdateFirmFact(ctx context.Context, id int64, value, source string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE firm_facts SET value = $2, source = NULLIF($3, ''), updated_at = NOW()
		WHERE id = $1
	`, id, value, source)
	if err != nil {
		return fmt.Errorf("update firm fact: %w", err)
	}
	return nil
}

func (s *Store) DeleteFirmFact(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM firm_facts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete firm fact: %w", err)
	}
	return nil
}

func (s *Store) AddMarketData(ctx context.Context, market, metric, value, period, source string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO market_data (market, metric, value, period, source)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		RETURNING id
	`, market, metric, value, period, source).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert market data: %w", err)
	}
	return id, nil
}

func (s *Store) GetMarketData(ctx context.Context, id int64) (MarketData, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, market, metric, value, period, source, created_at
		FROM market_data WHERE id = $1
	`, id)
	data, err := scanMarketData(row)
	if errors.Is(err, sql.ErrNoRows) {
		return MarketData{}, ErrNotFound
	}
	return data, err
}

func (s *Store) MarketDataByMarket(ctx context.Context, market string) ([]MarketData, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, market, metric, value, period, source, created_at
		FROM market_data WHERE market = $1 ORDER BY period DESC
	`, market)
	if err != nil {
		return nil, fmt.Errorf("list market data: %w", err)
	}
	return collectMarketData(rows)
}

func (s *Store) MarketDataByMetric(ctx context.Context, metric, market string) ([]MarketData, error) {
	var rows *sql.Rows
	var err error
	if market != "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, market, metric, value, period, source, created_at
			FROM market_data WHERE metric = $1 AND market = $2 ORDER BY period DESC
		`, metric, market)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, market, metric, value, period, source, created_at
			FROM market_data WHERE metric = $1 ORDER BY period DESC
		`, metric)
	}
	if err != nil {
		return nil, fmt.Errorf("list market data: %w", err)
	}
	return collectMarketData(rows)
}

func (s *Store) AllMarketData(ctx context.Context) ([]MarketData, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, market, metric, value, period, source, created_at
		FROM market_data ORDER BY market, metric
	`)
	if err != nil {
		return nil, fmt.Errorf("list market data: %w", err)
	}
	return collectMarketData(rows)
}

func (s *Store) SearchMarketData(ctx context.Context, query string) ([]MarketData, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, market, metric, value, period, source, created_at
		FROM market_data WHERE metric ILIKE $1 OR value ILIKE $1 OR market ILIKE $1
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("search market data: %w", err)
	}
	return collectMarketData(rows)
}

func (s *Store) DeleteMarketData(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM market_data WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete market data: %w", err)
	}
	return nil
}

func (s *Store) AddBrandRule(ctx context.Context, ruleType, rule, example string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO brand_rules (rule_type, rule, example)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING id
	`, ruleType, rule, example).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert brand rule: %w", err)
	}
	return id, nil
}

func (s *Store) GetBrandRule(ctx context.Context, id int64) (BrandRule, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, rule_type, rule, example, created_at
		FROM brand_rules WHERE id = $1
	`, id)
	rule, err := scanBrandRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return BrandRule{}, ErrNotFound
	}
	return rule, err
}

func (s *Store) BrandRulesByType(ctx context.Context, ruleType string) ([]BrandRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, rule_type, rule, example, created_at
		FROM brand_rules WHERE rule_type = $1
	`, ruleType)
	if err != nil {
		return nil, fmt.Errorf("list brand rules: %w", err)
	}
	return collectBrandRules(rows)
}

func (s *Store) AllBrandRules(ctx context.Context) ([]BrandRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, rule_type, rule, example, created_at
		FROM brand_rules ORDER BY rule_type
	`)
	if err != nil {
		return nil, fmt.Errorf("list brand rules: %w", err)
	}
	return collectBrandRules(rows)
}

func (s *Store) DeleteBrandRule(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM brand_rules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete brand rule: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFirmFact(r rowScanner) (FirmFact, error) {
	var fact FirmFact
	var source sql.NullString
	var updatedAt sql.NullTime
	if err := r.Scan(&fact.ID, &fact.Category, &fact.Key, &fact.Value, &source, &fact.CreatedAt, &updatedAt); err != nil {
		return FirmFact{}, err
	}
	fact.Source = source.String
	if updatedAt.Valid {
		fact.UpdatedAt = &updatedAt.Time
	}
	return fact, nil
}

func collectFirmFacts(rows *sql.Rows) ([]FirmFact, error) {
	defer rows.Close()
	var facts []FirmFact
	for rows.Next() {
		fact, err := scanFirmFact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan firm fact: %w", err)
		}
		facts = append(facts, fact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate firm facts: %w", err)
	}
	return facts, nil
}

func scanMarketData(r rowScanner) (MarketData, error) {
	var data MarketData
	var period, source sql.NullString
	if err := r.Scan(&data.ID, &data.Market, &data.Metric, &data.Value, &period, &source, &data.CreatedAt); err != nil {
		return MarketData{}, err
	}
	data.Period = period.String
	data.Source = source.String
	return data, nil
}

func collectMarketData(rows *sql.Rows) ([]MarketData, error) {
	defer rows.Close()
	var items []MarketData
	for rows.Next() {
		data, err := scanMarketData(rows)
		if err != nil {
			return nil, fmt.Errorf("scan market data: %w", err)
		}
		items = append(items, data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate market data: %w", err)
	}
	return items, nil
}

func scanBrandRule(r rowScanner) (BrandRule, error) {
	var rule BrandRule
	var example sql.NullString
	if err := r.Scan(&rule.ID, &rule.RuleType, &rule.Rule, &example, &rule.CreatedAt); err != nil {
		return BrandRule{}, err
	}
	rule.Example = example.String
	return rule, nil
}

func collectBrandRules(rows *sql.Rows) ([]BrandRule, error) {
	defer rows.Close()
	var rules []BrandRule
	for rows.Next() {
		rule, err := scanBrandRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan brand rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brand rules: %w", err)
	}
	return rules, nil
}
