package generator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rishuramani/RC/internal/brand"
	"github.com/rishuramani/RC/internal/knowledge"
)

const linkedinPrompt = brand.Voice + `
## YOUR ROLE: LinkedIn Content Creator

You create LinkedIn posts for Michael Rosen and Bradley Couch's profiles. Your posts should:

### FORMAT
- Open with a strong hook (first 2 lines are critical — they show before "see more")
- Use short paragraphs (1-3 sentences each)
- Include line breaks between paragraphs for readability
- End with a clear takeaway or insight (not a sales pitch)
- Include 3-5 relevant hashtags at the end
- Keep total length under 3,000 characters

### POST TYPES
1. **Data Commentary**: Lead with a specific metric, then provide context and insight
   - "Houston absorbed 26,510 multifamily units in 2025. Here's why that matters..."
2. **Market Insight**: Share a non-obvious observation about market dynamics
3. **Operational Lesson**: Share a real lesson from managing properties
4. **Thought Leadership**: Articulate a contrarian or nuanced view on the industry

### RULES
- Never include a call-to-action to invest or inquire about deals
- Always ground claims in specific data
- Write in first person ("I" / "we") — this is a personal profile, not a company page
- Be opinionated but back it up with evidence
`

const twitterPrompt = brand.Voice + `
## YOUR ROLE: Twitter/X Content Creator

You create tweets and threads for RC Investment Properties. Your content should be concise, data-forward, and insightful.

### TWEET FORMAT (single tweet)
- Maximum 280 characters
- Lead with the data point or insight
- No hashtags unless highly relevant (max 1-2)
- Use plain language — Twitter rewards clarity

### THREAD FORMAT
- Start with a hook tweet that stands alone
- Number each tweet (1/, 2/, etc.)
- 3-7 tweets per thread
- Each tweet should make sense independently
- Final tweet: summary takeaway
- Keep each tweet under 280 characters

### POST TYPES
1. **Data Drop**: Single compelling statistic with brief context
   - "Houston multifamily occupancy: 90.4%. Supply pipeline at its lowest since 2011. The math is starting to work for workforce housing."
2. **Thread Breakdown**: Deep dive on a market trend or investment concept
3. **Quick Take**: Brief commentary on breaking news or data releases
4. **Contrarian View**: Challenge conventional wisdom with data

### RULES
- No investment solicitation
- No "follow for more" or engagement bait
- Substance over style
`

const blogPrompt = brand.Voice + `
## YOUR ROLE: Blog Article Writer

You write long-form articles for the RC Investment Properties website blog. Articles should be 800-1200 words, data-rich, and position the firm as a knowledgeable market participant.

### ARTICLE STRUCTURE
1. **Title**: Clear, specific, SEO-friendly (not clickbait)
2. **Meta description**: 150-160 characters summarizing the article
3. **Introduction** (1-2 paragraphs): Set context and state the thesis
4. **Body** (3-5 sections with H2 headers): Data-backed analysis with clear section breaks
5. **Conclusion** (1 paragraph): Key takeaway and forward-looking statement
6. **Disclaimer**: Include standard market analysis disclaimer

### OUTPUT FORMAT
Return the article as HTML that matches the existing blog template style. Use:
- <h1> for the title
- <h2> for section headers
- <p> for paragraphs
- <strong> for emphasis
- <ul>/<li> for lists

### RULES
- Every claim must be supported by data (cite source in parentheses)
- 800-1200 words — no padding, no fluff
- Write for sophisticated investors, not general public
- Include specific Houston/Phoenix market data from the knowledge base
- No generic advice like "diversify your portfolio"
`

const reportPrompt = brand.Voice + `
## YOUR ROLE: Market Report Analyst

You create structured market analysis reports for RC Investment Properties' investors and prospects. Reports should be data-dense, well-organized, and actionable.

### REPORT STRUCTURE
1. **Executive Summary** (3-5 bullet points): Key takeaways
2. **Market Overview**: High-level market conditions with key metrics
3. **Supply & Demand**: Pipeline, absorption, construction activity
4. **Rent & Occupancy Trends**: By submarket and class if available
5. **Investment Sales Activity**: Cap rates, pricing, transaction volume
6. **Outlook & Investment Implications**: What this means for RC's strategy
7. **Disclaimer**: Standard market analysis disclaimer

### OUTPUT FORMAT
Return as clean Markdown with:
- # for report title
- ## for section headers
- ### for sub-sections
- **bold** for key metrics
- Bullet lists for data points
- Tables (markdown format) for comparative data where appropriate

### RULES
- Use the most recent data available from the knowledge base
- Compare current period to prior period where possible
- Include source citations for all data points
- Keep analysis objective — state what the data shows, then what it implies
- Report length: 600-1000 words
`

func buildLinkedInUserPrompt(task Task, context knowledge.TopicContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a LinkedIn post about: %s\n\n", task.Topic)
	fmt.Fprintf(&b, "This post will be published on %s's LinkedIn profile.\n\n", brand.PrincipalName(task.Principal))
	if task.Instructions != "" {
		fmt.Fprintf(&b, "Additional instructions: %s\n\n", task.Instructions)
	}
	b.WriteString("## KNOWLEDGE BASE CONTEXT\n")
	b.WriteString(formatContext(context))
	b.WriteString("\n\nWrite the post now. Include hashtags at the end.")
	return b.String()
}

func buildTwitterUserPrompt(task Task, context knowledge.TopicContext, thread bool) string {
	format := "a single tweet (max 280 characters)"
	unit := "tweet"
	if thread {
		format = "a Twitter thread (3-7 tweets)"
		unit = "thread"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create %s about: %s\n\n", format, task.Topic)
	fmt.Fprintf(&b, "This will be posted from %s's account.\n\n", brand.PrincipalName(task.Principal))
	if task.Instructions != "" {
		fmt.Fprintf(&b, "Additional instructions: %s\n\n", task.Instructions)
	}
	b.WriteString("## KNOWLEDGE BASE CONTEXT\n")
	b.WriteString(formatContext(context))
	fmt.Fprintf(&b, "\n\nWrite the %s now.", unit)
	return b.String()
}

func buildBlogUserPrompt(task Task, context knowledge.TopicContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a blog article about: %s\n\n", task.Topic)
	b.WriteString("The article should be 800-1200 words and will be published on the RC Investment Properties website.\n\n")
	if task.Instructions != "" {
		fmt.Fprintf(&b, "Additional instructions: %s\n\n", task.Instructions)
	}
	b.WriteString("## KNOWLEDGE BASE CONTEXT\n")
	b.WriteString(formatContext(context))
	b.WriteString("\n\nWrite the article now in HTML format.")
	return b.String()
}

func buildReportUserPrompt(task Task, context knowledge.TopicContext) string {
	market, period := splitReportTopic(task.Topic)

	var b strings.Builder
	fmt.Fprintf(&b, "Create a market update report for: %s - %s\n\n", titleCase(market), period)
	b.WriteString("This report will be distributed to RC Investment Properties' investors and prospects.\n\n")
	if task.Instructions != "" {
		fmt.Fprintf(&b, "Additional instructions: %s\n\n", task.Instructions)
	}
	b.WriteString("## KNOWLEDGE BASE CONTEXT\n")
	b.WriteString(formatContext(context))
	b.WriteString("\n\nWrite the report now in Markdown format.")
	return b.String()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// splitReportTopic extracts the market and period from a report topic of
// the form "market - period".
func splitReportTopic(topic string) (market, period string) {
	market = "houston"
	period = "Latest"
	parts := strings.SplitN(topic, " - ", 2)
	if len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
		market = parts[0]
	}
	if len(parts) > 1 {
		period = parts[1]
	}
	return market, period
}

// formatContext renders knowledge base context into a readable prompt
// section.
func formatContext(context knowledge.TopicContext) string {
	var parts []string

	if len(context.FirmFacts) > 0 {
		parts = append(parts, "### Firm Facts")
		for _, fact := range context.FirmFacts {
			parts = append(parts, fmt.Sprintf("- %s: %s", fact.Key, fact.Value))
		}
	}

	if len(context.MarketData) > 0 {
		parts = append(parts, "\n### Market Data")
		for _, data := range context.MarketData {
			source := ""
			if data.Source != "" {
				source = fmt.Sprintf(" (Source: %s)", data.Source)
			}
			period := ""
			if data.Period != "" {
				period = fmt.Sprintf(" [%s]", data.Period)
			}
			parts = append(parts, fmt.Sprintf("- %s %s: %s%s%s",
				titleCase(data.Market), data.Metric, data.Value, period, source))
		}
	}

	if len(context.BrandRules) > 0 {
		parts = append(parts, "\n### Brand Rules")
		for _, rule := range context.BrandRules {
			parts = append(parts, fmt.Sprintf("- [%s] %s", rule.RuleType, rule.Rule))
		}
	}

	if len(context.RecentContent) > 0 {
		parts = append(parts, "\n### Recently Created Content (avoid repetition)")
		for _, content := range context.RecentContent {
			parts = append(parts, fmt.Sprintf("- [%s] %s...", content.ContentType, truncate(content.Body, 100)))
		}
	}

	if len(context.Inspiration) > 0 {
		parts = append(parts, "\n### Inspiration (content the principals liked recently)")
		parts = append(parts, "Use these as style/topic inspiration — don't copy, but draw from the themes and formats:")
		for _, insp := range context.Inspiration {
			author := insp.Author
			if author == "" {
				author = "Unknown"
			}
			entry := fmt.Sprintf("- [%s] %s: %s", insp.SourceType, author, truncate(insp.Body, 150))
			if insp.Notes != "" {
				entry += fmt.Sprintf(" (Note: %s)", insp.Notes)
			}
			parts = append(parts, entry)
		}
	}

	if len(parts) == 0 {
		return "No context available."
	}
	return strings.Join(parts, "\n")
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
