package generator

import (
	"regexp"
	"strings"
	"unicode"
)

// SplitThread splits a numbered thread response ("1/ ...", "2/ ...") into
// individual tweets. Responses without numbering become a single tweet.
func SplitThread(response string) []string {
	var tweets []string
	var current []string

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		if startsNumberedTweet(stripped) {
			if len(current) > 0 {
				tweets = append(tweets, strings.TrimSpace(strings.Join(current, "\n")))
			}
			current = []string{stripped}
		} else {
			current = append(current, stripped)
		}
	}
	if len(current) > 0 {
		tweets = append(tweets, strings.TrimSpace(strings.Join(current, "\n")))
	}

	if len(tweets) == 0 {
		tweets = []string{strings.TrimSpace(response)}
	}
	return tweets
}

// startsNumberedTweet reports whether a line opens a numbered thread unit,
// i.e. begins with a digit and has a "/" within the first four characters.
func startsNumberedTweet(line string) bool {
	if line == "" || !unicode.IsDigit(rune(line[0])) {
		return false
	}
	prefix := line
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	return strings.Contains(prefix, "/")
}

// extractHashtags pulls trailing hashtag lines out of a LinkedIn response.
// Returns the body with hashtag lines removed and the collected tags; when
// tags are present they are reattached to the body as a final line.
func extractHashtags(response string) (body string, hashtags []string) {
	var bodyLines []string

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		stripped := strings.TrimSpace(line)
		if stripped != "" && isHashtagLine(stripped) {
			for _, word := range strings.Fields(stripped) {
				if strings.HasPrefix(word, "#") {
					hashtags = append(hashtags, word)
				}
			}
		} else {
			bodyLines = append(bodyLines, line)
		}
	}

	body = strings.TrimSpace(strings.Join(bodyLines, "\n"))
	if len(hashtags) > 0 {
		body = body + "\n\n" + strings.Join(hashtags, " ")
	}
	return body, hashtags
}

func isHashtagLine(line string) bool {
	for _, word := range strings.Fields(line) {
		if !strings.HasPrefix(word, "#") {
			return false
		}
	}
	return true
}

var (
	h1Pattern   = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	metaPattern = regexp.MustCompile(`(?i)<meta\s+name=["']description["']\s+content=["'](.*?)["']`)
	pPattern    = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
	wordPattern = regexp.MustCompile(`\b\w+\b`)
)

// extractBlogTitle pulls the article title from the first H1 tag, falling
// back to the first line that is not markup.
func extractBlogTitle(html string) string {
	if m := h1Pattern.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(tagPattern.ReplaceAllString(m[1], ""))
	}
	for _, line := range strings.Split(html, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped != "" && !strings.HasPrefix(stripped, "<") {
			return stripped
		}
	}
	return "Untitled"
}

// extractMetaDescription pulls the meta description, falling back to the
// first paragraph truncated to 160 characters.
func extractMetaDescription(html string) string {
	if m := metaPattern.FindStringSubmatch(html); m != nil {
		return m[1]
	}
	if m := pPattern.FindStringSubmatch(html); m != nil {
		text := strings.TrimSpace(tagPattern.ReplaceAllString(m[1], ""))
		if len(text) > 160 {
			text = text[:160]
		}
		return text
	}
	return ""
}

// wordCount counts words in the text content of an HTML fragment.
func wordCount(html string) int {
	return len(wordPattern.FindAllString(tagPattern.ReplaceAllString(html, ""), -1))
}

// extractReportTitle pulls the title from the first markdown H1.
func extractReportTitle(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "# ") && !strings.HasPrefix(stripped, "## ") {
			return strings.TrimSpace(stripped[2:])
		}
	}
	return "Market Update Report"
}
