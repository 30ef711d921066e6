package analyze

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// BuildTitlePrompt returns the title prompt for text.
func BuildTitlePrompt(text string) string {
	return fmt.Sprintf(`Given the following content, extract a clear and concise title that best represents the main topic.
Content: %s

Return only the title text, without any quotes or formatting.`, Truncate(text, TitleLimit))
}

// BuildKeywordsPrompt returns the keywords prompt for text.
func BuildKeywordsPrompt(text string) string {
	return fmt.Sprintf(`Given the following content, extract 5-7 relevant keywords that best represent the main topics and themes.
Content: %s

Return the keywords as a comma-separated list, without any quotes or brackets.`, Truncate(text, KeywordsLimit))
}

// BuildSummaryPrompt returns the summary prompt for text.
func BuildSummaryPrompt(text string) string {
	return fmt.Sprintf(`Given the following content, provide a brief summary in 2-3 sentences that captures the main points and key takeaways.
Content: %s

Return only the summary text, without any quotes or formatting.`, Truncate(text, SummaryLimit))
}

// BuildHashtagsPrompt returns the hashtags prompt for text.
func BuildHashtagsPrompt(text string) string {
	return fmt.Sprintf(`Given the following content, generate 3-5 relevant hashtags that would be appropriate for social media sharing.
Content: %s

Return the hashtags as a comma-separated list, including the # symbol, without any quotes or brackets.`, Truncate(text, HashtagsLimit))
}

// BuildArticlePrompt returns the full-article prompt for source, which may
// be Markdown or plain text.
func BuildArticlePrompt(source string) string {
	return fmt.Sprintf(`Rewrite the following content as a well-structured article in Markdown with a heading, short paragraphs and subheadings where they help.
Keep the facts and the order of the original and do not add new information.
Content: %s

Return only the article.`, Truncate(source, ArticleLimit))
}

// Truncate returns at most n characters of s without splitting a UTF-8
// sequence.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// quotePairs are the wrapping quotes models like to add.
var quotePairs = [][2]string{
	{`"`, `"`},
	{`'`, `'`},
	{"`", "`"},
	{"“", "”"},
	{"‘", "’"},
	{"*", "*"},
}

// CleanText trims s and removes one layer of wrapping quotes.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range quotePairs {
		if len(s) >= len(q[0])+len(q[1]) && strings.HasPrefix(s, q[0]) && strings.HasSuffix(s, q[1]) {
			return strings.TrimSpace(s[len(q[0]) : len(s)-len(q[1])])
		}
	}
	return s
}

// ParseList splits a model reply on commas and newlines. List markers and
// wrapping quotes are removed, empty items and exact duplicates are dropped.
func ParseList(reply string) []string {
	fields := strings.FieldsFunc(reply, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	items := []string{}
	seen := make(map[string]bool)
	for _, f := range fields {
		f = CleanText(trimMarker(strings.TrimSpace(f)))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		items = append(items, f)
	}
	return items
}

// ParseHashtags parses a list reply into hashtags. Items are prefixed with #
// when missing, and multi-word items are joined into one tag unless every
// word is already a tag.
func ParseHashtags(reply string) []string {
	tags := []string{}
	seen := make(map[string]bool)
	add := func(tag string) {
		tag = "#" + strings.TrimLeft(tag, "#")
		if tag == "#" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	for _, item := range ParseList(reply) {
		words := strings.Fields(item)
		if allTags(words) {
			for _, w := range words {
				add(w)
			}
			continue
		}
		add(strings.Join(words, ""))
	}
	return tags
}

func allTags(words []string) bool {
	for _, w := range words {
		if !strings.HasPrefix(w, "#") {
			return false
		}
	}
	return len(words) > 1
}

// trimMarker removes a leading bullet or "1." / "1)" list marker.
func trimMarker(s string) string {
	for _, bullet := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(s, bullet) {
			return strings.TrimSpace(s[len(bullet):])
		}
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i+1 < len(s) && (s[i] == '.' || s[i] == ')') && s[i+1] == ' ' {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

// trimHeading removes a leading Markdown heading marker.
func trimHeading(s string) string {
	t := strings.TrimLeft(s, "#")
	if t != s && strings.HasPrefix(t, " ") {
		return strings.TrimSpace(t)
	}
	return s
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
