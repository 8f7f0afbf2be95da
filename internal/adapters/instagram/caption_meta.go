package instagram

import (
	"regexp"
	"strings"
)

var (
	handleRe = regexp.MustCompile(`@([a-zA-Z0-9._]+)`)

	// By-line shapes seen in caption text ("By louloukitchen", dated
	// attribution lines). Checked after the @handle form.
	bylineRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\w+)\s+on\s+\w+\s+\d+,\s+\d+:`),
		regexp.MustCompile(`(?i)\bby\s+([a-zA-Z0-9._]+)`),
	}

	titleCleanRe = regexp.MustCompile(`[^\p{L}\p{N}\s\-.,!?]`)

	entityRe = regexp.MustCompile(`&[a-zA-Z0-9#]+;`)
)

var htmlEntities = map[string]string{
	"&amp;":  "&",
	"&lt;":   "<",
	"&gt;":   ">",
	"&quot;": `"`,
	"&#x27;": "'",
	"&#x2F;": "/",
	"&#x60;": "`",
	"&#x3D;": "=",
	"&#xa0;": " ",
}

// decodeEntities resolves the HTML entities Instagram leaves in scraped
// metadata text. Unknown entities are passed through untouched.
func decodeEntities(text string) string {
	return entityRe.ReplaceAllStringFunc(text, func(entity string) string {
		if replacement, ok := htmlEntities[entity]; ok {
			return replacement
		}
		return entity
	})
}

// TitleFromCaption derives a display title from the first meaningful
// caption line, cleaned and capped at 100 characters.
func TitleFromCaption(caption string) string {
	const fallback = "Instagram post"

	decoded := decodeEntities(caption)
	for _, line := range strings.Split(decoded, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 3 {
			continue
		}
		cleaned := strings.TrimSpace(titleCleanRe.ReplaceAllString(line, ""))
		if cleaned == "" {
			continue
		}
		if runes := []rune(cleaned); len(runes) > 100 {
			cleaned = string(runes[:100])
		}
		return cleaned
	}
	return fallback
}

// AuthorFromCaption guesses the post author from @handle or by-line
// patterns inside the caption. Returns "" when nothing plausible is found.
func AuthorFromCaption(caption string) string {
	decoded := decodeEntities(caption)

	if m := handleRe.FindStringSubmatch(decoded); m != nil {
		return m[1]
	}
	for _, re := range bylineRes {
		if m := re.FindStringSubmatch(decoded); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
