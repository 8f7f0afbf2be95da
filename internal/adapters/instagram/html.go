package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"recipegram/internal/domain"
	"recipegram/pkg/log"
)

// Desktop browser headers for the public page fetch.
var pageHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"DNT":                       "1",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-User":            "?1",
	"Cache-Control":             "max-age=0",
}

// htmlTechnique is one way of digging a caption out of page markup. The
// techniques target markup generations that Instagram has shipped over the
// years; any of them can die independently when the site changes, so each
// is pluggable and failures never cross technique boundaries.
type htmlTechnique struct {
	name    string
	extract func(html string) (string, bool)
}

var htmlTechniques = []htmlTechnique{
	{name: "og_description", extract: ogDescription},
	{name: "shared_data", extract: sharedData},
	{name: "json_ld", extract: jsonLD},
	{name: "embedded_graphql", extract: embeddedGraphQL},
}

var (
	ogDescriptionRe   = regexp.MustCompile(`<meta property="og:description" content="([^"]+)"`)
	sharedDataRe      = regexp.MustCompile(`(?s)window\._sharedData\s*=\s*(\{.+?\});`)
	jsonLDRe          = regexp.MustCompile(`(?s)<script type="application/ld\+json">\s*(\{.+?\})\s*</script>`)
	embeddedGraphQLRe = regexp.MustCompile(`"edge_media_to_caption":\s*\{\s*"edges":\s*\[\s*\{\s*"node":\s*\{\s*"text":\s*"((?:[^"\\]|\\.)*)"`)
)

// HTMLStrategy fetches the public post page and pattern-matches the caption
// out of embedded metadata.
type HTMLStrategy struct {
	baseURL string
	client  *http.Client
}

// NewHTMLStrategy creates a strategy against the live site.
func NewHTMLStrategy() *HTMLStrategy {
	return NewHTMLStrategyWithClient("", &http.Client{Timeout: 15 * time.Second})
}

// NewHTMLStrategyWithClient creates a strategy that fetches pages from
// baseURL instead of the post's own URL. Useful for testing.
func NewHTMLStrategyWithClient(baseURL string, client *http.Client) *HTMLStrategy {
	return &HTMLStrategy{baseURL: baseURL, client: client}
}

// Name identifies the strategy in results and logs.
func (s *HTMLStrategy) Name() domain.Strategy {
	return domain.StrategyHTML
}

// Extract performs a single page GET (redirects followed) and runs the
// techniques in fixed order. A non-2xx page fetch fails the whole strategy
// with no retry; a page fetch is not transient-sharded the way the GraphQL
// endpoint is.
func (s *HTMLStrategy) Extract(ctx context.Context, post domain.PostRef) (*domain.Caption, error) {
	pageURL := PostURL(post.Shortcode)
	if s.baseURL != "" {
		pageURL = s.baseURL + "/p/" + post.Shortcode + "/"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range pageHeaders {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("html page fetch: %w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("html page fetch status %d: %w", resp.StatusCode, domain.ErrCaptionNotFound)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("html page read: %w: %v", domain.ErrNetwork, err)
	}

	page := string(raw)
	for _, t := range htmlTechniques {
		text, ok := t.extract(page)
		if !ok {
			continue
		}
		log.GlobalDebugCtx(ctx, "html caption found",
			"shortcode", post.Shortcode, "technique", t.name, "length", len(text))
		return &domain.Caption{
			Shortcode: post.Shortcode,
			Text:      text,
			Strategy:  domain.StrategyHTML,
		}, nil
	}

	return nil, fmt.Errorf("html: %d techniques exhausted: %w", len(htmlTechniques), domain.ErrCaptionNotFound)
}

// ogDescription reads the open-graph meta description.
func ogDescription(html string) (string, bool) {
	m := ogDescriptionRe.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}
	return nonEmpty(decodeEntities(m[1]))
}

// sharedData walks the legacy window._sharedData blob down to the caption
// edge list. Parse errors mean "this technique failed", nothing more.
func sharedData(html string) (string, bool) {
	m := sharedDataRe.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}

	var blob map[string]any
	if err := json.Unmarshal([]byte(m[1]), &blob); err != nil {
		return "", false
	}

	entryData, _ := blob["entry_data"].(map[string]any)
	if entryData == nil {
		return "", false
	}
	postPages, _ := entryData["PostPage"].([]any)
	if len(postPages) == 0 {
		return "", false
	}
	page, _ := postPages[0].(map[string]any)
	if page == nil {
		return "", false
	}
	graphql, _ := page["graphql"].(map[string]any)
	if graphql == nil {
		return "", false
	}
	media, _ := graphql["shortcode_media"].(map[string]any)
	if media == nil {
		return "", false
	}
	return edgeCaption(media)
}

// jsonLD reads the description field of the structured-data script block.
func jsonLD(html string) (string, bool) {
	m := jsonLDRe.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}

	var blob struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(m[1]), &blob); err != nil {
		return "", false
	}
	return nonEmpty(blob.Description)
}

// embeddedGraphQL matches the caption pattern of GraphQL data inlined in
// page markup without a named global. The capture is a JSON string literal
// body, so it is unescaped through the JSON decoder.
func embeddedGraphQL(html string) (string, bool) {
	m := embeddedGraphQLRe.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}

	var text string
	if err := json.Unmarshal([]byte(`"`+m[1]+`"`), &text); err != nil {
		return "", false
	}
	return nonEmpty(text)
}
