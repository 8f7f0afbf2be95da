package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipegram/internal/domain"
	"recipegram/pkg/log"
)

const oembedEndpoint = "https://graph.facebook.com/v23.0/instagram_oembed"

// OEmbedStrategy calls the officially sanctioned oEmbed endpoint. The
// endpoint never exposes full captions, only title and author metadata, so
// every result it produces is flagged degraded; strictly a last resort.
type OEmbedStrategy struct {
	endpoint    string
	accessToken string
	client      *http.Client
}

// NewOEmbedStrategy creates a strategy using the app-id/client-token
// credential pair.
func NewOEmbedStrategy(appID, clientToken string) *OEmbedStrategy {
	client := &http.Client{
		Timeout: 10 * time.Second,
		// A redirect from this endpoint means an auth or deprecation
		// problem, not content. Surface it instead of following.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return NewOEmbedStrategyWithClient(oembedEndpoint, appID+"|"+clientToken, client)
}

// NewOEmbedStrategyWithClient creates a strategy against a custom endpoint.
// Useful for testing.
func NewOEmbedStrategyWithClient(endpoint, accessToken string, client *http.Client) *OEmbedStrategy {
	return &OEmbedStrategy{
		endpoint:    endpoint,
		accessToken: accessToken,
		client:      client,
	}
}

// Name identifies the strategy in results and logs.
func (s *OEmbedStrategy) Name() domain.Strategy {
	return domain.StrategyOEmbed
}

// Extract requests oEmbed metadata for the post URL. 3xx responses and
// HTML bodies are failures; a parsed response without title or author is a
// completed lookup that found nothing.
func (s *OEmbedStrategy) Extract(ctx context.Context, post domain.PostRef) (*domain.Caption, error) {
	params := url.Values{}
	params.Set("url", post.URL)
	params.Set("access_token", s.accessToken)
	params.Set("omitscript", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Recipegram/1.0 (+https://recipegram.app)")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oembed: %w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		return nil, fmt.Errorf("oembed redirect to %s: %w", resp.Header.Get("Location"), domain.ErrMalformedResponse)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("oembed: %w: %v", domain.ErrNetwork, err)
	}
	if strings.HasPrefix(strings.TrimSpace(string(raw)), "<") {
		return nil, fmt.Errorf("oembed status %d: html body: %w", resp.StatusCode, domain.ErrMalformedResponse)
	}

	var body struct {
		Title      string `json:"title"`
		AuthorName string `json:"author_name"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("oembed status %d: %w", resp.StatusCode, domain.ErrMalformedResponse)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("oembed: %w", domain.ErrRateLimited)
	}

	text := strings.TrimSpace(body.Title)
	if text == "" {
		text = strings.TrimSpace(body.AuthorName)
	}
	if text == "" {
		return nil, fmt.Errorf("oembed status %d: %w", resp.StatusCode, domain.ErrCaptionNotFound)
	}

	log.GlobalDebugCtx(ctx, "oembed metadata found",
		"shortcode", post.Shortcode, "length", len(text))

	return &domain.Caption{
		Shortcode: post.Shortcode,
		Text:      text,
		Strategy:  domain.StrategyOEmbed,
		Degraded:  true,
	}, nil
}
