package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipegram/internal/domain"
	"recipegram/pkg/log"
)

const graphQLEndpoint = "https://www.instagram.com/api/graphql"

// Headers that mark the call as a browser XHR session. Public posts need no
// real cookie or CSRF token, but the endpoint rejects requests that lack
// these markers entirely.
var graphQLHeaders = map[string]string{
	"content-type":     "application/x-www-form-urlencoded",
	"user-agent":       "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
	"x-requested-with": "XMLHttpRequest",
	"referer":          "https://www.instagram.com/",
	"x-csrftoken":      "missing",
	"x-instagram-ajax": "1",
	"x-ig-app-id":      "936619743392459",
	"x-ig-www-claim":   "0",
	"accept":           "*/*",
	"accept-language":  "en-US,en;q=0.9",
	"sec-fetch-dest":   "empty",
	"sec-fetch-mode":   "cors",
	"sec-fetch-site":   "same-origin",
}

// GraphQLStrategy extracts captions by calling the private GraphQL endpoint
// directly, iterating over the configured document IDs. Each ID addresses a
// different backend query version and any of them can be disabled or
// rate-limited independently, so trying several is what buys availability
// against an API with no SLA.
type GraphQLStrategy struct {
	endpoint string
	docIDs   *DocIDConfig
	client   *http.Client
	backoff  time.Duration
}

// NewGraphQLStrategy creates a strategy against the real endpoint.
func NewGraphQLStrategy(docIDs *DocIDConfig) *GraphQLStrategy {
	return NewGraphQLStrategyWithClient(
		docIDs,
		graphQLEndpoint,
		&http.Client{Timeout: 10 * time.Second},
		400*time.Millisecond,
	)
}

// NewGraphQLStrategyWithClient creates a strategy with a custom endpoint,
// HTTP client and retry backoff. Useful for testing.
func NewGraphQLStrategyWithClient(docIDs *DocIDConfig, endpoint string, client *http.Client, backoff time.Duration) *GraphQLStrategy {
	return &GraphQLStrategy{
		endpoint: endpoint,
		docIDs:   docIDs,
		client:   client,
		backoff:  backoff,
	}
}

// Name identifies the strategy in results and logs.
func (s *GraphQLStrategy) Name() domain.Strategy {
	return domain.StrategyGraphQL
}

// Extract tries each document ID in order. First success wins; no further
// IDs are tried. Network failures are retried once per ID with a short
// linear backoff, malformed or empty responses move straight to the next
// ID. Per-attempt failures never escape this method.
func (s *GraphQLStrategy) Extract(ctx context.Context, post domain.PostRef) (*domain.Caption, error) {
	ids := s.docIDs.DocIDs()

	for _, docID := range ids {
		for attempt := 0; attempt < 2; attempt++ {
			caption, err := s.fetch(ctx, post.Shortcode, docID)
			if err == nil {
				log.GlobalDebugCtx(ctx, "graphql caption found",
					"shortcode", post.Shortcode, "doc_id", docID, "attempt", attempt)
				return caption, nil
			}

			log.GlobalDebugCtx(ctx, "graphql attempt failed",
				"shortcode", post.Shortcode, "doc_id", docID, "attempt", attempt, "error", err)

			// Only network failures are worth a second try on the
			// same ID; malformed or captionless responses are a
			// property of the ID, not the connection.
			if !errors.Is(err, domain.ErrNetwork) {
				break
			}
			if attempt == 0 {
				if err := sleepCtx(ctx, s.backoff*time.Duration(attempt+1)); err != nil {
					return nil, err
				}
			}
		}
	}

	return nil, fmt.Errorf("graphql: %d doc ids exhausted: %w", len(ids), domain.ErrCaptionNotFound)
}

// fetch performs one POST for one document ID and classifies the outcome.
func (s *GraphQLStrategy) fetch(ctx context.Context, shortcode, docID string) (*domain.Caption, error) {
	variables, err := json.Marshal(map[string]string{"shortcode": shortcode})
	if err != nil {
		return nil, err
	}
	body := "variables=" + url.QueryEscape(string(variables)) + "&doc_id=" + url.QueryEscape(docID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, v := range graphQLHeaders {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graphql doc_id %s: %w: %v", docID, domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("graphql doc_id %s: %w: %v", docID, domain.ErrNetwork, err)
	}

	// The endpoint answers errors and login walls with an HTML page.
	// Always inspect the raw body before parsing.
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "<") {
		return nil, fmt.Errorf("graphql doc_id %s status %d: html body: %w", docID, resp.StatusCode, domain.ErrMalformedResponse)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("graphql doc_id %s status %d: %w", docID, resp.StatusCode, domain.ErrMalformedResponse)
	}

	text, ok := ParseCaption(raw)
	if !ok {
		return nil, fmt.Errorf("graphql doc_id %s status %d: %w", docID, resp.StatusCode, domain.ErrCaptionNotFound)
	}

	return &domain.Caption{
		Shortcode: shortcode,
		Text:      text,
		Strategy:  domain.StrategyGraphQL,
		DocID:     docID,
	}, nil
}

// sleepCtx waits for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
