// Package domain contains the core business entities and rules.
package domain

import "time"

// Strategy identifies which extraction path produced a caption.
type Strategy string

const (
	StrategyGraphQL Strategy = "graphql"
	StrategyHTML    Strategy = "html"
	StrategyOEmbed  Strategy = "oembed"
	StrategyBrowser Strategy = "browser"
)

// PostRef identifies one post. Derived from the input URL, never persisted.
type PostRef struct {
	Shortcode string
	URL       string
}

// Caption is the outcome of one successful extraction for a post.
type Caption struct {
	Shortcode string
	Text      string
	Strategy  Strategy
	DocID     string // populated by the GraphQL strategy only
	// Degraded marks metadata-only results (oEmbed exposes title and
	// author, never the full caption).
	Degraded bool
}

// CachedCaption is an immutable cache value. Re-extraction overwrites
// the key with a fresh entry; entries are never mutated in place.
type CachedCaption struct {
	Caption    Caption
	InsertedAt time.Time
}

// Extraction is what the orchestrator hands back to callers.
type Extraction struct {
	Caption Caption
	Cached  bool
}
