// Package usecases wires the domain operations: caption extraction with
// its fallback chain, recipe generation, reformulation, and the library.
package usecases

import (
	"context"
	"time"

	"recipegram/internal/adapters/instagram"
	"recipegram/internal/domain"
	"recipegram/pkg/log"

	"golang.org/x/sync/singleflight"
)

// CaptionCache defines the interface for caching extracted captions.
type CaptionCache interface {
	Get(shortcode string) (*domain.CachedCaption, bool)
	Set(shortcode string, entry *domain.CachedCaption)
	Len() int
}

// CaptionStrategy is one way of extracting a caption. Strategies absorb
// their internal failures and return an error only when the whole strategy
// is exhausted.
type CaptionStrategy interface {
	Name() domain.Strategy
	Extract(ctx context.Context, post domain.PostRef) (*domain.Caption, error)
}

// ExtractCaptionUseCase runs the strategy fallback chain: cache check,
// then each strategy in priority order, strictly sequentially. Strategies
// are never fanned out in parallel.
type ExtractCaptionUseCase struct {
	cache      CaptionCache
	strategies []CaptionStrategy
	flight     singleflight.Group
}

// NewExtractCaptionUseCase creates the orchestrator. Strategy order is
// priority order.
func NewExtractCaptionUseCase(cache CaptionCache, strategies ...CaptionStrategy) *ExtractCaptionUseCase {
	return &ExtractCaptionUseCase{
		cache:      cache,
		strategies: strategies,
	}
}

// Execute extracts the caption for an Instagram post URL.
//
// Invalid URLs fail fast with ErrInvalidURL before any network call. A
// cache hit returns immediately. Concurrent misses for the same shortcode
// are collapsed into one strategy walk. When every strategy fails the
// caller sees ErrExhausted and nothing lower-level.
func (uc *ExtractCaptionUseCase) Execute(ctx context.Context, url string) (*domain.Extraction, error) {
	shortcode := instagram.ExtractShortcode(url)
	if shortcode == "" {
		return nil, domain.ErrInvalidURL
	}

	if entry, found := uc.cache.Get(shortcode); found {
		log.GlobalDebugCtx(ctx, "cache hit", "shortcode", shortcode, "strategy", entry.Caption.Strategy)
		return &domain.Extraction{Caption: entry.Caption, Cached: true}, nil
	}

	result, err, shared := uc.flight.Do(shortcode, func() (any, error) {
		// A concurrent flight may have landed between our miss and
		// joining the group.
		if entry, found := uc.cache.Get(shortcode); found {
			return &domain.Extraction{Caption: entry.Caption, Cached: true}, nil
		}
		return uc.runChain(ctx, domain.PostRef{Shortcode: shortcode, URL: url})
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.GlobalDebugCtx(ctx, "extraction shared with concurrent request", "shortcode", shortcode)
	}
	return result.(*domain.Extraction), nil
}

// runChain tries each strategy in order and caches the first success.
func (uc *ExtractCaptionUseCase) runChain(ctx context.Context, post domain.PostRef) (*domain.Extraction, error) {
	for _, strategy := range uc.strategies {
		caption, err := strategy.Extract(ctx, post)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.GlobalWarnCtx(ctx, "extraction strategy failed",
				"shortcode", post.Shortcode, "strategy", strategy.Name(), "error", err)
			continue
		}

		uc.cache.Set(post.Shortcode, &domain.CachedCaption{
			Caption:    *caption,
			InsertedAt: time.Now(),
		})

		log.GlobalInfoCtx(ctx, "caption extracted",
			"shortcode", post.Shortcode,
			"strategy", caption.Strategy,
			"degraded", caption.Degraded,
			"length", len(caption.Text))
		return &domain.Extraction{Caption: *caption}, nil
	}

	log.GlobalWarnCtx(ctx, "all extraction strategies exhausted", "shortcode", post.Shortcode)
	return nil, domain.ErrExhausted
}

// CacheLen reports the cache size for the health probe.
func (uc *ExtractCaptionUseCase) CacheLen() int {
	return uc.cache.Len()
}
