package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"recipegram/internal/adapters/cache"
	"recipegram/internal/adapters/instagram"
	"recipegram/internal/domain"
	"recipegram/internal/usecases"
	"recipegram/test/fixtures"
)

// MockCache is an in-memory CaptionCache for orchestration tests.
type MockCache struct {
	mu      sync.Mutex
	entries map[string]*domain.CachedCaption
	sets    int
}

func NewMockCache() *MockCache {
	return &MockCache{entries: make(map[string]*domain.CachedCaption)}
}

func (m *MockCache) Get(shortcode string) (*domain.CachedCaption, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[shortcode]
	return entry, ok
}

func (m *MockCache) Set(shortcode string, entry *domain.CachedCaption) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[shortcode] = entry
	m.sets++
}

func (m *MockCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// MockStrategy is a scripted CaptionStrategy.
type MockStrategy struct {
	name    domain.Strategy
	caption *domain.Caption
	err     error
	calls   int
}

func (m *MockStrategy) Name() domain.Strategy { return m.name }

func (m *MockStrategy) Extract(ctx context.Context, post domain.PostRef) (*domain.Caption, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	caption := *m.caption
	caption.Shortcode = post.Shortcode
	return &caption, nil
}

// slowStrategy counts calls under a lock and holds each extraction long
// enough for concurrent callers to pile up on the same shortcode.
type slowStrategy struct {
	mu    sync.Mutex
	calls int
	delay time.Duration
}

func (s *slowStrategy) Name() domain.Strategy { return domain.StrategyGraphQL }

func (s *slowStrategy) Extract(ctx context.Context, post domain.PostRef) (*domain.Caption, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	time.Sleep(s.delay)
	return &domain.Caption{Text: "collapsed", Strategy: domain.StrategyGraphQL, Shortcode: post.Shortcode}, nil
}

const postURL = "https://www.instagram.com/p/DJ9b-qWsTMg/"

func TestExtractCaption_InvalidURL_FailsBeforeAnyStrategy(t *testing.T) {
	// Arrange
	strategy := &MockStrategy{name: domain.StrategyGraphQL, err: errors.New("should not run")}
	uc := usecases.NewExtractCaptionUseCase(NewMockCache(), strategy)

	// Act
	_, err := uc.Execute(context.Background(), "https://example.com/watch?v=123")

	// Assert
	if !errors.Is(err, domain.ErrInvalidURL) {
		t.Errorf("error = %v, want ErrInvalidURL", err)
	}
	if strategy.calls != 0 {
		t.Errorf("strategy called %d times for an invalid URL", strategy.calls)
	}
}

func TestExtractCaption_FirstStrategyWins(t *testing.T) {
	first := &MockStrategy{name: domain.StrategyGraphQL, caption: &domain.Caption{Text: "from graphql", Strategy: domain.StrategyGraphQL}}
	second := &MockStrategy{name: domain.StrategyHTML, err: errors.New("should not run")}
	uc := usecases.NewExtractCaptionUseCase(NewMockCache(), first, second)

	extraction, err := uc.Execute(context.Background(), postURL)

	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if extraction.Caption.Text != "from graphql" {
		t.Errorf("caption = %q", extraction.Caption.Text)
	}
	if extraction.Cached {
		t.Error("fresh extraction reported as cached")
	}
	if second.calls != 0 {
		t.Errorf("second strategy called %d times after first succeeded", second.calls)
	}
}

func TestExtractCaption_FallsThroughToNextStrategy(t *testing.T) {
	first := &MockStrategy{name: domain.StrategyGraphQL, err: fmt.Errorf("wrapped: %w", domain.ErrCaptionNotFound)}
	second := &MockStrategy{name: domain.StrategyHTML, caption: &domain.Caption{Text: "from html", Strategy: domain.StrategyHTML}}
	uc := usecases.NewExtractCaptionUseCase(NewMockCache(), first, second)

	extraction, err := uc.Execute(context.Background(), postURL)

	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if extraction.Caption.Strategy != domain.StrategyHTML {
		t.Errorf("strategy = %q, want html", extraction.Caption.Strategy)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Errorf("calls = %d, %d; want 1, 1", first.calls, second.calls)
	}
}

func TestExtractCaption_DegradedResultPassesThrough(t *testing.T) {
	graphql := &MockStrategy{name: domain.StrategyGraphQL, err: domain.ErrCaptionNotFound}
	html := &MockStrategy{name: domain.StrategyHTML, err: domain.ErrCaptionNotFound}
	oembed := &MockStrategy{name: domain.StrategyOEmbed, caption: &domain.Caption{Text: "title only", Strategy: domain.StrategyOEmbed, Degraded: true}}
	uc := usecases.NewExtractCaptionUseCase(NewMockCache(), graphql, html, oembed)

	extraction, err := uc.Execute(context.Background(), postURL)

	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !extraction.Caption.Degraded {
		t.Error("degraded flag lost in the chain")
	}
}

func TestExtractCaption_AllStrategiesFail_ReturnsExhausted(t *testing.T) {
	first := &MockStrategy{name: domain.StrategyGraphQL, err: domain.ErrMalformedResponse}
	second := &MockStrategy{name: domain.StrategyHTML, err: domain.ErrNetwork}
	uc := usecases.NewExtractCaptionUseCase(NewMockCache(), first, second)

	_, err := uc.Execute(context.Background(), postURL)

	if !errors.Is(err, domain.ErrExhausted) {
		t.Errorf("error = %v, want ErrExhausted", err)
	}
	if errors.Is(err, domain.ErrMalformedResponse) || errors.Is(err, domain.ErrNetwork) {
		t.Error("strategy-internal errors must not escape the orchestrator")
	}
}

func TestExtractCaption_SuccessIsCached(t *testing.T) {
	mockCache := NewMockCache()
	strategy := &MockStrategy{name: domain.StrategyGraphQL, caption: &domain.Caption{Text: "cache me", Strategy: domain.StrategyGraphQL}}
	uc := usecases.NewExtractCaptionUseCase(mockCache, strategy)

	first, err := uc.Execute(context.Background(), postURL)
	if err != nil {
		t.Fatalf("first Execute failed: %v", err)
	}
	second, err := uc.Execute(context.Background(), postURL)
	if err != nil {
		t.Fatalf("second Execute failed: %v", err)
	}

	if first.Cached {
		t.Error("first extraction reported as cached")
	}
	if !second.Cached {
		t.Error("second extraction should come from the cache")
	}
	if strategy.calls != 1 {
		t.Errorf("strategy called %d times, want 1", strategy.calls)
	}
	if uc.CacheLen() != 1 {
		t.Errorf("CacheLen = %d, want 1", uc.CacheLen())
	}
}

func TestExtractCaption_FailuresAreNotCached(t *testing.T) {
	mockCache := NewMockCache()
	strategy := &MockStrategy{name: domain.StrategyGraphQL, err: domain.ErrCaptionNotFound}
	uc := usecases.NewExtractCaptionUseCase(mockCache, strategy)

	uc.Execute(context.Background(), postURL)
	uc.Execute(context.Background(), postURL)

	if mockCache.sets != 0 {
		t.Errorf("cache written %d times on failure", mockCache.sets)
	}
	if strategy.calls != 2 {
		t.Errorf("strategy called %d times, want 2; failures must not be cached", strategy.calls)
	}
}

func TestExtractCaption_ConcurrentMissesCollapse(t *testing.T) {
	// Arrange
	strategy := &slowStrategy{delay: 100 * time.Millisecond}
	uc := usecases.NewExtractCaptionUseCase(NewMockCache(), strategy)

	// Act: five misses for the same shortcode, in flight at once.
	const workers = 5
	var wg sync.WaitGroup
	results := make([]*domain.Extraction, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = uc.Execute(context.Background(), postURL)
		}(i)
	}
	wg.Wait()

	// Assert
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("request %d failed: %v", i, errs[i])
		}
		if results[i].Caption.Text != "collapsed" {
			t.Errorf("request %d caption = %q", i, results[i].Caption.Text)
		}
	}
	strategy.mu.Lock()
	calls := strategy.calls
	strategy.mu.Unlock()
	if calls != 1 {
		t.Errorf("strategy ran %d times for %d concurrent requests, want 1", calls, workers)
	}
}

func TestExtractCaption_EndToEnd_GraphQLWithRealCache(t *testing.T) {
	// Arrange: a stub GraphQL endpoint serving the marble cake payload,
	// behind the real strategy and the real LRU cache.
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(fixtures.GraphQLPayload(fixtures.CakeMarbreCaption)))
	}))
	defer server.Close()

	strategy := instagram.NewGraphQLStrategyWithClient(
		instagram.StaticDocIDs("111"),
		server.URL,
		server.Client(),
		time.Millisecond,
	)
	uc := usecases.NewExtractCaptionUseCase(cache.NewMemoryCache(10, time.Hour), strategy)

	// Act
	first, err := uc.Execute(context.Background(), postURL)
	if err != nil {
		t.Fatalf("first Execute failed: %v", err)
	}
	second, err := uc.Execute(context.Background(), postURL)
	if err != nil {
		t.Fatalf("second Execute failed: %v", err)
	}

	// Assert
	if first.Caption.Text != fixtures.CakeMarbreCaption {
		t.Errorf("caption = %q", first.Caption.Text)
	}
	if first.Caption.DocID != "111" {
		t.Errorf("doc id = %q", first.Caption.DocID)
	}
	if !second.Cached || second.Caption.Text != first.Caption.Text {
		t.Error("second call should be a cache hit with the same caption")
	}
	if requests != 1 {
		t.Errorf("endpoint hit %d times, want 1", requests)
	}
}
