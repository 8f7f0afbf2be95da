package instagram

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"recipegram/internal/domain"
	"recipegram/pkg/log"

	"github.com/chromedp/chromedp"
)

// BrowserPool manages a single Chrome process and serializes tab usage.
// One tab at a time keeps the memory footprint predictable on small hosts.
type BrowserPool struct {
	allocCtx context.Context
	ctx      context.Context
	cancel   context.CancelFunc
	opts     []chromedp.ExecAllocatorOption

	mu     sync.Mutex
	tabSem chan struct{}
}

// NewBrowserPool creates a browser pool with exactly one Chrome instance
// and one tab allowed at a time.
func NewBrowserPool(options []chromedp.ExecAllocatorOption) (*BrowserPool, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),

		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-component-update", true),
		chromedp.Flag("metrics-recording-only", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("no-first-run", true),
	)

	opts = append(opts, options...)

	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		log.GlobalInfo("browser pool using custom chrome path", "path", chromePath)
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	bp := &BrowserPool{
		opts:   opts,
		tabSem: make(chan struct{}, 1),
	}

	if err := bp.start(); err != nil {
		return nil, err
	}

	return bp, nil
}

// start initializes or restarts the Chrome process.
func (bp *BrowserPool) start() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.cancel != nil {
		bp.cancel()
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), bp.opts...)
	ctx, _ := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return err
	}

	bp.allocCtx = allocCtx
	bp.ctx = ctx
	bp.cancel = cancel

	log.GlobalInfo("browser pool chrome started")
	return nil
}

// WithTab executes fn with exclusive access to a browser tab.
func (bp *BrowserPool) WithTab(fn func(ctx context.Context) error) error {
	bp.tabSem <- struct{}{}
	defer func() { <-bp.tabSem }()

	tabCtx, tabCancel, err := bp.acquireTab()
	if err != nil {
		return err
	}
	defer tabCancel()

	return fn(tabCtx)
}

// acquireTab creates a new tab, restarting Chrome if the health check fails.
func (bp *BrowserPool) acquireTab() (context.Context, context.CancelFunc, error) {
	bp.mu.Lock()
	tabCtx, tabCancel := chromedp.NewContext(bp.ctx)
	bp.mu.Unlock()

	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()

		log.GlobalWarn("browser pool tab failed, restarting chrome", "error", err)

		if restartErr := bp.start(); restartErr != nil {
			return nil, nil, restartErr
		}

		bp.mu.Lock()
		tabCtx, tabCancel = chromedp.NewContext(bp.ctx)
		bp.mu.Unlock()
	}

	return tabCtx, tabCancel, nil
}

// Close shuts down the browser completely.
func (bp *BrowserPool) Close() {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.cancel != nil {
		bp.cancel()
		log.GlobalInfo("browser pool chrome stopped")
	}
}

// BrowserStrategy renders the post page in headless Chrome and reads the
// open-graph description after script execution, for pages that only
// materialize metadata client-side. Off by default; enabled per deployment.
type BrowserStrategy struct {
	pool    *BrowserPool
	timeout time.Duration
}

// NewBrowserStrategy creates a strategy over an existing pool.
func NewBrowserStrategy(pool *BrowserPool) *BrowserStrategy {
	return &BrowserStrategy{pool: pool, timeout: 20 * time.Second}
}

// Name identifies the strategy in results and logs.
func (s *BrowserStrategy) Name() domain.Strategy {
	return domain.StrategyBrowser
}

// Extract navigates to the post page and reads the rendered meta tag.
func (s *BrowserStrategy) Extract(ctx context.Context, post domain.PostRef) (*domain.Caption, error) {
	var content string
	var found bool

	err := s.pool.WithTab(func(tabCtx context.Context) error {
		runCtx, cancel := context.WithTimeout(tabCtx, s.timeout)
		defer cancel()

		return chromedp.Run(runCtx,
			chromedp.Navigate(PostURL(post.Shortcode)),
			chromedp.AttributeValue(`meta[property="og:description"]`, "content", &content, &found, chromedp.ByQuery),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("browser render: %w: %v", domain.ErrNetwork, err)
	}

	text, ok := nonEmpty(decodeEntities(content))
	if !found || !ok {
		return nil, fmt.Errorf("browser render: %w", domain.ErrCaptionNotFound)
	}

	log.GlobalDebugCtx(ctx, "browser caption found",
		"shortcode", post.Shortcode, "length", len(text))

	return &domain.Caption{
		Shortcode: post.Shortcode,
		Text:      text,
		Strategy:  domain.StrategyBrowser,
	}, nil
}
