package crawler

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"perfumeprj/internal/throttle"
)

const (
	resultsSelector = "div.s-main-slot"
	resultsWait     = 15 * time.Second
	scrollSteps     = 10
	scrollPause     = 250 * time.Millisecond
)

// Consent banners differ between storefront builds; the first match is clicked.
var cookieAcceptSelectors = []string{
	"#sp-cc-accept",
	"input#sp-cc-accept",
	`button[name="accept"]`,
	`input[name="accept"]`,
	`input[type="submit"][aria-label*="Accept"]`,
	`input[type="submit"][value*="Accept"]`,
}

type BrowserOptions struct {
	BaseURL  string
	Headless bool
	// Cookies are seeded on the storefront domain before each navigation.
	Cookies map[string]string
	Timeout time.Duration
	Pace    *throttle.Throttle
	Log     *zap.Logger
}

// BrowserFetcher renders search pages in headless Chromium with a mobile
// profile. The browser is launched on first use and reused until Close.
type BrowserFetcher struct {
	opts BrowserOptions

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func NewBrowserFetcher(opts BrowserOptions) *BrowserFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &BrowserFetcher{opts: opts}
}

func (f *BrowserFetcher) Name() string { return StrategyBrowser }

func (f *BrowserFetcher) connect() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.browser != nil {
		return f.browser, nil
	}

	l := launcher.New().Headless(f.opts.Headless)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	f.launcher, f.browser = l, b
	return b, nil
}

func (f *BrowserFetcher) FetchSearchPage(ctx context.Context, query string, page int) (string, error) {
	if err := f.opts.Pace.Wait(ctx); err != nil {
		return "", err
	}
	b, err := f.connect()
	if err != nil {
		return "", err
	}

	target := SearchURL(f.opts.BaseURL, query, page)

	tab, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("open tab: %w", err)
	}
	defer tab.Close()

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()
	p := tab.Context(ctx)

	if err := f.prepare(p); err != nil {
		return "", err
	}
	if err := p.Navigate(target); err != nil {
		return "", fmt.Errorf("navigate %s: %w", target, err)
	}
	if err := p.WaitLoad(); err != nil {
		return "", fmt.Errorf("load %s: %w", target, err)
	}

	f.acceptCookies(p)

	if _, err := p.Timeout(resultsWait).Element(resultsSelector); err != nil {
		return "", fmt.Errorf("%w: %s not rendered on %s", ErrUnexpectedLayout, resultsSelector, target)
	}
	f.autoScroll(ctx, p)

	html, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("read html %s: %w", target, err)
	}
	return html, nil
}

func (f *BrowserFetcher) prepare(p *rod.Page) error {
	if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      mobileUA,
		AcceptLanguage: acceptLanguage,
	}); err != nil {
		return fmt.Errorf("set user agent: %w", err)
	}
	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             390,
		Height:            844,
		DeviceScaleFactor: 3,
		Mobile:            true,
	}); err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}

	if len(f.opts.Cookies) == 0 {
		return nil
	}
	host := ""
	if u, err := url.Parse(f.opts.BaseURL); err == nil {
		host = u.Hostname()
	}
	params := make([]*proto.NetworkCookieParam, 0, len(f.opts.Cookies))
	for name, value := range f.opts.Cookies {
		params = append(params, &proto.NetworkCookieParam{
			Name:   name,
			Value:  value,
			Domain: host,
			Path:   "/",
		})
	}
	if err := p.SetCookies(params); err != nil {
		return fmt.Errorf("set cookies: %w", err)
	}
	return nil
}

func (f *BrowserFetcher) acceptCookies(p *rod.Page) {
	for _, sel := range cookieAcceptSelectors {
		has, el, err := p.Has(sel)
		if err != nil || !has {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			f.opts.Log.Debug("cookie banner click failed", zap.String("selector", sel), zap.Error(err))
			continue
		}
		_ = p.WaitLoad()
		return
	}
}

// autoScroll nudges lazy-loaded result images into the DOM.
func (f *BrowserFetcher) autoScroll(ctx context.Context, p *rod.Page) {
	for i := 0; i < scrollSteps; i++ {
		if _, err := p.Eval(`() => window.scrollBy(0, window.innerHeight)`); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(scrollPause):
		}
	}
}

func (f *BrowserFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.browser == nil {
		return nil
	}
	err := f.browser.Close()
	f.launcher.Kill()
	f.launcher.Cleanup()
	f.browser, f.launcher = nil, nil
	return err
}
