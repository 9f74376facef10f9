package rod

import (
	"context"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/lawdit/lawdit"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements lawdit.Fetcher at compile time.
var _ lawdit.Fetcher = (*Fetcher)(nil)

// Fetcher returns the rendered DOM of pages that need JavaScript.
// It is safe for concurrent use.
type Fetcher struct {
	manager *BrowserManager
	owned   bool
	timeout time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout sets the per-page timeout.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) { f.timeout = d }
}

// WithManager shares an existing browser. The Fetcher does not close it.
func WithManager(m *BrowserManager) FetcherOption {
	return func(f *Fetcher) { f.manager = m }
}

// NewFetcher creates a Fetcher, launching its own browser unless one is
// shared with WithManager.
func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}
	if f.manager == nil {
		m, err := NewBrowserManager()
		if err != nil {
			return nil, err
		}
		f.manager = m
		f.owned = true
	}
	return f, nil
}

// Fetch navigates to url, waits for the load event and returns the HTML,
// including open shadow roots.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	browser, err := f.manager.Browser()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer func() {
		_ = page.Close()
		f.manager.PageDone()
	}()

	page = page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	res, err := page.Eval(serializeJS)
	if err != nil {
		return page.HTML()
	}
	return res.Value.Str(), nil
}

// Close releases the browser if the Fetcher launched it.
func (f *Fetcher) Close() error {
	if !f.owned {
		return nil
	}
	return f.manager.Close()
}

// serializeJS returns the document HTML with open shadow roots inlined.
const serializeJS = `() => {
  const opts = { serializableShadowRoots: true, shadowRoots: [] };
  const collect = (root) => {
    root.querySelectorAll('*').forEach((el) => {
      if (el.shadowRoot) { opts.shadowRoots.push(el.shadowRoot); collect(el.shadowRoot); }
    });
  };
  collect(document);
  if (typeof document.documentElement.getHTML === 'function') {
    return '<!DOCTYPE html>' + document.documentElement.getHTML(opts);
  }
  return document.documentElement.outerHTML;
}`
