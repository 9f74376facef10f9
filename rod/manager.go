// Package rod drives a headless Chrome browser through go-rod. It renders
// JavaScript-heavy pages for the web_fetch tool and prints HTML dashboards
// to PDF.
package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/lawdit/lawdit"
)

// DefaultMaxPages is the number of pages served before the browser is
// relaunched. Chrome's resident memory grows with every page and never
// returns to baseline.
const DefaultMaxPages = 75

// BrowserManager owns one browser process and relaunches it every maxPages
// pages. It is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    atomic.Int64
	maxPages int64
	closed   atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the relaunch threshold.
func WithMaxPages(n int64) ManagerOption {
	return func(m *BrowserManager) { m.maxPages = n }
}

// NewBrowserManager launches a headless browser. Close must be called when
// the manager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	m := &BrowserManager{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.launch(); err != nil {
		return nil, err
	}
	return m, nil
}

// Browser returns the live browser, relaunching it first when the page
// budget is spent. Returns EINVALID after Close.
func (m *BrowserManager) Browser() (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed.Load() || m.browser == nil {
		return nil, lawdit.Errorf(lawdit.EINVALID, "browser closed")
	}
	if m.maxPages > 0 && m.pages.Load() >= m.maxPages {
		m.relaunch()
	}
	return m.browser, nil
}

// PageDone records one served page toward the relaunch threshold.
func (m *BrowserManager) PageDone() {
	m.pages.Add(1)
}

// Close shuts the browser down. It is safe to call more than once.
func (m *BrowserManager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shutdown()
}

// LauncherPID returns the browser process ID, or 0 when none is running.
func (m *BrowserManager) LauncherPID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.launcher == nil {
		return 0
	}
	return m.launcher.PID()
}

func (m *BrowserManager) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	m.browser = b
	m.launcher = l
	return nil
}

// shutdown must be called with mu held.
func (m *BrowserManager) shutdown() error {
	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.launcher != nil {
		m.launcher.Kill()
		m.launcher = nil
	}
	return err
}

// relaunch keeps the old browser when a new one cannot be started.
// Must be called with mu held.
func (m *BrowserManager) relaunch() {
	oldBrowser, oldLauncher := m.browser, m.launcher
	if err := m.launch(); err != nil {
		m.browser, m.launcher = oldBrowser, oldLauncher
		return
	}
	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	m.pages.Store(0)
}
