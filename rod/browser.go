package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of pages rendered before the browser is relaunched.
const DefaultMaxPages = 75

// browser owns a headless Chrome process. Chrome's memory grows with every
// rendered page and never returns to baseline, so the process is relaunched
// after maxPages pages.
type browser struct {
	mu       sync.Mutex
	rod      *rod.Browser
	launcher *launcher.Launcher
	pages    int
	maxPages int
	closed   bool
}

func newBrowser(maxPages int) (*browser, error) {
	b := &browser{maxPages: maxPages}
	if err := b.launch(); err != nil {
		return nil, err
	}
	return b, nil
}

// acquire returns the browser for one page render, relaunching it first when
// the page budget is spent. It returns false after close.
func (b *browser) acquire() (*rod.Browser, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, false
	}
	if b.maxPages > 0 && b.pages >= b.maxPages {
		b.relaunch()
	}
	b.pages++
	return b.rod, true
}

func (b *browser) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	var err error
	if b.rod != nil {
		err = b.rod.Close()
		b.rod = nil
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher = nil
	}
	return err
}

func (b *browser) pid() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.launcher == nil {
		return 0
	}
	return b.launcher.PID()
}

// launch starts Chrome with flags that keep background tabs from being throttled.
// Must be called with mu held or before the browser is shared.
func (b *browser) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	r := rod.New().ControlURL(u)
	if err := r.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	b.rod = r
	b.launcher = l
	return nil
}

// relaunch swaps in a fresh Chrome process. The old one is kept if the new
// launch fails. Must be called with mu held.
func (b *browser) relaunch() {
	oldRod, oldLauncher := b.rod, b.launcher
	if err := b.launch(); err != nil {
		b.rod, b.launcher = oldRod, oldLauncher
		return
	}
	if oldRod != nil {
		_ = oldRod.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	b.pages = 0
}
