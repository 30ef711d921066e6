package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/pagebrief"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultRecycleAfter is the number of renders before the browser process
// is replaced.
const DefaultRecycleAfter = 50

// BrowserManager starts headless Chrome on the first render and replaces
// it after a number of renders, since Chrome's memory use only grows over
// a long session. A replaced browser keeps running until its last tab is
// released.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	launch       func() (*session, error)
	recycleAfter int

	mu      sync.Mutex
	current *session
	closed  bool
}

// session is one browser process and the tabs leased from it.
type session struct {
	browser *rod.Browser
	pid     int
	stop    func() error

	renders int
	open    int
	retired bool
}

// NewBrowserManager returns a manager launching the Chrome binary at bin.
// No process is started until the first Acquire.
func NewBrowserManager(bin string, recycleAfter int) *BrowserManager {
	return &BrowserManager{
		launch:       func() (*session, error) { return launchSession(bin) },
		recycleAfter: recycleAfter,
	}
}

// Acquire returns the browser to open one tab in, launching or replacing
// the process as needed. release must be called when the tab is closed.
// Returns EINVALID after Close.
func (bm *BrowserManager) Acquire() (browser *rod.Browser, release func(), err error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, nil, pagebrief.Errorf(pagebrief.EINVALID, "browser closed")
	}

	if s := bm.current; s != nil && bm.recycleAfter > 0 && s.renders >= bm.recycleAfter {
		bm.current = nil
		s.retired = true
		if s.open == 0 {
			_ = s.stop()
		}
	}

	if bm.current == nil {
		s, err := bm.launch()
		if err != nil {
			return nil, nil, err
		}
		bm.current = s
	}

	s := bm.current
	s.renders++
	s.open++

	var once sync.Once
	return s.browser, func() { once.Do(func() { bm.release(s) }) }, nil
}

// release returns a tab lease and stops a retired browser once it is idle.
func (bm *BrowserManager) release(s *session) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	s.open--
	if s.retired && s.open == 0 {
		_ = s.stop()
	}
}

// Close stops the current browser; tabs still open on it fail.
// Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true

	s := bm.current
	bm.current = nil
	if s == nil {
		return nil
	}
	s.retired = true
	return s.stop()
}

// LauncherPID returns the process ID of the current browser, or 0 when no
// browser is running.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.current == nil {
		return 0
	}
	return bm.current.pid
}

// launchSession starts a browser with flags that keep background tabs
// rendering at full speed.
func launchSession(bin string) (*session, error) {
	l := launcher.New().
		Bin(bin).
		Set("mute-audio").
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	var once sync.Once
	var closeErr error
	return &session{
		browser: browser,
		pid:     l.PID(),
		stop: func() error {
			once.Do(func() {
				closeErr = browser.Close()
				l.Kill()
			})
			return closeErr
		},
	}, nil
}
