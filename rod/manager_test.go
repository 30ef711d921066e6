package rod_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/fwojciec/pagebrief"
	"github.com/fwojciec/pagebrief/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBrowsers hands out increasing process IDs and records stops.
type fakeBrowsers struct {
	mu       sync.Mutex
	launched int
	stopped  []int
	fail     error
}

func (f *fakeBrowsers) launch() (int, func() error, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return 0, nil, f.fail
	}
	f.launched++
	pid := 100 + f.launched
	return pid, func() error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.stopped = append(f.stopped, pid)
		return nil
	}, nil
}

func (f *fakeBrowsers) stops() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.stopped...)
}

func TestBrowserManager_Acquire(t *testing.T) {
	t.Parallel()

	t.Run("launches on first use", func(t *testing.T) {
		t.Parallel()

		fake := &fakeBrowsers{}
		m := rod.NewTestManager(3, fake.launch)
		assert.Zero(t, m.LauncherPID())

		_, release, err := m.Acquire()
		require.NoError(t, err)
		release()

		assert.Equal(t, 101, m.LauncherPID())
	})

	t.Run("reuses the browser until the render limit", func(t *testing.T) {
		t.Parallel()

		fake := &fakeBrowsers{}
		m := rod.NewTestManager(3, fake.launch)

		for range 3 {
			_, release, err := m.Acquire()
			require.NoError(t, err)
			release()
		}
		assert.Equal(t, 101, m.LauncherPID())

		_, release, err := m.Acquire()
		require.NoError(t, err)
		release()

		assert.Equal(t, 102, m.LauncherPID())
		assert.Equal(t, []int{101}, fake.stops())
	})

	t.Run("keeps a replaced browser until its tabs are released", func(t *testing.T) {
		t.Parallel()

		fake := &fakeBrowsers{}
		m := rod.NewTestManager(1, fake.launch)

		_, first, err := m.Acquire()
		require.NoError(t, err)
		_, second, err := m.Acquire()
		require.NoError(t, err)

		assert.Equal(t, 102, m.LauncherPID())
		assert.Empty(t, fake.stops(), "first browser still has an open tab")

		first()
		first()
		assert.Equal(t, []int{101}, fake.stops())

		second()
		assert.Equal(t, []int{101}, fake.stops(), "current browser keeps running")
	})

	t.Run("never recycles with a zero limit", func(t *testing.T) {
		t.Parallel()

		fake := &fakeBrowsers{}
		m := rod.NewTestManager(0, fake.launch)

		for range 10 {
			_, release, err := m.Acquire()
			require.NoError(t, err)
			release()
		}

		assert.Equal(t, 101, m.LauncherPID())
	})

	t.Run("returns launch errors and retries on next use", func(t *testing.T) {
		t.Parallel()

		fake := &fakeBrowsers{fail: errors.New("chrome crashed")}
		m := rod.NewTestManager(3, fake.launch)

		_, _, err := m.Acquire()
		require.EqualError(t, err, "chrome crashed")
		assert.Zero(t, m.LauncherPID())

		fake.mu.Lock()
		fake.fail = nil
		fake.mu.Unlock()

		_, release, err := m.Acquire()
		require.NoError(t, err)
		release()
		assert.Equal(t, 101, m.LauncherPID())
	})
}

func TestBrowserManager_Close(t *testing.T) {
	t.Parallel()

	t.Run("stops the running browser once", func(t *testing.T) {
		t.Parallel()

		fake := &fakeBrowsers{}
		m := rod.NewTestManager(3, fake.launch)
		_, release, err := m.Acquire()
		require.NoError(t, err)
		release()

		require.NoError(t, m.Close())
		require.NoError(t, m.Close())

		assert.Equal(t, []int{101}, fake.stops())
		assert.Zero(t, m.LauncherPID())
	})

	t.Run("acquire after close is invalid", func(t *testing.T) {
		t.Parallel()

		m := rod.NewTestManager(3, (&fakeBrowsers{}).launch)
		require.NoError(t, m.Close())

		_, _, err := m.Acquire()

		require.Error(t, err)
		assert.Equal(t, pagebrief.EINVALID, pagebrief.ErrorCode(err))
	})

	t.Run("close without a browser launches nothing", func(t *testing.T) {
		t.Parallel()

		fake := &fakeBrowsers{}
		m := rod.NewTestManager(3, fake.launch)

		require.NoError(t, m.Close())

		assert.Zero(t, fake.launched)
	})
}
