package window

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Guliveer/tasklet/internal/apperr"
)

type fakeWindow struct {
	mu          sync.Mutex
	x, y        int32
	posErr      error
	onTop       bool
	onTopErr    error
	setOnTopErr error
	width       uint32
	height      uint32
	monitors    []MonitorGeometry
	monitorsErr error
	moves       [][2]int32
	pins        []bool
	drags       int
	dragErr     error

	positionReads atomic.Int32
}

func (f *fakeWindow) Position() (int32, int32, error) {
	f.positionReads.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.x, f.y, f.posErr
}

func (f *fakeWindow) AlwaysOnTop() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.onTop, f.onTopErr
}

func (f *fakeWindow) SetAlwaysOnTop(enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setOnTopErr != nil {
		return f.setOnTopErr
	}
	f.onTop = enabled
	f.pins = append(f.pins, enabled)
	return nil
}

func (f *fakeWindow) SetPosition(x, y int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.x, f.y = x, y
	f.moves = append(f.moves, [2]int32{x, y})
	return nil
}

func (f *fakeWindow) Size() (uint32, uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width, f.height
}

func (f *fakeWindow) Monitors() ([]MonitorGeometry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.monitors, f.monitorsErr
}

func (f *fakeWindow) StartDragging() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drags++
	return f.dragErr
}

func (f *fakeWindow) RunOnOwner(fn func()) error {
	fn()
	return nil
}

func (f *fakeWindow) moveTo(x, y int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.x, f.y = x, y
}

func TestRun_DebouncesBurstIntoSingleWrite(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := newTestStore(t)
	win := &fakeWindow{x: 10, y: 20, onTop: false}
	p := NewPersister(win, store, Options{Clock: clock, Logger: zaptest.NewLogger(t)})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()

	// Moves at t=0, 100ms and 150ms.
	p.NotifyMoved()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))
	clock.Advance(100 * time.Millisecond)
	p.NotifyMoved()
	clock.Advance(50 * time.Millisecond)
	win.moveTo(300, 400)
	p.NotifyMoved()

	// t=300ms: the first window saw moves, so the worker waits again.
	clock.Advance(150 * time.Millisecond)
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))
	assert.Equal(t, int32(0), win.positionReads.Load())

	// t=449ms: still inside quiescence.
	clock.Advance(149 * time.Millisecond)
	assert.Equal(t, int32(0), win.positionReads.Load())
	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err), "nothing may be written before the burst settles")

	// t=599ms: 449ms after the last move, one short of the bound.
	clock.Advance(150 * time.Millisecond)
	assert.Never(t, func() bool {
		return win.positionReads.Load() != 0
	}, 50*time.Millisecond, 5*time.Millisecond, "no write before 450ms after the last move")
	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err), "nothing may be written before 450ms after the last move")

	// Geometry changes after the last event are still picked up: the
	// write reads the live window, not the triggering event.
	win.moveTo(310, 410)
	clock.Advance(1 * time.Millisecond)

	require.Eventually(t, func() bool {
		return win.positionReads.Load() == 1
	}, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		_, err := os.Stat(store.Path())
		return err == nil
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, Config{X: 310, Y: 410, AlwaysOnTop: false}, store.Load())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), win.positionReads.Load(), "exactly one write per burst")
}

func TestRun_SeparateBurstsWriteSeparately(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := newTestStore(t)
	win := &fakeWindow{x: 1, y: 2, onTop: true}
	p := NewPersister(win, store, Options{Clock: clock, Quiescence: 50 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()

	for i := int32(1); i <= 2; i++ {
		p.NotifyMoved()
		require.NoError(t, clock.BlockUntilContext(waitCtx, 1))
		clock.Advance(50 * time.Millisecond)
		want := i
		require.Eventually(t, func() bool {
			return win.positionReads.Load() == want
		}, 2*time.Second, 5*time.Millisecond)
	}
}

func TestRun_LiveReadFailureFallsBackToDefaults(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := newTestStore(t)
	win := &fakeWindow{posErr: errors.New("gone"), onTopErr: errors.New("gone")}
	p := NewPersister(win, store, Options{Clock: clock})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()

	p.NotifyMoved()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))
	clock.Advance(DefaultQuiescence)

	require.Eventually(t, func() bool {
		_, err := os.Stat(store.Path())
		return err == nil
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, DefaultConfig(), store.Load())
}

func TestRun_StopsWhenIdleContextCancelled(t *testing.T) {
	p := NewPersister(&fakeWindow{}, newTestStore(t), Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNotifyMoved_NeverBlocks(t *testing.T) {
	p := NewPersister(&fakeWindow{}, newTestStore(t), Options{})
	for i := 0; i < 1000; i++ {
		p.NotifyMoved()
	}
	assert.Len(t, p.moves, 1)
}

func TestSetAlwaysOnTop_WritesImmediately(t *testing.T) {
	store := newTestStore(t)
	win := &fakeWindow{x: 640, y: 480, onTop: true}
	p := NewPersister(win, store, Options{})

	require.NoError(t, p.SetAlwaysOnTop(false))
	assert.Equal(t, []bool{false}, win.pins)
	assert.Equal(t, Config{X: 640, Y: 480, AlwaysOnTop: false}, store.Load())
}

func TestSetAlwaysOnTop_PositionFallbacks(t *testing.T) {
	t.Run("stored position", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Save(Config{X: 7, Y: 8, AlwaysOnTop: false}))
		win := &fakeWindow{posErr: errors.New("minimized")}
		p := NewPersister(win, store, Options{})

		require.NoError(t, p.SetAlwaysOnTop(true))
		assert.Equal(t, Config{X: 7, Y: 8, AlwaysOnTop: true}, store.Load())
	})

	t.Run("default position", func(t *testing.T) {
		store := newTestStore(t)
		win := &fakeWindow{posErr: errors.New("minimized")}
		p := NewPersister(win, store, Options{})

		require.NoError(t, p.SetAlwaysOnTop(false))
		assert.Equal(t, Config{X: 100, Y: 100, AlwaysOnTop: false}, store.Load())
	})
}

func TestSetAlwaysOnTop_WindowErrorSkipsWrite(t *testing.T) {
	store := newTestStore(t)
	win := &fakeWindow{setOnTopErr: errors.New("no window")}
	p := NewPersister(win, store, Options{})

	err := p.SetAlwaysOnTop(true)
	require.Error(t, err)
	kind, ok := apperr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindWindow, kind)
	assert.ErrorContains(t, err, "no window")

	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestRestore(t *testing.T) {
	primary := []MonitorGeometry{{X: 0, Y: 0, Width: 1920, Height: 1080}}
	tests := []struct {
		name      string
		stored    *Config
		monitors  []MonitorGeometry
		monErr    error
		wantMoves [][2]int32
		wantPin   bool
	}{
		{"no file uses defaults", nil, primary, nil, [][2]int32{{100, 100}}, true},
		{"on screen", &Config{X: 50, Y: 60, AlwaysOnTop: false}, primary, nil, [][2]int32{{50, 60}}, false},
		{"off screen", &Config{X: 5000, Y: 60, AlwaysOnTop: true}, primary, nil, nil, true},
		{"no monitors sane", &Config{X: 5000, Y: 60}, nil, errors.New("headless"), [][2]int32{{5000, 60}}, false},
		{"no monitors insane", &Config{X: 40000, Y: 60}, nil, nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			if tt.stored != nil {
				require.NoError(t, store.Save(*tt.stored))
			}
			win := &fakeWindow{monitors: tt.monitors, monitorsErr: tt.monErr}
			p := NewPersister(win, store, Options{Logger: zaptest.NewLogger(t)})

			p.Restore()
			assert.Equal(t, tt.wantMoves, win.moves)
			assert.Equal(t, []bool{tt.wantPin}, win.pins)
		})
	}
}

func TestStartDragging(t *testing.T) {
	win := &fakeWindow{}
	p := NewPersister(win, newTestStore(t), Options{})
	require.NoError(t, p.StartDragging())
	assert.Equal(t, 1, win.drags)
}

func TestStartDragging_FailureIsWindowError(t *testing.T) {
	win := &fakeWindow{dragErr: errors.New("mouse released")}
	p := NewPersister(win, newTestStore(t), Options{})

	err := p.StartDragging()
	require.Error(t, err)
	kind, ok := apperr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindWindow, kind)
	assert.ErrorIs(t, err, win.dragErr)
}
