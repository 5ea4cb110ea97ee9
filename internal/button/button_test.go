package button

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rig drives a Button with a fake level and a fake clock, polling every
// millisecond the way the dispatcher loop does.
type rig struct {
	level    bool
	now      time.Duration
	button   *Button
	gestures []Gesture
	at       []time.Duration
}

func newRig() *rig {
	r := &rig{}
	r.button = New(InputFunc(func() bool { return r.level }), func() time.Duration { return r.now })
	return r
}

func (r *rig) run(d time.Duration) {
	end := r.now + d
	for r.now < end {
		r.now += time.Millisecond
		if g, ok := r.button.Poll(r.now); ok {
			r.gestures = append(r.gestures, g)
			r.at = append(r.at, r.now)
		}
	}
}

func (r *rig) press() {
	r.level = true
	r.button.OnEdge()
}

func (r *rig) release() {
	r.level = false
	r.button.OnEdge()
}

func (r *rig) click() {
	r.press()
	r.run(60 * time.Millisecond)
	r.release()
	r.run(90 * time.Millisecond)
}

func TestShortPressBuckets(t *testing.T) {
	for n := 1; n <= 10; n++ {
		r := newRig()
		for i := 0; i < n; i++ {
			r.click()
		}
		require.Empty(t, r.gestures, "no gesture while clicks are still arriving (n=%d)", n)

		r.run(600 * time.Millisecond)

		want := n
		if want > 3 {
			want = 3
		}
		require.Len(t, r.gestures, 1, "n=%d", n)
		assert.Equal(t, Short(want), r.gestures[0], "n=%d", n)
		assert.Equal(t, StateIdle, r.button.State())
	}
}

func TestShortPressFiresAfterMulticlickWindow(t *testing.T) {
	r := newRig()
	r.press()
	r.run(60 * time.Millisecond)
	r.release()
	r.run(time.Second)

	require.Len(t, r.gestures, 1)
	// Press debounced at 21ms, so the window closes strictly after 521ms.
	assert.Equal(t, 522*time.Millisecond, r.at[0])
}

func TestHoldYieldsSingleLongPress(t *testing.T) {
	r := newRig()
	r.press()
	r.run(1500 * time.Millisecond)

	require.Len(t, r.gestures, 1)
	assert.Equal(t, Long(1), r.gestures[0])
	assert.Equal(t, 1022*time.Millisecond, r.at[0])

	r.release()
	r.run(time.Second)
	assert.Len(t, r.gestures, 1, "releasing after a long press must not produce a short press")
}

func TestMultiClickLongPress(t *testing.T) {
	r := newRig()
	r.click()
	r.press()
	r.run(1200 * time.Millisecond)
	require.Len(t, r.gestures, 1)
	assert.Equal(t, Long(2), r.gestures[0])

	r.release()
	r.run(time.Second)

	r.click()
	r.click()
	r.click()
	r.press()
	r.run(1200 * time.Millisecond)
	require.Len(t, r.gestures, 2)
	assert.Equal(t, Long(3), r.gestures[1])
}

func TestDebounceDelay(t *testing.T) {
	r := newRig()
	r.press()
	r.run(20 * time.Millisecond)
	assert.Equal(t, 0, r.button.Clicks())
	assert.Equal(t, StateDebouncing, r.button.State())

	r.run(time.Millisecond)
	assert.Equal(t, 1, r.button.Clicks())
	assert.Equal(t, StateCounting, r.button.State())
}

func TestBounceCountsOnce(t *testing.T) {
	r := newRig()
	for i := 0; i < 4; i++ {
		r.press()
		r.run(2 * time.Millisecond)
		r.release()
		r.run(2 * time.Millisecond)
	}
	r.press()
	r.run(80 * time.Millisecond)
	assert.Equal(t, 1, r.button.Clicks())

	r.release()
	r.run(700 * time.Millisecond)
	require.Len(t, r.gestures, 1)
	assert.Equal(t, Short(1), r.gestures[0])
}

func TestReleaseBounceNotCounted(t *testing.T) {
	r := newRig()
	r.press()
	r.run(50 * time.Millisecond)
	r.release()
	r.run(30 * time.Millisecond)
	assert.Equal(t, 1, r.button.Clicks())
}

func TestBucket(t *testing.T) {
	assert.Equal(t, 1, bucket(1))
	assert.Equal(t, 2, bucket(2))
	assert.Equal(t, 3, bucket(3))
	assert.Equal(t, 3, bucket(9))
	assert.Equal(t, "short:2", Short(2).String())
	assert.Equal(t, "long:3", Long(7).String())
}

func TestOnEdgeConcurrentWithPoll(t *testing.T) {
	var (
		mu  sync.Mutex
		now time.Duration
	)
	clock := func() time.Duration {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	b := New(InputFunc(func() bool { return false }), clock)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			b.OnEdge()
		}
	}()
	for i := 0; i < 1000; i++ {
		mu.Lock()
		now += time.Millisecond
		ts := now
		mu.Unlock()
		b.Poll(ts)
	}
	wg.Wait()

	mu.Lock()
	now += time.Second
	mu.Unlock()
	b.Poll(clock())
	assert.Equal(t, StateIdle, b.State())
}
