package story

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu      sync.Mutex
	effects []Effect
}

func (r *recorder) sink(e Effect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.effects = append(r.effects, e)
}

func (r *recorder) all() []Effect {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Effect(nil), r.effects...)
}

func (r *recorder) count(kind EffectKind) int {
	n := 0
	for _, e := range r.all() {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

const tick = 10 * time.Millisecond

func openFake(t *testing.T, n int, initial string) (*Session, *clockwork.FakeClock, *recorder) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	rec := &recorder{}
	s, ok := OpenSession(sequence(n), initial, SessionOpts{
		Clock:    clock,
		Playback: Playback{Interval: tick, Step: 50, Max: 100},
		Sink:     rec.sink,
	})
	require.True(t, ok)
	return s, clock, rec
}

func TestOpenSessionUnknown(t *testing.T) {
	s, ok := OpenSession(sequence(2), "nope", SessionOpts{Clock: clockwork.NewFakeClock()})
	assert.False(t, ok)
	assert.Nil(t, s)
}

func TestSessionTicksAdvance(t *testing.T) {
	s, clock, rec := openFake(t, 2, "a")
	defer s.Close()

	clock.Advance(tick)
	require.Eventually(t, func() bool { return s.Snapshot().Progress == 50 }, time.Second, time.Millisecond)

	clock.Advance(tick)
	require.Eventually(t, func() bool { return s.Snapshot().Index == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, 2, rec.count(EffectViewed))
}

func TestSessionClosesAfterLastStory(t *testing.T) {
	s, clock, rec := openFake(t, 1, "a")

	clock.Advance(tick)
	require.Eventually(t, func() bool { return s.Snapshot().Progress == 50 }, time.Second, time.Millisecond)
	clock.Advance(tick)
	require.Eventually(t, s.Closed, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return rec.count(EffectClosed) == 1 }, time.Second, time.Millisecond)

	s.Close()
	assert.Equal(t, 1, rec.count(EffectClosed))
}

func TestSessionPauseStopsTicks(t *testing.T) {
	s, clock, _ := openFake(t, 2, "a")
	defer s.Close()

	s.TogglePause()
	for i := 0; i < 5; i++ {
		clock.Advance(tick)
	}
	snap := s.Snapshot()
	assert.Equal(t, StatusPaused, snap.Status)
	assert.Equal(t, 0, snap.Progress)
	assert.Equal(t, 0, snap.Index)

	s.TogglePause()
	clock.Advance(tick)
	require.Eventually(t, func() bool { return s.Snapshot().Progress == 50 }, time.Second, time.Millisecond)
}

func TestSessionNoEffectsAfterClose(t *testing.T) {
	s, clock, rec := openFake(t, 3, "a")
	s.Close()
	before := len(rec.all())

	for i := 0; i < 10; i++ {
		clock.Advance(tick)
	}
	s.Next()
	s.Prev()
	s.TogglePause()

	assert.Len(t, rec.all(), before)
	assert.Equal(t, StatusClosed, s.Snapshot().Status)
	assert.Equal(t, 0, s.Snapshot().Progress)
}

func TestSessionManualNavigation(t *testing.T) {
	s, _, rec := openFake(t, 3, "a")

	s.Next()
	s.Next()
	s.Prev()
	assert.Equal(t, 1, s.Snapshot().Index)
	assert.Equal(t, 3, rec.count(EffectViewed))

	s.Next()
	s.Next()
	assert.True(t, s.Closed())
	assert.Equal(t, 1, rec.count(EffectClosed))
}

func TestSessionRacingStepsAndTicks(t *testing.T) {
	s, clock, rec := openFake(t, 20, "a")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			clock.Advance(tick)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 5; i++ {
			s.Next()
			s.Prev()
			s.Next()
		}
	}()
	wg.Wait()

	// Entered effects may interleave either way; the snapshot is what counts.
	last := s.Snapshot()
	s.Close()
	assert.Equal(t, StatusClosed, s.Snapshot().Status)

	viewed := map[string]int{}
	for _, e := range rec.all() {
		if e.Kind == EffectViewed {
			viewed[e.StoryID]++
		}
	}
	for id, n := range viewed {
		assert.Equal(t, 1, n, "story %s", id)
	}
	assert.GreaterOrEqual(t, len(viewed), last.Index+1)
}
