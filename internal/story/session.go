package story

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/fawazbook/internal/domain"
	"github.com/orgball2608/fawazbook/pkg/logger"
)

// EffectSink receives effects after the session lock is released. A sink must
// not call back into the session that produced the effect.
//
// Effects from the ticker and from Next/Prev/TogglePause are dispatched on
// different goroutines and are not ordered against each other: an Entered
// from a manual step may reach the sink before or after one from a tick that
// raced it. Sinks that render should read Snapshot instead of trusting the
// effect order. Close is the exception: once it returns, no further effect
// from a tick will be delivered.
type EffectSink func(Effect)

type SessionOpts struct {
	Clock    clockwork.Clock
	Playback Playback
	Sink     EffectSink
	Logger   logger.Logger
}

// Session drives a Machine from a ticker. The ticker runs only while the
// machine is playing, and no effect is delivered once Close has returned.
type Session struct {
	mu       sync.Mutex
	machine  *Machine
	clock    clockwork.Clock
	playback Playback
	sink     EffectSink
	log      logger.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// OpenSession opens a viewer at initialID. It reports false, and starts
// nothing, when the id is not part of stories.
func OpenSession(stories []domain.Story, initialID string, opts SessionOpts) (*Session, bool) {
	pb := opts.Playback.normalized()
	m, effects := Open(stories, initialID, pb)
	if m.Status() == StatusClosed {
		return nil, false
	}

	s := &Session{
		machine:  m,
		clock:    opts.Clock,
		playback: pb,
		sink:     opts.Sink,
		log:      opts.Logger,
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}

	s.dispatch(effects)

	s.mu.Lock()
	s.startLocked()
	s.mu.Unlock()
	return s, true
}

func (s *Session) Next() {
	s.step(func(m *Machine) []Effect { return m.Next() })
}

func (s *Session) Prev() {
	s.step(func(m *Machine) []Effect { return m.Prev() })
}

func (s *Session) Close() {
	s.step(func(m *Machine) []Effect { return m.Close() })
}

// TogglePause stops or restarts the ticker. Progress is kept either way.
func (s *Session) TogglePause() {
	s.mu.Lock()
	s.machine.TogglePause()
	var stopped <-chan struct{}
	switch s.machine.Status() {
	case StatusPaused:
		stopped = s.stopLocked()
	case StatusPlaying:
		if s.cancel == nil {
			s.startLocked()
		}
	}
	s.mu.Unlock()

	wait(stopped)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Snapshot()
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Status() == StatusClosed
}

func (s *Session) step(fn func(*Machine) []Effect) {
	s.mu.Lock()
	effects := fn(s.machine)
	var stopped <-chan struct{}
	if s.machine.Status() == StatusClosed {
		stopped = s.stopLocked()
	}
	s.mu.Unlock()

	// The tick loop may be delivering its own effects; let it finish first.
	wait(stopped)
	s.dispatch(effects)
}

func (s *Session) startLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	ticker := s.clock.NewTicker(s.playback.Interval)
	done := make(chan struct{})
	s.cancel, s.done = cancel, done

	go s.run(ctx, ticker, done)
}

func (s *Session) stopLocked() <-chan struct{} {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	done := s.done
	s.cancel, s.done = nil, nil
	return done
}

func (s *Session) run(ctx context.Context, ticker clockwork.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if !s.tick(ctx) {
				return
			}
		}
	}
}

// tick reports whether the loop should keep running.
func (s *Session) tick(ctx context.Context) bool {
	s.mu.Lock()
	if ctx.Err() != nil {
		s.mu.Unlock()
		return false
	}
	effects := s.machine.Tick()
	closed := s.machine.Status() == StatusClosed
	if closed {
		// Detach without waiting: this goroutine owns done.
		s.cancel()
		s.cancel, s.done = nil, nil
	}
	s.mu.Unlock()

	s.dispatch(effects)
	return !closed
}

func (s *Session) dispatch(effects []Effect) {
	for _, e := range effects {
		if s.log != nil {
			s.log.Debug("story effect", "effect", e.Kind.String(), "story_id", e.StoryID, "index", e.Index)
		}
		if s.sink != nil {
			s.sink(e)
		}
	}
}

func wait(done <-chan struct{}) {
	if done != nil {
		<-done
	}
}
