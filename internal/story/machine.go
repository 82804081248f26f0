package story

import (
	"fmt"
	"time"

	"github.com/orgball2608/fawazbook/internal/domain"
)

type Status int

const (
	StatusClosed Status = iota
	StatusPlaying
	StatusPaused
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusClosed:
		return "closed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Playback controls auto-advance: progress grows by Step every Interval and
// the viewer moves on once it reaches Max.
type Playback struct {
	Interval time.Duration
	Step     int
	Max      int
}

// DefaultPlayback shows each story for five seconds.
func DefaultPlayback() Playback {
	return Playback{Interval: 50 * time.Millisecond, Step: 1, Max: 100}
}

func (p Playback) normalized() Playback {
	def := DefaultPlayback()
	if p.Interval <= 0 {
		p.Interval = def.Interval
	}
	if p.Step <= 0 {
		p.Step = def.Step
	}
	if p.Max <= 0 {
		p.Max = def.Max
	}
	return p
}

type EffectKind int

const (
	// EffectEntered fires whenever a story becomes current.
	EffectEntered EffectKind = iota
	// EffectViewed asks the owner to mark an unviewed story as viewed.
	EffectViewed
	// EffectClosed fires once when the viewer closes.
	EffectClosed
)

func (k EffectKind) String() string {
	switch k {
	case EffectEntered:
		return "entered"
	case EffectViewed:
		return "viewed"
	case EffectClosed:
		return "closed"
	}
	return fmt.Sprintf("effect(%d)", int(k))
}

type Effect struct {
	Kind    EffectKind
	Index   int
	StoryID string
}

// Machine is the clock-free playback state of one viewer session.
type Machine struct {
	stories  []domain.Story
	index    int
	progress int
	status   Status
	playback Playback
}

// Open starts playing at initialID. An unknown id or an empty sequence yields
// a closed machine and no effects.
func Open(stories []domain.Story, initialID string, pb Playback) (*Machine, []Effect) {
	m := &Machine{
		stories:  append([]domain.Story(nil), stories...),
		playback: pb.normalized(),
	}
	for i, s := range m.stories {
		if s.ID == initialID {
			m.status = StatusPlaying
			return m, m.enter(i)
		}
	}
	return m, nil
}

// Tick advances progress while playing. Finishing the last story closes the viewer.
func (m *Machine) Tick() []Effect {
	if m.status != StatusPlaying {
		return nil
	}
	m.progress += m.playback.Step
	if m.progress < m.playback.Max {
		return nil
	}
	return m.Next()
}

// Next moves forward; past the last story it closes the viewer.
func (m *Machine) Next() []Effect {
	if m.status == StatusClosed {
		return nil
	}
	if m.index < len(m.stories)-1 {
		return m.enter(m.index + 1)
	}
	return m.Close()
}

// Prev moves back; it does nothing on the first story.
func (m *Machine) Prev() []Effect {
	if m.status == StatusClosed || m.index == 0 {
		return nil
	}
	return m.enter(m.index - 1)
}

// TogglePause switches between playing and paused, keeping index and progress.
func (m *Machine) TogglePause() {
	switch m.status {
	case StatusPlaying:
		m.status = StatusPaused
	case StatusPaused:
		m.status = StatusPlaying
	}
}

// Close is terminal.
func (m *Machine) Close() []Effect {
	if m.status == StatusClosed {
		return nil
	}
	m.status = StatusClosed
	return []Effect{{Kind: EffectClosed, Index: m.index, StoryID: m.stories[m.index].ID}}
}

func (m *Machine) Status() Status { return m.status }

func (m *Machine) enter(i int) []Effect {
	m.index = i
	m.progress = 0

	s := &m.stories[i]
	effects := []Effect{{Kind: EffectEntered, Index: i, StoryID: s.ID}}
	if !s.Viewed {
		s.Viewed = true
		effects = append(effects, Effect{Kind: EffectViewed, Index: i, StoryID: s.ID})
	}
	return effects
}

type Snapshot struct {
	Status   Status       `json:"status"`
	Index    int          `json:"index"`
	Total    int          `json:"total"`
	Progress int          `json:"progress"`
	Max      int          `json:"max"`
	Story    domain.Story `json:"story"`
}

// Percent is the progress of the current story in the range [0, 100].
func (s Snapshot) Percent() int {
	if s.Max == 0 {
		return 0
	}
	return s.Progress * 100 / s.Max
}

func (m *Machine) Snapshot() Snapshot {
	snap := Snapshot{
		Status:   m.status,
		Index:    m.index,
		Total:    len(m.stories),
		Progress: m.progress,
		Max:      m.playback.Max,
	}
	if len(m.stories) > 0 {
		snap.Story = m.stories[m.index]
	}
	return snap
}
