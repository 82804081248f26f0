package workspace

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/fawazbook/internal/fixture"
	"github.com/orgball2608/fawazbook/internal/story"
	"github.com/orgball2608/fawazbook/pkg/logger"
)

type RegistryOpts struct {
	Store           fixture.Store
	Directory       *fixture.Directory
	CurrentUserID   string
	Playback        story.Playback
	IdleTTL         time.Duration
	CleanupInterval time.Duration
	Clock           clockwork.Clock
	Logger          logger.Logger
}

// Registry hands out one Workspace per client id and forgets the ones that
// have been idle for longer than IdleTTL.
type Registry struct {
	opts RegistryOpts
	log  logger.Logger

	mu     sync.Mutex
	spaces map[string]*Workspace

	scheduler gocron.Scheduler
}

func NewRegistry(opts RegistryOpts) *Registry {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Registry{
		opts:   opts,
		log:    opts.Logger.WithComponent("Registry"),
		spaces: make(map[string]*Workspace),
	}
}

// Get returns the workspace of clientID, creating it on first use.
func (r *Registry) Get(clientID string) *Workspace {
	return r.GetWith(clientID, nil)
}

// GetWith is Get with a hook that runs only when the workspace is created,
// before anyone else can see it.
func (r *Registry) GetWith(clientID string, init func(*Workspace)) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.spaces[clientID]; ok {
		return w
	}

	w := New(Opts{
		ID:            clientID,
		Directory:     r.opts.Directory,
		Posts:         r.opts.Store.ListPosts(),
		Stories:       r.opts.Store.ListStories(),
		CurrentUserID: r.opts.CurrentUserID,
		Playback:      r.opts.Playback,
		Clock:         r.opts.Clock,
		Logger:        r.opts.Logger.WithComponent("Workspace"),
	})
	if init != nil {
		init(w)
	}
	r.spaces[clientID] = w
	r.log.Debug("Workspace created", "client_id", clientID)
	return w
}

func (r *Registry) Lookup(clientID string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.spaces[clientID]
	return w, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.spaces)
}

// Sweep evicts idle workspaces and closes their viewers. It returns how many
// were evicted.
func (r *Registry) Sweep() int {
	if r.opts.IdleTTL <= 0 {
		return 0
	}
	cutoff := r.opts.Clock.Now().Add(-r.opts.IdleTTL)

	r.mu.Lock()
	var idle []*Workspace
	for id, w := range r.spaces {
		if w.LastSeen().Before(cutoff) {
			idle = append(idle, w)
			delete(r.spaces, id)
		}
	}
	r.mu.Unlock()

	for _, w := range idle {
		w.Close()
		r.log.Debug("Workspace evicted", "client_id", w.ID())
	}
	return len(idle)
}

// Start schedules Sweep every CleanupInterval.
func (r *Registry) Start() error {
	if r.opts.CleanupInterval <= 0 {
		return nil
	}

	scheduler, err := gocron.NewScheduler(gocron.WithClock(r.opts.Clock))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(r.opts.CleanupInterval),
		gocron.NewTask(func() {
			if n := r.Sweep(); n > 0 {
				r.log.Info("Idle workspaces evicted", "count", n)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule workspace cleanup: %w", err)
	}

	scheduler.Start()
	r.scheduler = scheduler
	r.log.Info("Workspace cleanup scheduled", "interval", r.opts.CleanupInterval, "idle_ttl", r.opts.IdleTTL)
	return nil
}

// Stop shuts the scheduler down and closes every open viewer.
func (r *Registry) Stop() error {
	var err error
	if r.scheduler != nil {
		if err = r.scheduler.Shutdown(); err != nil {
			err = fmt.Errorf("failed to shut down scheduler: %w", err)
		}
		r.scheduler = nil
	}

	r.mu.Lock()
	spaces := make([]*Workspace, 0, len(r.spaces))
	for _, w := range r.spaces {
		spaces = append(spaces, w)
	}
	r.mu.Unlock()

	for _, w := range spaces {
		w.Close()
	}
	return err
}
