package workspace

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/fawazbook/internal/domain"
	"github.com/orgball2608/fawazbook/internal/feed"
	"github.com/orgball2608/fawazbook/internal/fixture"
	"github.com/orgball2608/fawazbook/internal/router"
	"github.com/orgball2608/fawazbook/internal/search"
	"github.com/orgball2608/fawazbook/internal/story"
	"github.com/orgball2608/fawazbook/pkg/errors"
	"github.com/orgball2608/fawazbook/pkg/logger"
)

// Listener observes story effects of a workspace. It runs on the goroutine
// that produced the effect and must not block. Effects from the story timer
// and from manual steps are not ordered against each other; see
// story.EffectSink.
type Listener func(story.Effect)

type Opts struct {
	ID            string
	Directory     *fixture.Directory
	Posts         []domain.Post
	Stories       []domain.Story
	CurrentUserID string
	Playback      story.Playback
	Clock         clockwork.Clock
	Logger        logger.Logger
}

// Workspace owns everything one client sees: navigation, its working copy of
// the feed, its local stories and at most one open story viewer.
type Workspace struct {
	id          string
	dir         *fixture.Directory
	currentUser string
	playback    story.Playback
	clock       clockwork.Clock
	log         logger.Logger

	mu           sync.Mutex
	state        router.State
	feed         *feed.Feed
	stories      []domain.Story
	localStories []domain.Story
	viewer       *story.Session
	viewerGen    uint64
	listeners    []Listener
	lastSeen     time.Time
}

func New(opts Opts) *Workspace {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	stories := make([]domain.Story, len(opts.Stories))
	copy(stories, opts.Stories)

	return &Workspace{
		id:          opts.ID,
		dir:         opts.Directory,
		currentUser: opts.CurrentUserID,
		playback:    opts.Playback,
		clock:       clock,
		log:         opts.Logger,
		state:       router.New(),
		feed:        feed.New(opts.Posts),
		stories:     stories,
		lastSeen:    clock.Now(),
	}
}

func (w *Workspace) ID() string { return w.id }

// CurrentUser is the user acting in this workspace.
func (w *Workspace) CurrentUser() (domain.User, bool) {
	return w.dir.User(w.currentUser)
}

func (w *Workspace) LastSeen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// Subscribe registers l for story effects from now on.
func (w *Workspace) Subscribe(l Listener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, l)
}

func (w *Workspace) State() router.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workspace) ChangeView(v domain.View) router.State {
	return w.navigate(func(s router.State) router.State { return s.ChangeView(v) })
}

// SelectUser opens a profile. Unknown ids are reported as not found and leave
// the state unchanged.
func (w *Workspace) SelectUser(id string) (router.State, error) {
	if _, ok := w.dir.User(id); !ok {
		return w.State(), errors.NotFound("user", id)
	}
	return w.navigate(func(s router.State) router.State { return s.SelectUser(id) }), nil
}

func (w *Workspace) Search(query string, scope domain.Scope) router.State {
	return w.navigate(func(s router.State) router.State { return s.Search(query, scope) })
}

func (w *Workspace) ToggleTag(tag string) router.State {
	tag = feed.NormalizeTag(tag)
	return w.navigate(func(s router.State) router.State { return s.ToggleTag(tag) })
}

func (w *Workspace) RemoveTag(tag string) router.State {
	tag = feed.NormalizeTag(tag)
	return w.navigate(func(s router.State) router.State { return s.RemoveTag(tag) })
}

func (w *Workspace) ClearTags() router.State {
	return w.navigate(func(s router.State) router.State { return s.ClearTags() })
}

func (w *Workspace) navigate(fn func(router.State) router.State) router.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touchLocked()
	w.state = fn(w.state)
	return w.state
}

// CreatePost publishes a post as the current user.
func (w *Workspace) CreatePost(content, image string, tags []string) (domain.Post, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touchLocked()
	return w.feed.Create(feed.Draft{
		AuthorID: w.currentUser,
		Content:  content,
		Image:    image,
		Tags:     tags,
	})
}

func (w *Workspace) DeletePost(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touchLocked()
	return w.feed.Delete(id)
}

func (w *Workspace) ToggleLike(id string) (domain.Post, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touchLocked()
	return w.feed.ToggleLike(id)
}

func (w *Workspace) Post(id string) (domain.Post, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.feed.Get(id)
}

func (w *Workspace) AddComment(postID, text string) (domain.Comment, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touchLocked()
	return w.feed.AddComment(postID, w.currentUser, text)
}

func (w *Workspace) EditComment(postID, commentID, text string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touchLocked()
	return w.feed.EditComment(postID, commentID, text)
}

func (w *Workspace) DeleteComment(postID, commentID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touchLocked()
	return w.feed.DeleteComment(postID, commentID)
}

// AddStory prepends a story by the current user. A story needs an image or text.
func (w *Workspace) AddStory(image, text string) (domain.Story, bool) {
	image, text = strings.TrimSpace(image), strings.TrimSpace(text)
	if image == "" && text == "" {
		return domain.Story{}, false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.touchLocked()
	s := domain.Story{
		ID:        uuid.NewString(),
		UserID:    w.currentUser,
		Image:     image,
		Text:      text,
		Timestamp: feed.JustNow,
	}
	w.localStories = append([]domain.Story{s}, w.localStories...)
	return s, true
}

// Stories lists local stories first, then the fixture ones, with the viewed
// flag reflecting what this client has watched.
func (w *Workspace) Stories() []domain.Story {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.storiesLocked()
}

func (w *Workspace) storiesLocked() []domain.Story {
	out := make([]domain.Story, 0, len(w.localStories)+len(w.stories))
	for _, list := range [][]domain.Story{w.localStories, w.stories} {
		for _, s := range list {
			if w.state.StoryViewed(s.ID) {
				s.Viewed = true
			}
			out = append(out, s)
		}
	}
	return out
}

// OpenStory replaces any open viewer with a new session starting at id. It
// reports false when id is not a known story.
func (w *Workspace) OpenStory(id string) (story.Snapshot, bool) {
	w.mu.Lock()
	w.touchLocked()
	previous := w.viewer
	w.viewer = nil
	w.viewerGen++
	gen := w.viewerGen
	stories := w.storiesLocked()
	w.mu.Unlock()

	if previous != nil {
		previous.Close()
	}

	session, ok := story.OpenSession(stories, id, story.SessionOpts{
		Clock:    w.clock,
		Playback: w.playback,
		Sink:     func(e story.Effect) { w.onEffect(gen, e) },
		Logger:   w.log,
	})
	if !ok {
		return story.Snapshot{}, false
	}

	w.mu.Lock()
	if w.viewerGen != gen {
		w.mu.Unlock()
		session.Close()
		return story.Snapshot{}, false
	}
	w.viewer = session
	w.mu.Unlock()
	return session.Snapshot(), true
}

// Viewer returns the open viewer, if any.
func (w *Workspace) Viewer() (story.Snapshot, bool) {
	v := w.currentViewer(false)
	if v == nil {
		return story.Snapshot{}, false
	}
	snap := v.Snapshot()
	return snap, snap.Status != story.StatusClosed
}

func (w *Workspace) NextStory() bool {
	return w.withViewer((*story.Session).Next)
}

func (w *Workspace) PrevStory() bool {
	return w.withViewer((*story.Session).Prev)
}

func (w *Workspace) TogglePauseStory() bool {
	return w.withViewer((*story.Session).TogglePause)
}

func (w *Workspace) CloseStory() bool {
	return w.withViewer((*story.Session).Close)
}

func (w *Workspace) withViewer(fn func(*story.Session)) bool {
	v := w.currentViewer(true)
	if v == nil || v.Closed() {
		return false
	}
	fn(v)
	return true
}

func (w *Workspace) currentViewer(touch bool) *story.Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	if touch {
		w.touchLocked()
	}
	return w.viewer
}

func (w *Workspace) onEffect(gen uint64, e story.Effect) {
	w.mu.Lock()
	switch e.Kind {
	case story.EffectViewed:
		w.state = w.state.MarkStoryViewed(e.StoryID)
	case story.EffectClosed:
		if w.viewerGen == gen {
			w.viewer = nil
		}
	}
	listeners := append([]Listener(nil), w.listeners...)
	w.mu.Unlock()

	for _, l := range listeners {
		l(e)
	}
}

// Close shuts the open viewer down. The workspace stays usable.
func (w *Workspace) Close() {
	w.mu.Lock()
	v := w.viewer
	w.mu.Unlock()
	if v != nil {
		v.Close()
	}
}

func (w *Workspace) touchLocked() {
	w.lastSeen = w.clock.Now()
}

// searchLocked runs the current query over this client's live posts.
func (w *Workspace) searchLocked() search.Result {
	return search.Search(w.feed.All(), w.dir.Users(), w.state.Query, w.state.Scope)
}
