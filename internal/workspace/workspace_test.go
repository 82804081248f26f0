package workspace

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/fawazbook/internal/domain"
	"github.com/orgball2608/fawazbook/internal/feed"
	"github.com/orgball2608/fawazbook/internal/fixture"
	"github.com/orgball2608/fawazbook/internal/router"
	"github.com/orgball2608/fawazbook/internal/story"
	"github.com/orgball2608/fawazbook/pkg/errors"
	"github.com/orgball2608/fawazbook/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func testLogger() logger.Logger {
	return logger.New(logger.Opts{Env: "production", Output: io.Discard})
}

func testStore(t *testing.T) *fixture.Memory {
	t.Helper()
	snap, err := fixture.LoadEmbedded()
	require.NoError(t, err)
	store, err := fixture.NewMemory(snap)
	require.NoError(t, err)
	return store
}

func newWorkspace(t *testing.T, clock clockwork.Clock) *Workspace {
	t.Helper()
	store := testStore(t)
	w := New(Opts{
		ID:            "test",
		Directory:     fixture.NewDirectory(store.ListUsers()),
		Posts:         store.ListPosts(),
		Stories:       store.ListStories(),
		CurrentUserID: "1",
		Playback:      story.Playback{Interval: 10 * time.Millisecond, Step: 50, Max: 100},
		Clock:         clock,
		Logger:        testLogger(),
	})
	t.Cleanup(w.Close)
	return w
}

func postIDs(entries []feed.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Post.ID
	}
	return out
}

func TestHomeScreen(t *testing.T) {
	w := newWorkspace(t, clockwork.NewFakeClock())

	scr := w.Screen()
	require.NotNil(t, scr.Home)
	assert.Nil(t, scr.Search)
	assert.Equal(t, "sarah_chen", scr.CurrentUser.Username)
	assert.Len(t, scr.Home.Posts, 36)
	assert.Len(t, scr.Home.Rings, 8)
	assert.Contains(t, scr.Home.AvailableTags, "travel")
	assert.Nil(t, scr.Viewer)
}

func TestTagFilterIsOR(t *testing.T) {
	w := newWorkspace(t, clockwork.NewFakeClock())

	w.ToggleTag("#Travel")
	travel := w.Screen().Home.Posts
	assert.Len(t, travel, 5)

	w.ToggleTag("tokyo")
	assert.Len(t, w.Screen().Home.Posts, 5)

	w.ToggleTag("design")
	both := w.Screen().Home.Posts
	assert.Greater(t, len(both), 5)
	for _, e := range both {
		assert.True(t, e.Post.HasTag("travel") || e.Post.HasTag("design") || e.Post.HasTag("tokyo"))
	}
}

func TestHashtagSearchShowsTrending(t *testing.T) {
	w := newWorkspace(t, clockwork.NewFakeClock())

	state := w.Search("#travel", domain.ScopeAll)
	assert.Equal(t, domain.ViewTrending, state.View)
	assert.Equal(t, []string{"travel"}, state.SelectedTags.Sorted())

	scr := w.Screen()
	require.NotNil(t, scr.Trending)
	assert.Len(t, scr.Trending.Tags, 10)
	assert.Len(t, scr.Trending.Posts, 5)
}

func TestTextSearchScreen(t *testing.T) {
	w := newWorkspace(t, clockwork.NewFakeClock())

	w.Search("travel", domain.ScopeProfiles)
	scr := w.Screen()
	require.NotNil(t, scr.Search)
	assert.Empty(t, scr.Search.Posts)
	require.Len(t, scr.Search.Users, 1)
	assert.Equal(t, "alex_travel", scr.Search.Users[0].Username)

	w.Search("", domain.ScopeAll)
	scr = w.Screen()
	assert.Empty(t, scr.Search.Posts)
	assert.Empty(t, scr.Search.Users)
}

func TestSelectUser(t *testing.T) {
	w := newWorkspace(t, clockwork.NewFakeClock())

	_, err := w.SelectUser("99")
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, domain.ViewHome, w.State().View)

	state, err := w.SelectUser("2")
	require.NoError(t, err)
	assert.Equal(t, domain.ViewProfile, state.View)

	scr := w.Screen()
	require.NotNil(t, scr.Profile)
	assert.Equal(t, "alex_travel", scr.Profile.User.Username)
	assert.False(t, scr.Profile.Own)
	assert.Equal(t, []string{"2", "10", "18", "26", "34"}, postIDs(scr.Profile.Posts))
}

func TestProfileFallsBackToCurrentUser(t *testing.T) {
	w := newWorkspace(t, clockwork.NewFakeClock())

	w.ChangeView(domain.ViewProfile)
	scr := w.Screen()
	require.NotNil(t, scr.Profile)
	assert.True(t, scr.Profile.Own)
	assert.Equal(t, "1", scr.Profile.User.ID)
}

func TestLocalPostLifecycle(t *testing.T) {
	w := newWorkspace(t, clockwork.NewFakeClock())

	_, ok := w.CreatePost("  ", "", nil)
	assert.False(t, ok)

	post, ok := w.CreatePost("New sketch #Design", "", []string{"wip"})
	require.True(t, ok)
	assert.Equal(t, "1", post.UserID)
	assert.ElementsMatch(t, []string{"wip", "design"}, post.Tags)

	home := w.Screen().Home.Posts
	assert.Equal(t, post.ID, home[0].Post.ID)
	assert.Len(t, home, 37)

	liked, ok := w.ToggleLike(post.ID)
	require.True(t, ok)
	assert.Equal(t, 1, liked.Likes)

	c, ok := w.AddComment(post.ID, "first")
	require.True(t, ok)
	assert.True(t, w.EditComment(post.ID, c.ID, "edited"))
	assert.False(t, w.EditComment(post.ID, c.ID, " "))
	got, _ := w.Post(post.ID)
	assert.Equal(t, "edited", got.Thread[0].Text)
	assert.True(t, w.DeleteComment(post.ID, c.ID))

	assert.True(t, w.DeletePost(post.ID))
	assert.False(t, w.DeletePost(post.ID))
	assert.True(t, w.DeletePost("1"))
	assert.Len(t, w.Screen().Home.Posts, 35)
}

func TestNavigateReturnsScreenOfTransition(t *testing.T) {
	w := newWorkspace(t, clockwork.NewFakeClock())

	scr := w.Navigate(func(s router.State) router.State { return s.Search("#travel", domain.ScopeAll) })
	require.NotNil(t, scr.Trending)
	assert.Equal(t, domain.ViewTrending, scr.State.View)
	assert.Len(t, scr.Trending.Posts, 5)

	scr = w.Navigate(func(s router.State) router.State { return s.ChangeView(domain.ViewLeaderboard) })
	assert.Nil(t, scr.Trending)
	assert.NotEmpty(t, scr.Leaderboard)
	assert.Equal(t, domain.ViewLeaderboard, w.State().View)
}

func TestCreatedTagsMatchToggledTags(t *testing.T) {
	w := newWorkspace(t, clockwork.NewFakeClock())

	post, ok := w.CreatePost("Compiling", "", []string{"GoLang"})
	require.True(t, ok)
	assert.Equal(t, []string{"golang"}, post.Tags)
	assert.Contains(t, w.Screen().Home.AvailableTags, "golang")

	w.ToggleTag("#GoLang")
	assert.Equal(t, []string{post.ID}, postIDs(w.Screen().Home.Posts))

	w.RemoveTag("GOLANG")
	assert.Len(t, w.Screen().Home.Posts, 37)
}

func TestLeaderboardAndProfiles(t *testing.T) {
	w := newWorkspace(t, clockwork.NewFakeClock())

	w.ChangeView(domain.ViewLeaderboard)
	rows := w.Screen().Leaderboard
	require.Len(t, rows, 8)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 5, rows[0].Posts)

	w.ChangeView(domain.ViewProfiles)
	assert.Len(t, w.Screen().Profiles, 8)
}

func TestAddStory(t *testing.T) {
	w := newWorkspace(t, clockwork.NewFakeClock())

	_, ok := w.AddStory("", " ")
	assert.False(t, ok)

	s, ok := w.AddStory("", "hello")
	require.True(t, ok)
	stories := w.Stories()
	assert.Equal(t, s.ID, stories[0].ID)
	assert.Len(t, stories, 38)
}

type effectLog struct {
	mu    sync.Mutex
	kinds []story.EffectKind
}

func (l *effectLog) add(e story.Effect) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.kinds = append(l.kinds, e.Kind)
}

func (l *effectLog) get() []story.EffectKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]story.EffectKind(nil), l.kinds...)
}

func TestStoryViewer(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := clockwork.NewFakeClock()
	w := newWorkspace(t, clock)
	effects := &effectLog{}
	w.Subscribe(effects.add)

	_, ok := w.OpenStory("nope")
	assert.False(t, ok)
	assert.False(t, w.NextStory())

	snap, ok := w.OpenStory("36")
	require.True(t, ok)
	assert.Equal(t, story.StatusPlaying, snap.Status)
	assert.Equal(t, "36", snap.Story.ID)
	assert.True(t, w.State().StoryViewed("36"))

	viewer, ok := w.Viewer()
	require.True(t, ok)
	assert.Equal(t, 35, viewer.Index)
	assert.NotNil(t, w.Screen().Viewer)

	assert.True(t, w.PrevStory())
	assert.True(t, w.NextStory())
	assert.True(t, w.NextStory())
	assert.True(t, w.NextStory())

	_, ok = w.Viewer()
	assert.False(t, ok)
	assert.False(t, w.NextStory())
	assert.Nil(t, w.Screen().Viewer)
	assert.Contains(t, effects.get(), story.EffectClosed)

	stories := w.Stories()
	for _, s := range stories {
		if s.ID == "35" || s.ID == "36" || s.ID == "37" {
			assert.True(t, s.Viewed, s.ID)
		}
	}
	w.Close()
}

func TestStoryViewerTicks(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := clockwork.NewFakeClock()
	w := newWorkspace(t, clock)

	_, ok := w.OpenStory("37")
	require.True(t, ok)

	clock.Advance(10 * time.Millisecond)
	require.Eventually(t, func() bool {
		snap, ok := w.Viewer()
		return ok && snap.Progress == 50
	}, time.Second, time.Millisecond)

	clock.Advance(10 * time.Millisecond)
	require.Eventually(t, func() bool {
		_, ok := w.Viewer()
		return !ok
	}, time.Second, time.Millisecond)
	w.Close()
}

func TestReopenReplacesViewer(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := newWorkspace(t, clockwork.NewFakeClock())
	_, ok := w.OpenStory("1")
	require.True(t, ok)
	snap, ok := w.OpenStory("3")
	require.True(t, ok)
	assert.Equal(t, 2, snap.Index)

	assert.True(t, w.TogglePauseStory())
	viewer, _ := w.Viewer()
	assert.Equal(t, story.StatusPaused, viewer.Status)
	assert.True(t, w.CloseStory())
	assert.False(t, w.CloseStory())
}
