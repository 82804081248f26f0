package workspace

import (
	"github.com/orgball2608/fawazbook/internal/domain"
	"github.com/orgball2608/fawazbook/internal/feed"
	"github.com/orgball2608/fawazbook/internal/router"
	"github.com/orgball2608/fawazbook/internal/story"
)

// Screen is everything needed to render the current view. Exactly one of the
// view sections is set, matching State.View.
type Screen struct {
	State       router.State          `json:"state"`
	CurrentUser domain.User           `json:"currentUser"`
	Home        *HomeScreen           `json:"home,omitempty"`
	Search      *SearchScreen         `json:"search,omitempty"`
	Profiles    []domain.User         `json:"profiles,omitempty"`
	Profile     *ProfileScreen        `json:"profile,omitempty"`
	Trending    *TrendingScreen       `json:"trending,omitempty"`
	Leaderboard []feed.LeaderboardRow `json:"leaderboard,omitempty"`
	Viewer      *story.Snapshot       `json:"viewer,omitempty"`
}

type HomeScreen struct {
	Rings         []story.Ring `json:"rings"`
	AvailableTags []string     `json:"availableTags"`
	SelectedTags  feed.TagSet  `json:"selectedTags"`
	Posts         []feed.Entry `json:"posts"`
}

type SearchScreen struct {
	Query string        `json:"query"`
	Scope domain.Scope  `json:"scope"`
	Posts []feed.Entry  `json:"posts"`
	Users []domain.User `json:"users"`
}

type ProfileScreen struct {
	User  domain.User  `json:"user"`
	Posts []feed.Entry `json:"posts"`
	// Own is set when the profile shown is the current user's.
	Own bool `json:"own"`
}

type TrendingScreen struct {
	Tags         []feed.TrendingTag `json:"tags"`
	SelectedTags feed.TagSet        `json:"selectedTags"`
	Posts        []feed.Entry       `json:"posts"`
}

// Screen derives the current view from state. It never mutates anything.
func (w *Workspace) Screen() Screen {
	return w.Navigate(nil)
}

// Navigate applies fn to the router state and derives the screen it leads to
// without letting another caller's transition in between. A nil fn only reads.
func (w *Workspace) Navigate(fn func(router.State) router.State) Screen {
	w.mu.Lock()
	if fn != nil {
		w.touchLocked()
		w.state = fn(w.state)
	}
	scr := w.screenLocked()
	viewer := w.viewer
	w.mu.Unlock()

	if viewer != nil {
		if snap := viewer.Snapshot(); snap.Status != story.StatusClosed {
			scr.Viewer = &snap
		}
	}
	return scr
}

func (w *Workspace) screenLocked() Screen {
	me, _ := w.dir.User(w.currentUser)
	scr := Screen{State: w.state, CurrentUser: me}

	switch w.state.View {
	case domain.ViewSearch:
		res := w.searchLocked()
		scr.Search = &SearchScreen{
			Query: w.state.Query,
			Scope: w.state.Scope,
			Posts: feed.Resolve(res.Posts, w.dir),
			Users: res.Users,
		}
	case domain.ViewProfiles:
		scr.Profiles = w.dir.Users()
	case domain.ViewProfile:
		scr.Profile = w.profileLocked()
	case domain.ViewTrending:
		posts := w.feed.All()
		scr.Trending = &TrendingScreen{
			Tags:         feed.Trending(posts, feed.TrendingLimit),
			SelectedTags: w.state.SelectedTags,
			Posts:        []feed.Entry{},
		}
		if !w.state.SelectedTags.Empty() {
			scr.Trending.Posts = feed.Resolve(w.feed.Visible(w.state.SelectedTags), w.dir)
		}
	case domain.ViewLeaderboard:
		scr.Leaderboard = feed.Leaderboard(w.dir.Users(), w.feed.All(), feed.LeaderboardLimit)
	default:
		scr.Home = &HomeScreen{
			Rings:         story.Rings(w.storiesLocked(), w.dir),
			AvailableTags: feed.AvailableTags(w.feed.All()),
			SelectedTags:  w.state.SelectedTags,
			Posts:         feed.Resolve(w.feed.Visible(w.state.SelectedTags), w.dir),
		}
	}
	return scr
}

// profileLocked falls back to the current user when nobody, or somebody
// unknown, is selected.
func (w *Workspace) profileLocked() *ProfileScreen {
	u, ok := w.dir.User(w.state.SelectedUserID)
	if !ok {
		u, _ = w.dir.User(w.currentUser)
	}
	return &ProfileScreen{
		User:  u,
		Posts: feed.Resolve(feed.UserPosts(u.ID, w.feed.All()), w.dir),
		Own:   u.ID == w.currentUser,
	}
}
