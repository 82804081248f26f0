package router

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/orgball2608/fawazbook/internal/domain"
	"github.com/orgball2608/fawazbook/internal/feed"
)

// State is the navigation state of one client. Transitions return a new value
// and never modify the receiver.
type State struct {
	View           domain.View
	SelectedUserID string
	Query          string
	Scope          domain.Scope
	SelectedTags   feed.TagSet

	viewed map[string]struct{}
}

func New() State {
	return State{View: domain.ViewHome, Scope: domain.ScopeAll}
}

// ChangeView switches view and drops the selected user. The search query
// survives only when moving to the search view.
func (s State) ChangeView(v domain.View) State {
	s.View = v
	s.SelectedUserID = ""
	if v != domain.ViewSearch {
		s.Query = ""
	}
	return s
}

func (s State) SelectUser(id string) State {
	s.SelectedUserID = id
	s.View = domain.ViewProfile
	return s
}

// Search runs a text search, except for "#tag" queries which browse that tag
// in the trending view instead.
func (s State) Search(query string, scope domain.Scope) State {
	query = strings.TrimSpace(query)
	if tag, ok := hashtag(query); ok {
		s.SelectedTags = feed.NewTagSet(tag)
		s.Query = ""
		s.View = domain.ViewTrending
		return s
	}
	if scope == "" {
		scope = domain.ScopeAll
	}
	s.Query = query
	s.Scope = scope
	s.View = domain.ViewSearch
	return s
}

// ToggleTag flips tag membership and always lands on the home feed.
func (s State) ToggleTag(tag string) State {
	s.SelectedTags = s.SelectedTags.Toggle(tag)
	s.View = domain.ViewHome
	return s
}

func (s State) RemoveTag(tag string) State {
	s.SelectedTags = s.SelectedTags.Without(tag)
	return s
}

func (s State) ClearTags() State {
	s.SelectedTags = feed.TagSet{}
	return s
}

func (s State) MarkStoryViewed(id string) State {
	if id == "" || s.StoryViewed(id) {
		return s
	}
	viewed := make(map[string]struct{}, len(s.viewed)+1)
	for k := range s.viewed {
		viewed[k] = struct{}{}
	}
	viewed[id] = struct{}{}
	s.viewed = viewed
	return s
}

func (s State) StoryViewed(id string) bool {
	_, ok := s.viewed[id]
	return ok
}

func (s State) ViewedStories() []string {
	out := make([]string, 0, len(s.viewed))
	for id := range s.viewed {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		View           domain.View  `json:"view"`
		SelectedUserID string       `json:"selectedUserId,omitempty"`
		Query          string       `json:"query"`
		Scope          domain.Scope `json:"scope"`
		SelectedTags   feed.TagSet  `json:"selectedTags"`
		ViewedStories  []string     `json:"viewedStories"`
	}{s.View, s.SelectedUserID, s.Query, s.Scope, s.SelectedTags, s.ViewedStories()})
}

func hashtag(query string) (string, bool) {
	if len(query) < 2 || query[0] != '#' {
		return "", false
	}
	tag := strings.ToLower(strings.TrimSpace(query[1:]))
	return tag, tag != ""
}
