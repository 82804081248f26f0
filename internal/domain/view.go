package domain

import "fmt"

type View string

const (
	ViewHome        View = "home"
	ViewSearch      View = "search"
	ViewProfiles    View = "profiles"
	ViewProfile     View = "profile"
	ViewTrending    View = "trending"
	ViewLeaderboard View = "leaderboard"
)

var views = map[View]struct{}{
	ViewHome:        {},
	ViewSearch:      {},
	ViewProfiles:    {},
	ViewProfile:     {},
	ViewTrending:    {},
	ViewLeaderboard: {},
}

// ParseView validates a view name coming from a client.
func ParseView(s string) (View, error) {
	v := View(s)
	if _, ok := views[v]; !ok {
		return "", fmt.Errorf("unknown view %q", s)
	}
	return v, nil
}

// Scope selects which collections a search runs against.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopePosts    Scope = "posts"
	ScopeProfiles Scope = "profiles"
)

// ParseScope validates a search scope. An empty string means ScopeAll.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopePosts, ScopeProfiles:
		return Scope(s), nil
	}
	return "", fmt.Errorf("unknown search scope %q", s)
}

func (s Scope) IncludesPosts() bool {
	return s == ScopeAll || s == ScopePosts
}

func (s Scope) IncludesProfiles() bool {
	return s == ScopeAll || s == ScopeProfiles
}
