package router

import (
	"testing"

	"github.com/orgball2608/fawazbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashtagSearchRedirectsToTrending(t *testing.T) {
	s := New().ToggleTag("food").Search("#travel", domain.ScopeAll)

	assert.Equal(t, []string{"travel"}, s.SelectedTags.Sorted())
	assert.Equal(t, domain.ViewTrending, s.View)
	assert.Empty(t, s.Query)
}

func TestTextSearch(t *testing.T) {
	s := New().Search("  sunset ", domain.ScopePosts)

	assert.Equal(t, domain.ViewSearch, s.View)
	assert.Equal(t, "sunset", s.Query)
	assert.Equal(t, domain.ScopePosts, s.Scope)
}

func TestLoneHashIsTextSearch(t *testing.T) {
	s := New().Search("#", "")
	assert.Equal(t, domain.ViewSearch, s.View)
	assert.Equal(t, "#", s.Query)
	assert.Equal(t, domain.ScopeAll, s.Scope)
}

func TestChangeViewClearsQueryAndUser(t *testing.T) {
	s := New().Search("art", domain.ScopeAll).SelectUser("2")
	assert.Equal(t, domain.ViewProfile, s.View)
	assert.Equal(t, "2", s.SelectedUserID)

	kept := s.ChangeView(domain.ViewSearch)
	assert.Equal(t, "art", kept.Query)
	assert.Empty(t, kept.SelectedUserID)

	cleared := s.ChangeView(domain.ViewTrending)
	assert.Empty(t, cleared.Query)
	assert.Empty(t, cleared.SelectedUserID)
}

func TestToggleTagTwiceRestores(t *testing.T) {
	start := New().ToggleTag("design").ChangeView(domain.ViewLeaderboard)
	s := start.ToggleTag("ui").ToggleTag("ui")

	assert.True(t, start.SelectedTags.Equal(s.SelectedTags))
	assert.Equal(t, domain.ViewHome, s.View)
}

func TestRemoveAbsentTagIsNoop(t *testing.T) {
	s := New().ToggleTag("design").ChangeView(domain.ViewProfiles)
	after := s.RemoveTag("travel")

	assert.True(t, s.SelectedTags.Equal(after.SelectedTags))
	assert.Equal(t, domain.ViewProfiles, after.View)
}

func TestClearTagsKeepsView(t *testing.T) {
	s := New().ToggleTag("a").ToggleTag("b").ChangeView(domain.ViewTrending).ClearTags()
	assert.True(t, s.SelectedTags.Empty())
	assert.Equal(t, domain.ViewTrending, s.View)
}

func TestTransitionsDoNotAlias(t *testing.T) {
	base := New().MarkStoryViewed("s1")
	next := base.MarkStoryViewed("s2")

	assert.Equal(t, []string{"s1"}, base.ViewedStories())
	assert.Equal(t, []string{"s1", "s2"}, next.ViewedStories())
	assert.True(t, next.StoryViewed("s1"))
}

func TestMarshalJSON(t *testing.T) {
	s := New().ToggleTag("ui").ToggleTag("design").MarkStoryViewed("7")
	b, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"view":"home","query":"","scope":"all","selectedTags":["design","ui"],"viewedStories":["7"]}`,
		string(b))
}
