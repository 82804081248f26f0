package search

import (
	"testing"

	"github.com/orgball2608/fawazbook/internal/domain"
	"github.com/stretchr/testify/assert"
)

var (
	posts = []domain.Post{
		{ID: "1", Content: "Sunset in Santorini", Tags: []string{"travel", "greece"}},
		{ID: "2", Content: "Homemade pasta", Tags: []string{"food"}},
		{ID: "3", Content: "New React project", Tags: []string{"webdev", "TypeScript"}},
	}
	users = []domain.User{
		{ID: "1", Username: "sarah_chen", FullName: "Sarah Chen", Bio: "Digital artist"},
		{ID: "2", Username: "alex_travel", FullName: "Alex Rodriguez", Bio: "Travel photographer"},
		{ID: "3", Username: "foodie_david", FullName: "David Park", Bio: "Food blogger"},
	}
)

func postIDs(r Result) []string {
	var out []string
	for _, p := range r.Posts {
		out = append(out, p.ID)
	}
	return out
}

func userIDs(r Result) []string {
	var out []string
	for _, u := range r.Users {
		out = append(out, u.ID)
	}
	return out
}

func TestEmptyQueryMatchesNothing(t *testing.T) {
	for _, scope := range []domain.Scope{domain.ScopeAll, domain.ScopePosts, domain.ScopeProfiles} {
		r := Search(posts, users, "", scope)
		assert.Empty(t, r.Posts, scope)
		assert.Empty(t, r.Users, scope)
		assert.NotNil(t, r.Posts, scope)
		assert.NotNil(t, r.Users, scope)
	}
}

func TestCaseInsensitiveAcrossFields(t *testing.T) {
	cases := []struct {
		query     string
		wantPosts []string
		wantUsers []string
	}{
		{"TRAVEL", []string{"1"}, []string{"2"}},
		{"typescript", []string{"3"}, nil},
		{"santorini", []string{"1"}, nil},
		{"park", nil, []string{"3"}},
		{"food", []string{"2"}, []string{"3"}},
		{"artist", nil, []string{"1"}},
		{"zzz", nil, nil},
	}
	for _, tc := range cases {
		r := Search(posts, users, tc.query, domain.ScopeAll)
		assert.Equal(t, tc.wantPosts, postIDs(r), tc.query)
		assert.Equal(t, tc.wantUsers, userIDs(r), tc.query)
	}
}

func TestScopeForcesOtherCollectionEmpty(t *testing.T) {
	r := Search(posts, users, "food", domain.ScopePosts)
	assert.Equal(t, []string{"2"}, postIDs(r))
	assert.Empty(t, r.Users)

	r = Search(posts, users, "food", domain.ScopeProfiles)
	assert.Empty(t, r.Posts)
	assert.Equal(t, []string{"3"}, userIDs(r))
}

func TestHashIsNotSpecial(t *testing.T) {
	r := Search(posts, users, "#travel", domain.ScopeAll)
	assert.Empty(t, r.Posts)
	assert.Empty(t, r.Users)
}
