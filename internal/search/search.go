package search

import (
	"strings"

	"github.com/orgball2608/fawazbook/internal/domain"
)

type Result struct {
	Posts []domain.Post `json:"posts"`
	Users []domain.User `json:"users"`
}

// Search matches query case-insensitively as a substring: posts on content or
// any tag, users on username, full name or bio. An empty query matches
// nothing, and the collection outside scope is always empty.
func Search(posts []domain.Post, users []domain.User, query string, scope domain.Scope) Result {
	res := Result{Posts: []domain.Post{}, Users: []domain.User{}}
	if query == "" {
		return res
	}
	q := strings.ToLower(query)

	if scope.IncludesPosts() {
		for _, p := range posts {
			if postMatches(p, q) {
				res.Posts = append(res.Posts, p)
			}
		}
	}

	if scope.IncludesProfiles() {
		for _, u := range users {
			if userMatches(u, q) {
				res.Users = append(res.Users, u)
			}
		}
	}
	return res
}

func postMatches(p domain.Post, q string) bool {
	if contains(p.Content, q) {
		return true
	}
	for _, t := range p.Tags {
		if contains(t, q) {
			return true
		}
	}
	return false
}

func userMatches(u domain.User, q string) bool {
	return contains(u.Username, q) || contains(u.FullName, q) || contains(u.Bio, q)
}

func contains(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}
