package story

import (
	"github.com/orgball2608/fawazbook/internal/domain"
	"github.com/orgball2608/fawazbook/pkg/formatter"
)

type Users interface {
	User(id string) (domain.User, bool)
}

// Ring is one author's entry in the stories strip.
type Ring struct {
	User        domain.User  `json:"user"`
	Latest      domain.Story `json:"latest"`
	Count       int          `json:"count"`
	HasUnviewed bool         `json:"hasUnviewed"`
}

// Rings groups stories by author in order of first appearance. Latest is the
// author's most recent story by display timestamp; ties keep sequence order.
// Stories by unknown authors are skipped.
func Rings(stories []domain.Story, users Users) []Ring {
	var rings []Ring
	pos := make(map[string]int)
	for _, s := range stories {
		i, seen := pos[s.UserID]
		if !seen {
			u, ok := users.User(s.UserID)
			if !ok {
				continue
			}
			pos[s.UserID] = len(rings)
			rings = append(rings, Ring{User: u, Latest: s})
			i = len(rings) - 1
		} else if newer(s, rings[i].Latest) {
			rings[i].Latest = s
		}
		rings[i].Count++
		if !s.Viewed {
			rings[i].HasUnviewed = true
		}
	}
	return rings
}

func newer(a, b domain.Story) bool {
	ageA, okA := formatter.ParseAgo(a.Timestamp)
	ageB, okB := formatter.ParseAgo(b.Timestamp)
	if !okA {
		return false
	}
	return !okB || ageA < ageB
}
