package feed

import (
	"math"
	"sort"

	"github.com/orgball2608/fawazbook/internal/domain"
	"github.com/orgball2608/fawazbook/pkg/formatter"
)

const (
	TrendingLimit    = 10
	LeaderboardLimit = 10
)

// AvailableTags is the sorted union of all post tags.
func AvailableTags(posts []domain.Post) []string {
	var set TagSet
	for _, p := range posts {
		for _, t := range p.Tags {
			set = set.With(t)
		}
	}
	return set.Sorted()
}

type TrendingTag struct {
	Rank       int    `json:"rank"`
	Tag        string `json:"tag"`
	Posts      int    `json:"posts"`
	Engagement int    `json:"engagement"` // likes + comments over the tag's posts
}

// Trending lists the first limit available tags (lexicographic order, as the
// tag browser shows them) with their post count and engagement.
func Trending(posts []domain.Post, limit int) []TrendingTag {
	tags := AvailableTags(posts)
	if limit >= 0 && len(tags) > limit {
		tags = tags[:limit]
	}

	out := make([]TrendingTag, 0, len(tags))
	for i, tag := range tags {
		row := TrendingTag{Rank: i + 1, Tag: tag}
		for _, p := range posts {
			if p.HasTag(tag) {
				row.Posts++
				row.Engagement += p.Likes + p.Comments
			}
		}
		out = append(out, row)
	}
	return out
}

type LeaderboardRow struct {
	Rank  int         `json:"rank"`
	User  domain.User `json:"user"`
	Posts int         `json:"posts"`
	Likes int         `json:"likes"`
}

// Leaderboard shows the first limit users in fixture order with their live
// post count and total likes.
func Leaderboard(users []domain.User, posts []domain.Post, limit int) []LeaderboardRow {
	if limit >= 0 && len(users) > limit {
		users = users[:limit]
	}

	out := make([]LeaderboardRow, 0, len(users))
	for i, u := range users {
		row := LeaderboardRow{Rank: i + 1, User: u}
		for _, p := range posts {
			if p.UserID == u.ID {
				row.Posts++
				row.Likes += p.Likes
			}
		}
		out = append(out, row)
	}
	return out
}

// UserPosts returns the posts of one user, newest first by display timestamp.
// Timestamps that cannot be parsed sort last, keeping their relative order.
func UserPosts(userID string, posts []domain.Post) []domain.Post {
	var out []domain.Post
	for _, p := range posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return age(out[i].Timestamp) < age(out[j].Timestamp)
	})
	return out
}

func age(ts string) int64 {
	d, ok := formatter.ParseAgo(ts)
	if !ok {
		return math.MaxInt64
	}
	return int64(d)
}
