package feed

import (
	"testing"

	"github.com/orgball2608/fawazbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, AvailableTags(samplePosts()))
	assert.Empty(t, AvailableTags(nil))
}

func TestTrending(t *testing.T) {
	posts := []domain.Post{
		{ID: "1", Tags: []string{"travel", "sunset"}, Likes: 10, Comments: 2},
		{ID: "2", Tags: []string{"travel"}, Likes: 5, Comments: 1},
		{ID: "3", Tags: []string{"food"}, Likes: 1},
	}

	got := Trending(posts, 2)
	require.Len(t, got, 2)
	assert.Equal(t, TrendingTag{Rank: 1, Tag: "food", Posts: 1, Engagement: 1}, got[0])
	assert.Equal(t, TrendingTag{Rank: 2, Tag: "sunset", Posts: 1, Engagement: 12}, got[1])

	all := Trending(posts, TrendingLimit)
	assert.Equal(t, TrendingTag{Rank: 3, Tag: "travel", Posts: 2, Engagement: 18}, all[2])
}

func TestLeaderboard(t *testing.T) {
	users := []domain.User{{ID: "u1"}, {ID: "u2"}, {ID: "u3"}}
	got := Leaderboard(users, samplePosts(), 2)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, 2, got[0].Posts)
	assert.Equal(t, 10, got[0].Likes)
	assert.Equal(t, "u2", got[1].User.ID)
	assert.Equal(t, 1, got[1].Posts)
	assert.Equal(t, 5, got[1].Likes)
}

func TestUserPostsNewestFirst(t *testing.T) {
	posts := []domain.Post{
		{ID: "old", UserID: "u1", Timestamp: "2 days ago"},
		{ID: "other", UserID: "u2", Timestamp: "1 hour ago"},
		{ID: "weird", UserID: "u1", Timestamp: "last summer"},
		{ID: "new", UserID: "u1", Timestamp: "Just now"},
		{ID: "mid", UserID: "u1", Timestamp: "5 hours ago"},
	}

	assert.Equal(t, []string{"new", "mid", "old", "weird"}, ids(UserPosts("u1", posts)))
	assert.Empty(t, UserPosts("u9", posts))
}
