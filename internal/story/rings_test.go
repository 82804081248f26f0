package story

import (
	"testing"

	"github.com/orgball2608/fawazbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userMap map[string]domain.User

func (m userMap) User(id string) (domain.User, bool) {
	u, ok := m[id]
	return u, ok
}

func TestRings(t *testing.T) {
	users := userMap{
		"1": {ID: "1", Username: "sarah_chen"},
		"2": {ID: "2", Username: "alex_travel"},
	}
	stories := []domain.Story{
		{ID: "s1", UserID: "1", Timestamp: "3 hours ago", Viewed: true},
		{ID: "s2", UserID: "2", Timestamp: "1 hour ago", Viewed: true},
		{ID: "s3", UserID: "1", Timestamp: "20 minutes ago"},
		{ID: "s4", UserID: "9", Timestamp: "Just now"},
	}

	rings := Rings(stories, users)
	require.Len(t, rings, 2)

	assert.Equal(t, "sarah_chen", rings[0].User.Username)
	assert.Equal(t, "s3", rings[0].Latest.ID)
	assert.Equal(t, 2, rings[0].Count)
	assert.True(t, rings[0].HasUnviewed)

	assert.Equal(t, "alex_travel", rings[1].User.Username)
	assert.Equal(t, "s2", rings[1].Latest.ID)
	assert.False(t, rings[1].HasUnviewed)
}
