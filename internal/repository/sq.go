package repository

import (
	"errors"

	"github.com/Masterminds/squirrel"
)

var SqBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var ErrBadQuery = errors.New("bad query")

// Fixture tables created by internal/migrations.
const (
	TableUsers    = "fixture_users"
	TablePosts    = "fixture_posts"
	TablePostTags = "fixture_post_tags"
	TableComments = "fixture_comments"
	TableStories  = "fixture_stories"
)
