package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upFixtureThreads, downFixtureThreads)
}

// Tags and comments keep their own position so fixture order survives the round trip.
func upFixtureThreads(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE fixture_post_tags (
		post_id  VARCHAR NOT NULL REFERENCES fixture_posts(id) ON DELETE CASCADE,
		position INT NOT NULL,
		tag      VARCHAR NOT NULL,
		PRIMARY KEY (post_id, position)
	);

	CREATE TABLE fixture_comments (
		post_id   VARCHAR NOT NULL REFERENCES fixture_posts(id) ON DELETE CASCADE,
		id        VARCHAR NOT NULL,
		position  INT NOT NULL,
		user_id   VARCHAR NOT NULL,
		text      TEXT NOT NULL,
		timestamp VARCHAR NOT NULL DEFAULT '',
		PRIMARY KEY (post_id, id)
	);

	ALTER TABLE fixture_stories ADD COLUMN text TEXT NOT NULL DEFAULT '';
	`)
	return err
}

func downFixtureThreads(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	ALTER TABLE fixture_stories DROP COLUMN text;
	DROP TABLE fixture_comments;
	DROP TABLE fixture_post_tags;
	`)
	return err
}
