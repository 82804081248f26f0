package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upFixtureInit, downFixtureInit)
}

func upFixtureInit(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE fixture_users (
		id        VARCHAR PRIMARY KEY,
		position  INT NOT NULL,
		username  VARCHAR NOT NULL,
		full_name VARCHAR NOT NULL,
		avatar    VARCHAR NOT NULL DEFAULT '',
		bio       TEXT NOT NULL DEFAULT '',
		followers INT NOT NULL DEFAULT 0 CHECK (followers >= 0),
		following INT NOT NULL DEFAULT 0 CHECK (following >= 0),
		posts     INT NOT NULL DEFAULT 0 CHECK (posts >= 0),
		verified  BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE TABLE fixture_posts (
		id        VARCHAR PRIMARY KEY,
		position  INT NOT NULL,
		user_id   VARCHAR NOT NULL,
		content   TEXT NOT NULL DEFAULT '',
		image     VARCHAR NOT NULL DEFAULT '',
		likes     INT NOT NULL DEFAULT 0 CHECK (likes >= 0),
		comments  INT NOT NULL DEFAULT 0 CHECK (comments >= 0),
		shares    INT NOT NULL DEFAULT 0 CHECK (shares >= 0),
		timestamp VARCHAR NOT NULL DEFAULT '',
		liked     BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE TABLE fixture_stories (
		id        VARCHAR PRIMARY KEY,
		position  INT NOT NULL,
		user_id   VARCHAR NOT NULL,
		image     VARCHAR NOT NULL DEFAULT '',
		timestamp VARCHAR NOT NULL DEFAULT '',
		viewed    BOOLEAN NOT NULL DEFAULT FALSE
	);
	`)
	return err
}

func downFixtureInit(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	DROP TABLE fixture_stories;
	DROP TABLE fixture_posts;
	DROP TABLE fixture_users;
	`)
	return err
}
