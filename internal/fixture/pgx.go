package fixture

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/fawazbook/internal/domain"
	"github.com/orgball2608/fawazbook/internal/repository"
)

// LoadPostgres reads the whole fixture in fixture order.
func LoadPostgres(ctx context.Context, pool *pgxpool.Pool) (Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.Users, err = loadUsers(ctx, pool); err != nil {
		return Snapshot{}, fmt.Errorf("load users: %w", err)
	}
	if snap.Posts, err = loadPosts(ctx, pool); err != nil {
		return Snapshot{}, fmt.Errorf("load posts: %w", err)
	}
	if snap.Stories, err = loadStories(ctx, pool); err != nil {
		return Snapshot{}, fmt.Errorf("load stories: %w", err)
	}
	return snap, nil
}

func loadUsers(ctx context.Context, pool *pgxpool.Pool) ([]domain.User, error) {
	query, args, err := repository.SqBuilder.
		Select("id", "username", "full_name", "avatar", "bio", "followers", "following", "posts", "verified").
		From(repository.TableUsers).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, repository.ErrBadQuery
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.Avatar, &u.Bio, &u.Followers, &u.Following, &u.Posts, &u.Verified); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func loadPosts(ctx context.Context, pool *pgxpool.Pool) ([]domain.Post, error) {
	query, args, err := repository.SqBuilder.
		Select("id", "user_id", "content", "image", "likes", "comments", "shares", "timestamp", "liked").
		From(repository.TablePosts).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, repository.ErrBadQuery
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	index := make(map[string]int)
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Content, &p.Image, &p.Likes, &p.Comments, &p.Shares, &p.Timestamp, &p.Liked); err != nil {
			return nil, err
		}
		p.Tags = []string{}
		index[p.ID] = len(posts)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := attachTags(ctx, pool, posts, index); err != nil {
		return nil, err
	}
	if err := attachComments(ctx, pool, posts, index); err != nil {
		return nil, err
	}
	return posts, nil
}

func attachTags(ctx context.Context, pool *pgxpool.Pool, posts []domain.Post, index map[string]int) error {
	query, args, err := repository.SqBuilder.
		Select("post_id", "tag").
		From(repository.TablePostTags).
		OrderBy("post_id", "position").
		ToSql()
	if err != nil {
		return repository.ErrBadQuery
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var postID, tag string
		if err := rows.Scan(&postID, &tag); err != nil {
			return err
		}
		if i, ok := index[postID]; ok {
			posts[i].Tags = append(posts[i].Tags, tag)
		}
	}
	return rows.Err()
}

func attachComments(ctx context.Context, pool *pgxpool.Pool, posts []domain.Post, index map[string]int) error {
	query, args, err := repository.SqBuilder.
		Select("post_id", "id", "user_id", "text", "timestamp").
		From(repository.TableComments).
		OrderBy("post_id", "position").
		ToSql()
	if err != nil {
		return repository.ErrBadQuery
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var postID string
		var c domain.Comment
		if err := rows.Scan(&postID, &c.ID, &c.UserID, &c.Text, &c.Timestamp); err != nil {
			return err
		}
		if i, ok := index[postID]; ok {
			posts[i].Thread = append(posts[i].Thread, c)
		}
	}
	return rows.Err()
}

func loadStories(ctx context.Context, pool *pgxpool.Pool) ([]domain.Story, error) {
	query, args, err := repository.SqBuilder.
		Select("id", "user_id", "image", "text", "timestamp", "viewed").
		From(repository.TableStories).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, repository.ErrBadQuery
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []domain.Story
	for rows.Next() {
		var s domain.Story
		if err := rows.Scan(&s.ID, &s.UserID, &s.Image, &s.Text, &s.Timestamp, &s.Viewed); err != nil {
			return nil, err
		}
		stories = append(stories, s)
	}
	return stories, rows.Err()
}

// Seed replaces the fixture tables with snap inside one transaction.
func Seed(ctx context.Context, pool *pgxpool.Pool, snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for _, table := range []string{repository.TableComments, repository.TablePostTags, repository.TableStories, repository.TablePosts, repository.TableUsers} {
			query, args, err := repository.SqBuilder.Delete(table).ToSql()
			if err != nil {
				return repository.ErrBadQuery
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		inserts := []sq.InsertBuilder{usersInsert(snap.Users), postsInsert(snap.Posts), storiesInsert(snap.Stories)}
		if tags, ok := tagsInsert(snap.Posts); ok {
			inserts = append(inserts, tags)
		}
		if comments, ok := commentsInsert(snap.Posts); ok {
			inserts = append(inserts, comments)
		}

		for _, ins := range inserts {
			query, args, err := ins.ToSql()
			if err != nil {
				// squirrel refuses an INSERT without rows; empty collections are fine.
				continue
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return err
			}
		}
		return nil
	})
}

func usersInsert(users []domain.User) sq.InsertBuilder {
	ins := repository.SqBuilder.
		Insert(repository.TableUsers).
		Columns("id", "position", "username", "full_name", "avatar", "bio", "followers", "following", "posts", "verified")
	for i, u := range users {
		ins = ins.Values(u.ID, i, u.Username, u.FullName, u.Avatar, u.Bio, u.Followers, u.Following, u.Posts, u.Verified)
	}
	return ins
}

func postsInsert(posts []domain.Post) sq.InsertBuilder {
	ins := repository.SqBuilder.
		Insert(repository.TablePosts).
		Columns("id", "position", "user_id", "content", "image", "likes", "comments", "shares", "timestamp", "liked")
	for i, p := range posts {
		ins = ins.Values(p.ID, i, p.UserID, p.Content, p.Image, p.Likes, p.Comments, p.Shares, p.Timestamp, p.Liked)
	}
	return ins
}

func tagsInsert(posts []domain.Post) (sq.InsertBuilder, bool) {
	ins := repository.SqBuilder.
		Insert(repository.TablePostTags).
		Columns("post_id", "position", "tag")
	n := 0
	for _, p := range posts {
		for i, tag := range p.Tags {
			ins = ins.Values(p.ID, i, tag)
			n++
		}
	}
	return ins, n > 0
}

func commentsInsert(posts []domain.Post) (sq.InsertBuilder, bool) {
	ins := repository.SqBuilder.
		Insert(repository.TableComments).
		Columns("post_id", "id", "position", "user_id", "text", "timestamp")
	n := 0
	for _, p := range posts {
		for i, c := range p.Thread {
			ins = ins.Values(p.ID, c.ID, i, c.UserID, c.Text, c.Timestamp)
			n++
		}
	}
	return ins, n > 0
}

func storiesInsert(stories []domain.Story) sq.InsertBuilder {
	ins := repository.SqBuilder.
		Insert(repository.TableStories).
		Columns("id", "position", "user_id", "image", "text", "timestamp", "viewed")
	for i, s := range stories {
		ins = ins.Values(s.ID, i, s.UserID, s.Image, s.Text, s.Timestamp, s.Viewed)
	}
	return ins
}
