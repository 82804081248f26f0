package feed

import "github.com/orgball2608/fawazbook/internal/domain"

// Users looks up authors by id.
type Users interface {
	User(id string) (domain.User, bool)
}

type Entry struct {
	Post     domain.Post    `json:"post"`
	Author   domain.User    `json:"author"`
	Comments []CommentEntry `json:"comments"`
}

type CommentEntry struct {
	Comment domain.Comment `json:"comment"`
	Author  domain.User    `json:"author"`
}

// Resolve pairs posts and comments with their authors. Anything whose author
// cannot be found is dropped silently.
func Resolve(posts []domain.Post, users Users) []Entry {
	out := make([]Entry, 0, len(posts))
	for _, p := range posts {
		author, ok := users.User(p.UserID)
		if !ok {
			continue
		}
		comments := make([]CommentEntry, 0, len(p.Thread))
		for _, c := range p.Thread {
			if u, ok := users.User(c.UserID); ok {
				comments = append(comments, CommentEntry{Comment: c, Author: u})
			}
		}
		out = append(out, Entry{Post: p, Author: author, Comments: comments})
	}
	return out
}
