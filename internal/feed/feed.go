package feed

import (
	"strings"

	"github.com/google/uuid"
	"github.com/orgball2608/fawazbook/internal/domain"
)

// JustNow is the display timestamp of everything created locally.
const JustNow = "Just now"

// Mutations is the local overlay on top of the fixture posts.
type Mutations struct {
	Created []domain.Post // newest first
	Deleted map[string]struct{}
}

// Compose derives the posts to render: local posts first (newest first), then
// the fixture posts in fixture order, minus deleted ones. A non-empty tag set
// keeps posts carrying at least one of the tags.
func Compose(base []domain.Post, local Mutations, tags TagSet) []domain.Post {
	out := make([]domain.Post, 0, len(local.Created)+len(base))
	for _, posts := range [][]domain.Post{local.Created, base} {
		for _, p := range posts {
			if _, gone := local.Deleted[p.ID]; gone {
				continue
			}
			if !tags.Empty() && !tags.Intersects(p.Tags) {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

// Draft is the input for a new post.
type Draft struct {
	AuthorID string
	Content  string
	Image    string
	Tags     []string
}

// Feed owns one client's working copy of the posts. It is not safe for
// concurrent use; the owning workspace serializes access.
type Feed struct {
	base  []domain.Post
	local Mutations
}

// New copies posts so the caller's slice is never touched.
func New(posts []domain.Post) *Feed {
	base := make([]domain.Post, len(posts))
	for i, p := range posts {
		base[i] = p.Clone()
	}
	return &Feed{
		base:  base,
		local: Mutations{Deleted: make(map[string]struct{})},
	}
}

// Visible returns copies of the posts matching tags.
func (f *Feed) Visible(tags TagSet) []domain.Post {
	return cloneAll(Compose(f.base, f.local, tags))
}

// All returns copies of every live post.
func (f *Feed) All() []domain.Post {
	return f.Visible(TagSet{})
}

func (f *Feed) Get(id string) (domain.Post, bool) {
	p := f.find(id)
	if p == nil {
		return domain.Post{}, false
	}
	return p.Clone(), true
}

// Create prepends a new post. A draft with neither content nor image is ignored.
func (f *Feed) Create(d Draft) (domain.Post, bool) {
	content := strings.TrimSpace(d.Content)
	image := strings.TrimSpace(d.Image)
	if content == "" && image == "" {
		return domain.Post{}, false
	}

	tags := NewTagSet()
	ordered := make([]string, 0, len(d.Tags))
	for _, t := range append(normalizeTags(d.Tags), ExtractHashtags(content)...) {
		if tags.Has(t) {
			continue
		}
		tags = tags.With(t)
		ordered = append(ordered, t)
	}

	post := domain.Post{
		ID:        uuid.NewString(),
		UserID:    d.AuthorID,
		Content:   content,
		Image:     image,
		Tags:      ordered,
		Timestamp: JustNow,
	}
	f.local.Created = append([]domain.Post{post}, f.local.Created...)
	return post.Clone(), true
}

// Delete removes a post. Unknown or already deleted ids are ignored.
func (f *Feed) Delete(id string) bool {
	for i := range f.local.Created {
		if f.local.Created[i].ID == id {
			f.local.Created = append(f.local.Created[:i:i], f.local.Created[i+1:]...)
			return true
		}
	}
	if f.find(id) == nil {
		return false
	}
	f.local.Deleted[id] = struct{}{}
	return true
}

// ToggleLike flips the liked flag and moves the counter by one in the same direction.
func (f *Feed) ToggleLike(id string) (domain.Post, bool) {
	p := f.find(id)
	if p == nil {
		return domain.Post{}, false
	}
	if p.Liked {
		p.Liked = false
		if p.Likes > 0 {
			p.Likes--
		}
	} else {
		p.Liked = true
		p.Likes++
	}
	return p.Clone(), true
}

func (f *Feed) AddComment(postID, userID, text string) (domain.Comment, bool) {
	text = strings.TrimSpace(text)
	p := f.find(postID)
	if p == nil || text == "" {
		return domain.Comment{}, false
	}
	c := domain.Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      text,
		Timestamp: JustNow,
	}
	p.Thread = append(p.Thread, c)
	p.Comments++
	return c, true
}

// EditComment replaces the text of a comment. Blank text is ignored.
func (f *Feed) EditComment(postID, commentID, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	c := f.findComment(postID, commentID)
	if c == nil {
		return false
	}
	c.Text = text
	return true
}

func (f *Feed) DeleteComment(postID, commentID string) bool {
	p := f.find(postID)
	if p == nil {
		return false
	}
	for i := range p.Thread {
		if p.Thread[i].ID != commentID {
			continue
		}
		p.Thread = append(p.Thread[:i:i], p.Thread[i+1:]...)
		if p.Comments > 0 {
			p.Comments--
		}
		return true
	}
	return false
}

func (f *Feed) find(id string) *domain.Post {
	if _, gone := f.local.Deleted[id]; gone {
		return nil
	}
	for i := range f.local.Created {
		if f.local.Created[i].ID == id {
			return &f.local.Created[i]
		}
	}
	for i := range f.base {
		if f.base[i].ID == id {
			return &f.base[i]
		}
	}
	return nil
}

func (f *Feed) findComment(postID, commentID string) *domain.Comment {
	p := f.find(postID)
	if p == nil {
		return nil
	}
	for i := range p.Thread {
		if p.Thread[i].ID == commentID {
			return &p.Thread[i]
		}
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = NormalizeTag(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func cloneAll(posts []domain.Post) []domain.Post {
	out := make([]domain.Post, len(posts))
	for i, p := range posts {
		out[i] = p.Clone()
	}
	return out
}
