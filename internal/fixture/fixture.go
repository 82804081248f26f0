package fixture

import (
	"fmt"

	"github.com/orgball2608/fawazbook/internal/domain"
	"github.com/orgball2608/fawazbook/pkg/errors"
)

// Store is the read-only sample dataset. Implementations hand out copies so
// local mutations can never leak back into the fixture.
type Store interface {
	ListUsers() []domain.User
	ListPosts() []domain.Post
	ListStories() []domain.Story
}

// Snapshot is the whole fixture as it is decoded from YAML or read from Postgres.
type Snapshot struct {
	Users   []domain.User  `yaml:"users"`
	Posts   []domain.Post  `yaml:"posts"`
	Stories []domain.Story `yaml:"stories"`
}

// Validate rejects duplicate ids. Posts and stories pointing at unknown users
// are kept: they are skipped when rendered.
func (s Snapshot) Validate() error {
	seen := make(map[string]struct{}, len(s.Users))
	for _, u := range s.Users {
		if u.ID == "" {
			return errors.Invalid(fmt.Errorf("user %q has an empty id", u.Username))
		}
		if _, dup := seen[u.ID]; dup {
			return errors.Invalid(fmt.Errorf("duplicate user id %q", u.ID))
		}
		seen[u.ID] = struct{}{}
	}

	seen = make(map[string]struct{}, len(s.Posts))
	for _, p := range s.Posts {
		if _, dup := seen[p.ID]; dup || p.ID == "" {
			return errors.Invalid(fmt.Errorf("duplicate or empty post id %q", p.ID))
		}
		seen[p.ID] = struct{}{}

		comments := make(map[string]struct{}, len(p.Thread))
		for _, c := range p.Thread {
			if _, dup := comments[c.ID]; dup || c.ID == "" {
				return errors.Invalid(fmt.Errorf("post %q: duplicate or empty comment id %q", p.ID, c.ID))
			}
			comments[c.ID] = struct{}{}
		}
	}

	seen = make(map[string]struct{}, len(s.Stories))
	for _, st := range s.Stories {
		if _, dup := seen[st.ID]; dup || st.ID == "" {
			return errors.Invalid(fmt.Errorf("duplicate or empty story id %q", st.ID))
		}
		seen[st.ID] = struct{}{}
	}
	return nil
}

// Memory serves a validated Snapshot.
type Memory struct {
	snap Snapshot
}

var _ Store = (*Memory)(nil)

func NewMemory(snap Snapshot) (*Memory, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &Memory{snap: snap}, nil
}

func (m *Memory) ListUsers() []domain.User {
	return append([]domain.User(nil), m.snap.Users...)
}

func (m *Memory) ListPosts() []domain.Post {
	out := make([]domain.Post, len(m.snap.Posts))
	for i, p := range m.snap.Posts {
		out[i] = p.Clone()
	}
	return out
}

func (m *Memory) ListStories() []domain.Story {
	return append([]domain.Story(nil), m.snap.Stories...)
}
