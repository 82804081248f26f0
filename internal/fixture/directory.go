package fixture

import "github.com/orgball2608/fawazbook/internal/domain"

// Directory resolves user ids and usernames. It is built once and never changes.
type Directory struct {
	users  []domain.User
	byID   map[string]domain.User
	byName map[string]domain.User
}

func NewDirectory(users []domain.User) *Directory {
	d := &Directory{
		users:  append([]domain.User(nil), users...),
		byID:   make(map[string]domain.User, len(users)),
		byName: make(map[string]domain.User, len(users)),
	}
	for _, u := range users {
		d.byID[u.ID] = u
		d.byName[u.Username] = u
	}
	return d
}

func (d *Directory) User(id string) (domain.User, bool) {
	u, ok := d.byID[id]
	return u, ok
}

func (d *Directory) ByUsername(username string) (domain.User, bool) {
	u, ok := d.byName[username]
	return u, ok
}

// Users returns every user in fixture order.
func (d *Directory) Users() []domain.User {
	return append([]domain.User(nil), d.users...)
}
