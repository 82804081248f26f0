package domain

type Post struct {
	ID        string    `yaml:"id" json:"id"`
	UserID    string    `yaml:"user_id" json:"userId"`
	Content   string    `yaml:"content" json:"content"`
	Image     string    `yaml:"image,omitempty" json:"image,omitempty"` // Optional image URI
	Tags      []string  `yaml:"tags" json:"tags"`                       // May repeat; filtering treats them as a set
	Likes     int       `yaml:"likes" json:"likes"`
	Comments  int       `yaml:"comments" json:"comments"`
	Shares    int       `yaml:"shares" json:"shares"`
	Timestamp string    `yaml:"timestamp" json:"timestamp"` // Display string, e.g. "2 hours ago"
	Liked     bool      `yaml:"liked" json:"liked"`
	Thread    []Comment `yaml:"comments_list,omitempty" json:"commentsList,omitempty"`
}

// Comment belongs to exactly one post.
type Comment struct {
	ID        string `yaml:"id" json:"id"`
	UserID    string `yaml:"user_id" json:"userId"`
	Text      string `yaml:"text" json:"text"`
	Timestamp string `yaml:"timestamp" json:"timestamp"`
}

// HasTag reports whether tag is one of the post's tags.
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with p.
func (p Post) Clone() Post {
	if p.Tags != nil {
		p.Tags = append([]string(nil), p.Tags...)
	}
	if p.Thread != nil {
		p.Thread = append([]Comment(nil), p.Thread...)
	}
	return p
}
