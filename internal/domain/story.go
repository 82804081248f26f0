package domain

// Story is a single frame shown in the story viewer. Either Image or Text is set.
type Story struct {
	ID        string `yaml:"id" json:"id"`
	UserID    string `yaml:"user_id" json:"userId"`
	Image     string `yaml:"image,omitempty" json:"image,omitempty"`
	Text      string `yaml:"text,omitempty" json:"text,omitempty"`
	Timestamp string `yaml:"timestamp" json:"timestamp"`
	Viewed    bool   `yaml:"viewed" json:"viewed"`
}
