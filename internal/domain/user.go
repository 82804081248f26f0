package domain

// User is a profile from the fixture. Users are never mutated after load.
type User struct {
	ID        string `yaml:"id" json:"id"`
	Username  string `yaml:"username" json:"username"`
	FullName  string `yaml:"full_name" json:"fullName"`
	Avatar    string `yaml:"avatar" json:"avatar"`
	Bio       string `yaml:"bio" json:"bio"`
	Followers int    `yaml:"followers" json:"followers"`
	Following int    `yaml:"following" json:"following"`
	Posts     int    `yaml:"posts" json:"posts"`
	Verified  bool   `yaml:"verified" json:"verified"`
}
