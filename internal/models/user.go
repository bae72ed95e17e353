package models

// User represents the authenticated actor. IsAdmin only gates client-side
// affordances; the server enforces authorization independently.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	ImageURL string `json:"imageUrl,omitempty"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Session holds the bearer credential and the cached user snapshot.
type Session struct {
	Token string
	User  *User
}

// Established reports whether a token is present.
func (s Session) Established() bool {
	return s.Token != ""
}
