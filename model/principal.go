package model

// Principal is the authenticated identity attached to a session.
// It never carries the password hash.
type Principal struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Principal derives the session identity from a stored user row.
func (u *User) Principal() Principal {
	return Principal{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
