package models

import "strconv"

// User identifies the sender of a transport event.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
}

// Handle renders the user the way admin notifications show them.
func (u User) Handle() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	return "ID" + strconv.FormatInt(u.ID, 10)
}

// Key is the collection key for the user's records.
func (u User) Key() string {
	return strconv.FormatInt(u.ID, 10)
}
