package models

// User is the read model of the marketplace user directory. The engine
// only resolves display names and the global administrator flag from it;
// registration and profile storage live elsewhere.
type User struct {
	ID       int    `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	IsAdmin  bool   `json:"is_admin" db:"is_admin"`
}
