package domain

import "time"

type User struct {
	Id        UserId
	Username  Username
	Email     string // empty unless the email variant is enabled
	PassHash  string
	CreatedAt time.Time
}

// Credentials travel handler -> service during registration and login.
// Password is the plaintext secret; it never reaches the storage layer.
type Credentials struct {
	Username Username
	Email    string
	Password Password
}
