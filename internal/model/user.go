package model

import "time"

// User represents an application user record as stored in the `users`
// table. The password hash never leaves the server; the avatar URL is
// derived from the email via Gravatar at registration time and stored
// alongside the credentials.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Name         – display name shown on profiles and posts.
//	Email        – unique email address (stored as given, matched as stored).
//	Avatar       – Gravatar URL derived from the email.
//	PasswordHash – bcrypt hashed password.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRef is the subset of user fields joined into public resources such
// as profiles, mirroring what the feed needs to render an author.
type UserRef struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}
