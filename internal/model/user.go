// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// PasswordHash is the bcrypt output stored at signup. It is tagged `json:"-"`
// so no handler can ever serialize it into a response; the hash (let alone
// the plaintext) must never leave the server.
//
// Accounts created through GitHub login have no usable password; their hash
// column holds an empty string, which bcrypt verification always rejects.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile is the shape returned by GET /api/profile: the user's public fields
// plus their full generation history, newest first.
type Profile struct {
	User ProfileUser `json:"user"`
	Bios []Bio       `json:"bios"`
}

// ProfileUser is the subset of User exposed on the profile endpoint.
type ProfileUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
