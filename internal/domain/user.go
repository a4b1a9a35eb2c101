package domain

import "time"

// User is the session-level view of an account. It never carries password material.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Credential is one record in the persisted account list.
// Email is the login key and is matched exactly (case-sensitive).
type Credential struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar,omitempty"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// User strips the password hash from a credential record.
func (c Credential) User() User {
	return User{ID: c.ID, Name: c.Name, Email: c.Email, Avatar: c.Avatar, CreatedAt: c.CreatedAt}
}

// UserPatch carries the profile fields a user may change.
// Nil fields are left untouched.
type UserPatch struct {
	Name   *string
	Email  *string
	Avatar *string
}

// Apply returns u with every non-nil patch field merged in.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	return u
}
