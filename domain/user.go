package domain

import "time"

// User is an end user who can log in and own applications.
type User struct {
	ID           uint64    `bson:"_id"           json:"id"`
	Username     string    `bson:"username"      json:"username"`
	Salt         string    `bson:"salt"          json:"-"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Email        string    `bson:"email"         json:"email"`
	Nickname     string    `bson:"nickname"      json:"nickname"`
	Profile      string    `bson:"profile"       json:"profile"` // free text
	Avatar       *string   `bson:"avatar"        json:"avatar,omitempty"`
	CreatedAt    time.Time `bson:"created_at"    json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"    json:"updated_at"`
}

// AvatarRef returns the avatar reference or "" when none is set.
func (u *User) AvatarRef() string {
	if u.Avatar == nil {
		return ""
	}
	return *u.Avatar
}
