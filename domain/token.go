package domain

import "time"

// Token is an access/refresh token pair issued by a code redemption.
type Token struct {
	ID            uint64    `bson:"_id"            json:"id"`
	AccessToken   string    `bson:"access_token"   json:"access_token"`
	RefreshToken  string    `bson:"refresh_token"  json:"refresh_token"`
	ApplicationID string    `bson:"application_id" json:"application_id"`
	UserID        uint64    `bson:"user_id"        json:"user_id"`
	Scopes        []string  `bson:"scopes"         json:"scopes"`
	ExpiresAt     time.Time `bson:"expires_at"     json:"expires_at"`
	CreatedAt     time.Time `bson:"created_at"     json:"created_at"`
}

// Expired reports whether the token is past its expiry at now.
func (t *Token) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
