package domain

import "time"

// AuthorizationCode is a one-time code minted by the authorize endpoint.
// It is deleted when redeemed.
type AuthorizationCode struct {
	Code          string    `bson:"_id"            json:"code"`
	ApplicationID string    `bson:"application_id" json:"application_id"`
	UserID        uint64    `bson:"user_id"        json:"user_id"`
	Scopes        []string  `bson:"scopes"         json:"scopes"`
	RedirectURI   string    `bson:"redirect_uri"   json:"redirect_uri"`
	ExpiresAt     time.Time `bson:"expires_at"     json:"expires_at"`
	CreatedAt     time.Time `bson:"created_at"     json:"created_at"`
}

// Expired reports whether the code is past its expiry at now.
func (c *AuthorizationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
