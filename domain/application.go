package domain

import (
	"slices"
	"time"
)

// GrantTypeAuthorizationCode is the only grant an application may be registered for.
const GrantTypeAuthorizationCode = "authorization_code"

// Application is an OAuth client registered by a user.
type Application struct {
	ID           string    `bson:"_id"           json:"id"` // public client identifier
	Name         string    `bson:"name"          json:"name"`
	Description  string    `bson:"description"   json:"description"`
	Homepage     string    `bson:"homepage"      json:"homepage"`
	Icon         *string   `bson:"icon"          json:"icon,omitempty"`
	RedirectURIs []string  `bson:"redirect_uris" json:"redirect_uris"`
	GrantTypes   []string  `bson:"grant_types"   json:"grant_types"`
	CreatorID    uint64    `bson:"creator_id"    json:"creator_id"`
	CreatedAt    time.Time `bson:"created_at"    json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"    json:"updated_at"`
}

// HasRedirectURI reports whether uri is registered verbatim. No normalization
// is applied.
func (a *Application) HasRedirectURI(uri string) bool {
	return slices.Contains(a.RedirectURIs, uri)
}

// ApplicationSecret is a bearer credential of an application. An application
// may have several at once.
type ApplicationSecret struct {
	ID            uint64    `bson:"_id"            json:"id"`
	ApplicationID string    `bson:"application_id" json:"application_id"`
	Secret        string    `bson:"secret"         json:"secret"`
	CreatedAt     time.Time `bson:"created_at"     json:"created_at"`
}
