package sessions

import "time"

// Session is one refresh session. It is pinned to the tenant the user
// belonged to at login, so a user moved between clients cannot refresh an
// access token into the old tenant.
type Session struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	RefreshToken string    `bson:"refreshToken" json:"refreshToken"`
	Sub          string    `bson:"sub" json:"sub"`
	ClientID     string    `bson:"clientId" json:"clientId"`
	ExpiresAt    time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
