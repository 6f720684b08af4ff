package models

import "time"

// Role is the coarse application role carried in identity-provider custom
// claims. The provider remains authoritative; the service mirrors the value
// for request gating.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleProducer Role = "producer"
	RoleCrew     Role = "crew"
	RoleWardrobe Role = "wardrobe"
	RoleViewer   Role = "viewer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProducer, RoleCrew, RoleWardrobe, RoleViewer:
		return true
	}
	return false
}

// CanManage reports whether the role may mutate planning data.
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleProducer
}

// User represents an application user (mapped from identity-provider claims)
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Sub       string    `bson:"sub" json:"sub"` // OIDC subject
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name" json:"name"`
	Role      Role      `bson:"role" json:"role"`
	ClientID  string    `bson:"clientId" json:"clientId"` // tenant the user belongs to
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
