package library

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shotbuilder/backend/internal/store"
)

// Collection names for the shared asset library.
const (
	ProductsCollection        = "products"
	ClassificationsCollection = "productClassifications"
	TalentCollection          = "talent"
	LocationsCollection       = "locations"
	CrewCollection            = "crew"
)

// Product is a wardrobe or prop item referenced by shots and pulls.
type Product struct {
	ID               string     `bson:"_id" json:"id"`
	ClientID         string     `bson:"clientId" json:"clientId"`
	Name             string     `bson:"name" json:"name"`
	SKU              string     `bson:"sku,omitempty" json:"sku,omitempty"`
	ClassificationID string     `bson:"classificationId,omitempty" json:"classificationId,omitempty"`
	Colors           []string   `bson:"colors,omitempty" json:"colors,omitempty"`
	Sizes            []string   `bson:"sizes,omitempty" json:"sizes,omitempty"`
	ImageURL         string     `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Archived         bool       `bson:"archived" json:"archived"`
	CreatedAt        time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt        *time.Time `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

// Classification groups products into families like "Outerwear".
type Classification struct {
	ID        string     `bson:"_id" json:"id"`
	ClientID  string     `bson:"clientId" json:"clientId"`
	Name      string     `bson:"name" json:"name"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

type Talent struct {
	ID        string     `bson:"_id" json:"id"`
	ClientID  string     `bson:"clientId" json:"clientId"`
	Name      string     `bson:"name" json:"name"`
	Agency    string     `bson:"agency,omitempty" json:"agency,omitempty"`
	Email     string     `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string     `bson:"phone,omitempty" json:"phone,omitempty"`
	PhotoURL  string     `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Notes     string     `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

type Address struct {
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	Zip     string `bson:"zip,omitempty" json:"zip,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

type Location struct {
	ID        string     `bson:"_id" json:"id"`
	ClientID  string     `bson:"clientId" json:"clientId"`
	Name      string     `bson:"name" json:"name"`
	Address   Address    `bson:"address,omitempty" json:"address,omitempty"`
	PhotoURL  string     `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Notes     string     `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

type CrewMember struct {
	ID        string     `bson:"_id" json:"id"`
	ClientID  string     `bson:"clientId" json:"clientId"`
	Name      string     `bson:"name" json:"name"`
	Role      string     `bson:"role,omitempty" json:"role,omitempty"`
	Email     string     `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Notes     string     `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

func productFromDoc(doc bson.M) (*Product, error) {
	return &Product{
		ID:               store.Str(doc, "_id"),
		ClientID:         store.Str(doc, "clientId"),
		Name:             store.Str(doc, "name"),
		SKU:              store.Str(doc, "sku"),
		ClassificationID: store.Str(doc, "classificationId"),
		Colors:           store.StrSlice(doc, "colors"),
		Sizes:            store.StrSlice(doc, "sizes"),
		ImageURL:         store.Str(doc, "imageUrl"),
		Archived:         store.Bool(doc, "archived"),
		CreatedAt:        store.Time(doc, "createdAt"),
		UpdatedAt:        store.Time(doc, "updatedAt"),
		DeletedAt:        store.TimePtr(doc, "deletedAt"),
	}, nil
}

func classificationFromDoc(doc bson.M) (*Classification, error) {
	return &Classification{
		ID:        store.Str(doc, "_id"),
		ClientID:  store.Str(doc, "clientId"),
		Name:      store.Str(doc, "name"),
		CreatedAt: store.Time(doc, "createdAt"),
		UpdatedAt: store.Time(doc, "updatedAt"),
		DeletedAt: store.TimePtr(doc, "deletedAt"),
	}, nil
}

func talentFromDoc(doc bson.M) (*Talent, error) {
	return &Talent{
		ID:        store.Str(doc, "_id"),
		ClientID:  store.Str(doc, "clientId"),
		Name:      store.Str(doc, "name"),
		Agency:    store.Str(doc, "agency"),
		Email:     store.Str(doc, "email"),
		Phone:     store.Str(doc, "phone"),
		PhotoURL:  store.Str(doc, "photoUrl"),
		Notes:     store.Str(doc, "notes"),
		CreatedAt: store.Time(doc, "createdAt"),
		UpdatedAt: store.Time(doc, "updatedAt"),
		DeletedAt: store.TimePtr(doc, "deletedAt"),
	}, nil
}

func locationFromDoc(doc bson.M) (*Location, error) {
	loc := &Location{
		ID:        store.Str(doc, "_id"),
		ClientID:  store.Str(doc, "clientId"),
		Name:      store.Str(doc, "name"),
		PhotoURL:  store.Str(doc, "photoUrl"),
		Notes:     store.Str(doc, "notes"),
		CreatedAt: store.Time(doc, "createdAt"),
		UpdatedAt: store.Time(doc, "updatedAt"),
		DeletedAt: store.TimePtr(doc, "deletedAt"),
	}
	if addr, ok := doc["address"].(bson.M); ok {
		loc.Address = Address{
			Street:  store.Str(addr, "street"),
			City:    store.Str(addr, "city"),
			State:   store.Str(addr, "state"),
			Zip:     store.Str(addr, "zip"),
			Country: store.Str(addr, "country"),
		}
	}
	return loc, nil
}

func crewFromDoc(doc bson.M) (*CrewMember, error) {
	return &CrewMember{
		ID:        store.Str(doc, "_id"),
		ClientID:  store.Str(doc, "clientId"),
		Name:      store.Str(doc, "name"),
		Role:      store.Str(doc, "role"),
		Email:     store.Str(doc, "email"),
		Phone:     store.Str(doc, "phone"),
		Notes:     store.Str(doc, "notes"),
		CreatedAt: store.Time(doc, "createdAt"),
		UpdatedAt: store.Time(doc, "updatedAt"),
		DeletedAt: store.TimePtr(doc, "deletedAt"),
	}, nil
}
