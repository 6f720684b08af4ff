package library

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProductFromDocDefensive(t *testing.T) {
	p, err := productFromDoc(bson.M{
		"_id":      "prod-1",
		"clientId": "client-1",
		"name":     "Wool coat",
		"colors":   primitive.A{"navy", "camel"},
		"sizes":    42, // wrong type, keeps zero value
		"archived": true,
	})
	if err != nil {
		t.Fatalf("productFromDoc: %v", err)
	}
	if p.Name != "Wool coat" || !p.Archived {
		t.Errorf("got %+v", p)
	}
	if len(p.Colors) != 2 || p.Colors[0] != "navy" {
		t.Errorf("colors = %v", p.Colors)
	}
	if p.Sizes != nil {
		t.Errorf("sizes = %v, want nil for wrong type", p.Sizes)
	}
}

func TestLocationFromDocNestedAddress(t *testing.T) {
	loc, err := locationFromDoc(bson.M{
		"_id":  "loc-1",
		"name": "Warehouse Studio",
		"address": bson.M{
			"street": "14 Pier Rd",
			"city":   "Brooklyn",
			"state":  "NY",
		},
	})
	if err != nil {
		t.Fatalf("locationFromDoc: %v", err)
	}
	if loc.Address.City != "Brooklyn" || loc.Address.Street != "14 Pier Rd" {
		t.Errorf("address = %+v", loc.Address)
	}

	// A missing or malformed address leaves the zero value.
	loc, err = locationFromDoc(bson.M{"_id": "loc-2", "name": "Beach", "address": "not a doc"})
	if err != nil {
		t.Fatalf("locationFromDoc: %v", err)
	}
	if loc.Address != (Address{}) {
		t.Errorf("address = %+v, want zero", loc.Address)
	}
}

func TestCreateRejectsBlankNames(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	if _, err := svc.CreateProduct(ctx, "client-1", ProductRequest{Name: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("CreateProduct err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.CreateClassification(ctx, "client-1", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("CreateClassification err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.CreateTalent(ctx, "client-1", TalentRequest{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("CreateTalent err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.CreateLocation(ctx, "client-1", LocationRequest{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("CreateLocation err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.CreateCrew(ctx, "client-1", CrewRequest{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("CreateCrew err = %v, want ErrInvalidInput", err)
	}
}
