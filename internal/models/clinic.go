package models

import "time"

// PlaceholderLogo is used when a clinic is enrolled without a logo.
const PlaceholderLogo = "/static/vivamove-logo.png"

// Clinic is keyed by the id of its paired identity.
type Clinic struct {
	ID         string    `bson:"_id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	Logo       string    `bson:"logo" json:"logo"`
	Capacity   int       `bson:"capacity" json:"capacity"`
	AdsEnabled bool      `bson:"ads_enabled" json:"adsEnabled"`
	Email      string    `bson:"email" json:"email"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updatedAt"`
}
