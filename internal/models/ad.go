package models

import "time"

type AdPool string

const (
	AdPoolPopup  AdPool = "popup"
	AdPoolFooter AdPool = "footer"
)

func (p AdPool) Valid() bool {
	return p == AdPoolPopup || p == AdPoolFooter
}

type Ad struct {
	ID          string    `bson:"_id" json:"id"`
	Pool        AdPool    `bson:"pool" json:"pool"`
	ImageURL    string    `bson:"image_url" json:"imageUrl"`
	Description string    `bson:"description" json:"description"`
	TargetURL   string    `bson:"target_url" json:"targetUrl"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}
