package model

import "time"

// HomeBanner is an image shown on the storefront home page. ObjectKey names
// the backing object in storage.
type HomeBanner struct {
	ID        string    `json:"id"`
	ObjectKey string    `json:"objectKey"`
	PublicURL string    `json:"publicUrl"`
	CreatedAt time.Time `json:"createdAt"`
}
