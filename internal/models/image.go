package models

import (
	"time"

	"github.com/google/uuid"
)

// ImageRecord is an entry in the site image library. Unlike content
// records it has no title or body — just the asset reference.
type ImageRecord struct {
	ID        uuid.UUID `json:"id"`
	URL       AssetRef  `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}
