package model

import "time"

const (
	StatusEnAttente = "en_attente"
	StatusEnCours   = "en_cours"
	StatusResolu    = "resolu"
	StatusRejected  = "rejected"
)

// Categories is the fixed set of signalement categories.
var Categories = []string{
	"voirie",
	"infrastructure",
	"eclairage",
	"ordures",
	"eau",
	"assainissement",
	"pollution",
	"espaces_verts",
	"securite",
	"signalisation",
	"transport",
	"animaux_errants",
	"urbanisme",
	"autre",
}

// ValidCategory reports whether category is one of the fixed values.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Signalement is a citizen-submitted civic issue report owned by a user.
// Status is driven by moderation, never by the owner; CreatedAt is set once.
type Signalement struct {
	ID          int64     `json:"id"`
	UserID      int       `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateSignalementRequest is the payload for creating a report. Any
// client-supplied status is ignored; new reports always start en_attente.
type CreateSignalementRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	ImageURL    *string `json:"image_url"`
	Location    string  `json:"location" binding:"required"`
	Category    string  `json:"category" binding:"required"`
}

// UpdateSignalementRequest allows partial updates of a report's own fields.
// Owner, status and creation time are not updatable.
type UpdateSignalementRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	Location    *string `json:"location,omitempty"`
	Category    *string `json:"category,omitempty"`
}
