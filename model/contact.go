package model

import (
	"time"

	"gorm.io/gorm"
)

// SuggestionTTL bounds how long a contacts-sync suggestion token stays valid.
const SuggestionTTL = 15 * time.Minute

// Contact is one imported Google contact belonging to OwnerID. A re-sync
// replaces the owner's whole set.
type Contact struct {
	gorm.Model
	OwnerID      uint   `gorm:"index;not null" json:"owner_id"`
	ResourceName string `json:"resource_name"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Photo        string `json:"photo"`
}

// Suggestion stores the outcome of a contacts sync behind a one-time token so
// the frontend can fetch matched users after the OAuth redirect.
type Suggestion struct {
	gorm.Model
	Token         string `gorm:"uniqueIndex;not null" json:"token"`
	UserID        uint   `gorm:"index" json:"user_id"`
	ContactsCount int    `json:"contacts_count"`

	Users []User `gorm:"many2many:suggestion_users" json:"users"`

	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

func (s *Suggestion) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
