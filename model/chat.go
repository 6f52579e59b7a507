package model

import (
	"fmt"

	"gorm.io/gorm"
)

const ChatTypeSingle = "single"

// Chat is the persisted pairing of two participants. The participant pair is
// stored ordered (LowID < HighID) and PairKey carries a unique index, so two
// racing first-contact sends cannot create two rows for the same pair.
type Chat struct {
	gorm.Model
	Type    string `gorm:"not null;default:single" json:"type"`
	LowID   uint   `gorm:"not null" json:"-"`
	HighID  uint   `gorm:"not null" json:"-"`
	PairKey string `gorm:"uniqueIndex;not null" json:"-"`

	LastMessageID *uint    `json:"-"`
	LastMessage   *Message `gorm:"foreignKey:LastMessageID" json:"last_message"`

	Low  User `gorm:"foreignKey:LowID" json:"-"`
	High User `gorm:"foreignKey:HighID" json:"-"`
}

// ChatPair orders two participant ids and derives the unique pair key.
func ChatPair(a, b uint) (low, high uint, key string) {
	low, high = a, b
	if low > high {
		low, high = high, low
	}
	return low, high, fmt.Sprintf("%d:%d", low, high)
}

// OtherParticipant returns the participant that is not userID.
func (c *Chat) OtherParticipant(userID uint) uint {
	if c.LowID == userID {
		return c.HighID
	}
	return c.LowID
}

// HasParticipant reports whether userID is one of the chat's two participants.
func (c *Chat) HasParticipant(userID uint) bool {
	return c.LowID == userID || c.HighID == userID
}
