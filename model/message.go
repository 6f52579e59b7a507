package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	MessageStatusSent = "sent"
	// MessageStatusDelivered is declared in the schema but no transition
	// assigns it: a read collapses sent directly to seen.
	MessageStatusDelivered = "delivered"
	MessageStatusSeen      = "seen"
)

const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeVideo = "video"
	MessageTypeAudio = "audio"
	MessageTypeFile  = "file"
)

// DeletedMessageContent replaces the content of a soft-deleted message. The
// row itself is retained.
const DeletedMessageContent = "This message has been deleted"

type Message struct {
	gorm.Model
	ChatID   uint `gorm:"index;not null" json:"chat_id"`
	SenderID uint `gorm:"not null" json:"sender_id"`
	Sender   User `gorm:"foreignKey:SenderID" json:"sender"`

	Content     string `json:"content"`
	MediaURL    string `json:"media_url"`
	MessageType string `gorm:"not null;default:text" json:"message_type"`
	Status      string `gorm:"not null;default:sent" json:"status"`

	ReplyToID *uint    `json:"reply_to_id"`
	ReplyTo   *Message `gorm:"foreignKey:ReplyToID" json:"reply_to"`

	IsDeleted bool `gorm:"not null;default:false" json:"is_deleted"`
	IsEdited  bool `gorm:"not null;default:false" json:"is_edited"`

	Reactions []Reaction `gorm:"foreignKey:MessageID" json:"reactions"`
}

// Reaction holds at most one entry per (message, user); the unique index makes
// that a database invariant rather than an application-level scan.
type Reaction struct {
	gorm.Model
	MessageID uint      `gorm:"not null;uniqueIndex:idx_message_reactor" json:"message_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_message_reactor" json:"user_id"`
	Emoji     string    `gorm:"not null" json:"emoji"`
	ReactedAt time.Time `gorm:"not null" json:"reacted_at"`
}

type ReactionOp int

const (
	ReactionAdded ReactionOp = iota
	ReactionRemoved
	ReactionReplaced
)

// ToggleReaction applies a user's reaction to an existing reaction list:
// re-reacting with the same emoji removes the entry, a different emoji
// replaces it in place (last write wins), otherwise a new entry is appended.
func ToggleReaction(reactions []Reaction, userID uint, emoji string, now time.Time) ([]Reaction, ReactionOp) {
	for i := range reactions {
		if reactions[i].UserID != userID {
			continue
		}
		if reactions[i].Emoji == emoji {
			return append(reactions[:i], reactions[i+1:]...), ReactionRemoved
		}
		reactions[i].Emoji = emoji
		reactions[i].ReactedAt = now
		return reactions, ReactionReplaced
	}
	return append(reactions, Reaction{UserID: userID, Emoji: emoji, ReactedAt: now}), ReactionAdded
}
