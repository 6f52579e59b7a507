package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToggleReactionAdd(t *testing.T) {
	now := time.Now()

	reactions, op := ToggleReaction(nil, 1, "👍", now)
	assert.Equal(t, ReactionAdded, op)
	assert.Len(t, reactions, 1)
	assert.Equal(t, uint(1), reactions[0].UserID)
	assert.Equal(t, "👍", reactions[0].Emoji)
	assert.Equal(t, now, reactions[0].ReactedAt)
}

func TestToggleReactionSameEmojiRemoves(t *testing.T) {
	now := time.Now()
	reactions := []Reaction{{UserID: 1, Emoji: "👍"}}

	reactions, op := ToggleReaction(reactions, 1, "👍", now)
	assert.Equal(t, ReactionRemoved, op)
	assert.Empty(t, reactions)
}

func TestToggleReactionDifferentEmojiReplaces(t *testing.T) {
	then := time.Now().Add(-time.Minute)
	now := time.Now()
	reactions := []Reaction{{UserID: 1, Emoji: "👍", ReactedAt: then}}

	reactions, op := ToggleReaction(reactions, 1, "❤️", now)
	assert.Equal(t, ReactionReplaced, op)
	assert.Len(t, reactions, 1, "replace must not grow the list")
	assert.Equal(t, "❤️", reactions[0].Emoji)
	assert.Equal(t, now, reactions[0].ReactedAt)
}

func TestToggleReactionOnePerUser(t *testing.T) {
	now := time.Now()
	reactions := []Reaction{
		{UserID: 1, Emoji: "👍"},
		{UserID: 2, Emoji: "😂"},
	}

	reactions, op := ToggleReaction(reactions, 3, "❤️", now)
	assert.Equal(t, ReactionAdded, op)
	assert.Len(t, reactions, 3)

	// Another user's toggle leaves the other entries alone.
	reactions, op = ToggleReaction(reactions, 2, "😂", now)
	assert.Equal(t, ReactionRemoved, op)
	assert.Len(t, reactions, 2)
	for _, r := range reactions {
		assert.NotEqual(t, uint(2), r.UserID)
	}
}
