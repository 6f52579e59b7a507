package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatPairOrdersIDs(t *testing.T) {
	low, high, key := ChatPair(7, 3)
	assert.Equal(t, uint(3), low)
	assert.Equal(t, uint(7), high)
	assert.Equal(t, "3:7", key)

	// Same pair in either order derives the same key.
	_, _, reversed := ChatPair(3, 7)
	assert.Equal(t, key, reversed)
}

func TestChatParticipants(t *testing.T) {
	chat := Chat{LowID: 3, HighID: 7}

	assert.True(t, chat.HasParticipant(3))
	assert.True(t, chat.HasParticipant(7))
	assert.False(t, chat.HasParticipant(5))

	assert.Equal(t, uint(7), chat.OtherParticipant(3))
	assert.Equal(t, uint(3), chat.OtherParticipant(7))
}
