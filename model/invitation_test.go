package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvitationAccept(t *testing.T) {
	inv := Invitation{Status: InvitationStatusPending, IsActive: true}

	err := inv.Accept()
	assert.NoError(t, err)
	assert.Equal(t, InvitationStatusAccepted, inv.Status)
	assert.True(t, inv.IsActive, "accepting must not clear the active flag")
}

func TestInvitationReject(t *testing.T) {
	inv := Invitation{Status: InvitationStatusPending, IsActive: true}

	err := inv.Reject()
	assert.NoError(t, err)
	assert.Equal(t, InvitationStatusRejected, inv.Status)
	assert.False(t, inv.IsActive, "rejecting must drop the active flag")
}

func TestInvitationTerminalStatesAreFinal(t *testing.T) {
	accepted := Invitation{Status: InvitationStatusAccepted, IsActive: true}
	assert.ErrorIs(t, accepted.Accept(), ErrInvitationNotPending)
	assert.ErrorIs(t, accepted.Reject(), ErrInvitationNotPending)

	rejected := Invitation{Status: InvitationStatusRejected, IsActive: false}
	assert.ErrorIs(t, rejected.Accept(), ErrInvitationNotPending)
	assert.ErrorIs(t, rejected.Reject(), ErrInvitationNotPending)
}

func TestInvitationAcceptInactive(t *testing.T) {
	inv := Invitation{Status: InvitationStatusPending, IsActive: false}
	assert.ErrorIs(t, inv.Accept(), ErrInvitationInactive)
}

func TestInvitationBlocksResend(t *testing.T) {
	// Pending and accepted edges stay active and block a new invitation;
	// only a rejection opens the door for a resend.
	pending := Invitation{Status: InvitationStatusPending, IsActive: true}
	assert.True(t, pending.BlocksResend())

	accepted := Invitation{Status: InvitationStatusPending, IsActive: true}
	assert.NoError(t, accepted.Accept())
	assert.True(t, accepted.BlocksResend())

	rejected := Invitation{Status: InvitationStatusPending, IsActive: true}
	assert.NoError(t, rejected.Reject())
	assert.False(t, rejected.BlocksResend())
}
