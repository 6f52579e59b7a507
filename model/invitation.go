package model

import (
	"errors"

	"gorm.io/gorm"
)

const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusRejected = "rejected"
)

var (
	ErrInvitationNotPending = errors.New("invitation is not pending")
	ErrInvitationInactive   = errors.New("invitation is no longer active")
)

// Invitation is a directed friend-request edge. Two fields track its state and
// their joint meaning matters: Status records the terminal outcome
// (pending -> accepted | rejected), while IsActive is the resend gate. A
// rejection sets Status=rejected AND IsActive=false; a later resend is blocked
// only while IsActive is true and otherwise creates a fresh edge instead of
// resurrecting this one. Status alone is never the gate.
type Invitation struct {
	gorm.Model
	SenderID   uint `gorm:"index;not null" json:"sender_id"`
	ReceiverID uint `gorm:"index;not null" json:"receiver_id"`

	Sender   User `gorm:"foreignKey:SenderID" json:"sender"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"-"`

	Status   string `gorm:"not null;default:pending" json:"status"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
	Message  string `json:"message"`
}

// Accept moves a pending invitation to its accepted terminal state.
func (i *Invitation) Accept() error {
	if i.Status != InvitationStatusPending {
		return ErrInvitationNotPending
	}
	if !i.IsActive {
		return ErrInvitationInactive
	}
	i.Status = InvitationStatusAccepted
	return nil
}

// Reject moves a pending invitation to its rejected terminal state and drops
// the active flag so the sender may issue a new invitation later.
func (i *Invitation) Reject() error {
	if i.Status != InvitationStatusPending {
		return ErrInvitationNotPending
	}
	i.Status = InvitationStatusRejected
	i.IsActive = false
	return nil
}

// BlocksResend reports whether this edge still prevents the sender from
// sending another invitation to the same receiver.
func (i *Invitation) BlocksResend() bool {
	return i.IsActive
}
