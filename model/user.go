package model

import (
	"time"

	"gorm.io/gorm"
)

const DefaultProfilePic = "https://www.example.com/default-profile-pic.jpg"
const DefaultStatusLine = "Hey there! I'm using meChat."

// User struct
type User struct {
	gorm.Model
	Name        string  `gorm:"not null" json:"name"`
	Email       string  `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber *string `gorm:"uniqueIndex" json:"phone_number"`
	Password    string  `gorm:"not null" json:"-"`
	Role        string  `json:"role"`

	Bio        string `json:"bio"`
	ProfilePic string `json:"profile_pic"`
	StatusLine string `json:"status"`

	Verified bool      `gorm:"default:false" json:"verified"`
	LastSeen time.Time `json:"last_seen"`

	LoginAttempts int        `gorm:"default:0" json:"-"`
	LockUntil     *time.Time `json:"-"`
}

// Friend is one direction of a confirmed connection. Accepting an invitation
// creates both directions, so friendship queries never need an OR.
type Friend struct {
	gorm.Model
	UserID   uint `gorm:"not null;uniqueIndex:idx_friend_pair" json:"user_id"`
	FriendID uint `gorm:"not null;uniqueIndex:idx_friend_pair" json:"friend_id"`

	User   User `gorm:"foreignKey:UserID" json:"-"`
	Friend User `gorm:"foreignKey:FriendID" json:"friend"`
}
