package model

import "gorm.io/gorm"

// Media holds uploaded bytes as base64, served back at /v1/media/:id.
type Media struct {
	gorm.Model
	Data string `gorm:"not null" json:"-"`
	Mime string `gorm:"not null" json:"mime"`
}
