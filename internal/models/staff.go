package models

import "time"

// StaffMember is a bookable staff profile (PostgreSQL)
type StaffMember struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FullName   string    `json:"full_name"`
	Bio        string    `json:"bio"`
	Categories []string  `json:"categories" gorm:"serializer:json"` // e.g. MC, DJ, photographer
	AvatarURL  string    `json:"avatar_url,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	IsActive   bool      `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateStaffRequest struct {
	FullName   string   `json:"full_name" validate:"required,min=2,max=100"`
	Bio        string   `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Categories []string `json:"categories" validate:"required,min=1,dive,min=1"`
	AvatarURL  string   `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Phone      string   `json:"phone,omitempty"`
}

type UpdateStaffRequest struct {
	FullName   string   `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Bio        string   `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Categories []string `json:"categories,omitempty" validate:"omitempty,min=1,dive,min=1"`
	AvatarURL  string   `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Phone      string   `json:"phone,omitempty"`
	IsActive   *bool    `json:"is_active,omitempty"`
}
