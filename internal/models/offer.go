package models

import "time"

// Offer is a promotional banner shown in the client app (PostgreSQL)
type Offer struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	BannerURL   string     `json:"banner_url,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateOfferRequest struct {
	Title       string     `json:"title" validate:"required,min=2,max=150"`
	Description string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	BannerURL   string     `json:"banner_url,omitempty" validate:"omitempty,url"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

type UpdateOfferRequest struct {
	Title       string     `json:"title,omitempty" validate:"omitempty,min=2,max=150"`
	Description string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	BannerURL   string     `json:"banner_url,omitempty" validate:"omitempty,url"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
}
