package models

import "time"

// Service is an event service offered by the business (PostgreSQL)
type Service struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category" gorm:"size:50;index"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateServiceRequest struct {
	Title       string  `json:"title" validate:"required,min=2,max=150"`
	Description string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category    string  `json:"category" validate:"required,min=1,max=50"`
	Price       float64 `json:"price" validate:"min=0"`
	ImageURL    string  `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateServiceRequest struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,min=2,max=150"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category    string   `json:"category,omitempty" validate:"omitempty,min=1,max=50"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
	ImageURL    string   `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive    *bool    `json:"is_active,omitempty"`
}
