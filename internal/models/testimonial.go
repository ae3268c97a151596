package models

import "time"

// Testimonial is a client review pending admin approval (PostgreSQL)
type Testimonial struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	Rating     int       `json:"rating"`
	IsApproved bool      `json:"is_approved" gorm:"default:false;index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateTestimonialRequest struct {
	AuthorName string `json:"author_name" validate:"required,min=2,max=100"`
	Content    string `json:"content" validate:"required,min=5,max=2000"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
}
