package repositories

import (
	"github.com/anonto42/eventra/backend/internal/models"
	"gorm.io/gorm"
)

// TestimonialRepository defines the interface for client review operations
type TestimonialRepository interface {
	CreateTestimonial(testimonial *models.Testimonial) error
	GetTestimonialByID(id uint) (*models.Testimonial, error)
	GetTestimonials(approvedOnly bool) ([]models.Testimonial, error)
	SetApproval(id uint, approved bool) error
	DeleteTestimonial(id uint) error
}

type postgresTestimonialRepository struct {
	db *gorm.DB
}

func NewPostgresTestimonialRepository(db *gorm.DB) TestimonialRepository {
	return &postgresTestimonialRepository{db: db}
}

func (r *postgresTestimonialRepository) CreateTestimonial(testimonial *models.Testimonial) error {
	return r.db.Create(testimonial).Error
}

func (r *postgresTestimonialRepository) GetTestimonialByID(id uint) (*models.Testimonial, error) {
	var testimonial models.Testimonial
	if err := r.db.First(&testimonial, id).Error; err != nil {
		return nil, err
	}
	return &testimonial, nil
}

func (r *postgresTestimonialRepository) GetTestimonials(approvedOnly bool) ([]models.Testimonial, error) {
	var testimonials []models.Testimonial
	q := r.db.Order("created_at DESC")
	if approvedOnly {
		q = q.Where("is_approved = true")
	}
	if err := q.Find(&testimonials).Error; err != nil {
		return nil, err
	}
	return testimonials, nil
}

func (r *postgresTestimonialRepository) SetApproval(id uint, approved bool) error {
	return r.db.Model(&models.Testimonial{}).Where("id = ?", id).Update("is_approved", approved).Error
}

func (r *postgresTestimonialRepository) DeleteTestimonial(id uint) error {
	return r.db.Delete(&models.Testimonial{}, id).Error
}
