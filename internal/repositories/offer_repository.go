package repositories

import (
	"time"

	"github.com/anonto42/eventra/backend/internal/models"
	"gorm.io/gorm"
)

// OfferRepository defines the interface for promotional banner operations
type OfferRepository interface {
	CreateOffer(offer *models.Offer) error
	GetOfferByID(id uint) (*models.Offer, error)
	GetOffers(activeOnly bool) ([]models.Offer, error)
	GetRunningOffers() ([]models.Offer, error)
	UpdateOffer(offer *models.Offer) error
	DeleteOffer(id uint) error
}

type postgresOfferRepository struct {
	db *gorm.DB
}

func NewPostgresOfferRepository(db *gorm.DB) OfferRepository {
	return &postgresOfferRepository{db: db}
}

func (r *postgresOfferRepository) CreateOffer(offer *models.Offer) error {
	return r.db.Create(offer).Error
}

func (r *postgresOfferRepository) GetOfferByID(id uint) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.First(&offer, id).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *postgresOfferRepository) GetOffers(activeOnly bool) ([]models.Offer, error) {
	var offers []models.Offer
	q := r.db.Order("created_at DESC")
	if activeOnly {
		q = q.Where("is_active = true")
	}
	if err := q.Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

// GetRunningOffers returns active offers whose window covers the current time
func (r *postgresOfferRepository) GetRunningOffers() ([]models.Offer, error) {
	now := time.Now()
	var offers []models.Offer
	err := r.db.Where("is_active = true").
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at > ?", now).
		Order("created_at DESC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *postgresOfferRepository) UpdateOffer(offer *models.Offer) error {
	return r.db.Save(offer).Error
}

func (r *postgresOfferRepository) DeleteOffer(id uint) error {
	return r.db.Delete(&models.Offer{}, id).Error
}
