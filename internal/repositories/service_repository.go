package repositories

import (
	"github.com/anonto42/eventra/backend/internal/models"
	"gorm.io/gorm"
)

// ServiceRepository defines the interface for event-service catalog operations
type ServiceRepository interface {
	CreateService(service *models.Service) error
	GetServiceByID(id uint) (*models.Service, error)
	GetServices(category string, activeOnly bool) ([]models.Service, error)
	UpdateService(service *models.Service) error
	DeleteService(id uint) error
}

type postgresServiceRepository struct {
	db *gorm.DB
}

func NewPostgresServiceRepository(db *gorm.DB) ServiceRepository {
	return &postgresServiceRepository{db: db}
}

func (r *postgresServiceRepository) CreateService(service *models.Service) error {
	return r.db.Create(service).Error
}

func (r *postgresServiceRepository) GetServiceByID(id uint) (*models.Service, error) {
	var service models.Service
	if err := r.db.First(&service, id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *postgresServiceRepository) GetServices(category string, activeOnly bool) ([]models.Service, error) {
	var services []models.Service
	q := r.db.Order("created_at DESC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if activeOnly {
		q = q.Where("is_active = true")
	}
	if err := q.Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *postgresServiceRepository) UpdateService(service *models.Service) error {
	return r.db.Save(service).Error
}

func (r *postgresServiceRepository) DeleteService(id uint) error {
	return r.db.Delete(&models.Service{}, id).Error
}
