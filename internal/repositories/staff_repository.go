package repositories

import (
	"github.com/anonto42/eventra/backend/internal/models"
	"gorm.io/gorm"
)

// StaffRepository defines the interface for staff profile operations
type StaffRepository interface {
	CreateStaff(staff *models.StaffMember) error
	GetStaffByID(id uint) (*models.StaffMember, error)
	GetStaff(activeOnly bool) ([]models.StaffMember, error)
	UpdateStaff(staff *models.StaffMember) error
	DeleteStaff(id uint) error
}

type postgresStaffRepository struct {
	db *gorm.DB
}

func NewPostgresStaffRepository(db *gorm.DB) StaffRepository {
	return &postgresStaffRepository{db: db}
}

func (r *postgresStaffRepository) CreateStaff(staff *models.StaffMember) error {
	return r.db.Create(staff).Error
}

func (r *postgresStaffRepository) GetStaffByID(id uint) (*models.StaffMember, error) {
	var staff models.StaffMember
	if err := r.db.First(&staff, id).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *postgresStaffRepository) GetStaff(activeOnly bool) ([]models.StaffMember, error) {
	var staff []models.StaffMember
	q := r.db.Order("created_at DESC")
	if activeOnly {
		q = q.Where("is_active = true")
	}
	if err := q.Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *postgresStaffRepository) UpdateStaff(staff *models.StaffMember) error {
	return r.db.Save(staff).Error
}

func (r *postgresStaffRepository) DeleteStaff(id uint) error {
	return r.db.Delete(&models.StaffMember{}, id).Error
}
