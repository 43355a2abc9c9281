package repository

import (
	"context"
	"errors"

	"fieldops/internal/cache"
	"fieldops/internal/models"

	"gorm.io/gorm"
)

// CompanyRepository defines persistence operations for companies.
type CompanyRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Company, error)
	GetByName(ctx context.Context, name string) (*models.Company, error)
	Create(ctx context.Context, company *models.Company) error
	List(ctx context.Context) ([]models.Company, error)
}

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository returns a new CompanyRepository implementation.
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) GetByID(ctx context.Context, id uint) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Company", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &company, nil
}

func (r *companyRepository) GetByName(ctx context.Context, name string) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &company, nil
}

func (r *companyRepository) Create(ctx context.Context, company *models.Company) error {
	if err := r.db.WithContext(ctx).Create(company).Error; err != nil {
		if IsUniqueConstraintError(err) {
			return models.NewStateConflictError("company name already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateCompanies(ctx)
	return nil
}

// List returns every company, cached for the dropdown shown during
// provisioning.
func (r *companyRepository) List(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	err := cache.CacheAside(ctx, cache.CompanyListKey, cache.CompanyListTTL, &companies, func() (interface{}, error) {
		var out []models.Company
		if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return companies, nil
}
