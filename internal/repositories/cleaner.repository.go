package repositories

import (
	"context"
	"errors"

	"spotless/internal/database"
	. "spotless/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CleanerRepository and ClientRepository together form the tenant-scoped
// directory: every query is keyed by company ID and a tenant with no rows
// gets an empty slice, not an error.
type CleanerRepository interface {
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]Cleaner, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*Cleaner, error)
	GetByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*Cleaner, error)
	Create(ctx context.Context, cleaner *Cleaner) error
	Update(ctx context.Context, cleaner *Cleaner) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type cleanerRepository struct {
	db  database.DB
	log logger.Logger
}

func NewCleanerRepository(db database.DB) CleanerRepository {
	return &cleanerRepository{
		db:  db,
		log: logger.New("cleanerRepository"),
	}
}

func (r *cleanerRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]Cleaner, error) {
	log := r.log.Function("ListByCompany")

	cleaners := make([]Cleaner, 0)
	if err := r.db.SQLWithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&cleaners).Error; err != nil {
		return nil, log.Err("failed to list cleaners", err, "companyID", companyID)
	}

	return cleaners, nil
}

func (r *cleanerRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*Cleaner, error) {
	log := r.log.Function("GetByID")

	var cleaner Cleaner
	if err := r.db.SQLWithContext(ctx).
		First(&cleaner, "id = ? AND company_id = ?", id, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get cleaner by ID", err, "cleanerID", id, "companyID", companyID)
	}

	return &cleaner, nil
}

func (r *cleanerRepository) GetByIDs(
	ctx context.Context,
	companyID uuid.UUID,
	ids []uuid.UUID,
) (map[uuid.UUID]*Cleaner, error) {
	log := r.log.Function("GetByIDs")

	if len(ids) == 0 {
		return map[uuid.UUID]*Cleaner{}, nil
	}

	cleaners := make([]Cleaner, 0, len(ids))
	if err := r.db.SQLWithContext(ctx).
		Where("company_id = ? AND id IN ?", companyID, ids).
		Find(&cleaners).Error; err != nil {
		return nil, log.Err("failed to get cleaners by IDs", err, "companyID", companyID)
	}

	byID := make(map[uuid.UUID]*Cleaner, len(cleaners))
	for i := range cleaners {
		byID[cleaners[i].ID] = &cleaners[i]
	}

	return byID, nil
}

func (r *cleanerRepository) Create(ctx context.Context, cleaner *Cleaner) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(cleaner).Error; err != nil {
		return log.Err("failed to create cleaner", err, "companyID", cleaner.CompanyID)
	}

	return nil
}

func (r *cleanerRepository) Update(ctx context.Context, cleaner *Cleaner) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(cleaner).Error; err != nil {
		return log.Err("failed to update cleaner", err, "cleanerID", cleaner.ID)
	}

	return nil
}

func (r *cleanerRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	log := r.log.Function("Delete")

	result := r.db.SQLWithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&Cleaner{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete cleaner", result.Error, "cleanerID", id)
	}
	if result.RowsAffected == 0 {
		log.Warn("cleaner not found", "cleanerID", id, "companyID", companyID)
		return ErrNotFound
	}

	return nil
}
