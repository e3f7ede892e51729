package repositories

import (
	"context"
	"errors"
	"time"

	"spotless/internal/database"
	. "spotless/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	COMPANY_CACHE_EXPIRY = 10 * time.Minute
	COMPANY_CACHE_PREFIX = "company:"
)

type CompanyRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Company, error)
	Create(ctx context.Context, company *Company) error
	Update(ctx context.Context, company *Company) error
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error
	List(ctx context.Context) ([]Company, error)
	ExpireTrials(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

type companyRepository struct {
	db  database.DB
	log logger.Logger
}

func NewCompanyRepository(db database.DB) CompanyRepository {
	return &companyRepository{
		db:  db,
		log: logger.New("companyRepository"),
	}
}

func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	log := r.log.Function("GetByID")

	var company Company
	cacheKey := COMPANY_CACHE_PREFIX + id.String()
	found, err := database.NewCacheBuilder(r.db.Cache.General, cacheKey).WithContext(ctx).Get(&company)
	if err != nil {
		log.Warn("failed to read company from cache", "companyID", id, "error", err)
	}
	if found {
		return &company, nil
	}

	if err := r.db.SQLWithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get company by ID", err, "companyID", id)
	}

	if err := database.NewCacheBuilder(r.db.Cache.General, cacheKey).
		WithStruct(&company).
		WithTTL(COMPANY_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to cache company", "companyID", id, "error", err)
	}

	return &company, nil
}

func (r *companyRepository) Create(ctx context.Context, company *Company) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(company).Error; err != nil {
		return log.Err("failed to create company", err, "name", company.Name)
	}

	return nil
}

func (r *companyRepository) Update(ctx context.Context, company *Company) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(company).Error; err != nil {
		return log.Err("failed to update company", err, "companyID", company.ID)
	}

	r.clearCache(ctx, company.ID)
	return nil
}

func (r *companyRepository) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	log := r.log.Function("SetBlocked")

	result := r.db.SQLWithContext(ctx).
		Model(&Company{}).
		Where("id = ?", id).
		Update("is_blocked", blocked)
	if result.Error != nil {
		return log.Err("failed to update company blocked flag", result.Error, "companyID", id)
	}
	if result.RowsAffected == 0 {
		log.Warn("company not found", "companyID", id)
		return ErrNotFound
	}

	r.clearCache(ctx, id)
	log.Info("Company blocked flag updated", "companyID", id, "blocked", blocked)
	return nil
}

func (r *companyRepository) List(ctx context.Context) ([]Company, error) {
	log := r.log.Function("List")

	companies := make([]Company, 0)
	if err := r.db.SQLWithContext(ctx).Order("created_at DESC").Find(&companies).Error; err != nil {
		return nil, log.Err("failed to list companies", err)
	}

	return companies, nil
}

// ExpireTrials moves every trial company past its trial end date to the
// expired status. Returns the IDs of the companies transitioned.
func (r *companyRepository) ExpireTrials(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	log := r.log.Function("ExpireTrials")

	var ids []uuid.UUID
	if err := r.db.SQLWithContext(ctx).
		Model(&Company{}).
		Where("subscription_status = ? AND trial_ends_at IS NOT NULL AND trial_ends_at < ?", SubscriptionTrial, now).
		Pluck("id", &ids).Error; err != nil {
		return nil, log.Err("failed to find expired trials", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	result := r.db.SQLWithContext(ctx).
		Model(&Company{}).
		Where("id IN ?", ids).
		Update("subscription_status", SubscriptionExpired)
	if result.Error != nil {
		return nil, log.Err("failed to expire trials", result.Error)
	}

	for _, id := range ids {
		r.clearCache(ctx, id)
	}

	return ids, nil
}

func (r *companyRepository) clearCache(ctx context.Context, id uuid.UUID) {
	cacheKey := COMPANY_CACHE_PREFIX + id.String()
	if err := database.NewCacheBuilder(r.db.Cache.General, cacheKey).WithContext(ctx).Delete(); err != nil {
		r.log.Function("clearCache").Warn("failed to clear company cache", "companyID", id, "error", err)
	}
}
