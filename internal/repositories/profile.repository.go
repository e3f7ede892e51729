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
	PROFILE_CACHE_EXPIRY             = 24 * time.Hour
	PROFILE_CACHE_PREFIX             = "profile:"
	EXTERNAL_ID_MAPPING_CACHE_PREFIX = "extid:"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByExternalID(ctx context.Context, externalID string) (*Profile, error)
	Create(ctx context.Context, profile *Profile) error
	Update(ctx context.Context, profile *Profile) error
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]Profile, error)
	ClearCache(ctx context.Context, profile *Profile) error
}

type profileRepository struct {
	db  database.DB
	log logger.Logger
}

func NewProfileRepository(db database.DB) ProfileRepository {
	return &profileRepository{
		db:  db,
		log: logger.New("profileRepository"),
	}
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	log := r.log.Function("GetByID")

	var profile Profile
	cacheKey := PROFILE_CACHE_PREFIX + id.String()
	found, err := database.NewCacheBuilder(r.db.Cache.Profile, cacheKey).WithContext(ctx).Get(&profile)
	if err != nil {
		log.Warn("failed to read profile from cache", "profileID", id, "error", err)
	}
	if found {
		return &profile, nil
	}

	if err := r.db.SQLWithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get profile by ID", err, "profileID", id)
	}

	r.addToCache(ctx, &profile)
	return &profile, nil
}

// GetByExternalID resolves the auth provider's subject to a profile. The
// mapping is hit on every authenticated request, so both the mapping and
// the profile are cached.
func (r *profileRepository) GetByExternalID(ctx context.Context, externalID string) (*Profile, error) {
	log := r.log.Function("GetByExternalID")

	mappingKey := EXTERNAL_ID_MAPPING_CACHE_PREFIX + externalID

	var profileID uuid.UUID
	found, err := database.NewCacheBuilder(r.db.Cache.Profile, mappingKey).WithContext(ctx).Get(&profileID)
	if err != nil {
		log.Warn("failed to read identity mapping from cache", "externalID", externalID, "error", err)
	}
	if found {
		if profile, err := r.GetByID(ctx, profileID); err == nil {
			return profile, nil
		}
	}

	var profile Profile
	if err := r.db.SQLWithContext(ctx).First(&profile, "external_id = ?", externalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get profile by external ID", err, "externalID", externalID)
	}

	if err := database.NewCacheBuilder(r.db.Cache.Profile, mappingKey).
		WithStruct(profile.ID).
		WithTTL(PROFILE_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to cache identity mapping", "externalID", externalID, "error", err)
	}
	r.addToCache(ctx, &profile)

	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *Profile) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(profile).Error; err != nil {
		return log.Err("failed to create profile", err, "externalID", profile.ExternalID)
	}

	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *Profile) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(profile).Error; err != nil {
		return log.Err("failed to update profile", err, "profileID", profile.ID)
	}

	if err := r.ClearCache(ctx, profile); err != nil {
		log.Warn("failed to clear profile cache after update", "profileID", profile.ID, "error", err)
	}

	return nil
}

func (r *profileRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]Profile, error) {
	log := r.log.Function("ListByCompany")

	profiles := make([]Profile, 0)
	if err := r.db.SQLWithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&profiles).Error; err != nil {
		return nil, log.Err("failed to list profiles", err, "companyID", companyID)
	}

	return profiles, nil
}

func (r *profileRepository) ClearCache(ctx context.Context, profile *Profile) error {
	log := r.log.Function("ClearCache")

	profileKey := PROFILE_CACHE_PREFIX + profile.ID.String()
	if err := database.NewCacheBuilder(r.db.Cache.Profile, profileKey).WithContext(ctx).Delete(); err != nil {
		log.Warn("failed to clear profile cache", "profileID", profile.ID, "error", err)
	}

	if profile.ExternalID != "" {
		mappingKey := EXTERNAL_ID_MAPPING_CACHE_PREFIX + profile.ExternalID
		if err := database.NewCacheBuilder(r.db.Cache.Profile, mappingKey).WithContext(ctx).Delete(); err != nil {
			return log.Err("failed to clear identity mapping cache", err, "externalID", profile.ExternalID)
		}
	}

	return nil
}

func (r *profileRepository) addToCache(ctx context.Context, profile *Profile) {
	cacheKey := PROFILE_CACHE_PREFIX + profile.ID.String()
	if err := database.NewCacheBuilder(r.db.Cache.Profile, cacheKey).
		WithStruct(profile).
		WithTTL(PROFILE_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		r.log.Function("addToCache").Warn("failed to cache profile", "profileID", profile.ID, "error", err)
	}
}
