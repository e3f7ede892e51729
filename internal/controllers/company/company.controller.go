package companyController

import (
	"context"
	"errors"
	"time"

	"spotless/config"
	"spotless/internal/events"
	. "spotless/internal/models"
	"spotless/internal/repositories"
	"spotless/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionExecutor interface {
	Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error
}

type EventPublisher interface {
	Publish(channel events.Channel, event events.Event) error
}

type CompanyController struct {
	companies   repositories.CompanyRepository
	profiles    repositories.ProfileRepository
	transaction TransactionExecutor
	eventBus    EventPublisher
	config      config.Config
	log         logger.Logger
}

type CompanyControllerInterface interface {
	Bootstrap(ctx context.Context, identity services.Identity, req BootstrapRequest) (*Company, *Profile, error)
	GetCompany(ctx context.Context, companyID uuid.UUID) (*Company, error)
	ListCompanies(ctx context.Context) ([]Company, error)
	SetBlocked(ctx context.Context, companyID uuid.UUID, blocked bool) error
	CreateProfile(ctx context.Context, companyID uuid.UUID, req CreateProfileRequest) (*Profile, error)
	UpdateProfile(ctx context.Context, profile *Profile, req UpdateProfileRequest) (*Profile, error)
	ListProfiles(ctx context.Context, companyID uuid.UUID) ([]Profile, error)
}

func New(
	repos repositories.Repository,
	transaction TransactionExecutor,
	eventBus EventPublisher,
	config config.Config,
) CompanyControllerInterface {
	return &CompanyController{
		companies:   repos.Company,
		profiles:    repos.Profile,
		transaction: transaction,
		eventBus:    eventBus,
		config:      config,
		log:         logger.New("companyController"),
	}
}

type BootstrapRequest struct {
	CompanyName string `json:"companyName"`
	OwnerName   string `json:"ownerName"`
}

// Bootstrap provisions a new tenant: the company on a fresh trial plus its
// owner profile bound to the caller's external identity, atomically. An
// identity that already has a profile cannot bootstrap again.
func (cc *CompanyController) Bootstrap(
	ctx context.Context,
	identity services.Identity,
	req BootstrapRequest,
) (*Company, *Profile, error) {
	log := cc.log.Function("Bootstrap")

	if req.CompanyName == "" {
		return nil, nil, &MissingFieldError{Field: "companyName"}
	}

	existing, err := cc.profiles.GetByExternalID(ctx, identity.Subject)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, nil, log.Err("failed to check for existing profile", err)
	}
	if existing != nil {
		log.Warn("identity already registered", "profileID", existing.ID)
		return nil, nil, ErrForbidden
	}

	trialEnd := time.Now().Add(time.Duration(cc.config.TrialDays) * 24 * time.Hour)
	company := &Company{
		Name:               req.CompanyName,
		SubscriptionStatus: SubscriptionTrial,
		TrialEndsAt:        &trialEnd,
	}

	ownerName := req.OwnerName
	if ownerName == "" {
		ownerName = identity.Name
	}
	profile := &Profile{
		ExternalID: identity.Subject,
		Role:       RoleOwner,
		Name:       ownerName,
		Email:      identity.Email,
	}

	err = cc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := tx.Create(company).Error; err != nil {
			return log.Err("failed to create company", err, "name", company.Name)
		}
		profile.CompanyID = &company.ID
		if err := tx.Create(profile).Error; err != nil {
			return log.Err("failed to create owner profile", err, "companyID", company.ID)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info("company bootstrapped", "companyID", company.ID, "profileID", profile.ID)
	return company, profile, nil
}

func (cc *CompanyController) GetCompany(ctx context.Context, companyID uuid.UUID) (*Company, error) {
	return cc.companies.GetByID(ctx, companyID)
}

func (cc *CompanyController) ListCompanies(ctx context.Context) ([]Company, error) {
	return cc.companies.List(ctx)
}

// SetBlocked flips platform access for a tenant. Takes effect on the
// company's next request; connected clients learn about it over the
// company event channel.
func (cc *CompanyController) SetBlocked(
	ctx context.Context,
	companyID uuid.UUID,
	blocked bool,
) error {
	log := cc.log.Function("SetBlocked")

	if err := cc.companies.SetBlocked(ctx, companyID, blocked); err != nil {
		return err
	}

	err := cc.eventBus.Publish(events.COMPANY_CHANNEL, events.Event{
		Type:      events.COMPANY_BLOCKED,
		CompanyID: &companyID,
		Data: map[string]any{
			"blocked": blocked,
		},
	})
	if err != nil {
		log.Er("failed to publish company blocked event", err, "companyID", companyID)
	}

	return nil
}

type CreateProfileRequest struct {
	ExternalID string       `json:"externalId"`
	Role       UserRole     `json:"role"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Phone      *string      `json:"phone,omitempty"`
	Language   LanguageCode `json:"language,omitempty"`
}

// CreateProfile adds a login-capable member to the company. The
// superadmin role is platform-level and can never be granted here.
func (cc *CompanyController) CreateProfile(
	ctx context.Context,
	companyID uuid.UUID,
	req CreateProfileRequest,
) (*Profile, error) {
	log := cc.log.Function("CreateProfile")

	switch {
	case req.ExternalID == "":
		return nil, &MissingFieldError{Field: "externalId"}
	case req.Name == "":
		return nil, &MissingFieldError{Field: "name"}
	case req.Email == "":
		return nil, &MissingFieldError{Field: "email"}
	}

	switch req.Role {
	case RoleOwner, RoleAdmin, RoleCleaner:
	default:
		log.Warn("rejected profile role", "role", req.Role)
		return nil, ErrForbidden
	}

	language := req.Language
	if language == "" {
		language = LanguageEnglish
	}

	profile := &Profile{
		ExternalID: req.ExternalID,
		CompanyID:  &companyID,
		Role:       req.Role,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Language:   language,
	}

	if err := cc.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

type UpdateProfileRequest struct {
	Name     *string       `json:"name,omitempty"`
	Phone    *string       `json:"phone,omitempty"`
	Language *LanguageCode `json:"language,omitempty"`
}

func (cc *CompanyController) UpdateProfile(
	ctx context.Context,
	profile *Profile,
	req UpdateProfileRequest,
) (*Profile, error) {
	if req.Name != nil && *req.Name != "" {
		profile.Name = *req.Name
	}
	if req.Phone != nil {
		profile.Phone = req.Phone
	}
	if req.Language != nil {
		profile.Language = *req.Language
	}

	if err := cc.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

func (cc *CompanyController) ListProfiles(ctx context.Context, companyID uuid.UUID) ([]Profile, error) {
	return cc.profiles.ListByCompany(ctx, companyID)
}
