package directoryController

import (
	"context"

	. "spotless/internal/models"
	"spotless/internal/repositories"
	"spotless/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

// DirectoryController manages the tenant's workforce and client book. All
// lookups are scoped to the caller's company; cross-tenant IDs surface as
// not found, never as someone else's data.
type DirectoryController struct {
	cleaners repositories.CleanerRepository
	clients  repositories.ClientRepository
	log      logger.Logger
}

type DirectoryControllerInterface interface {
	ListCleaners(ctx context.Context, companyID uuid.UUID) ([]Cleaner, error)
	GetCleaner(ctx context.Context, companyID, cleanerID uuid.UUID) (*Cleaner, error)
	CreateCleaner(ctx context.Context, companyID uuid.UUID, req CleanerRequest) (*Cleaner, error)
	UpdateCleaner(ctx context.Context, companyID, cleanerID uuid.UUID, req CleanerRequest) (*Cleaner, error)
	DeleteCleaner(ctx context.Context, companyID, cleanerID uuid.UUID) error
	ListClients(ctx context.Context, companyID uuid.UUID) ([]Client, error)
	GetClient(ctx context.Context, companyID, clientID uuid.UUID) (*Client, error)
	CreateClient(ctx context.Context, companyID uuid.UUID, req ClientRequest) (*Client, error)
	UpdateClient(ctx context.Context, companyID, clientID uuid.UUID, req ClientRequest) (*Client, error)
	DeleteClient(ctx context.Context, companyID, clientID uuid.UUID) error
}

// normalize applies NormalizeText through an optional pointer.
func normalize(s *string) *string {
	if s == nil {
		return nil
	}
	return utils.NormalizeText(*s)
}

func New(repos repositories.Repository) DirectoryControllerInterface {
	return &DirectoryController{
		cleaners: repos.Cleaner,
		clients:  repos.Client,
		log:      logger.New("directoryController"),
	}
}

type CleanerRequest struct {
	Name     string         `json:"name"`
	Email    *string        `json:"email,omitempty"`
	Phone    *string        `json:"phone,omitempty"`
	Language *LanguageCode  `json:"language,omitempty"`
	Drives   *bool          `json:"drives,omitempty"`
	Status   *CleanerStatus `json:"status,omitempty"`
	Area     *string        `json:"area,omitempty"`
	Notes    *string        `json:"notes,omitempty"`
}

func (dc *DirectoryController) ListCleaners(ctx context.Context, companyID uuid.UUID) ([]Cleaner, error) {
	return dc.cleaners.ListByCompany(ctx, companyID)
}

func (dc *DirectoryController) GetCleaner(
	ctx context.Context,
	companyID, cleanerID uuid.UUID,
) (*Cleaner, error) {
	return dc.cleaners.GetByID(ctx, companyID, cleanerID)
}

func (dc *DirectoryController) CreateCleaner(
	ctx context.Context,
	companyID uuid.UUID,
	req CleanerRequest,
) (*Cleaner, error) {
	name := utils.NormalizeText(req.Name)
	if name == nil {
		return nil, &MissingFieldError{Field: "name"}
	}

	cleaner := &Cleaner{
		CompanyID: companyID,
		Name:      *name,
		Email:     normalize(req.Email),
		Phone:     normalize(req.Phone),
		Language:  LanguageEnglish,
		Status:    CleanerActive,
		Area:      normalize(req.Area),
		Notes:     normalize(req.Notes),
	}
	if req.Language != nil {
		cleaner.Language = *req.Language
	}
	if req.Drives != nil {
		cleaner.Drives = *req.Drives
	}
	if req.Status != nil {
		cleaner.Status = *req.Status
	}

	if err := dc.cleaners.Create(ctx, cleaner); err != nil {
		return nil, err
	}

	return cleaner, nil
}

func (dc *DirectoryController) UpdateCleaner(
	ctx context.Context,
	companyID, cleanerID uuid.UUID,
	req CleanerRequest,
) (*Cleaner, error) {
	cleaner, err := dc.cleaners.GetByID(ctx, companyID, cleanerID)
	if err != nil {
		return nil, err
	}

	if name := utils.NormalizeText(req.Name); name != nil {
		cleaner.Name = *name
	}
	if req.Email != nil {
		cleaner.Email = normalize(req.Email)
	}
	if req.Phone != nil {
		cleaner.Phone = normalize(req.Phone)
	}
	if req.Language != nil {
		cleaner.Language = *req.Language
	}
	if req.Drives != nil {
		cleaner.Drives = *req.Drives
	}
	if req.Status != nil {
		cleaner.Status = *req.Status
	}
	if req.Area != nil {
		cleaner.Area = normalize(req.Area)
	}
	if req.Notes != nil {
		cleaner.Notes = normalize(req.Notes)
	}

	if err := dc.cleaners.Update(ctx, cleaner); err != nil {
		return nil, err
	}

	return cleaner, nil
}

func (dc *DirectoryController) DeleteCleaner(ctx context.Context, companyID, cleanerID uuid.UUID) error {
	return dc.cleaners.Delete(ctx, companyID, cleanerID)
}

type ClientRequest struct {
	Name      string            `json:"name"`
	Address   *string           `json:"address,omitempty"`
	Frequency *ServiceFrequency `json:"frequency,omitempty"`
	Notes     *string           `json:"notes,omitempty"`
}

func (dc *DirectoryController) ListClients(ctx context.Context, companyID uuid.UUID) ([]Client, error) {
	return dc.clients.ListByCompany(ctx, companyID)
}

func (dc *DirectoryController) GetClient(
	ctx context.Context,
	companyID, clientID uuid.UUID,
) (*Client, error) {
	return dc.clients.GetByID(ctx, companyID, clientID)
}

func (dc *DirectoryController) CreateClient(
	ctx context.Context,
	companyID uuid.UUID,
	req ClientRequest,
) (*Client, error) {
	name := utils.NormalizeText(req.Name)
	if name == nil {
		return nil, &MissingFieldError{Field: "name"}
	}

	client := &Client{
		CompanyID: companyID,
		Name:      *name,
		Address:   normalize(req.Address),
		Frequency: req.Frequency,
		Notes:     normalize(req.Notes),
	}

	if err := dc.clients.Create(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

func (dc *DirectoryController) UpdateClient(
	ctx context.Context,
	companyID, clientID uuid.UUID,
	req ClientRequest,
) (*Client, error) {
	client, err := dc.clients.GetByID(ctx, companyID, clientID)
	if err != nil {
		return nil, err
	}

	if name := utils.NormalizeText(req.Name); name != nil {
		client.Name = *name
	}
	if req.Address != nil {
		client.Address = normalize(req.Address)
	}
	if req.Frequency != nil {
		client.Frequency = req.Frequency
	}
	if req.Notes != nil {
		client.Notes = normalize(req.Notes)
	}

	if err := dc.clients.Update(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

func (dc *DirectoryController) DeleteClient(ctx context.Context, companyID, clientID uuid.UUID) error {
	return dc.clients.Delete(ctx, companyID, clientID)
}
