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

type ClientRepository interface {
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]Client, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*Client, error)
	Create(ctx context.Context, client *Client) error
	Update(ctx context.Context, client *Client) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type clientRepository struct {
	db  database.DB
	log logger.Logger
}

func NewClientRepository(db database.DB) ClientRepository {
	return &clientRepository{
		db:  db,
		log: logger.New("clientRepository"),
	}
}

func (r *clientRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]Client, error) {
	log := r.log.Function("ListByCompany")

	clients := make([]Client, 0)
	if err := r.db.SQLWithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&clients).Error; err != nil {
		return nil, log.Err("failed to list clients", err, "companyID", companyID)
	}

	return clients, nil
}

func (r *clientRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*Client, error) {
	log := r.log.Function("GetByID")

	var client Client
	if err := r.db.SQLWithContext(ctx).
		First(&client, "id = ? AND company_id = ?", id, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get client by ID", err, "clientID", id, "companyID", companyID)
	}

	return &client, nil
}

func (r *clientRepository) Create(ctx context.Context, client *Client) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(client).Error; err != nil {
		return log.Err("failed to create client", err, "companyID", client.CompanyID)
	}

	return nil
}

func (r *clientRepository) Update(ctx context.Context, client *Client) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(client).Error; err != nil {
		return log.Err("failed to update client", err, "clientID", client.ID)
	}

	return nil
}

func (r *clientRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	log := r.log.Function("Delete")

	result := r.db.SQLWithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&Client{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete client", result.Error, "clientID", id)
	}
	if result.RowsAffected == 0 {
		log.Warn("client not found", "clientID", id, "companyID", companyID)
		return ErrNotFound
	}

	return nil
}
