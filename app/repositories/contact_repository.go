package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/chiquebutik/butik/app/errs"
	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/pkg/orm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) CreateMessage(ctx context.Context, m *models.ContactMessage) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("contact: create message: %w", err)
	}
	return nil
}

func (r *ContactRepository) GetMessage(ctx context.Context, id uint) (*models.ContactMessage, error) {
	var m models.ContactMessage
	err := r.db.WithContext(ctx).First(&m, id).Error
	if orm.IsNotFound(err) {
		return nil, errs.E(errs.NotFound, "Meddelandet hittades inte")
	}
	if err != nil {
		return nil, fmt.Errorf("contact: get message %d: %w", id, err)
	}
	return &m, nil
}

// LatestInfo returns the most recently added contact card.
func (r *ContactRepository) LatestInfo(ctx context.Context) (*models.ContactInfo, error) {
	var info models.ContactInfo
	err := r.db.WithContext(ctx).Order("id desc").First(&info).Error
	if orm.IsNotFound(err) {
		return nil, errs.E(errs.NotFound, "Kontaktuppgifter saknas")
	}
	if err != nil {
		return nil, fmt.Errorf("contact: info: %w", err)
	}
	return &info, nil
}
