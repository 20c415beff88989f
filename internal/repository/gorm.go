package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "auctiontracker/internal/errors"
	"auctiontracker/internal/models"
	"auctiontracker/internal/uuid"
)

// gormPropertyRepository persists properties in the relational database.
type gormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a PropertyRepository backed by GORM.
func NewGormPropertyRepository(db *gorm.DB) PropertyRepository {
	return &gormPropertyRepository{db: db}
}

func (r *gormPropertyRepository) Create(ctx context.Context, in models.PropertyInput, ownerID string) (*models.Property, error) {
	p := models.NewProperty(in, ownerID, uuid.New(), now())
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &p, nil
}

func (r *gormPropertyRepository) Update(ctx context.Context, id string, patch models.PropertyPatch) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx, id).First(&property).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrPropertyNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		property.Apply(patch)
		if err := tx.Save(&property).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// lockForUpdate selects the row with id under a row lock so concurrent
// updates of the same property are serialized. SQLite ignores the clause and
// relies on its database-wide write lock.
func lockForUpdate(tx *gorm.DB, id string) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id)
}

func (r *gormPropertyRepository) FindByID(ctx context.Context, id string) (*models.Property, error) {
	var property models.Property
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPropertyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &property, nil
}

func (r *gormPropertyRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Property, error) {
	properties := []models.Property{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).
		Order("created_at, id").Find(&properties).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return properties, nil
}

func (r *gormPropertyRepository) ListAll(ctx context.Context) ([]models.Property, error) {
	properties := []models.Property{}
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&properties).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return properties, nil
}

func (r *gormPropertyRepository) CountByOwner(ctx context.Context) (map[string]int64, error) {
	type countRow struct {
		UserID string
		Count  int64
	}
	var rows []countRow

	if err := r.db.WithContext(ctx).Model(&models.Property{}).
		Select("user_id, COUNT(*) AS count").
		Group("user_id").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.UserID] = row.Count
	}
	return counts, nil
}
