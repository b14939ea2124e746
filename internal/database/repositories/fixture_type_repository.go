package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/stageplot/stageplot-go/internal/database/models"
)

// FixtureTypeRepository handles fixture catalog data access.
type FixtureTypeRepository struct {
	db *gorm.DB
}

// NewFixtureTypeRepository creates a new FixtureTypeRepository.
func NewFixtureTypeRepository(db *gorm.DB) *FixtureTypeRepository {
	return &FixtureTypeRepository{db: db}
}

// FindAll returns all fixture types.
func (r *FixtureTypeRepository) FindAll(ctx context.Context) ([]models.FixtureType, error) {
	var fixtures []models.FixtureType
	result := r.db.WithContext(ctx).
		Order("category_id ASC, name ASC").
		Find(&fixtures)
	return fixtures, result.Error
}

// FindByID returns a fixture type by ID.
func (r *FixtureTypeRepository) FindByID(ctx context.Context, id string) (*models.FixtureType, error) {
	var fixture models.FixtureType
	result := r.db.WithContext(ctx).First(&fixture, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &fixture, nil
}

// FindByIDs returns the fixture types for the given IDs, unordered.
func (r *FixtureTypeRepository) FindByIDs(ctx context.Context, ids []string) ([]models.FixtureType, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var fixtures []models.FixtureType
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&fixtures)
	return fixtures, result.Error
}

// FindByCategoryID returns all fixture types in a category.
func (r *FixtureTypeRepository) FindByCategoryID(ctx context.Context, categoryID string) ([]models.FixtureType, error) {
	var fixtures []models.FixtureType
	result := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("name ASC").
		Find(&fixtures)
	return fixtures, result.Error
}

// Create creates a new fixture type.
func (r *FixtureTypeRepository) Create(ctx context.Context, fixture *models.FixtureType) error {
	if fixture.ID == "" {
		fixture.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(fixture).Error
}

// Update updates an existing fixture type.
func (r *FixtureTypeRepository) Update(ctx context.Context, fixture *models.FixtureType) error {
	return r.db.WithContext(ctx).Save(fixture).Error
}

// Delete deletes a fixture type and all placed fixtures referencing it, in a
// transaction.
func (r *FixtureTypeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PlacedFixture{}, "fixture_type_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.FixtureType{}, "id = ?", id).Error
	})
}
