// Package repositories provides data access layer implementations.
package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/stageplot/stageplot-go/internal/database/models"
)

// CategoryRepository handles category data access.
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// FindAll returns all categories.
func (r *CategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	result := r.db.WithContext(ctx).
		Order("element_type ASC, display_order ASC, name ASC").
		Find(&categories)
	return categories, result.Error
}

// FindByID returns a category by ID.
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	result := r.db.WithContext(ctx).First(&category, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &category, nil
}

// FindChildren returns the direct children of a category.
func (r *CategoryRepository) FindChildren(ctx context.Context, parentID string) ([]models.Category, error) {
	var categories []models.Category
	result := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("display_order ASC, name ASC").
		Find(&categories)
	return categories, result.Error
}

// FindRoots returns the parentless categories for an element type.
func (r *CategoryRepository) FindRoots(ctx context.Context, elementType string) ([]models.Category, error) {
	var categories []models.Category
	result := r.db.WithContext(ctx).
		Where("parent_id IS NULL AND element_type = ?", elementType).
		Order("display_order ASC, name ASC").
		Find(&categories)
	return categories, result.Error
}

// ExistsByNameParentType reports whether a category with the same
// (name, parent, element_type) already exists, excluding excludeID.
// SQLite treats NULL parents as distinct in the unique index, so root-level
// duplicates are only caught here.
func (r *CategoryRepository) ExistsByNameParentType(ctx context.Context, name string, parentID *string, elementType, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("name = ? AND element_type = ?", name, elementType)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	result := query.Count(&count)
	return count > 0, result.Error
}

// Create creates a new category.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(category).Error
}

// Update updates an existing category.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// DeleteTree deletes the given categories (a node plus its descendants) in a
// transaction. Fixture types pointing at any deleted node keep existing with
// their category reference nulled.
func (r *CategoryRepository) DeleteTree(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.FixtureType{}).
			Where("category_id IN ?", ids).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, "id IN ?", ids).Error
	})
}
