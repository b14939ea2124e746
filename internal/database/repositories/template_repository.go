package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/stageplot/stageplot-go/internal/database/models"
)

// TemplateRepository handles stage template data access.
type TemplateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new TemplateRepository.
func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// FindAll returns all stage templates.
func (r *TemplateRepository) FindAll(ctx context.Context) ([]models.StageTemplate, error) {
	var templates []models.StageTemplate
	result := r.db.WithContext(ctx).
		Order("template_type ASC, name ASC").
		Find(&templates)
	return templates, result.Error
}

// FindByType returns all templates of a given type.
func (r *TemplateRepository) FindByType(ctx context.Context, templateType string) ([]models.StageTemplate, error) {
	var templates []models.StageTemplate
	result := r.db.WithContext(ctx).
		Where("template_type = ?", templateType).
		Order("name ASC").
		Find(&templates)
	return templates, result.Error
}

// FindByID returns a template by ID.
func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*models.StageTemplate, error) {
	var template models.StageTemplate
	result := r.db.WithContext(ctx).First(&template, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &template, nil
}

// Create creates a new stage template.
func (r *TemplateRepository) Create(ctx context.Context, template *models.StageTemplate) error {
	if template.ID == "" {
		template.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(template).Error
}

// Update updates an existing stage template.
func (r *TemplateRepository) Update(ctx context.Context, template *models.StageTemplate) error {
	return r.db.WithContext(ctx).Save(template).Error
}

// Delete deletes a stage template by ID.
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.StageTemplate{}, "id = ?", id).Error
}
