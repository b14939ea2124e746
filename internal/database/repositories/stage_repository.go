package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/stageplot/stageplot-go/internal/database/models"
)

// StageRepository handles stage data access.
type StageRepository struct {
	db *gorm.DB
}

// NewStageRepository creates a new StageRepository.
func NewStageRepository(db *gorm.DB) *StageRepository {
	return &StageRepository{db: db}
}

// FindAll returns all stages.
func (r *StageRepository) FindAll(ctx context.Context) ([]models.Stage, error) {
	var stages []models.Stage
	result := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&stages)
	return stages, result.Error
}

// FindByID returns a stage by ID.
func (r *StageRepository) FindByID(ctx context.Context, id string) (*models.Stage, error) {
	var stage models.Stage
	result := r.db.WithContext(ctx).First(&stage, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &stage, nil
}

// Create creates a new stage.
func (r *StageRepository) Create(ctx context.Context, stage *models.Stage) error {
	if stage.ID == "" {
		stage.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(stage).Error
}

// Update updates an existing stage.
func (r *StageRepository) Update(ctx context.Context, stage *models.Stage) error {
	return r.db.WithContext(ctx).Save(stage).Error
}

// Delete deletes a stage by ID.
func (r *StageRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Stage{}, "id = ?", id).Error
}

// CountPlots returns the number of plots referencing a stage.
func (r *StageRepository) CountPlots(ctx context.Context, stageID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&models.Plot{}).
		Where("stage_id = ?", stageID).
		Count(&count)
	return count, result.Error
}
