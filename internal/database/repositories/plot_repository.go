package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/stageplot/stageplot-go/internal/database/models"
)

// PlotRepository handles plot and placed-fixture data access. Every read and
// write on plots is scoped by the owning user.
type PlotRepository struct {
	db *gorm.DB
}

// NewPlotRepository creates a new PlotRepository.
func NewPlotRepository(db *gorm.DB) *PlotRepository {
	return &PlotRepository{db: db}
}

// FindByUserID returns all plots owned by a user, newest-updated-first.
func (r *PlotRepository) FindByUserID(ctx context.Context, userID string) ([]models.Plot, error) {
	var plots []models.Plot
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&plots)
	return plots, result.Error
}

// FindByIDAndUser returns a plot only if it exists and is owned by the user.
func (r *PlotRepository) FindByIDAndUser(ctx context.Context, id, userID string) (*models.Plot, error) {
	var plot models.Plot
	result := r.db.WithContext(ctx).First(&plot, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &plot, nil
}

// Create creates a new plot.
func (r *PlotRepository) Create(ctx context.Context, plot *models.Plot) error {
	if plot.ID == "" {
		plot.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(plot).Error
}

// Update updates an existing plot.
func (r *PlotRepository) Update(ctx context.Context, plot *models.Plot) error {
	return r.db.WithContext(ctx).Save(plot).Error
}

// DeleteOwned deletes a plot and its placed fixtures in a transaction, only
// if the plot is owned by the user. Returns whether a plot was deleted.
func (r *PlotRepository) DeleteOwned(ctx context.Context, id, userID string) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PlacedFixture{},
			"plot_id IN (SELECT id FROM plots WHERE id = ? AND user_id = ?)", id, userID).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Plot{}, "id = ? AND user_id = ?", id, userID)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// FindFixturesByPlotID returns the placed fixtures of a plot ordered by
// channel, with id as the stable tie-break (SQLite sorts NULL channels first).
func (r *PlotRepository) FindFixturesByPlotID(ctx context.Context, plotID string) ([]models.PlacedFixture, error) {
	var fixtures []models.PlacedFixture
	result := r.db.WithContext(ctx).
		Where("plot_id = ?", plotID).
		Order("channel ASC, id ASC").
		Find(&fixtures)
	return fixtures, result.Error
}

// ReplaceFixtures replaces the full fixture set of a plot: delete all then
// insert all, atomically. A failure mid-sequence leaves the previous set
// intact.
func (r *PlotRepository) ReplaceFixtures(ctx context.Context, plotID string, fixtures []models.PlacedFixture) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PlacedFixture{}, "plot_id = ?", plotID).Error; err != nil {
			return err
		}
		if len(fixtures) == 0 {
			return nil
		}
		for i := range fixtures {
			if fixtures[i].ID == "" {
				fixtures[i].ID = cuid.New()
			}
			fixtures[i].PlotID = plotID
		}
		return tx.Create(&fixtures).Error
	})
}

// CountFixtures returns the number of placed fixtures in a plot.
func (r *PlotRepository) CountFixtures(ctx context.Context, plotID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&models.PlacedFixture{}).
		Where("plot_id = ?", plotID).
		Count(&count)
	return count, result.Error
}
