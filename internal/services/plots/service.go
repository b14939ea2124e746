// Package plots implements the plot store: the save/load/delete lifecycle of
// lighting plots and their placed fixtures, scoped to an owning user.
//
// Ownership rule: a plot that exists but belongs to another user reads as
// not found. Callers can never tell the two cases apart.
package plots

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/stageplot/stageplot-go/internal/apperr"
	"github.com/stageplot/stageplot-go/internal/cache"
	"github.com/stageplot/stageplot-go/internal/database/models"
	"github.com/stageplot/stageplot-go/internal/database/repositories"
	"github.com/stageplot/stageplot-go/internal/services/pubsub"
)

// DefaultTitle is used when a new plot is saved without a title.
const DefaultTitle = "Untitled Plot"

// dateLayout is the wire format of the show date.
const dateLayout = "2006-01-02"

// SaveInput is the inbound plot-save payload. Nil pointers mean "field
// absent": on update the existing value is left untouched.
type SaveInput struct {
	PlotID      *string         `json:"plot_id"`
	StageID     *string         `json:"stage_id"`
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	ShowName    *string         `json:"show_name"`
	Venue       *string         `json:"venue"`
	Designer    *string         `json:"designer"`
	Date        *string         `json:"date"` // ISO date, empty string clears
	PlotData    json.RawMessage `json:"plot_data"`
	Fixtures    []FixtureInput  `json:"fixtures"` // nil or empty means "leave fixtures alone"
}

// FixtureInput is one placed-fixture entry in a save payload.
type FixtureInput struct {
	FixtureID string  `json:"fixture_id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Rotation  float64 `json:"rotation"`
	Channel   *int    `json:"channel"`
	Dimmer    *int    `json:"dimmer"`
	Circuit   string  `json:"circuit"`
	Color     string  `json:"color"`
	Purpose   string  `json:"purpose"`
	Notes     string  `json:"notes"`
}

// PlotDetails is the outbound plot-with-fixtures payload.
type PlotDetails struct {
	Plot     PlotInfo        `json:"plot"`
	Fixtures []FixtureRecord `json:"fixtures"`
}

// PlotInfo carries the plot scalar fields.
type PlotInfo struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	StageID     string          `json:"stage_id"`
	ShowName    string          `json:"show_name"`
	Venue       string          `json:"venue"`
	Designer    string          `json:"designer"`
	Date        *string         `json:"date"`
	PlotData    json.RawMessage `json:"plot_data"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FixtureRecord is one placed fixture flattened for the wire.
type FixtureRecord struct {
	ID        string  `json:"id"`
	FixtureID string  `json:"fixture_id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Rotation  float64 `json:"rotation"`
	Channel   *int    `json:"channel"`
	Dimmer    *int    `json:"dimmer"`
	Circuit   string  `json:"circuit"`
	Color     string  `json:"color"`
	Purpose   string  `json:"purpose"`
	Notes     string  `json:"notes"`
}

// Service provides plot store operations.
type Service struct {
	plotRepo    *repositories.PlotRepository
	stageRepo   *repositories.StageRepository
	fixtureRepo *repositories.FixtureTypeRepository
	cache       cache.Cache
	cacheTTL    time.Duration
	events      *pubsub.PubSub
}

// NewService creates a new plot store service.
func NewService(
	plotRepo *repositories.PlotRepository,
	stageRepo *repositories.StageRepository,
	fixtureRepo *repositories.FixtureTypeRepository,
	c cache.Cache,
	cacheTTL time.Duration,
	events *pubsub.PubSub,
) *Service {
	return &Service{
		plotRepo:    plotRepo,
		stageRepo:   stageRepo,
		fixtureRepo: fixtureRepo,
		cache:       c,
		cacheTTL:    cacheTTL,
		events:      events,
	}
}

// ListForUser returns all plots owned by a user, newest-updated-first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.Plot, error) {
	plots, err := s.plotRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return plots, nil
}

// GetByID returns a plot if it exists and is owned by the user.
func (s *Service) GetByID(ctx context.Context, plotID, userID string) (*models.Plot, error) {
	plot, err := s.plotRepo.FindByIDAndUser(ctx, plotID, userID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if plot == nil {
		return nil, apperr.NotFound("Plot")
	}
	return plot, nil
}

// Save creates or updates a plot. A payload carrying a plot id must resolve
// to a plot owned by the user; a payload without one must carry a resolvable
// stage id. Scalar fields merge field-by-field: absent fields keep their
// stored value, and a nil or empty fixture list keeps the stored fixtures.
// Returns the saved plot and whether it was created.
func (s *Service) Save(ctx context.Context, input SaveInput, userID string) (*models.Plot, bool, error) {
	var (
		plot    *models.Plot
		created bool
	)

	if input.PlotID != nil && *input.PlotID != "" {
		existing, err := s.plotRepo.FindByIDAndUser(ctx, *input.PlotID, userID)
		if err != nil {
			return nil, false, apperr.Storage(err)
		}
		if existing == nil {
			// Never silently create under a mismatched id
			return nil, false, apperr.NotFound("Plot")
		}
		plot = existing
	} else {
		if input.StageID == nil || *input.StageID == "" {
			return nil, false, apperr.Validation("invalid plot payload",
				apperr.FieldError{Field: "stage_id", Message: "stage_id is required when creating a plot"})
		}
		stage, err := s.stageRepo.FindByID(ctx, *input.StageID)
		if err != nil {
			return nil, false, apperr.Storage(err)
		}
		if stage == nil {
			return nil, false, apperr.Validation("invalid plot payload",
				apperr.FieldError{Field: "stage_id", Message: "stage does not exist"})
		}
		plot = &models.Plot{
			UserID:   userID,
			StageID:  stage.ID,
			Title:    DefaultTitle,
			PlotData: "{}",
		}
		created = true
	}

	if err := mergeScalars(plot, input); err != nil {
		return nil, false, err
	}

	if created {
		if err := s.plotRepo.Create(ctx, plot); err != nil {
			return nil, false, apperr.Storage(err)
		}
	} else {
		if err := s.plotRepo.Update(ctx, plot); err != nil {
			return nil, false, apperr.Storage(err)
		}
	}

	// An empty fixture list is treated as absent, same as the title and the
	// other scalars. Clearing a plot goes through ReplaceFixtures directly.
	if len(input.Fixtures) > 0 {
		if err := s.ReplaceFixtures(ctx, plot, input.Fixtures); err != nil {
			return nil, false, err
		}
	}

	s.invalidate(ctx, plot.ID, userID)
	s.events.Publish(pubsub.TopicPlotUpdated, userID, pubsub.PlotEvent{Type: "saved", PlotID: plot.ID})
	return plot, created, nil
}

// ReplaceFixtures replaces the plot's full fixture set: every entry must
// reference a resolvable fixture type or nothing is written; the delete-all
// then insert-all runs in one transaction.
func (s *Service) ReplaceFixtures(ctx context.Context, plot *models.Plot, inputs []FixtureInput) error {
	ids := make([]string, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if in.FixtureID != "" && !seen[in.FixtureID] {
			seen[in.FixtureID] = true
			ids = append(ids, in.FixtureID)
		}
	}
	types, err := s.fixtureRepo.FindByIDs(ctx, ids)
	if err != nil {
		return apperr.Storage(err)
	}
	resolved := make(map[string]bool, len(types))
	for _, ft := range types {
		resolved[ft.ID] = true
	}

	var fields []apperr.FieldError
	for i, in := range inputs {
		if in.FixtureID == "" {
			fields = append(fields, apperr.FieldError{
				Field:   fmt.Sprintf("fixtures[%d].fixture_id", i),
				Message: "fixture_id is required",
			})
		} else if !resolved[in.FixtureID] {
			fields = append(fields, apperr.FieldError{
				Field:   fmt.Sprintf("fixtures[%d].fixture_id", i),
				Message: "fixture type does not exist",
			})
		}
	}
	if len(fields) > 0 {
		return apperr.Validation("unresolvable fixture references", fields...)
	}

	fixtures := make([]models.PlacedFixture, len(inputs))
	for i, in := range inputs {
		fixtures[i] = models.PlacedFixture{
			FixtureTypeID: in.FixtureID,
			X:             in.X,
			Y:             in.Y,
			Z:             in.Z,
			Rotation:      in.Rotation,
			Channel:       in.Channel,
			Dimmer:        in.Dimmer,
			Circuit:       in.Circuit,
			Color:         in.Color,
			Purpose:       in.Purpose,
			Notes:         in.Notes,
		}
	}
	if err := s.plotRepo.ReplaceFixtures(ctx, plot.ID, fixtures); err != nil {
		return apperr.Storage(err)
	}

	s.invalidate(ctx, plot.ID, plot.UserID)
	return nil
}

// Delete deletes a plot and its placed fixtures if owned by the user.
// Returns whether a deletion occurred; a repeat delete reports false.
func (s *Service) Delete(ctx context.Context, plotID, userID string) (bool, error) {
	deleted, err := s.plotRepo.DeleteOwned(ctx, plotID, userID)
	if err != nil {
		return false, apperr.Storage(err)
	}
	if deleted {
		s.invalidate(ctx, plotID, userID)
		s.events.Publish(pubsub.TopicPlotDeleted, userID, pubsub.PlotEvent{Type: "deleted", PlotID: plotID})
	}
	return deleted, nil
}

// GetWithFixtures returns the plot scalars plus every placed fixture as a
// flat record. A fixture that fails to format (a dangling type reference
// introduced by direct mutation) is logged and omitted rather than failing
// the whole read. The result is served read-through from the cache.
func (s *Service) GetWithFixtures(ctx context.Context, plotID, userID string) (*PlotDetails, error) {
	key := cache.PlotKey(plotID, userID)
	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Printf("Warning: cache read failed for %s: %v", key, err)
	} else if ok {
		var details PlotDetails
		if err := json.Unmarshal([]byte(raw), &details); err == nil {
			return &details, nil
		}
		log.Printf("Warning: discarding undecodable cache entry %s", key)
	}

	plot, err := s.plotRepo.FindByIDAndUser(ctx, plotID, userID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if plot == nil {
		return nil, apperr.NotFound("Plot")
	}

	placed, err := s.plotRepo.FindFixturesByPlotID(ctx, plot.ID)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	typeIDs := make([]string, 0, len(placed))
	seen := make(map[string]bool, len(placed))
	for _, f := range placed {
		if !seen[f.FixtureTypeID] {
			seen[f.FixtureTypeID] = true
			typeIDs = append(typeIDs, f.FixtureTypeID)
		}
	}
	types, err := s.fixtureRepo.FindByIDs(ctx, typeIDs)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	known := make(map[string]bool, len(types))
	for _, ft := range types {
		known[ft.ID] = true
	}

	details := &PlotDetails{
		Plot:     plotInfo(plot),
		Fixtures: make([]FixtureRecord, 0, len(placed)),
	}
	for _, f := range placed {
		if !known[f.FixtureTypeID] {
			log.Printf("Warning: omitting placed fixture %s of plot %s: fixture type %s not found",
				f.ID, plot.ID, f.FixtureTypeID)
			continue
		}
		details.Fixtures = append(details.Fixtures, FixtureRecord{
			ID:        f.ID,
			FixtureID: f.FixtureTypeID,
			X:         f.X,
			Y:         f.Y,
			Z:         f.Z,
			Rotation:  f.Rotation,
			Channel:   f.Channel,
			Dimmer:    f.Dimmer,
			Circuit:   f.Circuit,
			Color:     f.Color,
			Purpose:   f.Purpose,
			Notes:     f.Notes,
		})
	}

	if raw, err := json.Marshal(details); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
			log.Printf("Warning: cache write failed for %s: %v", key, err)
		}
	}
	return details, nil
}

// invalidate drops the cached read for a plot. Best-effort: failures are
// logged, never propagated.
func (s *Service) invalidate(ctx context.Context, plotID, userID string) {
	key := cache.PlotKey(plotID, userID)
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Printf("Warning: cache invalidation failed for %s: %v", key, err)
	}
}

func plotInfo(plot *models.Plot) PlotInfo {
	info := PlotInfo{
		ID:          plot.ID,
		Title:       plot.Title,
		Description: plot.Description,
		StageID:     plot.StageID,
		ShowName:    plot.ShowName,
		Venue:       plot.Venue,
		Designer:    plot.Designer,
		PlotData:    json.RawMessage(plot.PlotData),
		CreatedAt:   plot.CreatedAt,
		UpdatedAt:   plot.UpdatedAt,
	}
	if len(info.PlotData) == 0 {
		info.PlotData = json.RawMessage("{}")
	}
	if plot.Date != nil {
		d := plot.Date.Format(dateLayout)
		info.Date = &d
	}
	return info
}

// mergeScalars applies the present fields of input onto plot, leaving absent
// fields untouched.
func mergeScalars(plot *models.Plot, input SaveInput) error {
	if input.Title != nil {
		plot.Title = *input.Title
	}
	if input.Description != nil {
		plot.Description = *input.Description
	}
	if input.ShowName != nil {
		plot.ShowName = *input.ShowName
	}
	if input.Venue != nil {
		plot.Venue = *input.Venue
	}
	if input.Designer != nil {
		plot.Designer = *input.Designer
	}
	if input.Date != nil {
		if *input.Date == "" {
			plot.Date = nil
		} else {
			parsed, err := time.Parse(dateLayout, *input.Date)
			if err != nil {
				return apperr.Validation("invalid plot payload",
					apperr.FieldError{Field: "date", Message: "date must be in YYYY-MM-DD form"})
			}
			plot.Date = &parsed
		}
	}
	if input.PlotData != nil {
		if !json.Valid(input.PlotData) {
			return apperr.Validation("invalid plot payload",
				apperr.FieldError{Field: "plot_data", Message: "plot_data must be valid JSON"})
		}
		plot.PlotData = string(input.PlotData)
	}
	return nil
}
