// Package stages manages stage definitions and position templates.
package stages

import (
	"context"
	"encoding/json"

	"github.com/stageplot/stageplot-go/internal/apperr"
	"github.com/stageplot/stageplot-go/internal/database/models"
	"github.com/stageplot/stageplot-go/internal/database/repositories"
)

// validTemplateTypes are the type tags a template may carry.
var validTemplateTypes = map[string]bool{
	models.TemplateFront:   true,
	models.TemplateSide:    true,
	models.TemplateBack:    true,
	models.TemplateTop:     true,
	models.TemplateCyc:     true,
	models.TemplateSpecial: true,
	models.TemplateCustom:  true,
}

// Service provides stage and template operations.
type Service struct {
	stageRepo    *repositories.StageRepository
	templateRepo *repositories.TemplateRepository
}

// NewService creates a new stages service.
func NewService(stageRepo *repositories.StageRepository, templateRepo *repositories.TemplateRepository) *Service {
	return &Service{
		stageRepo:    stageRepo,
		templateRepo: templateRepo,
	}
}

// ListStages returns all stages.
func (s *Service) ListStages(ctx context.Context) ([]models.Stage, error) {
	stages, err := s.stageRepo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return stages, nil
}

// GetStage returns a stage by ID, nil if absent.
func (s *Service) GetStage(ctx context.Context, id string) (*models.Stage, error) {
	stage, err := s.stageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return stage, nil
}

// CreateStage validates and persists a new stage.
func (s *Service) CreateStage(ctx context.Context, stage *models.Stage) error {
	if err := validateStage(stage); err != nil {
		return err
	}
	if err := s.stageRepo.Create(ctx, stage); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// UpdateStage validates and persists changes to a stage.
func (s *Service) UpdateStage(ctx context.Context, stage *models.Stage) error {
	existing, err := s.stageRepo.FindByID(ctx, stage.ID)
	if err != nil {
		return apperr.Storage(err)
	}
	if existing == nil {
		return apperr.NotFound("Stage")
	}
	if err := validateStage(stage); err != nil {
		return err
	}
	stage.CreatedAt = existing.CreatedAt
	if err := s.stageRepo.Update(ctx, stage); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// DeleteStage deletes a stage. A stage still referenced by plots cannot be
// deleted; the plots would lose their geometry.
func (s *Service) DeleteStage(ctx context.Context, id string) error {
	existing, err := s.stageRepo.FindByID(ctx, id)
	if err != nil {
		return apperr.Storage(err)
	}
	if existing == nil {
		return apperr.NotFound("Stage")
	}
	count, err := s.stageRepo.CountPlots(ctx, id)
	if err != nil {
		return apperr.Storage(err)
	}
	if count > 0 {
		return apperr.Validation("stage is in use",
			apperr.FieldError{Field: "id", Message: "stage is referenced by existing plots"})
	}
	if err := s.stageRepo.Delete(ctx, id); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// ListTemplates returns all templates, optionally filtered by type.
func (s *Service) ListTemplates(ctx context.Context, templateType string) ([]models.StageTemplate, error) {
	var (
		templates []models.StageTemplate
		err       error
	)
	if templateType != "" {
		templates, err = s.templateRepo.FindByType(ctx, templateType)
	} else {
		templates, err = s.templateRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return templates, nil
}

// GetTemplate returns a template by ID, nil if absent.
func (s *Service) GetTemplate(ctx context.Context, id string) (*models.StageTemplate, error) {
	template, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return template, nil
}

// CreateTemplate validates and persists a new template.
func (s *Service) CreateTemplate(ctx context.Context, template *models.StageTemplate) error {
	var fields []apperr.FieldError
	if template.Name == "" {
		fields = append(fields, apperr.FieldError{Field: "name", Message: "name is required"})
	}
	if !validTemplateTypes[template.TemplateType] {
		fields = append(fields, apperr.FieldError{Field: "template_type", Message: "unknown template type"})
	}
	if template.PositionsData != "" && !json.Valid([]byte(template.PositionsData)) {
		fields = append(fields, apperr.FieldError{Field: "positions_data", Message: "positions_data must be valid JSON"})
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid template", fields...)
	}
	if template.PositionsData == "" {
		template.PositionsData = "{}"
	}
	if err := s.templateRepo.Create(ctx, template); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// DeleteTemplate deletes a template by ID.
func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	existing, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		return apperr.Storage(err)
	}
	if existing == nil {
		return apperr.NotFound("Template")
	}
	if err := s.templateRepo.Delete(ctx, id); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func validateStage(stage *models.Stage) error {
	var fields []apperr.FieldError
	if stage.Name == "" {
		fields = append(fields, apperr.FieldError{Field: "name", Message: "name is required"})
	}
	if stage.Width <= 0 || stage.Depth <= 0 {
		fields = append(fields, apperr.FieldError{Field: "width", Message: "width and depth must be positive"})
	}
	if stage.Unit == "" {
		stage.Unit = models.UnitMeters
	}
	if stage.Unit != models.UnitMeters && stage.Unit != models.UnitFeet {
		fields = append(fields, apperr.FieldError{Field: "unit", Message: "unit must be m or ft"})
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid stage", fields...)
	}
	return nil
}
