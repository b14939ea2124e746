// Package catalog manages the fixture catalog: fixture types and the
// category trees that organize them.
package catalog

import (
	"context"

	"github.com/stageplot/stageplot-go/internal/apperr"
	"github.com/stageplot/stageplot-go/internal/database/models"
	"github.com/stageplot/stageplot-go/internal/database/repositories"
)

// maxTreeDepth bounds parent-chain walks so a cycle introduced by direct
// database mutation can never hang a read.
const maxTreeDepth = 100

// Service provides catalog operations.
type Service struct {
	categoryRepo *repositories.CategoryRepository
	fixtureRepo  *repositories.FixtureTypeRepository
}

// NewService creates a new catalog service.
func NewService(categoryRepo *repositories.CategoryRepository, fixtureRepo *repositories.FixtureTypeRepository) *Service {
	return &Service{
		categoryRepo: categoryRepo,
		fixtureRepo:  fixtureRepo,
	}
}

// CreateOrUpdateCategory validates and persists a category. All invariants
// are checked before any write: the parent must share the element type, the
// parent chain must stay acyclic, and (name, parent, element type) must be
// unique.
func (s *Service) CreateOrUpdateCategory(ctx context.Context, category *models.Category) error {
	var fields []apperr.FieldError
	if category.Name == "" {
		fields = append(fields, apperr.FieldError{Field: "name", Message: "name is required"})
	}
	if category.ElementType == "" {
		fields = append(fields, apperr.FieldError{Field: "element_type", Message: "element_type is required"})
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid category", fields...)
	}

	if category.ParentID != nil {
		parent, err := s.categoryRepo.FindByID(ctx, *category.ParentID)
		if err != nil {
			return apperr.Storage(err)
		}
		if parent == nil {
			return apperr.Validation("invalid category",
				apperr.FieldError{Field: "parent_id", Message: "parent category does not exist"})
		}
		if parent.ElementType != category.ElementType {
			return apperr.Validation("invalid category",
				apperr.FieldError{Field: "parent_id", Message: "parent category must be of the same element type"})
		}
		if err := s.checkNoCycle(ctx, category.ID, parent); err != nil {
			return err
		}
	}

	exists, err := s.categoryRepo.ExistsByNameParentType(ctx, category.Name, category.ParentID, category.ElementType, category.ID)
	if err != nil {
		return apperr.Storage(err)
	}
	if exists {
		return apperr.Validation("invalid category",
			apperr.FieldError{Field: "name", Message: "a category with this name already exists under the same parent"})
	}

	if category.ID == "" {
		if err := s.categoryRepo.Create(ctx, category); err != nil {
			return apperr.Storage(err)
		}
		return nil
	}

	existing, err := s.categoryRepo.FindByID(ctx, category.ID)
	if err != nil {
		return apperr.Storage(err)
	}
	if existing == nil {
		return apperr.NotFound("Category")
	}
	category.CreatedAt = existing.CreatedAt
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// checkNoCycle walks the parent chain from the candidate parent up to the
// root and fails if the category being saved appears in it.
func (s *Service) checkNoCycle(ctx context.Context, candidateID string, parent *models.Category) error {
	node := parent
	for depth := 0; node != nil; depth++ {
		if depth >= maxTreeDepth {
			return apperr.Validation("invalid category",
				apperr.FieldError{Field: "parent_id", Message: "category hierarchy too deep"})
		}
		if candidateID != "" && node.ID == candidateID {
			return apperr.Validation("invalid category",
				apperr.FieldError{Field: "parent_id", Message: "circular reference detected in category hierarchy"})
		}
		if node.ParentID == nil {
			return nil
		}
		next, err := s.categoryRepo.FindByID(ctx, *node.ParentID)
		if err != nil {
			return apperr.Storage(err)
		}
		node = next
	}
	return nil
}

// GetCategory returns a category by ID, nil if absent.
func (s *Service) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return category, nil
}

// ListCategories returns all categories across element types.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return categories, nil
}

// Ancestors returns the path from a category to the root, nearest-first,
// never containing the category itself. The walk is bounded, so it stays
// finite even against a cycle smuggled in by direct mutation.
func (s *Service) Ancestors(ctx context.Context, id string) ([]models.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if category == nil {
		return nil, apperr.NotFound("Category")
	}

	var ancestors []models.Category
	seen := map[string]bool{category.ID: true}
	node := category
	for node.ParentID != nil && len(ancestors) < maxTreeDepth {
		parent, err := s.categoryRepo.FindByID(ctx, *node.ParentID)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		if parent == nil || seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		ancestors = append(ancestors, *parent)
		node = parent
	}
	return ancestors, nil
}

// Root returns the topmost ancestor of a category. A parentless category is
// its own root. Bounded like Ancestors, so a corrupted chain cannot hang it.
func (s *Service) Root(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if category == nil {
		return nil, apperr.NotFound("Category")
	}

	seen := map[string]bool{category.ID: true}
	node := category
	for node.ParentID != nil && len(seen) <= maxTreeDepth {
		parent, err := s.categoryRepo.FindByID(ctx, *node.ParentID)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		if parent == nil || seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		node = parent
	}
	return node, nil
}

// Descendants returns all transitive children of a category, deduplicated.
func (s *Service) Descendants(ctx context.Context, id string) ([]models.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if category == nil {
		return nil, apperr.NotFound("Category")
	}

	var descendants []models.Category
	seen := map[string]bool{category.ID: true}
	queue := []string{category.ID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		children, err := s.categoryRepo.FindChildren(ctx, current)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		for _, child := range children {
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			descendants = append(descendants, child)
			queue = append(queue, child.ID)
		}
	}
	return descendants, nil
}

// Siblings returns the categories sharing a parent (or root level and
// element type, for parentless categories), excluding the category itself.
func (s *Service) Siblings(ctx context.Context, id string) ([]models.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if category == nil {
		return nil, apperr.NotFound("Category")
	}

	var candidates []models.Category
	if category.ParentID != nil {
		candidates, err = s.categoryRepo.FindChildren(ctx, *category.ParentID)
	} else {
		candidates, err = s.categoryRepo.FindRoots(ctx, category.ElementType)
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}

	siblings := make([]models.Category, 0, len(candidates))
	for _, c := range candidates {
		if c.ID != category.ID {
			siblings = append(siblings, c)
		}
	}
	return siblings, nil
}

// DeleteCategory deletes a category and its descendants. Fixture types
// pointing at any deleted node keep existing with their reference nulled.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return apperr.Storage(err)
	}
	if category == nil {
		return apperr.NotFound("Category")
	}

	descendants, err := s.Descendants(ctx, id)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(descendants)+1)
	ids = append(ids, id)
	for _, d := range descendants {
		ids = append(ids, d.ID)
	}
	if err := s.categoryRepo.DeleteTree(ctx, ids); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// ListFixtureTypes returns all fixture types.
func (s *Service) ListFixtureTypes(ctx context.Context) ([]models.FixtureType, error) {
	fixtures, err := s.fixtureRepo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return fixtures, nil
}

// GetFixtureType returns a fixture type by ID, nil if absent.
func (s *Service) GetFixtureType(ctx context.Context, id string) (*models.FixtureType, error) {
	fixture, err := s.fixtureRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return fixture, nil
}

// ListFixtureTypesByCategory returns the fixture types in one category.
func (s *Service) ListFixtureTypesByCategory(ctx context.Context, categoryID string) ([]models.FixtureType, error) {
	fixtures, err := s.fixtureRepo.FindByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return fixtures, nil
}

// CreateFixtureType validates and persists a new fixture type.
func (s *Service) CreateFixtureType(ctx context.Context, fixture *models.FixtureType) error {
	if err := s.validateFixtureType(ctx, fixture); err != nil {
		return err
	}
	if err := s.fixtureRepo.Create(ctx, fixture); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// UpdateFixtureType validates and persists changes to a fixture type.
func (s *Service) UpdateFixtureType(ctx context.Context, fixture *models.FixtureType) error {
	existing, err := s.fixtureRepo.FindByID(ctx, fixture.ID)
	if err != nil {
		return apperr.Storage(err)
	}
	if existing == nil {
		return apperr.NotFound("Fixture type")
	}
	if err := s.validateFixtureType(ctx, fixture); err != nil {
		return err
	}
	fixture.CreatedAt = existing.CreatedAt
	if err := s.fixtureRepo.Update(ctx, fixture); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// DeleteFixtureType deletes a fixture type and every placed fixture that
// references it.
func (s *Service) DeleteFixtureType(ctx context.Context, id string) error {
	existing, err := s.fixtureRepo.FindByID(ctx, id)
	if err != nil {
		return apperr.Storage(err)
	}
	if existing == nil {
		return apperr.NotFound("Fixture type")
	}
	if err := s.fixtureRepo.Delete(ctx, id); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (s *Service) validateFixtureType(ctx context.Context, fixture *models.FixtureType) error {
	if fixture.Name == "" {
		return apperr.Validation("invalid fixture type",
			apperr.FieldError{Field: "name", Message: "name is required"})
	}
	if fixture.CategoryID != nil {
		category, err := s.categoryRepo.FindByID(ctx, *fixture.CategoryID)
		if err != nil {
			return apperr.Storage(err)
		}
		if category == nil {
			return apperr.Validation("invalid fixture type",
				apperr.FieldError{Field: "category_id", Message: "category does not exist"})
		}
	}
	return nil
}
