package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stageplot/stageplot-go/internal/apperr"
	"github.com/stageplot/stageplot-go/internal/database/models"
	"github.com/stageplot/stageplot-go/internal/services/testutil"
)

func newService(t *testing.T) (*Service, *testutil.TestDB, func()) {
	t.Helper()
	testDB, cleanup := testutil.SetupTestDB(t)
	svc := NewService(testDB.CategoryRepo, testDB.FixtureTypeRepo)
	return svc, testDB, cleanup
}

// makeTree creates root -> mid -> leaf, all element type "fixture".
func makeTree(t *testing.T, svc *Service) (root, mid, leaf *models.Category) {
	t.Helper()
	ctx := context.Background()

	root = &models.Category{Name: "Conventional", ElementType: "fixture"}
	if err := svc.CreateOrUpdateCategory(ctx, root); err != nil {
		t.Fatalf("Create root failed: %v", err)
	}
	mid = &models.Category{Name: "Profiles", ElementType: "fixture", ParentID: &root.ID}
	if err := svc.CreateOrUpdateCategory(ctx, mid); err != nil {
		t.Fatalf("Create mid failed: %v", err)
	}
	leaf = &models.Category{Name: "Narrow", ElementType: "fixture", ParentID: &mid.ID}
	if err := svc.CreateOrUpdateCategory(ctx, leaf); err != nil {
		t.Fatalf("Create leaf failed: %v", err)
	}
	return root, mid, leaf
}

func TestCreateCategory_RequiresNameAndType(t *testing.T) {
	svc, _, cleanup := newService(t)
	defer cleanup()

	err := svc.CreateOrUpdateCategory(context.Background(), &models.Category{})
	if !apperr.IsValidation(err) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || len(appErr.Fields) != 2 {
		t.Errorf("Expected field details for name and element_type, got %+v", appErr)
	}
}

func TestCreateCategory_ParentElementTypeMismatch(t *testing.T) {
	svc, _, cleanup := newService(t)
	defer cleanup()
	ctx := context.Background()

	parent := &models.Category{Name: "Pipes", ElementType: "pipe"}
	if err := svc.CreateOrUpdateCategory(ctx, parent); err != nil {
		t.Fatalf("Create parent failed: %v", err)
	}

	child := &models.Category{Name: "Spots", ElementType: "fixture", ParentID: &parent.ID}
	err := svc.CreateOrUpdateCategory(ctx, child)
	if !apperr.IsValidation(err) {
		t.Fatalf("Expected validation error for element type mismatch, got %v", err)
	}
}

func TestCreateCategory_DuplicateNameUnderParent(t *testing.T) {
	svc, _, cleanup := newService(t)
	defer cleanup()
	ctx := context.Background()

	root, _, _ := makeTree(t, svc)

	dup := &models.Category{Name: "Profiles", ElementType: "fixture", ParentID: &root.ID}
	err := svc.CreateOrUpdateCategory(ctx, dup)
	if !apperr.IsValidation(err) {
		t.Fatalf("Expected validation error for duplicate name, got %v", err)
	}

	// Same name under a different parent is allowed
	other := &models.Category{Name: "Profiles", ElementType: "fixture"}
	if err := svc.CreateOrUpdateCategory(ctx, other); err != nil {
		t.Errorf("Expected root-level Profiles to be allowed, got %v", err)
	}
}

func TestReparent_CycleRejected(t *testing.T) {
	svc, _, cleanup := newService(t)
	defer cleanup()
	ctx := context.Background()

	root, _, leaf := makeTree(t, svc)

	// Re-parenting the root under its own grandchild would close a cycle
	root.ParentID = &leaf.ID
	err := svc.CreateOrUpdateCategory(ctx, root)
	if !apperr.IsValidation(err) {
		t.Fatalf("Expected cycle to be rejected, got %v", err)
	}

	// Nothing was written: root is still parentless
	reloaded, err := svc.GetCategory(ctx, root.ID)
	if err != nil {
		t.Fatalf("GetCategory failed: %v", err)
	}
	if reloaded.ParentID != nil {
		t.Error("Expected the rejected re-parent to leave the root untouched")
	}
}

func TestReparent_SelfParentRejected(t *testing.T) {
	svc, _, cleanup := newService(t)
	defer cleanup()
	ctx := context.Background()

	root, _, _ := makeTree(t, svc)
	root.ParentID = &root.ID
	err := svc.CreateOrUpdateCategory(ctx, root)
	if !apperr.IsValidation(err) {
		t.Fatalf("Expected self-parenting to be rejected, got %v", err)
	}
}

func TestAncestors(t *testing.T) {
	svc, _, cleanup := newService(t)
	defer cleanup()
	ctx := context.Background()

	root, mid, leaf := makeTree(t, svc)

	ancestors, err := svc.Ancestors(ctx, leaf.ID)
	if err != nil {
		t.Fatalf("Ancestors failed: %v", err)
	}
	if len(ancestors) != 2 {
		t.Fatalf("Expected 2 ancestors, got %d", len(ancestors))
	}
	// Nearest-first ordering
	if ancestors[0].ID != mid.ID || ancestors[1].ID != root.ID {
		t.Errorf("Expected [mid, root], got [%s, %s]", ancestors[0].Name, ancestors[1].Name)
	}
	// Never contains the category itself
	for _, a := range ancestors {
		if a.ID == leaf.ID {
			t.Error("Ancestors must not contain the category itself")
		}
	}

	rootAncestors, err := svc.Ancestors(ctx, root.ID)
	if err != nil {
		t.Fatalf("Ancestors failed: %v", err)
	}
	if len(rootAncestors) != 0 {
		t.Errorf("Expected no ancestors for root, got %d", len(rootAncestors))
	}
}

func TestAncestors_FiniteOnCorruptedCycle(t *testing.T) {
	svc, testDB, cleanup := newService(t)
	defer cleanup()
	ctx := context.Background()

	root, _, leaf := makeTree(t, svc)

	// Force a cycle behind the service's back, bypassing write validation
	if err := testDB.DB.Model(&models.Category{}).
		Where("id = ?", root.ID).
		Update("parent_id", leaf.ID).Error; err != nil {
		t.Fatalf("Failed to corrupt tree: %v", err)
	}

	ancestors, err := svc.Ancestors(ctx, leaf.ID)
	if err != nil {
		t.Fatalf("Ancestors must not fail on a corrupted cycle: %v", err)
	}
	for _, a := range ancestors {
		if a.ID == leaf.ID {
			t.Error("Ancestors must never contain the category itself")
		}
	}
	if len(ancestors) > maxTreeDepth {
		t.Errorf("Ancestors walk must be bounded, got %d entries", len(ancestors))
	}
}

func TestRoot(t *testing.T) {
	svc, _, cleanup := newService(t)
	defer cleanup()
	ctx := context.Background()

	root, _, leaf := makeTree(t, svc)

	got, err := svc.Root(ctx, leaf.ID)
	if err != nil {
		t.Fatalf("Root failed: %v", err)
	}
	if got.ID != root.ID {
		t.Errorf("Expected root %s, got %s", root.ID, got.ID)
	}

	// A parentless category is its own root
	got, err = svc.Root(ctx, root.ID)
	if err != nil {
		t.Fatalf("Root failed: %v", err)
	}
	if got.ID != root.ID {
		t.Errorf("Expected the root to be its own root, got %s", got.ID)
	}

	if _, err := svc.Root(ctx, "missing"); !apperr.IsNotFound(err) {
		t.Errorf("Expected NotFound for an unknown id, got %v", err)
	}
}

func TestDescendants(t *testing.T) {
	svc, _, cleanup := newService(t)
	defer cleanup()
	ctx := context.Background()

	root, mid, leaf := makeTree(t, svc)

	descendants, err := svc.Descendants(ctx, root.ID)
	if err != nil {
		t.Fatalf("Descendants failed: %v", err)
	}
	if len(descendants) != 2 {
		t.Fatalf("Expected 2 descendants, got %d", len(descendants))
	}
	found := map[string]bool{}
	for _, d := range descendants {
		found[d.ID] = true
	}
	if !found[mid.ID] || !found[leaf.ID] {
		t.Error("Expected mid and leaf among descendants")
	}
}

func TestSiblings(t *testing.T) {
	svc, _, cleanup := newService(t)
	defer cleanup()
	ctx := context.Background()

	root, mid, _ := makeTree(t, svc)

	second := &models.Category{Name: "Fresnels", ElementType: "fixture", ParentID: &root.ID}
	if err := svc.CreateOrUpdateCategory(ctx, second); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	siblings, err := svc.Siblings(ctx, mid.ID)
	if err != nil {
		t.Fatalf("Siblings failed: %v", err)
	}
	if len(siblings) != 1 || siblings[0].ID != second.ID {
		t.Errorf("Expected one sibling (Fresnels), got %d", len(siblings))
	}

	// Root-level siblings share the element type
	otherType := &models.Category{Name: "Booms", ElementType: "pipe"}
	if err := svc.CreateOrUpdateCategory(ctx, otherType); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	rootPeer := &models.Category{Name: "LED", ElementType: "fixture"}
	if err := svc.CreateOrUpdateCategory(ctx, rootPeer); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rootSiblings, err := svc.Siblings(ctx, root.ID)
	if err != nil {
		t.Fatalf("Siblings failed: %v", err)
	}
	if len(rootSiblings) != 1 || rootSiblings[0].ID != rootPeer.ID {
		t.Errorf("Expected only same-type root peers, got %d", len(rootSiblings))
	}
}

func TestDeleteCategory_NullsFixtureTypesAndCascadesChildren(t *testing.T) {
	svc, testDB, cleanup := newService(t)
	defer cleanup()
	ctx := context.Background()

	root, mid, leaf := makeTree(t, svc)

	ft := &models.FixtureType{Name: "S4 19deg", Manufacturer: "ETC", CategoryID: &leaf.ID}
	if err := svc.CreateFixtureType(ctx, ft); err != nil {
		t.Fatalf("CreateFixtureType failed: %v", err)
	}

	if err := svc.DeleteCategory(ctx, root.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}

	for _, id := range []string{root.ID, mid.ID, leaf.ID} {
		got, err := svc.GetCategory(ctx, id)
		if err != nil {
			t.Fatalf("GetCategory failed: %v", err)
		}
		if got != nil {
			t.Errorf("Expected category %s to be deleted", id)
		}
	}

	reloaded, err := svc.GetFixtureType(ctx, ft.ID)
	if err != nil {
		t.Fatalf("GetFixtureType failed: %v", err)
	}
	if reloaded == nil {
		t.Fatal("Fixture type must survive a category delete")
	}
	if reloaded.CategoryID != nil {
		t.Error("Expected fixture type category reference to be nulled")
	}
	_ = testDB
}

func TestDeleteCategory_NotFound(t *testing.T) {
	svc, _, cleanup := newService(t)
	defer cleanup()

	err := svc.DeleteCategory(context.Background(), "missing")
	if !apperr.IsNotFound(err) {
		t.Fatalf("Expected NotFound, got %v", err)
	}
}

func TestFixtureType_CategoryMustExist(t *testing.T) {
	svc, _, cleanup := newService(t)
	defer cleanup()

	missing := "no-such-category"
	err := svc.CreateFixtureType(context.Background(), &models.FixtureType{
		Name:       "Par 64",
		CategoryID: &missing,
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("Expected validation error, got %v", err)
	}
}
