package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFound(t *testing.T) {
	err := NotFound("Plot")
	if err.Error() != "Plot not found" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
	if !IsNotFound(err) {
		t.Error("Expected IsNotFound to be true")
	}
	if IsValidation(err) || IsStorage(err) {
		t.Error("Expected other kind checks to be false")
	}
}

func TestValidation_FieldDetails(t *testing.T) {
	err := Validation("invalid plot payload",
		FieldError{Field: "stage_id", Message: "stage_id is required"},
	)
	if !IsValidation(err) {
		t.Error("Expected IsValidation to be true")
	}
	if len(err.Fields) != 1 || err.Fields[0].Field != "stage_id" {
		t.Errorf("Expected one field detail for stage_id, got %+v", err.Fields)
	}
}

func TestStorage_CauseHiddenButUnwrappable(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: plots.id")
	err := Storage(cause)

	if err.Error() == cause.Error() {
		t.Error("Storage error must not expose the backend message")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}
	if !IsStorage(err) {
		t.Error("Expected IsStorage to be true")
	}
}

func TestKindChecks_TraverseWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading plot: %w", NotFound("Plot"))
	if !IsNotFound(wrapped) {
		t.Error("Expected IsNotFound to see through fmt.Errorf wrapping")
	}
}

func TestKindChecks_PlainError(t *testing.T) {
	if IsNotFound(errors.New("nope")) {
		t.Error("Plain errors must not match any kind")
	}
}
