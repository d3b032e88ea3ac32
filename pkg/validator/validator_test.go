package validator

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	ClinicID string `json:"clinicId" validate:"required,uuid"`
}

func TestValidate_Passes(t *testing.T) {
	req := sampleRequest{
		Email:    "doc@x.com",
		Password: "longenough1",
		ClinicID: "6e9dca3f-0b5a-44b2-9a3f-111111111111",
	}
	if errs := Validate(&req); errs != nil {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	req := sampleRequest{
		Email:    "not-an-email",
		Password: "short",
		ClinicID: "not-a-uuid",
	}

	errs := Validate(&req)
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	req := sampleRequest{
		Email:    "doc@x.com",
		Password: "longenough1",
		ClinicID: "",
	}

	errs := Validate(&req)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0], "clinicId") {
		t.Errorf("expected message to use the JSON tag name, got %q", errs[0])
	}
}
