package handler

import (
	"testing"

	"github.com/paulo1403/ehr-solutions-renewed/internal/model"
	"github.com/paulo1403/ehr-solutions-renewed/pkg/validator"
)

func strPtr(s string) *string { return &s }

func TestApplyClinicUpdates_PartialFields(t *testing.T) {
	clinic := model.Clinic{
		Name:    "Clínica Central",
		License: "LIC-12345",
		City:    "Lima",
		Phone:   "0123456789",
	}

	applyClinicUpdates(&clinic, &updateClinicRequest{
		Name: strPtr("Clínica Norte"),
	})

	if clinic.Name != "Clínica Norte" {
		t.Errorf("expected updated name, got %q", clinic.Name)
	}
	if clinic.License != "LIC-12345" {
		t.Errorf("license must be untouched, got %q", clinic.License)
	}
	if clinic.City != "Lima" {
		t.Errorf("city must be untouched, got %q", clinic.City)
	}
}

func TestApplyClinicUpdates_EmptyStringsBecomeNull(t *testing.T) {
	website := "https://old.example.com"
	clinic := model.Clinic{Website: &website}

	applyClinicUpdates(&clinic, &updateClinicRequest{
		Website:        strPtr(""),
		EmergencyPhone: strPtr(""),
	})

	if clinic.Website != nil {
		t.Errorf("expected nil website, got %q", *clinic.Website)
	}
	if clinic.EmergencyPhone != nil {
		t.Errorf("expected nil emergency phone, got %q", *clinic.EmergencyPhone)
	}
}

func TestApplyClinicUpdates_Deactivation(t *testing.T) {
	active := false
	clinic := model.Clinic{IsActive: true}

	applyClinicUpdates(&clinic, &updateClinicRequest{IsActive: &active})

	if clinic.IsActive {
		t.Error("expected clinic to be deactivated")
	}
}

func TestCreateClinicRequestValidation(t *testing.T) {
	valid := createClinicRequest{
		Name:    "Clínica Central",
		License: "LIC-12345",
		Street:  "Av. Arequipa 1234, Miraflores",
		City:    "Lima",
		State:   "Lima",
		ZipCode: "15074",
		Phone:   "0123456789",
		Email:   "contacto@clinica.pe",
	}

	tests := []struct {
		name    string
		mutate  func(*createClinicRequest)
		wantErr bool
	}{
		{"valid", func(r *createClinicRequest) {}, false},
		{"short name", func(r *createClinicRequest) { r.Name = "C" }, true},
		{"short license", func(r *createClinicRequest) { r.License = "L1" }, true},
		{"short street", func(r *createClinicRequest) { r.Street = "Av. 1" }, true},
		{"bad email", func(r *createClinicRequest) { r.Email = "not-an-email" }, true},
		{"bad website", func(r *createClinicRequest) { r.Website = "not a url" }, true},
		{"empty website ok", func(r *createClinicRequest) { r.Website = "" }, false},
		{"short phone", func(r *createClinicRequest) { r.Phone = "12345" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			errs := validator.Validate(&req)
			if tt.wantErr && errs == nil {
				t.Error("expected validation errors, got none")
			}
			if !tt.wantErr && errs != nil {
				t.Errorf("expected no errors, got %v", errs)
			}
		})
	}
}

func TestDefaultHelpers(t *testing.T) {
	if got := defaultString("", "Peru"); got != "Peru" {
		t.Errorf("expected default Peru, got %q", got)
	}
	if got := defaultString("Chile", "Peru"); got != "Chile" {
		t.Errorf("expected Chile, got %q", got)
	}

	if !defaultBool(nil, true) {
		t.Error("expected default true")
	}
	f := false
	if defaultBool(&f, true) {
		t.Error("expected explicit false to win over default")
	}

	if got := defaultInt(nil, 2555); got != 2555 {
		t.Errorf("expected default 2555, got %d", got)
	}

	if nullable("") != nil {
		t.Error("expected nil for empty string")
	}
	if v := nullable("x"); v == nil || *v != "x" {
		t.Error("expected pointer to non-empty string")
	}
}
