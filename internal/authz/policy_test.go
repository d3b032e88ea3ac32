package authz

import (
	"testing"

	"github.com/paulo1403/ehr-solutions-renewed/internal/model"
)

const (
	clinicA = "6e9dca3f-0b5a-44b2-9a3f-111111111111"
	clinicB = "6e9dca3f-0b5a-44b2-9a3f-222222222222"
)

func TestCanView(t *testing.T) {
	tests := []struct {
		name   string
		role   model.Role
		clinic string
		target string
		want   bool
	}{
		{"super admin any clinic", model.RoleSuperAdmin, clinicA, clinicB, true},
		{"clinic admin own clinic", model.RoleClinicAdmin, clinicA, clinicA, true},
		{"clinic admin other clinic", model.RoleClinicAdmin, clinicA, clinicB, false},
		{"doctor own clinic", model.RoleDoctor, clinicA, clinicA, true},
		{"doctor other clinic", model.RoleDoctor, clinicA, clinicB, false},
		{"nurse own clinic", model.RoleNurse, clinicA, clinicA, true},
		{"receptionist other clinic", model.RoleReceptionist, clinicA, clinicB, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := Caller{Role: tt.role, ClinicID: tt.clinic}
			if got := CanView(caller, tt.target); got != tt.want {
				t.Errorf("CanView() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanModify(t *testing.T) {
	tests := []struct {
		name   string
		role   model.Role
		clinic string
		target string
		want   bool
	}{
		{"super admin any clinic", model.RoleSuperAdmin, clinicA, clinicB, true},
		{"clinic admin own clinic", model.RoleClinicAdmin, clinicA, clinicA, true},
		{"clinic admin other clinic", model.RoleClinicAdmin, clinicA, clinicB, false},
		{"doctor own clinic", model.RoleDoctor, clinicA, clinicA, false},
		{"nurse own clinic", model.RoleNurse, clinicA, clinicA, false},
		{"receptionist own clinic", model.RoleReceptionist, clinicA, clinicA, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := Caller{Role: tt.role, ClinicID: tt.clinic}
			if got := CanModify(caller, tt.target); got != tt.want {
				t.Errorf("CanModify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanDelete(t *testing.T) {
	tests := []struct {
		name   string
		role   model.Role
		clinic string
		target string
		want   bool
	}{
		{"super admin any clinic", model.RoleSuperAdmin, clinicA, clinicB, true},
		{"super admin own clinic", model.RoleSuperAdmin, clinicA, clinicA, true},
		{"clinic admin own clinic", model.RoleClinicAdmin, clinicA, clinicA, false},
		{"doctor own clinic", model.RoleDoctor, clinicA, clinicA, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := Caller{Role: tt.role, ClinicID: tt.clinic}
			if got := CanDelete(caller, tt.target); got != tt.want {
				t.Errorf("CanDelete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanListAll(t *testing.T) {
	roles := []struct {
		role model.Role
		want bool
	}{
		{model.RoleSuperAdmin, true},
		{model.RoleClinicAdmin, false},
		{model.RoleDoctor, false},
		{model.RoleNurse, false},
		{model.RoleReceptionist, false},
	}

	for _, tt := range roles {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := CanListAll(Caller{Role: tt.role, ClinicID: clinicA}); got != tt.want {
				t.Errorf("CanListAll(%s) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}
