package model

import "testing"

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleSuperAdmin, RoleClinicAdmin, RoleDoctor, RoleNurse, RoleReceptionist} {
		if !r.Valid() {
			t.Errorf("expected %s to be a valid role", r)
		}
	}

	for _, r := range []Role{"", "ADMIN", "doctor", "PATIENT"} {
		if r.Valid() {
			t.Errorf("expected %q to be rejected", r)
		}
	}
}

func TestBeforeCreateAssignsIDs(t *testing.T) {
	u := User{}
	if err := u.BeforeCreate(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID == "" {
		t.Error("expected a generated user id")
	}

	u2 := User{ID: "preset"}
	if err := u2.BeforeCreate(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u2.ID != "preset" {
		t.Errorf("expected preset id to survive, got %s", u2.ID)
	}

	c := Clinic{}
	if err := c.BeforeCreate(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID == "" {
		t.Error("expected a generated clinic id")
	}
}
