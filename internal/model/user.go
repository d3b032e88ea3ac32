package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the fixed set of account roles. SUPER_ADMIN is exempt from tenant
// scoping; every other role is evaluated against its own clinic.
type Role string

const (
	RoleSuperAdmin   Role = "SUPER_ADMIN"
	RoleClinicAdmin  Role = "CLINIC_ADMIN"
	RoleDoctor       Role = "DOCTOR"
	RoleNurse        Role = "NURSE"
	RoleReceptionist Role = "RECEPTIONIST"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleClinicAdmin, RoleDoctor, RoleNurse, RoleReceptionist:
		return true
	}
	return false
}

// User represents an account stored in the database. Every user belongs to
// exactly one clinic.
type User struct {
	ID            string         `json:"id" gorm:"type:uuid;primaryKey"`
	Email         string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash  string         `json:"-" gorm:"type:varchar(255);not null"`
	FirstName     string         `json:"firstName" gorm:"type:varchar(100)"`
	LastName      string         `json:"lastName" gorm:"type:varchar(100)"`
	Role          Role           `json:"role" gorm:"type:varchar(50);not null;default:'DOCTOR'"`
	Specialties   []string       `json:"specialties" gorm:"serializer:json"`
	ClinicID      string         `json:"clinicId" gorm:"type:uuid;index;not null"`
	IsActive      bool           `json:"isActive" gorm:"default:true"`
	EmailVerified bool           `json:"emailVerified" gorm:"default:false"`
	LastLogin     *time.Time     `json:"lastLogin,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Clinic Clinic `json:"clinic,omitempty" gorm:"foreignKey:ClinicID"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
