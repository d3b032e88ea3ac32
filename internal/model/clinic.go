package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Clinic represents a tenant. A clinic is soft-deactivated by clearing
// IsActive; it is never hard-deleted.
type Clinic struct {
	ID          string `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string `json:"name" gorm:"type:varchar(100);not null"`
	Description string `json:"description" gorm:"type:text"`
	License     string `json:"license" gorm:"type:varchar(100);uniqueIndex;not null"`

	// Address
	Street  string `json:"street" gorm:"type:varchar(255)"`
	City    string `json:"city" gorm:"type:varchar(100)"`
	State   string `json:"state" gorm:"type:varchar(100)"`
	ZipCode string `json:"zipCode" gorm:"type:varchar(20)"`
	Country string `json:"country" gorm:"type:varchar(100);default:'Peru'"`

	// Contact
	Phone          string `json:"phone" gorm:"type:varchar(30)"`
	Email          string `json:"email" gorm:"type:varchar(100)"`
	Website        *string `json:"website,omitempty" gorm:"type:varchar(255)"`
	EmergencyPhone *string `json:"emergencyPhone,omitempty" gorm:"type:varchar(30)"`

	Specialties []string `json:"specialties" gorm:"serializer:json"`

	// Settings
	AllowDataSharing    bool `json:"allowDataSharing" gorm:"default:true"`
	AutoApproveRequests bool `json:"autoApproveRequests" gorm:"default:false"`
	EncryptionEnabled   bool `json:"encryptionEnabled" gorm:"default:true"`
	AuditLogRetention   int  `json:"auditLogRetention" gorm:"default:2555"`

	IsActive  bool           `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (c *Clinic) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
