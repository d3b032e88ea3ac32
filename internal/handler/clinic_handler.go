package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/paulo1403/ehr-solutions-renewed/internal/authz"
	"github.com/paulo1403/ehr-solutions-renewed/internal/middleware"
	"github.com/paulo1403/ehr-solutions-renewed/internal/model"
	"github.com/paulo1403/ehr-solutions-renewed/pkg/database"
	"github.com/paulo1403/ehr-solutions-renewed/pkg/logger"
	"github.com/paulo1403/ehr-solutions-renewed/pkg/validator"
	"github.com/paulo1403/ehr-solutions-renewed/prometheus"
)

type createClinicRequest struct {
	Name                string   `json:"name" validate:"required,min=2"`
	Description         string   `json:"description"`
	License             string   `json:"license" validate:"required,min=5"`
	Street              string   `json:"street" validate:"required,min=10"`
	City                string   `json:"city" validate:"required,min=2"`
	State               string   `json:"state" validate:"required,min=2"`
	ZipCode             string   `json:"zipCode" validate:"required,min=5"`
	Country             string   `json:"country"`
	Phone               string   `json:"phone" validate:"required,min=10"`
	Email               string   `json:"email" validate:"required,email"`
	Website             string   `json:"website" validate:"omitempty,url"`
	EmergencyPhone      string   `json:"emergencyPhone"`
	Specialties         []string `json:"specialties"`
	AllowDataSharing    *bool    `json:"allowDataSharing"`
	AutoApproveRequests *bool    `json:"autoApproveRequests"`
	EncryptionEnabled   *bool    `json:"encryptionEnabled"`
	AuditLogRetention   *int     `json:"auditLogRetention"`
}

type updateClinicRequest struct {
	Name                *string  `json:"name" validate:"omitempty,min=2"`
	Description         *string  `json:"description"`
	License             *string  `json:"license" validate:"omitempty,min=5"`
	Street              *string  `json:"street" validate:"omitempty,min=10"`
	City                *string  `json:"city" validate:"omitempty,min=2"`
	State               *string  `json:"state" validate:"omitempty,min=2"`
	ZipCode             *string  `json:"zipCode" validate:"omitempty,min=5"`
	Country             *string  `json:"country"`
	Phone               *string  `json:"phone" validate:"omitempty,min=10"`
	Email               *string  `json:"email" validate:"omitempty,email"`
	Website             *string  `json:"website" validate:"omitempty,url"`
	EmergencyPhone      *string  `json:"emergencyPhone"`
	Specialties         []string `json:"specialties"`
	AllowDataSharing    *bool    `json:"allowDataSharing"`
	AutoApproveRequests *bool    `json:"autoApproveRequests"`
	EncryptionEnabled   *bool    `json:"encryptionEnabled"`
	AuditLogRetention   *int     `json:"auditLogRetention"`
	IsActive            *bool    `json:"isActive"`
}

// clinicRow carries a clinic plus its member count for list/detail responses.
type clinicRow struct {
	model.Clinic
	UserCount int64 `json:"userCount" gorm:"column:user_count"`
}

// currentCaller loads the fresh account behind the request's claims. Token
// claims alone are not trusted for authorization: role and active status are
// re-read so a deactivated account with a still-valid token is cut off.
func currentCaller(c echo.Context) (*model.User, bool) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return nil, false
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	result := database.GetDB().Select("id", "role", "is_active", "clinic_id").First(&user, "id = ?", claims.UserID)
	if result.Error != nil {
		return nil, false
	}
	return &user, true
}

// ListClinics returns every clinic. SUPER_ADMIN only.
func ListClinics(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordClinicOperation("list")

	user, ok := currentCaller(c)
	if !ok {
		prometheus.RecordAuthError("unauthenticated")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "No autorizado"})
	}

	caller := authz.Caller{Role: user.Role, ClinicID: user.ClinicID}
	if !user.IsActive || !authz.CanListAll(caller) {
		prometheus.RecordAuthError("forbidden")
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Permisos insuficientes"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var clinics []clinicRow
	result := database.GetDB().Model(&model.Clinic{}).
		Select("clinics.*, count(users.id) AS user_count").
		Joins("LEFT JOIN users ON users.clinic_id = clinics.id AND users.deleted_at IS NULL").
		Group("clinics.id").
		Order("clinics.created_at DESC").
		Find(&clinics)
	if result.Error != nil {
		log.Error("Failed to list clinics", zap.Error(result.Error))
		return internalError(c)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    clinics,
	})
}

// CreateClinic registers a new clinic. SUPER_ADMIN only; the license must be
// globally unique.
func CreateClinic(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordClinicOperation("create")

	user, ok := currentCaller(c)
	if !ok {
		prometheus.RecordAuthError("unauthenticated")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "No autorizado"})
	}

	caller := authz.Caller{Role: user.Role, ClinicID: user.ClinicID}
	if !user.IsActive || !authz.CanListAll(caller) {
		prometheus.RecordAuthError("forbidden")
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Permisos insuficientes"})
	}

	var req createClinicRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse clinic creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Datos inválidos"})
	}

	if errs := validator.Validate(&req); errs != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Datos inválidos",
			"errors":  errs,
		})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var existing model.Clinic
	if result := database.GetDB().Where("license = ?", req.License).First(&existing); result.Error == nil {
		log.Warn("Clinic creation rejected, duplicate license", zap.String("license", req.License))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Ya existe una clínica con esta licencia",
		})
	}

	clinic := model.Clinic{
		Name:                req.Name,
		Description:         req.Description,
		License:             req.License,
		Street:              req.Street,
		City:                req.City,
		State:               req.State,
		ZipCode:             req.ZipCode,
		Country:             defaultString(req.Country, "Peru"),
		Phone:               req.Phone,
		Email:               req.Email,
		Website:             nullable(req.Website),
		EmergencyPhone:      nullable(req.EmergencyPhone),
		Specialties:         req.Specialties,
		AllowDataSharing:    defaultBool(req.AllowDataSharing, true),
		AutoApproveRequests: defaultBool(req.AutoApproveRequests, false),
		EncryptionEnabled:   defaultBool(req.EncryptionEnabled, true),
		AuditLogRetention:   defaultInt(req.AuditLogRetention, 2555),
		IsActive:            true,
	}
	if clinic.Specialties == nil {
		clinic.Specialties = []string{}
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&clinic); result.Error != nil {
		log.Error("Failed to create clinic", zap.Error(result.Error))
		return internalError(c)
	}

	log.Info("Clinic created",
		zap.String("id", clinic.ID),
		zap.String("name", clinic.Name),
		zap.String("license", clinic.License))

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Clínica creada exitosamente",
		"data":    clinic,
	})
}

// GetClinic returns one clinic. SUPER_ADMIN may read any clinic; everyone
// else only their own. The permission check runs before the existence check,
// so callers without the view right cannot probe which clinic ids exist.
func GetClinic(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordClinicOperation("get")

	user, ok := currentCaller(c)
	if !ok {
		prometheus.RecordAuthError("unauthenticated")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "No autorizado"})
	}
	if !user.IsActive {
		prometheus.RecordAuthError("inactive_account")
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Usuario no autorizado"})
	}

	targetID := c.Param("id")
	caller := authz.Caller{Role: user.Role, ClinicID: user.ClinicID}
	if !authz.CanView(caller, targetID) {
		prometheus.RecordAuthError("forbidden")
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Permisos insuficientes"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var clinic clinicRow
	result := database.GetDB().Model(&model.Clinic{}).
		Select("clinics.*, count(users.id) AS user_count").
		Joins("LEFT JOIN users ON users.clinic_id = clinics.id AND users.deleted_at IS NULL").
		Where("clinics.id = ?", targetID).
		Group("clinics.id").
		First(&clinic)
	if result.Error != nil {
		log.Warn("Clinic not found", zap.String("id", targetID))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Clínica no encontrada"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    clinic,
	})
}

// UpdateClinic applies a partial update. SUPER_ADMIN may update any clinic, a
// CLINIC_ADMIN only its own. A changed license is re-checked for uniqueness.
func UpdateClinic(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordClinicOperation("update")

	user, ok := currentCaller(c)
	if !ok {
		prometheus.RecordAuthError("unauthenticated")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "No autorizado"})
	}
	if !user.IsActive {
		prometheus.RecordAuthError("inactive_account")
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Usuario no autorizado"})
	}

	targetID := c.Param("id")
	caller := authz.Caller{Role: user.Role, ClinicID: user.ClinicID}
	if !authz.CanModify(caller, targetID) {
		prometheus.RecordAuthError("forbidden")
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Permisos insuficientes"})
	}

	var req updateClinicRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse clinic update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Datos inválidos"})
	}

	if errs := validator.Validate(&req); errs != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Datos inválidos",
			"errors":  errs,
		})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var clinic model.Clinic
	if result := database.GetDB().First(&clinic, "id = ?", targetID); result.Error != nil {
		log.Warn("Clinic not found", zap.String("id", targetID))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Clínica no encontrada"})
	}

	if req.License != nil && *req.License != clinic.License {
		var other model.Clinic
		if result := database.GetDB().Where("license = ?", *req.License).First(&other); result.Error == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": "Ya existe una clínica con esta licencia",
			})
		}
	}

	applyClinicUpdates(&clinic, &req)
	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&clinic); result.Error != nil {
		log.Error("Failed to update clinic", zap.Error(result.Error))
		return internalError(c)
	}

	log.Info("Clinic updated", zap.String("id", clinic.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Clínica actualizada exitosamente",
		"data":    clinic,
	})
}

// DeleteClinic soft-deactivates a clinic. SUPER_ADMIN only. Deactivating an
// already-inactive clinic succeeds again: the operation is idempotent.
func DeleteClinic(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordClinicOperation("delete")

	user, ok := currentCaller(c)
	if !ok {
		prometheus.RecordAuthError("unauthenticated")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "No autorizado"})
	}

	targetID := c.Param("id")
	caller := authz.Caller{Role: user.Role, ClinicID: user.ClinicID}
	if !user.IsActive || !authz.CanDelete(caller, targetID) {
		prometheus.RecordAuthError("forbidden")
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Permisos insuficientes"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var clinic model.Clinic
	result := database.GetDB().Select("id", "name", "is_active").First(&clinic, "id = ?", targetID)
	if result.Error != nil {
		log.Warn("Clinic not found", zap.String("id", targetID))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Clínica no encontrada"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Model(&clinic).Update("is_active", false).Error; err != nil {
		log.Error("Failed to deactivate clinic", zap.Error(err))
		return internalError(c)
	}

	log.Info("Clinic deactivated", zap.String("id", clinic.ID), zap.String("name", clinic.Name))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": fmt.Sprintf("Clínica %s desactivada exitosamente", clinic.Name),
	})
}

// applyClinicUpdates copies the provided fields of a partial update onto the
// clinic. Empty-string website and emergency phone normalize to NULL.
func applyClinicUpdates(clinic *model.Clinic, req *updateClinicRequest) {
	if req.Name != nil {
		clinic.Name = *req.Name
	}
	if req.Description != nil {
		clinic.Description = *req.Description
	}
	if req.License != nil {
		clinic.License = *req.License
	}
	if req.Street != nil {
		clinic.Street = *req.Street
	}
	if req.City != nil {
		clinic.City = *req.City
	}
	if req.State != nil {
		clinic.State = *req.State
	}
	if req.ZipCode != nil {
		clinic.ZipCode = *req.ZipCode
	}
	if req.Country != nil {
		clinic.Country = *req.Country
	}
	if req.Phone != nil {
		clinic.Phone = *req.Phone
	}
	if req.Email != nil {
		clinic.Email = *req.Email
	}
	if req.Website != nil {
		clinic.Website = nullable(*req.Website)
	}
	if req.EmergencyPhone != nil {
		clinic.EmergencyPhone = nullable(*req.EmergencyPhone)
	}
	if req.Specialties != nil {
		clinic.Specialties = req.Specialties
	}
	if req.AllowDataSharing != nil {
		clinic.AllowDataSharing = *req.AllowDataSharing
	}
	if req.AutoApproveRequests != nil {
		clinic.AutoApproveRequests = *req.AutoApproveRequests
	}
	if req.EncryptionEnabled != nil {
		clinic.EncryptionEnabled = *req.EncryptionEnabled
	}
	if req.AuditLogRetention != nil {
		clinic.AuditLogRetention = *req.AuditLogRetention
	}
	if req.IsActive != nil {
		clinic.IsActive = *req.IsActive
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func defaultBool(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func defaultInt(i *int, def int) int {
	if i == nil {
		return def
	}
	return *i
}
