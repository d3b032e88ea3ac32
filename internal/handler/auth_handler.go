package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/paulo1403/ehr-solutions-renewed/internal/middleware"
	"github.com/paulo1403/ehr-solutions-renewed/internal/model"
	"github.com/paulo1403/ehr-solutions-renewed/pkg/database"
	"github.com/paulo1403/ehr-solutions-renewed/pkg/jwtutil"
	"github.com/paulo1403/ehr-solutions-renewed/pkg/logger"
	"github.com/paulo1403/ehr-solutions-renewed/pkg/password"
	"github.com/paulo1403/ehr-solutions-renewed/pkg/validator"
	"github.com/paulo1403/ehr-solutions-renewed/prometheus"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type registerRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	FirstName      string `json:"firstName" validate:"required,min=2"`
	LastName       string `json:"lastName" validate:"required,min=2"`
	Specialization string `json:"specialization" validate:"omitempty"`
	ClinicID       string `json:"clinicId" validate:"required,uuid"`
}

// Login verifies credentials and issues the access/refresh token pair as
// httpOnly cookies. A missing user, an inactive account, and a wrong password
// are all the same 401 to the caller.
func Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Datos inválidos",
		})
	}

	if errs := validator.Validate(&req); errs != nil {
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Datos inválidos",
			"errors":  errs,
		})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	result := database.GetDB().Preload("Clinic").Where("email = ?", req.Email).First(&user)
	if result.Error != nil || !user.IsActive {
		log.Warn("Login rejected", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_credentials")
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"success": false,
			"message": "Credenciales inválidas",
		})
	}

	if !password.Compare(req.Password, user.PasswordHash) {
		log.Warn("Login rejected", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_credentials")
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"success": false,
			"message": "Credenciales inválidas",
		})
	}

	token, err := jwtutil.GenerateAccessToken(user.ID, user.ClinicID, string(user.Role), user.Email)
	if err != nil {
		log.Error("Failed to generate access token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return internalError(c)
	}

	refreshToken, err := jwtutil.GenerateRefreshToken(user.ID, user.ClinicID, string(user.Role), user.Email)
	if err != nil {
		log.Error("Failed to generate refresh token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return internalError(c)
	}

	now := time.Now()
	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Model(&user).Update("last_login", now).Error; err != nil {
		log.Error("Failed to update last login", zap.Error(err))
		return internalError(c)
	}

	prometheus.IncreaseActiveTokens()
	setAuthCookie(c, token)
	setRefreshCookie(c, refreshToken)

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.String("clinic_id", user.ClinicID),
		zap.String("role", string(user.Role)))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login exitoso",
		"data": echo.Map{
			"user":  loginUserResponse(&user),
			"token": token,
		},
	})
}

// Register creates a new account attached to an existing clinic. New accounts
// default to the DOCTOR role.
func Register(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RegisterCounter.Inc()

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Datos inválidos"})
	}

	if errs := validator.Validate(&req); errs != nil {
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Datos inválidos",
			"details": errs,
		})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var existing model.User
	if result := database.GetDB().Where("email = ?", req.Email).First(&existing); result.Error == nil {
		log.Warn("Registration rejected, email taken", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "El usuario ya existe"})
	}

	var clinic model.Clinic
	if result := database.GetDB().First(&clinic, "id = ?", req.ClinicID); result.Error != nil {
		log.Warn("Registration rejected, unknown clinic", zap.String("clinic_id", req.ClinicID))
		prometheus.RecordAuthError("clinic_not_found")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Clínica no encontrada"})
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error interno del servidor"})
	}

	user := model.User{
		Email:        req.Email,
		PasswordHash: hashed,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         model.RoleDoctor,
		ClinicID:     req.ClinicID,
	}
	if req.Specialization != "" {
		user.Specialties = []string{req.Specialization}
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&user); result.Error != nil {
		log.Error("Failed to create user", zap.Error(result.Error))
		prometheus.RecordAuthError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error interno del servidor"})
	}

	token, err := jwtutil.GenerateAccessToken(user.ID, user.ClinicID, string(user.Role), user.Email)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error interno del servidor"})
	}

	prometheus.IncreaseActiveTokens()
	setAuthCookie(c, token)

	log.Info("User registered",
		zap.String("email", user.Email),
		zap.String("clinic_id", user.ClinicID))

	return c.JSON(http.StatusCreated, echo.Map{
		"user":    registerUserResponse(&user, &clinic),
		"message": "Usuario registrado exitosamente",
	})
}

// Logout clears the session cookies. Issued tokens stay valid until expiry;
// logout only removes them from the client.
func Logout(c echo.Context) error {
	log := logger.FromEcho(c)

	clearAuthCookies(c)
	prometheus.DecreaseActiveTokens()

	log.Info("User logged out")
	return c.JSON(http.StatusOK, echo.Map{"message": "Sesión cerrada exitosamente"})
}

// Me returns the current user's profile. The handler verifies the cookie
// itself so it answers 401 even when invoked outside the access gate.
func Me(c echo.Context) error {
	log := logger.FromEcho(c)

	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		cookie, err := c.Cookie(middleware.AuthCookieName)
		if err != nil || cookie.Value == "" {
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No autenticado"})
		}
		claims = jwtutil.VerifyAccessToken(cookie.Value)
		if claims == nil {
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Token inválido"})
		}
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	result := database.GetDB().Preload("Clinic").First(&user, "id = ?", claims.UserID)
	if result.Error != nil {
		log.Warn("Authenticated user no longer exists", zap.String("user_id", claims.UserID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Usuario no encontrado"})
	}

	return c.JSON(http.StatusOK, echo.Map{"user": meResponse(&user)})
}

// Refresh consumes the refresh-token cookie and mints a fresh token pair.
// The account must still exist and be active; everything else is the same
// uniform 401.
func Refresh(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RefreshCounter.Inc()

	cookie, err := c.Cookie(middleware.RefreshCookieName)
	if err != nil || cookie.Value == "" {
		prometheus.RecordAuthError("missing_refresh_token")
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"success": false,
			"message": "No autenticado",
		})
	}

	claims := jwtutil.VerifyRefreshToken(cookie.Value)
	if claims == nil {
		prometheus.RecordAuthError("invalid_refresh_token")
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"success": false,
			"message": "Token inválido",
		})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	result := database.GetDB().First(&user, "id = ?", claims.UserID)
	if result.Error != nil || !user.IsActive {
		prometheus.RecordAuthError("invalid_refresh_token")
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"success": false,
			"message": "Token inválido",
		})
	}

	token, err := jwtutil.GenerateAccessToken(user.ID, user.ClinicID, string(user.Role), user.Email)
	if err != nil {
		log.Error("Failed to generate access token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return internalError(c)
	}

	refreshToken, err := jwtutil.GenerateRefreshToken(user.ID, user.ClinicID, string(user.Role), user.Email)
	if err != nil {
		log.Error("Failed to generate refresh token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return internalError(c)
	}

	prometheus.IncreaseActiveTokens()
	setAuthCookie(c, token)
	setRefreshCookie(c, refreshToken)

	log.Info("Token refreshed", zap.String("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Token renovado",
		"data":    echo.Map{"token": token},
	})
}

func internalError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"success": false,
		"message": "Error interno del servidor",
	})
}

// loginUserResponse shapes the user object returned by Login. The password
// hash never leaves the handler layer.
func loginUserResponse(u *model.User) echo.Map {
	return echo.Map{
		"id":        u.ID,
		"email":     u.Email,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"role":      u.Role,
		"clinic": echo.Map{
			"id":      u.Clinic.ID,
			"name":    u.Clinic.Name,
			"license": u.Clinic.License,
		},
		"isActive":      u.IsActive,
		"emailVerified": u.EmailVerified,
	}
}

func registerUserResponse(u *model.User, clinic *model.Clinic) echo.Map {
	return echo.Map{
		"id":          u.ID,
		"email":       u.Email,
		"firstName":   u.FirstName,
		"lastName":    u.LastName,
		"role":        u.Role,
		"specialties": u.Specialties,
		"clinic": echo.Map{
			"id":   clinic.ID,
			"name": clinic.Name,
		},
	}
}

func meResponse(u *model.User) echo.Map {
	return echo.Map{
		"id":          u.ID,
		"email":       u.Email,
		"firstName":   u.FirstName,
		"lastName":    u.LastName,
		"role":        u.Role,
		"specialties": u.Specialties,
		"clinic": echo.Map{
			"id":   u.Clinic.ID,
			"name": u.Clinic.Name,
		},
	}
}
