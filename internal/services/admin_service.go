// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/contmarket/catalog-backend/internal/config"
	"github.com/contmarket/catalog-backend/internal/models"
	"github.com/contmarket/catalog-backend/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrSetupDone          = errors.New("setup already completed")
)

type AdminService struct {
	db     *gorm.DB
	config *config.Config
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginResponse struct {
	Token string            `json:"token"`
	Admin *models.AdminUser `json:"admin"`
}

type CreateAdminRequest struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,strong_password"`
	Name     string `json:"name" validate:"required,min=1,max=128"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
}

func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{
		db:     db,
		config: cfg,
	}
}

// Login checks credentials and issues a signed token. Failed lookups and
// failed password checks are indistinguishable to the caller.
func (s *AdminService) Login(req *LoginRequest) (*LoginResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, ErrInvalidCredentials
	}

	var admin models.AdminUser
	if err := s.db.Where("username = ?", req.Username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := admin.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateAdminJWT(admin.ID, admin.Username, s.config.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now()
	if err := s.db.Model(&admin).Update("last_login_at", &now).Error; err != nil {
		logrus.WithError(err).WithField("admin_id", admin.ID).Warn("failed to record login time")
	}
	admin.LastLoginAt = &now

	return &LoginResponse{Token: token, Admin: &admin}, nil
}

// SetupCompleted reports whether at least one admin account exists.
func (s *AdminService) SetupCompleted() (bool, error) {
	var count int64
	if err := s.db.Model(&models.AdminUser{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	return count > 0, nil
}

// SetupFirstAdmin creates the very first admin account. Once any admin
// exists, the endpoint is closed for good.
func (s *AdminService) SetupFirstAdmin(req *CreateAdminRequest) (*models.AdminUser, error) {
	done, err := s.SetupCompleted()
	if err != nil {
		return nil, err
	}
	if done {
		return nil, ErrSetupDone
	}
	return s.CreateAdmin(req)
}

// CreateAdmin adds an admin account. All admins have identical rights.
func (s *AdminService) CreateAdmin(req *CreateAdminRequest) (*models.AdminUser, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.AdminUser{}).
		Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	admin := &models.AdminUser{
		Username: req.Username,
		Name:     req.Name,
	}
	if err := admin.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	logrus.WithField("username", admin.Username).Info("admin account created")
	return admin, nil
}

// GetAdmin loads one admin account by id.
func (s *AdminService) GetAdmin(id uuid.UUID) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := s.db.First(&admin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &admin, nil
}

// ChangePassword rotates the caller's own password after re-checking the
// current one.
func (s *AdminService) ChangePassword(id uuid.UUID, req *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	admin, err := s.GetAdmin(id)
	if err != nil {
		return err
	}
	if err := admin.CheckPassword(req.CurrentPassword); err != nil {
		return ErrInvalidCredentials
	}

	if err := admin.SetPassword(req.NewPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.Model(admin).Update("password_hash", admin.PasswordHash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
