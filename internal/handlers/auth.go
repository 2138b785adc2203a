// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/contmarket/catalog-backend/internal/i18n"
	"github.com/contmarket/catalog-backend/internal/services"
	"github.com/contmarket/catalog-backend/internal/utils"
)

type AuthHandler struct {
	adminService *services.AdminService
}

func NewAuthHandler(adminService *services.AdminService) *AuthHandler {
	return &AuthHandler{
		adminService: adminService,
	}
}

// POST /admin/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	resp, err := h.adminService.Login(&req)
	if err != nil {
		if err == services.ErrInvalidCredentials {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, resp)
}

// POST /admin/auth/logout
//
// Tokens are stateless, so logout is a client-side discard; the endpoint
// exists so clients have something to call.
func (h *AuthHandler) Logout(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{"message": "logged out"})
}

// GET /admin/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	adminIDStr, exists := utils.GetAdminIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	adminID, err := uuid.Parse(adminIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	admin, err := h.adminService.GetAdmin(adminID)
	if err != nil {
		if err == services.ErrAdminNotFound {
			utils.UnauthorizedResponse(c, "")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, admin)
}

// POST /admin/auth/users
func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	admin, err := h.adminService.CreateAdmin(&req)
	if err != nil {
		if err == services.ErrUsernameTaken {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, admin)
}

// PUT /admin/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminIDStr, exists := utils.GetAdminIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}
	adminID, err := uuid.Parse(adminIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.adminService.ChangePassword(adminID, &req); err != nil {
		if err == services.ErrInvalidCredentials {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "password changed"})
}

// POST /setup/admin
func (h *AuthHandler) SetupAdmin(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	admin, err := h.adminService.SetupFirstAdmin(&req)
	if err != nil {
		if err == services.ErrSetupDone {
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAuthSetupDone))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, admin)
}

// GET /setup/status
func (h *AuthHandler) SetupStatus(c *gin.Context) {
	done, err := h.adminService.SetupCompleted()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"setup_completed": done})
}
