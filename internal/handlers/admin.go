// internal/handlers/admin.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/contmarket/catalog-backend/internal/i18n"
	"github.com/contmarket/catalog-backend/internal/importer"
	"github.com/contmarket/catalog-backend/internal/services"
	"github.com/contmarket/catalog-backend/internal/utils"
)

type AdminHandler struct {
	catalogService *services.CatalogService
	importService  *services.ImportService
}

func NewAdminHandler(catalogService *services.CatalogService, importService *services.ImportService) *AdminHandler {
	return &AdminHandler{
		catalogService: catalogService,
		importService:  importService,
	}
}

// GET /admin/containers
func (h *AdminHandler) GetContainers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	containers, total, err := h.catalogService.ListAll(params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	result := utils.CreatePaginationResult(containers, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/containers/:id
func (h *AdminHandler) UpdateContainer(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid container ID", nil)
		return
	}

	var req services.UpdateContainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	container, err := h.catalogService.UpdateContainer(id, &req)
	if err != nil {
		if err == services.ErrContainerNotFound {
			utils.NotFoundResponse(c, "container")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, container)
}

// DELETE /admin/containers/:id
func (h *AdminHandler) DeleteContainer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid container ID", nil)
		return
	}

	if err := h.catalogService.DeleteContainer(id); err != nil {
		if err == services.ErrContainerNotFound {
			utils.NotFoundResponse(c, "container")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// DELETE /admin/containers
func (h *AdminHandler) DeleteAllContainers(c *gin.Context) {
	if err := h.catalogService.DeleteAllContainers(); err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// PUT /admin/photos/:id/order
func (h *AdminHandler) UpdatePhotoOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid photo ID", nil)
		return
	}

	var req struct {
		DisplayOrder int `json:"display_order" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.catalogService.UpdatePhotoOrder(id, req.DisplayOrder); err != nil {
		if err == services.ErrPhotoNotFound {
			utils.NotFoundResponse(c, "photo")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"updated": true})
}

// PUT /admin/containers/:id/photos/main
func (h *AdminHandler) SetMainPhoto(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	containerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid container ID", nil)
		return
	}

	var req struct {
		PhotoID uuid.UUID `json:"photo_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.catalogService.SetMainPhoto(containerID, req.PhotoID); err != nil {
		if err == services.ErrPhotoNotFound {
			utils.NotFoundResponse(c, "photo")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"updated": true})
}

// PUT /admin/containers/:id/photos/reorder
func (h *AdminHandler) ReorderPhotos(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	containerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid container ID", nil)
		return
	}

	var req struct {
		PhotoIDs []uuid.UUID `json:"photo_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.catalogService.ReorderPhotos(containerID, req.PhotoIDs); err != nil {
		if err == services.ErrPhotoNotFound {
			utils.NotFoundResponse(c, "photo")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"updated": true})
}

// DELETE /admin/photos/:id
func (h *AdminHandler) DeletePhoto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid photo ID", nil)
		return
	}

	if err := h.catalogService.DeletePhoto(id); err != nil {
		if err == services.ErrPhotoNotFound {
			utils.NotFoundResponse(c, "photo")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// POST /admin/import
func (h *AdminHandler) Import(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req struct {
		FileContent string `json:"file_content" binding:"required"`
		Filename    string `json:"filename" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	var adminID *uuid.UUID
	if idStr, ok := utils.GetAdminIDFromContext(c); ok {
		if id, err := uuid.Parse(idStr); err == nil {
			adminID = &id
		}
	}

	result, err := h.importService.Import(c.Request.Context(), req.FileContent, req.Filename, adminID)
	if err != nil {
		switch err {
		case services.ErrImportInProgress:
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyImportInProgress))
		case services.ErrEmptyImport:
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyImportEmptyFile), nil)
		case importer.ErrNoIDColumn:
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyImportNoIDColumn), nil)
		case importer.ErrNoDataRows:
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyImportEmptyFile), nil)
		default:
			utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyImportFailed))
		}
		return
	}

	utils.SuccessResponse(c, result)
}

// GET /admin/import/history
func (h *AdminHandler) ImportHistory(c *gin.Context) {
	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}

	records, err := h.importService.History(limit)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"imports": records})
}
