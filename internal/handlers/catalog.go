// internal/handlers/catalog.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contmarket/catalog-backend/internal/models"
	"github.com/contmarket/catalog-backend/internal/services"
	"github.com/contmarket/catalog-backend/internal/utils"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// GET /containers
func (h *CatalogHandler) GetContainers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.ContainerSearchParams{
		PaginationParams: params,
	}

	if size := c.Query("size"); size != "" {
		searchParams.Size = size
	}

	if condition := c.Query("condition"); condition != "" {
		cond := models.Condition(condition)
		if cond == models.ConditionNew || cond == models.ConditionUsed {
			searchParams.Condition = &cond
		}
	}

	if priceFromStr := c.Query("price_from"); priceFromStr != "" {
		if priceFrom, err := decimal.NewFromString(priceFromStr); err == nil {
			searchParams.PriceFrom = &priceFrom
		}
	}

	if priceToStr := c.Query("price_to"); priceToStr != "" {
		if priceTo, err := decimal.NewFromString(priceToStr); err == nil {
			searchParams.PriceTo = &priceTo
		}
	}

	containers, total, err := h.catalogService.ListActive(searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	result := utils.CreatePaginationResult(containers, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /containers/:id
func (h *CatalogHandler) GetContainer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid container ID", nil)
		return
	}

	container, err := h.catalogService.GetContainer(id, false)
	if err != nil {
		if err == services.ErrContainerNotFound {
			utils.NotFoundResponse(c, "container")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, container)
}

// GET /containers/sizes
func (h *CatalogHandler) GetSizes(c *gin.Context) {
	sizes, err := h.catalogService.Sizes()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"sizes": sizes})
}
