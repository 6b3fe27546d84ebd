package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/productivity-service/internal/application"
	"github.com/wms-platform/productivity-service/pkg/api"
	"github.com/wms-platform/productivity-service/pkg/errors"
	"github.com/wms-platform/productivity-service/pkg/logging"
	"github.com/wms-platform/productivity-service/pkg/middleware"
)

// CatalogHandlers contains handlers for catalog operations
type CatalogHandlers struct {
	service *application.CatalogService
	logger  *logging.Logger
}

// NewCatalogHandlers creates a new CatalogHandlers
func NewCatalogHandlers(service *application.CatalogService, logger *logging.Logger) *CatalogHandlers {
	return &CatalogHandlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers catalog routes on the router
func (h *CatalogHandlers) RegisterRoutes(router *gin.RouterGroup) {
	workers := router.Group("/workers")
	{
		workers.POST("", h.CreateWorker)
		workers.GET("", h.ListWorkers)
		workers.GET("/:workerId", h.GetWorker)
		workers.PUT("/:workerId/rate", h.SetWorkerRate)
		workers.POST("/:workerId/deactivate", h.DeactivateWorker)
	}
	zones := router.Group("/zones")
	{
		zones.POST("", h.CreateZone)
		zones.GET("", h.ListZones)
		zones.GET("/:zoneId", h.GetZone)
	}
	locations := router.Group("/locations")
	{
		locations.POST("", h.CreateLocation)
		locations.GET("", h.ListLocations)
		locations.GET("/:locationId", h.GetLocation)
		locations.POST("/:locationId/deactivate", h.DeactivateLocation)
	}
	items := router.Group("/items")
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListItems)
		items.GET("/:itemId", h.GetItem)
		items.POST("/:itemId/deactivate", h.DeactivateItem)
	}
	orders := router.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:orderId", h.GetOrder)
		orders.PUT("/:orderId/status", h.AdvanceOrderStatus)
	}
}

// CreateWorker handles worker creation
func (h *CatalogHandlers) CreateWorker(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req struct {
		Name         string    `json:"name" binding:"required"`
		EmployeeCode string    `json:"employeeCode" binding:"required"`
		Shift        string    `json:"shift" binding:"required"`
		HourlyRate   *float64  `json:"hourlyRate"`
		HireDate     time.Time `json:"hireDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"worker.employee_code": req.EmployeeCode,
	})

	cmd := application.CreateWorkerCommand{
		Name:         req.Name,
		EmployeeCode: req.EmployeeCode,
		Shift:        req.Shift,
		HourlyRate:   req.HourlyRate,
		HireDate:     req.HireDate,
	}

	worker, err := h.service.CreateWorker(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusCreated, worker)
}

// GetWorker handles getting a worker by ID
func (h *CatalogHandlers) GetWorker(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	workerID := c.Param("workerId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"worker.id": workerID,
	})

	worker, err := h.service.GetWorker(c.Request.Context(), workerID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, worker)
}

// ListWorkers handles listing workers one page at a time
func (h *CatalogHandlers) ListWorkers(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	query := application.ListQuery{Pagination: api.ParsePagination(c)}

	page, err := h.service.ListWorkers(c.Request.Context(), query)
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// SetWorkerRate handles updating a worker's hourly rate
func (h *CatalogHandlers) SetWorkerRate(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	workerID := c.Param("workerId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"worker.id": workerID,
	})

	var req struct {
		HourlyRate float64 `json:"hourlyRate" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := application.SetWorkerRateCommand{
		WorkerID:   workerID,
		HourlyRate: req.HourlyRate,
	}

	worker, err := h.service.SetWorkerRate(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, worker)
}

// DeactivateWorker handles marking a worker inactive
func (h *CatalogHandlers) DeactivateWorker(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	workerID := c.Param("workerId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"worker.id": workerID,
	})

	cmd := application.DeactivateWorkerCommand{WorkerID: workerID}

	worker, err := h.service.DeactivateWorker(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, worker)
}

// CreateZone handles zone creation
func (h *CatalogHandlers) CreateZone(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req struct {
		Code string `json:"code" binding:"required"`
		Name string `json:"name" binding:"required"`
		Type string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"zone.code": req.Code,
	})

	cmd := application.CreateZoneCommand{
		Code: req.Code,
		Name: req.Name,
		Type: req.Type,
	}

	zone, err := h.service.CreateZone(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusCreated, zone)
}

// GetZone handles getting a zone by ID
func (h *CatalogHandlers) GetZone(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	zoneID := c.Param("zoneId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"zone.id": zoneID,
	})

	zone, err := h.service.GetZone(c.Request.Context(), zoneID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, zone)
}

// ListZones handles listing zones one page at a time
func (h *CatalogHandlers) ListZones(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	query := application.ListQuery{Pagination: api.ParsePagination(c)}

	page, err := h.service.ListZones(c.Request.Context(), query)
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// CreateLocation handles bin location creation
func (h *CatalogHandlers) CreateLocation(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req struct {
		Code   string `json:"code" binding:"required"`
		ZoneID string `json:"zoneId" binding:"required"`
		Aisle  string `json:"aisle" binding:"required"`
		Bay    int    `json:"bay" binding:"min=0"`
		Level  int    `json:"level" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"location.code": req.Code,
		"zone.id":       req.ZoneID,
	})

	cmd := application.CreateLocationCommand{
		Code:   req.Code,
		ZoneID: req.ZoneID,
		Aisle:  req.Aisle,
		Bay:    req.Bay,
		Level:  req.Level,
	}

	location, err := h.service.CreateLocation(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusCreated, location)
}

// GetLocation handles getting a bin location by ID
func (h *CatalogHandlers) GetLocation(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	locationID := c.Param("locationId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"location.id": locationID,
	})

	location, err := h.service.GetLocation(c.Request.Context(), locationID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, location)
}

// ListLocations handles listing bin locations one page at a time
func (h *CatalogHandlers) ListLocations(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	query := application.ListQuery{Pagination: api.ParsePagination(c)}

	page, err := h.service.ListLocations(c.Request.Context(), query)
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// DeactivateLocation handles marking a bin location inactive
func (h *CatalogHandlers) DeactivateLocation(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	locationID := c.Param("locationId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"location.id": locationID,
	})

	cmd := application.DeactivateLocationCommand{LocationID: locationID}

	location, err := h.service.DeactivateLocation(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, location)
}

// CreateItem handles item creation
func (h *CatalogHandlers) CreateItem(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req struct {
		SKU         string  `json:"sku" binding:"required"`
		Description string  `json:"description" binding:"required"`
		Category    string  `json:"category"`
		WeightKg    float64 `json:"weightKg" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"item.sku": req.SKU,
	})

	cmd := application.CreateItemCommand{
		SKU:         req.SKU,
		Description: req.Description,
		Category:    req.Category,
		WeightKg:    req.WeightKg,
	}

	item, err := h.service.CreateItem(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusCreated, item)
}

// GetItem handles getting an item by ID
func (h *CatalogHandlers) GetItem(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	itemID := c.Param("itemId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"item.id": itemID,
	})

	item, err := h.service.GetItem(c.Request.Context(), itemID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// ListItems handles listing items one page at a time
func (h *CatalogHandlers) ListItems(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	query := application.ListQuery{Pagination: api.ParsePagination(c)}

	page, err := h.service.ListItems(c.Request.Context(), query)
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// DeactivateItem handles marking an item inactive
func (h *CatalogHandlers) DeactivateItem(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	itemID := c.Param("itemId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"item.id": itemID,
	})

	cmd := application.DeactivateItemCommand{ItemID: itemID}

	item, err := h.service.DeactivateItem(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// CreateOrder handles order creation
func (h *CatalogHandlers) CreateOrder(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req struct {
		Number       string    `json:"number" binding:"required"`
		CustomerName string    `json:"customerName" binding:"required"`
		OrderedAt    time.Time `json:"orderedAt" binding:"required"`
		Priority     string    `json:"priority" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"order.number": req.Number,
	})

	cmd := application.CreateOrderCommand{
		Number:       req.Number,
		CustomerName: req.CustomerName,
		OrderedAt:    req.OrderedAt,
		Priority:     req.Priority,
	}

	order, err := h.service.CreateOrder(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrder handles getting an order by ID
func (h *CatalogHandlers) GetOrder(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	orderID := c.Param("orderId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"order.id": orderID,
	})

	order, err := h.service.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListOrders handles listing orders one page at a time
func (h *CatalogHandlers) ListOrders(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	query := application.ListQuery{Pagination: api.ParsePagination(c)}

	page, err := h.service.ListOrders(c.Request.Context(), query)
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// AdvanceOrderStatus handles moving an order to a later lifecycle status
func (h *CatalogHandlers) AdvanceOrderStatus(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	orderID := c.Param("orderId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"order.id": orderID,
	})

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := application.AdvanceOrderStatusCommand{
		OrderID: orderID,
		Status:  req.Status,
	}

	order, err := h.service.AdvanceOrderStatus(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, order)
}
