package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/productivity-service/internal/application"
	"github.com/wms-platform/productivity-service/pkg/api"
	"github.com/wms-platform/productivity-service/pkg/errors"
	"github.com/wms-platform/productivity-service/pkg/logging"
	"github.com/wms-platform/productivity-service/pkg/middleware"
)

// PickHandlers contains handlers for pick event operations
type PickHandlers struct {
	service *application.PickService
	logger  *logging.Logger
}

// NewPickHandlers creates a new PickHandlers
func NewPickHandlers(service *application.PickService, logger *logging.Logger) *PickHandlers {
	return &PickHandlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers pick event routes on the router
func (h *PickHandlers) RegisterRoutes(router *gin.RouterGroup) {
	picks := router.Group("/picks")
	{
		picks.POST("", h.RecordPick)
		picks.GET("", h.QueryPicks)
		picks.GET("/:pickId", h.GetPick)
		picks.POST("/:pickId/complete", h.CompletePick)
	}
}

// RecordPick handles appending a new open pick event
func (h *PickHandlers) RecordPick(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req struct {
		OrderID    string     `json:"orderId" binding:"required"`
		WorkerID   string     `json:"workerId" binding:"required"`
		ItemID     string     `json:"itemId" binding:"required"`
		LocationID string     `json:"locationId" binding:"required"`
		Quantity   int        `json:"quantity" binding:"required,min=1"`
		StartedAt  *time.Time `json:"startedAt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"pick.order_id":  req.OrderID,
		"pick.worker_id": req.WorkerID,
	})

	cmd := application.RecordPickCommand{
		OrderID:    req.OrderID,
		WorkerID:   req.WorkerID,
		ItemID:     req.ItemID,
		LocationID: req.LocationID,
		Quantity:   req.Quantity,
		StartedAt:  req.StartedAt,
	}

	pick, err := h.service.RecordPick(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusCreated, pick)
}

// CompletePick handles finalizing an open pick event. The body is
// optional; an absent completion time defaults to now.
func (h *PickHandlers) CompletePick(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	pickID := c.Param("pickId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"pick.id": pickID,
	})

	var req struct {
		CompletedAt *time.Time `json:"completedAt"`
		ShortPick   bool       `json:"shortPick"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	cmd := application.CompletePickCommand{
		PickID:      pickID,
		CompletedAt: req.CompletedAt,
		ShortPick:   req.ShortPick,
	}

	pick, err := h.service.CompletePick(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, pick)
}

// GetPick handles getting a pick event by ID
func (h *PickHandlers) GetPick(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	pickID := c.Param("pickId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"pick.id": pickID,
	})

	pick, err := h.service.GetPick(c.Request.Context(), pickID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, pick)
}

// QueryPicks handles listing pick events matching a filter
func (h *PickHandlers) QueryPicks(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	query := application.QueryPicksQuery{
		WorkerIDs:  splitParam(c.Query("workerIds")),
		ZoneIDs:    splitParam(c.Query("zoneIds")),
		ItemIDs:    splitParam(c.Query("itemIds")),
		Pagination: api.ParsePagination(c),
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			responder.RespondBadRequest("from must be an RFC 3339 timestamp")
			return
		}
		query.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			responder.RespondBadRequest("to must be an RFC 3339 timestamp")
			return
		}
		query.To = &to
	}
	if raw := c.Query("completedOnly"); raw != "" {
		completedOnly, err := strconv.ParseBool(raw)
		if err != nil {
			responder.RespondBadRequest("completedOnly must be a boolean")
			return
		}
		query.CompletedOnly = completedOnly
	}

	page, err := h.service.QueryPicks(c.Request.Context(), query)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, page)
}

// splitParam splits a comma-separated query parameter, dropping empty parts.
func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}
