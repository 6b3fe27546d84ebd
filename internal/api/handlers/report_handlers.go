package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/productivity-service/internal/application"
	"github.com/wms-platform/productivity-service/pkg/errors"
	"github.com/wms-platform/productivity-service/pkg/logging"
	"github.com/wms-platform/productivity-service/pkg/middleware"
)

// ReportHandlers contains handlers for the productivity reports
type ReportHandlers struct {
	service *application.ReportService
	logger  *logging.Logger
}

// NewReportHandlers creates a new ReportHandlers
func NewReportHandlers(service *application.ReportService, logger *logging.Logger) *ReportHandlers {
	return &ReportHandlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers report routes on the router
func (h *ReportHandlers) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("/worker-leaderboard", h.WorkerLeaderboard)
		reports.GET("/shift-leaderboard", h.ShiftLeaderboard)
		reports.GET("/item-velocity", h.ItemVelocity)
		reports.GET("/zone-throughput", h.ZoneThroughput)
		reports.GET("/pick-duration-stats", h.PickDurationStats)
	}
}

// parseWindow reads the required inclusive reporting interval. Reports
// have no ambient default window.
func parseWindow(c *gin.Context) (application.Window, *errors.AppError) {
	fromRaw := c.Query("from")
	toRaw := c.Query("to")
	if fromRaw == "" || toRaw == "" {
		return application.Window{}, errors.ErrValidation("from and to are required RFC 3339 timestamps")
	}

	from, err := time.Parse(time.RFC3339, fromRaw)
	if err != nil {
		return application.Window{}, errors.ErrValidationField("from", fromRaw)
	}
	to, err := time.Parse(time.RFC3339, toRaw)
	if err != nil {
		return application.Window{}, errors.ErrValidationField("to", toRaw)
	}

	return application.Window{From: from, To: to}, nil
}

// parseTopN reads the optional row cap; zero means uncapped.
func parseTopN(c *gin.Context) (int, *errors.AppError) {
	raw := c.Query("topN")
	if raw == "" {
		return 0, nil
	}

	topN, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.ErrValidationField("topN", raw)
	}
	return topN, nil
}

func parseFlag(c *gin.Context, name string) (bool, *errors.AppError) {
	raw := c.Query(name)
	if raw == "" {
		return false, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.ErrValidationField(name, raw)
	}
	return value, nil
}

func windowSpanAttributes(c *gin.Context, window application.Window) {
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"report.window_from": window.From.Format(time.RFC3339),
		"report.window_to":   window.To.Format(time.RFC3339),
	})
}

// WorkerLeaderboard handles the worker leaderboard report
func (h *ReportHandlers) WorkerLeaderboard(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	window, appErr := parseWindow(c)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	topN, appErr := parseTopN(c)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	includeInactive, appErr := parseFlag(c, "includeInactive")
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	requireEvents, appErr := parseFlag(c, "requireEvents")
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	windowSpanAttributes(c, window)

	query := application.WorkerLeaderboardQuery{
		Window:          window,
		Mode:            c.Query("mode"),
		IncludeInactive: includeInactive,
		TopN:            topN,
		RequireEvents:   requireEvents,
	}

	report, err := h.service.WorkerLeaderboard(c.Request.Context(), query)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

// ShiftLeaderboard handles the shift leaderboard report
func (h *ReportHandlers) ShiftLeaderboard(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	window, appErr := parseWindow(c)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	requireEvents, appErr := parseFlag(c, "requireEvents")
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	windowSpanAttributes(c, window)

	query := application.ShiftLeaderboardQuery{
		Window:        window,
		Shift:         c.Query("shift"),
		RequireEvents: requireEvents,
	}

	report, err := h.service.ShiftLeaderboard(c.Request.Context(), query)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

// ItemVelocity handles the item velocity report
func (h *ReportHandlers) ItemVelocity(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	window, appErr := parseWindow(c)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	topN, appErr := parseTopN(c)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	includeIdle, appErr := parseFlag(c, "includeIdle")
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	requireEvents, appErr := parseFlag(c, "requireEvents")
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	windowSpanAttributes(c, window)

	query := application.ItemVelocityQuery{
		Window:        window,
		IncludeIdle:   includeIdle,
		TopN:          topN,
		RequireEvents: requireEvents,
	}

	report, err := h.service.ItemVelocity(c.Request.Context(), query)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

// ZoneThroughput handles the zone throughput report
func (h *ReportHandlers) ZoneThroughput(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	window, appErr := parseWindow(c)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	topN, appErr := parseTopN(c)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	requireEvents, appErr := parseFlag(c, "requireEvents")
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	windowSpanAttributes(c, window)

	query := application.ZoneThroughputQuery{
		Window:        window,
		Mode:          c.Query("mode"),
		TopN:          topN,
		RequireEvents: requireEvents,
	}

	report, err := h.service.ZoneThroughput(c.Request.Context(), query)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

// PickDurationStats handles the pick duration statistics report
func (h *ReportHandlers) PickDurationStats(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	window, appErr := parseWindow(c)
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	requireEvents, appErr := parseFlag(c, "requireEvents")
	if appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	windowSpanAttributes(c, window)

	query := application.PickDurationStatsQuery{
		Window:        window,
		RequireEvents: requireEvents,
	}

	report, err := h.service.PickDurationStats(c.Request.Context(), query)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, report)
}
