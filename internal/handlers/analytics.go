package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openlms/backend/internal/requestdata"
	"github.com/openlms/backend/internal/services"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
	auditLogService  services.AuditLogService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService, auditLogService services.AuditLogService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, auditLogService: auditLogService}
}

func (ah *AnalyticsHandler) Dashboard(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	stats, err := ah.analyticsService.Dashboard(c.Request.Context(), actor)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, stats)
}

func (ah *AnalyticsHandler) AuditLogs(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	logs, err := ah.auditLogService.List(c.Request.Context(), actor)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, logs)
}
