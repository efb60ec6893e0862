package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"punchdesk/internal/dto"
	"punchdesk/internal/service"
	"punchdesk/pkg/response"
)

// ReportHandler 管理员日报/周报 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
	logger    *zap.Logger
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, logger: logger}
}

// Daily 日报
// GET /api/v1/reports/daily?date=&q=
func (h *ReportHandler) Daily(c *gin.Context) {
	var req dto.ReportQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.reportSvc.Daily(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// Weekly 周报
// GET /api/v1/reports/weekly?start_date=&end_date=&q=
func (h *ReportHandler) Weekly(c *gin.Context) {
	var req dto.ReportQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.reportSvc.Weekly(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}
