package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"punchdesk/internal/dto"
	"punchdesk/internal/service"
	"punchdesk/pkg/response"
)

// AuditHandler 审计日志 HTTP 处理器
type AuditHandler struct {
	auditSvc service.AuditService
	logger   *zap.Logger
}

// NewAuditHandler 创建 AuditHandler
func NewAuditHandler(auditSvc service.AuditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc, logger: logger}
}

// List 管理操作日志
// GET /api/v1/admin/audit-logs?target_uid=&action=&page=&page_size=
func (h *AuditHandler) List(c *gin.Context) {
	var req dto.AuditLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	logs, total, err := h.auditSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.OKPage(c, logs, total, req.GetPage(), req.GetPageSize())
}
