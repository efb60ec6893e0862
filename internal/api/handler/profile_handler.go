package handler

import (
	"github.com/gin-gonic/gin"

	"punchdesk/internal/dto"
	"punchdesk/internal/service"
	"punchdesk/pkg/response"
)

// ProfileHandler 当前用户 HTTP 处理器
type ProfileHandler struct {
	authSvc service.AuthService
}

// NewProfileHandler 创建 ProfileHandler
func NewProfileHandler(authSvc service.AuthService) *ProfileHandler {
	return &ProfileHandler{authSvc: authSvc}
}

// GetMe 当前用户资料与权限
// GET /api/v1/me
func (h *ProfileHandler) GetMe(c *gin.Context) {
	profile, ok := MustGetProfile(c)
	if !ok {
		return
	}
	response.OK(c, dto.NewProfileResponse(profile, h.authSvc.Zone(profile)))
}
