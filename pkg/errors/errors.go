// Package errors 定义跨层共享的错误类别。
//
// 错误分类：
//   - ErrUnauthenticated：无有效 Token，当前会话终止
//   - ValidationError：本地输入非法，提交前拦截，不会到达外部服务
//   - ServiceError：外部服务返回的非 2xx 响应，消息原样透传
//   - ErrTimeout：等待外部服务超时，可重试
//   - ErrActionInFlight：同一操作仍在进行中，拒绝重复触发
//
// 外部服务 404（该时段无数据）在 upstream 层直接转换为空结果，不在此定义。
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("未认证或登录已过期")
	ErrTimeout         = errors.New("外部服务响应超时，请稍后重试")
	ErrActionInFlight  = errors.New("操作正在进行中，请勿重复提交")
)

// ValidationError 本地校验失败
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidation 构造校验错误
func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ServiceError 外部服务业务失败
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// IsValidation 判断是否为校验错误
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsService 提取外部服务错误
func AsService(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
