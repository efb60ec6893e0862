package dto

import "punchdesk/internal/model"

// ── 员工名册 ──

// UserListRequest 名册查询
type UserListRequest struct {
	Q string `form:"q" binding:"omitempty,max=100"`
}

// AssignScheduleRequest 排班/时区设置，至少提供一项
type AssignScheduleRequest struct {
	Start    string `json:"start"    binding:"omitempty,hhmm"`
	End      string `json:"end"      binding:"omitempty,hhmm"`
	Timezone string `json:"timezone" binding:"omitempty,max=64"`
}

// RoleChangeResponse 授予/撤销管理员后的结果，附刷新后的名册
type RoleChangeResponse struct {
	Message string           `json:"message"`
	Users   []model.Employee `json:"users"`
}

// AuditLogListRequest 审计日志查询
type AuditLogListRequest struct {
	PaginationRequest
	TargetUID string `form:"target_uid" binding:"omitempty,max=128"`
	Action    string `form:"action"     binding:"omitempty,oneof=punch_edit schedule_assign role_grant role_revoke"`
}
