package dto

import "punchdesk/internal/model"

// ProfileResponse 当前登录用户（GET /me）
type ProfileResponse struct {
	UID         string             `json:"uid"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Department  string             `json:"department"`
	Position    string             `json:"position"`
	Timezone    string             `json:"timezone"`
	Role        model.Role         `json:"role"`
	Schedule    *model.Schedule    `json:"schedule,omitempty"`
	Permissions []model.Permission `json:"permissions"`
}

// NewProfileResponse 由员工信息构造，timezone 为已解析的时区
func NewProfileResponse(e *model.Employee, timezone string) *ProfileResponse {
	perms := []model.Permission{}
	for _, p := range []model.Permission{model.PermViewReports, model.PermEditPunches, model.PermEditSchedules, model.PermManageRoles} {
		if e.Role.Can(p) {
			perms = append(perms, p)
		}
	}
	return &ProfileResponse{
		UID:         e.UID,
		Name:        e.FullName(),
		Email:       e.Email,
		Department:  e.Department,
		Position:    e.Position,
		Timezone:    timezone,
		Role:        model.ParseRole(string(e.Role)),
		Schedule:    e.Schedule,
		Permissions: perms,
	}
}
