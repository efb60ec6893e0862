package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"punchdesk/internal/clock"
	"punchdesk/internal/dto"
	"punchdesk/internal/model"
	"punchdesk/internal/repository"
	apperrors "punchdesk/pkg/errors"
	"punchdesk/pkg/inflight"
	"punchdesk/pkg/metrics"
)

// acquire 获取操作键，被拒绝时计数
func acquire(ctx context.Context, g inflight.Guard, m *metrics.Metrics, action, key string) (func(), error) {
	release, err := g.Acquire(ctx, key)
	if errors.Is(err, apperrors.ErrActionInFlight) && m != nil {
		m.InFlightRejected.WithLabelValues(action).Inc()
	}
	return release, err
}

// recordAudit 写入审计日志；失败只记录警告，不影响已成功的外部操作
func recordAudit(ctx context.Context, repo *repository.Repository, logger *zap.Logger, entry *model.AdminActionLog) {
	// 请求取消不应丢失审计
	if err := repo.AuditLog.Create(context.WithoutCancel(ctx), entry); err != nil {
		logger.Warn("写入审计日志失败",
			zap.String("action", entry.Action),
			zap.String("target_uid", entry.TargetUID),
			zap.String("operator_uid", entry.OperatorUID),
			zap.Error(err),
		)
	}
}

// findEmployee 按 uid 查找名册
func findEmployee(users []model.Employee, uid string) *model.Employee {
	for i := range users {
		if users[i].UID == uid {
			return &users[i]
		}
	}
	return nil
}

// toPunchResponses 打卡记录按员工时区渲染
func toPunchResponses(records []model.PunchRecord, zone string) []dto.PunchRecordResponse {
	out := make([]dto.PunchRecordResponse, 0, len(records))
	for _, r := range records {
		item := dto.PunchRecordResponse{
			ID:          r.ID,
			PunchIn:     clock.FormatISO(r.PunchIn),
			LocalDate:   clock.LocalDate(r.PunchIn, zone),
			LocalIn:     clock.FormatHHMM(r.PunchIn, zone),
			AdminEdited: r.AdminEdited,
			Metrics:     r.Metrics,
		}
		if r.PunchOut != nil {
			iso := clock.FormatISO(*r.PunchOut)
			local := clock.FormatHHMM(*r.PunchOut, zone)
			item.PunchOut = &iso
			item.LocalOut = &local
		}
		out = append(out, item)
	}
	return out
}
