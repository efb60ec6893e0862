package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"punchdesk/internal/clock"
	"punchdesk/internal/dto"
	"punchdesk/internal/punch"
	"punchdesk/internal/upstream"
	apperrors "punchdesk/pkg/errors"
	"punchdesk/pkg/inflight"
	"punchdesk/pkg/metrics"
)

// PunchService 员工自助打卡
type PunchService interface {
	Status(ctx context.Context, zone string) (*dto.PunchStatusResponse, error)
	// Toggle 执行下一步打卡；同一员工的切换在途时返回 ErrActionInFlight
	Toggle(ctx context.Context, uid, zone string) (*dto.PunchStatusResponse, error)
	History(ctx context.Context, req *dto.PeriodRequest, zone string) ([]dto.PunchRecordResponse, error)
	DailySummary(ctx context.Context, date, zone string) (*dto.DailySummaryResponse, error)
	WeeklySummary(ctx context.Context, req *dto.PeriodRequest, zone string) (*dto.WeeklySummaryResponse, error)
}

type punchService struct {
	api     upstream.AttendanceAPI
	guard   inflight.Guard
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewPunchService 创建 PunchService 实例
func NewPunchService(d Deps) PunchService {
	return &punchService{api: d.API, guard: d.Guard, metrics: d.Metrics, logger: d.Logger, now: time.Now}
}

func (s *punchService) Status(ctx context.Context, zone string) (*dto.PunchStatusResponse, error) {
	st, err := s.api.GetPunchStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.PunchStatusResponse{Status: punch.FromRemote(st, zone, s.now()), Timezone: zone}, nil
}

// ────────────────────── Toggle ──────────────────────

func (s *punchService) Toggle(ctx context.Context, uid, zone string) (*dto.PunchStatusResponse, error) {
	release, err := acquire(ctx, s.guard, s.metrics, "punch_toggle", inflight.PunchToggleKey(uid))
	if err != nil {
		return nil, err
	}
	defer release()

	// 以外部服务的当前状态为准决定下一步动作
	remote, err := s.api.GetPunchStatus(ctx)
	if err != nil {
		return nil, err
	}

	tracker := punch.NewTracker(s.api, punch.FromRemote(remote, zone, s.now()), zone)
	st, err := tracker.Toggle(ctx)
	if err != nil {
		s.logger.Info("打卡失败", zap.String("uid", uid), zap.Error(err))
		return nil, err
	}

	s.logger.Info("打卡成功", zap.String("uid", uid), zap.String("state", string(st.State)))
	return &dto.PunchStatusResponse{Status: st, Timezone: zone}, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *punchService) History(ctx context.Context, req *dto.PeriodRequest, zone string) ([]dto.PunchRecordResponse, error) {
	records, err := s.api.GetHistory(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	return toPunchResponses(records, zone), nil
}

func (s *punchService) DailySummary(ctx context.Context, date, zone string) (*dto.DailySummaryResponse, error) {
	if date == "" {
		date = clock.FormatDate(clock.Today(s.now(), clock.Resolve(zone, "")))
	}
	sum, err := s.api.GetDailySummary(ctx, date)
	if err != nil {
		return nil, err
	}
	return &dto.DailySummaryResponse{Date: date, Summary: sum}, nil
}

func (s *punchService) WeeklySummary(ctx context.Context, req *dto.PeriodRequest, zone string) (*dto.WeeklySummaryResponse, error) {
	start, end, err := weekRange(req.StartDate, req.EndDate, s.now(), zone)
	if err != nil {
		return nil, err
	}
	sum, err := s.api.GetWeeklySummary(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &dto.WeeklySummaryResponse{StartDate: start, EndDate: end, Summary: sum}, nil
}

// weekRange 未指定时取 zone 下本周一至周日；只给开始日期时补齐到该周周日
func weekRange(startDate, endDate string, now time.Time, zone string) (string, string, error) {
	if startDate == "" {
		start, end := clock.WeekOf(clock.Today(now, clock.Resolve(zone, "")))
		return clock.FormatDate(start), clock.FormatDate(end), nil
	}
	start, err := clock.ParseDate(startDate)
	if err != nil {
		return "", "", err
	}
	if endDate == "" {
		return startDate, clock.FormatDate(start.AddDate(0, 0, 6)), nil
	}
	end, err := clock.ParseDate(endDate)
	if err != nil {
		return "", "", err
	}
	if end.Before(start) {
		return "", "", apperrors.NewValidation("end_date", "结束日期不能早于开始日期")
	}
	return startDate, endDate, nil
}
