package dashboard

import (
	"context"
	"sync"

	"punchdesk/internal/dto"
	"punchdesk/internal/service"
)

// Period 报表周期
type Period string

const (
	Daily  Period = "daily"
	Weekly Period = "weekly"
)

// ReportView 日报或周报视图
// anchor 为日报日期或周报开始日期，空字符串表示今天/本周
type ReportView struct {
	svc    service.ReportService
	period Period
	latest Latest[string]

	mu      sync.Mutex
	current *dto.ReportResponse
	query   string
}

// NewReportView 创建报表视图
func NewReportView(svc service.ReportService, period Period) *ReportView {
	return &ReportView{svc: svc, period: period}
}

// Period 视图周期
func (v *ReportView) Period() Period { return v.period }

// SetQuery 设置搜索关键字，下一次加载生效
func (v *ReportView) SetQuery(q string) {
	v.mu.Lock()
	v.query = q
	v.mu.Unlock()
}

// Load 加载 anchor 对应的周期；被更新的导航取代时返回 ErrSuperseded 且不改变当前快照
func (v *ReportView) Load(ctx context.Context, anchor string) (*dto.ReportResponse, error) {
	v.mu.Lock()
	q := v.query
	v.mu.Unlock()

	resp, err := Load(ctx, &v.latest, anchor, func(ctx context.Context, anchor string) (*dto.ReportResponse, error) {
		if v.period == Weekly {
			return v.svc.Weekly(ctx, &dto.ReportQuery{StartDate: anchor, Q: q})
		}
		return v.svc.Daily(ctx, &dto.ReportQuery{Date: anchor, Q: q})
	}, func(resp *dto.ReportResponse) {
		v.mu.Lock()
		v.current = resp
		v.mu.Unlock()
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Prev 上一天/上一周
func (v *ReportView) Prev(ctx context.Context) (*dto.ReportResponse, error) {
	return v.step(ctx, func(r *dto.ReportResponse) string { return r.PrevDate })
}

// Next 下一天/下一周
func (v *ReportView) Next(ctx context.Context) (*dto.ReportResponse, error) {
	return v.step(ctx, func(r *dto.ReportResponse) string { return r.NextDate })
}

// Reload 以最后一次触发的参数重新加载
func (v *ReportView) Reload(ctx context.Context) (*dto.ReportResponse, error) {
	return v.Load(ctx, v.latest.Key())
}

func (v *ReportView) step(ctx context.Context, pick func(*dto.ReportResponse) string) (*dto.ReportResponse, error) {
	v.mu.Lock()
	cur := v.current
	v.mu.Unlock()
	if cur == nil {
		return v.Load(ctx, "")
	}
	return v.Load(ctx, pick(cur))
}

// Current 当前快照，尚未加载时为 nil
func (v *ReportView) Current() *dto.ReportResponse {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// ── 打卡记录视图 ──

// PunchLogView 管理员查看某员工打卡记录；切换员工时旧请求的结果被丢弃
type PunchLogView struct {
	svc    service.PunchEditService
	latest Latest[string]

	mu      sync.Mutex
	uid     string
	current []dto.PunchRecordResponse
}

// NewPunchLogView 创建打卡记录视图
func NewPunchLogView(svc service.PunchEditService) *PunchLogView {
	return &PunchLogView{svc: svc}
}

// Select 选择员工并加载记录
func (v *PunchLogView) Select(ctx context.Context, uid string) ([]dto.PunchRecordResponse, error) {
	list, err := Load(ctx, &v.latest, uid, func(ctx context.Context, uid string) ([]dto.PunchRecordResponse, error) {
		return v.svc.ListPunches(ctx, uid, &dto.PeriodRequest{})
	}, func(list []dto.PunchRecordResponse) {
		v.mu.Lock()
		v.uid, v.current = uid, list
		v.mu.Unlock()
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Current 当前员工与记录
func (v *PunchLogView) Current() (string, []dto.PunchRecordResponse) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.uid, v.current
}
