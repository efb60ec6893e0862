package upstream

import (
	"context"
	"net/http"
	"net/url"

	"punchdesk/internal/model"
)

// ── 员工自助 ──

func (c *Client) PunchIn(ctx context.Context) (*model.PunchInResult, error) {
	var out model.PunchInResult
	err := c.do(ctx, call{op: "punch_in", label: "上班打卡", method: http.MethodPost, path: "/api/attendance/punch-in", out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PunchOut(ctx context.Context) (*model.PunchOutResult, error) {
	var out model.PunchOutResult
	err := c.do(ctx, call{op: "punch_out", label: "下班打卡", method: http.MethodPost, path: "/api/attendance/punch-out", out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPunchStatus(ctx context.Context) (*model.PunchStatus, error) {
	var out model.PunchStatus
	err := c.do(ctx, call{
		op: "punch_status", label: "获取打卡状态", method: http.MethodGet, path: "/api/attendance/status",
		out: &out, timeout: c.profileTimeout,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetHistory(ctx context.Context, startDate, endDate string) ([]model.PunchRecord, error) {
	var out []model.PunchRecord
	err := c.do(ctx, call{
		op: "history", label: "获取打卡历史", method: http.MethodGet, path: "/api/attendance/history",
		query: period(startDate, endDate), out: &out, emptyOn404: true,
	})
	return out, err
}

// GetDailySummary 该日无数据时返回 nil, nil
func (c *Client) GetDailySummary(ctx context.Context, date string) (*model.DailySummary, error) {
	var out *model.DailySummary
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	err := c.do(ctx, call{
		op: "daily_summary", label: "获取日汇总", method: http.MethodGet, path: "/api/attendance/summary/daily",
		query: q, out: &out, emptyOn404: true,
	})
	return out, err
}

// GetWeeklySummary 该周无数据时返回 nil, nil
func (c *Client) GetWeeklySummary(ctx context.Context, startDate, endDate string) (*model.WeeklySummary, error) {
	var out *model.WeeklySummary
	err := c.do(ctx, call{
		op: "weekly_summary", label: "获取周汇总", method: http.MethodGet, path: "/api/attendance/summary/weekly",
		query: period(startDate, endDate), out: &out, emptyOn404: true,
	})
	return out, err
}

func (c *Client) GetUserDetails(ctx context.Context) (*model.Employee, error) {
	var out model.Employee
	err := c.do(ctx, call{
		op: "user_details", label: "获取用户信息", method: http.MethodGet, path: "/api/user/details",
		out: &out, identity: true, timeout: c.profileTimeout,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
