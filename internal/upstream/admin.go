package upstream

import (
	"context"
	"net/http"
	"net/url"

	"punchdesk/internal/clock"
	"punchdesk/internal/model"
)

// ── 管理员 ──

func (c *Client) GetAllUsers(ctx context.Context) ([]model.Employee, error) {
	out := []model.Employee{}
	err := c.do(ctx, call{
		op: "all_users", label: "获取员工名册", method: http.MethodGet, path: "/api/user/all",
		out: &out, emptyOn404: true,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetDailyReport(ctx context.Context, date string) (*model.DailyReport, error) {
	out := model.DailyReport{Date: date}
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	err := c.do(ctx, call{
		op: "daily_report", label: "获取日报", method: http.MethodGet, path: "/api/admin/reports/daily",
		query: q, out: &out, emptyOn404: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetWeeklyReport(ctx context.Context, startDate, endDate string) (*model.WeeklyReport, error) {
	out := model.WeeklyReport{StartDate: startDate, EndDate: endDate}
	err := c.do(ctx, call{
		op: "weekly_report", label: "获取周报", method: http.MethodGet, path: "/api/admin/reports/weekly",
		query: period(startDate, endDate), out: &out, emptyOn404: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUserPunches(ctx context.Context, uid, startDate, endDate string) ([]model.PunchRecord, error) {
	var out []model.PunchRecord
	err := c.do(ctx, call{
		op: "user_punches", label: "获取打卡记录", method: http.MethodGet, path: "/api/admin/punches/" + url.PathEscape(uid),
		query: period(startDate, endDate), out: &out, emptyOn404: true,
	})
	return out, err
}

func (c *Client) UpdatePunch(ctx context.Context, punchID string, update model.PunchUpdate) (*model.PunchUpdateResult, error) {
	var out model.PunchUpdateResult
	err := c.do(ctx, call{
		op: "update_punch", label: "修改打卡", method: http.MethodPut, path: "/api/admin/punches/" + url.PathEscape(punchID),
		body: isoUpdate(update), out: &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AssignSchedule(ctx context.Context, uid string, req model.ScheduleAssignment) (*model.Employee, error) {
	var out model.Employee
	err := c.do(ctx, call{
		op: "assign_schedule", label: "保存排班", method: http.MethodPut, path: "/api/admin/users/" + url.PathEscape(uid) + "/schedule",
		body: req, out: &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GrantAdmin(ctx context.Context, uid string) (string, error) {
	return c.roleChange(ctx, "grant_admin", "授予管理员", "/api/user/grant-admin", uid)
}

func (c *Client) RevokeAdmin(ctx context.Context, uid string) (string, error) {
	return c.roleChange(ctx, "revoke_admin", "撤销管理员", "/api/user/revoke-admin", uid)
}

func (c *Client) roleChange(ctx context.Context, op, label, path, uid string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, call{
		op: op, label: label, method: http.MethodPost, path: path,
		body: map[string]string{"uid": uid}, out: &out,
	})
	return out.Message, err
}

// isoUpdate 时间统一以 UTC 毫秒格式提交
func isoUpdate(u model.PunchUpdate) map[string]string {
	body := make(map[string]string, 2)
	if u.PunchIn != nil {
		body["punchIn"] = clock.FormatISO(*u.PunchIn)
	}
	if u.PunchOut != nil {
		body["punchOut"] = clock.FormatISO(*u.PunchOut)
	}
	return body
}
