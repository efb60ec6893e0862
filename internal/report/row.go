// Package report 把外部服务的日报/周报数据与员工名册合并为展示行，并计算汇总指标。
//
// 每名名册员工在结果中恰好出现一次：有打卡数据的按数据顺序排在前面，
// 没有数据的按名册顺序合成缺勤行排在后面。
package report

import (
	"strings"
	"time"

	"punchdesk/internal/clock"
	"punchdesk/internal/model"
)

// RowStatus 行状态
type RowStatus string

const (
	StatusComplete   RowStatus = "complete"
	StatusIncomplete RowStatus = "incomplete"
	StatusAbsent     RowStatus = "absent"
)

// Row 一名员工在一个周期内的展示行
type Row struct {
	UID        string    `json:"uid"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	Shift      string    `json:"shift"`
	Timezone   string    `json:"timezone"`
	TimeIn     *string   `json:"time_in"`
	TimeOut    *string   `json:"time_out"`
	Status     RowStatus `json:"status"`
	PunchCount int       `json:"punch_count"`

	RegularHours     float64 `json:"regular_hours"`
	OvertimeHours    float64 `json:"overtime_hours"`
	NightDiffHours   float64 `json:"night_diff_hours"`
	LateMinutes      int     `json:"late_minutes"`
	UndertimeMinutes int     `json:"undertime_minutes"`
	TotalWorkedHours float64 `json:"total_worked_hours"`
}

// Metrics 行内指标
func (r Row) Metrics() model.DailyMetrics {
	return model.DailyMetrics{
		RegularHours:     r.RegularHours,
		OvertimeHours:    r.OvertimeHours,
		NightDiffHours:   r.NightDiffHours,
		LateMinutes:      r.LateMinutes,
		UndertimeMinutes: r.UndertimeMinutes,
		TotalWorkedHours: r.TotalWorkedHours,
	}
}

func (r *Row) setMetrics(m model.DailyMetrics) {
	r.RegularHours = m.RegularHours
	r.OvertimeHours = m.OvertimeHours
	r.NightDiffHours = m.NightDiffHours
	r.LateMinutes = m.LateMinutes
	r.UndertimeMinutes = m.UndertimeMinutes
	r.TotalWorkedHours = m.TotalWorkedHours
}

// Options 合成参数
type Options struct {
	// DefaultZone 员工不在名册或时区不可用时使用
	DefaultZone string
}

// ── 名册索引 ──

type roster struct {
	byUID map[string]*model.Employee
	order []*model.Employee
}

// indexRoster 同一 uid 只保留第一次出现；nil 名册返回 nil（不合成缺勤行）
func indexRoster(employees []model.Employee) *roster {
	if employees == nil {
		return nil
	}
	r := &roster{byUID: make(map[string]*model.Employee, len(employees))}
	for i := range employees {
		e := &employees[i]
		if _, dup := r.byUID[e.UID]; dup {
			continue
		}
		r.byUID[e.UID] = e
		r.order = append(r.order, e)
	}
	return r
}

func (r *roster) lookup(uid string) *model.Employee {
	if r == nil {
		return nil
	}
	return r.byUID[uid]
}

// absentRows 名册中未出现在 seen 里的员工，按名册顺序
func (r *roster) absentRows(seen map[string]bool, opts Options) []Row {
	if r == nil {
		return nil
	}
	var rows []Row
	for _, e := range r.order {
		if seen[e.UID] {
			continue
		}
		rows = append(rows, Row{
			UID:        e.UID,
			Name:       e.FullName(),
			Department: e.Department,
			Position:   e.Position,
			Shift:      model.ShiftLabel(e.Schedule),
			Timezone:   clock.Resolve(e.Timezone, opts.DefaultZone).String(),
			Status:     StatusAbsent,
		})
	}
	return rows
}

// ── 行构造 ──

func baseRow(uid string, fe model.FeedEmployee, emp *model.Employee, opts Options) Row {
	row := Row{
		UID:        uid,
		Name:       strings.TrimSpace(fe.FirstName + " " + fe.LastName),
		Department: fe.Department,
		Position:   fe.Position,
		Shift:      "—",
		Timezone:   clock.Resolve("", opts.DefaultZone).String(),
	}
	if emp == nil {
		return row
	}
	row.Shift = model.ShiftLabel(emp.Schedule)
	row.Timezone = clock.Resolve(emp.Timezone, opts.DefaultZone).String()
	if row.Name == "" {
		row.Name = emp.FullName()
	}
	if row.Department == "" {
		row.Department = emp.Department
	}
	if row.Position == "" {
		row.Position = emp.Position
	}
	return row
}

// classify 全部打卡都有下班时间为 complete，任一缺失为 incomplete，没有打卡为 absent
func classify(punches []model.FeedPunch) RowStatus {
	if len(punches) == 0 {
		return StatusAbsent
	}
	for _, p := range punches {
		if p.PunchOut == nil {
			return StatusIncomplete
		}
	}
	return StatusComplete
}

// latestPunch PunchIn 最晚的一条，相同时取靠后的
func latestPunch(punches []model.FeedPunch) *model.FeedPunch {
	var latest *model.FeedPunch
	for i := range punches {
		if latest == nil || !punches[i].PunchIn.Before(latest.PunchIn) {
			latest = &punches[i]
		}
	}
	return latest
}

func (r *Row) setTimes(p *model.FeedPunch) {
	if p == nil {
		return
	}
	in := formatIn(p.PunchIn, r.Timezone)
	r.TimeIn = &in
	if p.PunchOut != nil {
		out := formatIn(*p.PunchOut, r.Timezone)
		r.TimeOut = &out
	}
}

func formatIn(t time.Time, zone string) string {
	return clock.FormatHHMM(t, zone)
}
