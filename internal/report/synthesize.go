package report

import (
	"punchdesk/internal/model"
)

// SynthesizeDaily 合成日报行
func SynthesizeDaily(feed []model.DailyEntry, employees []model.Employee, opts Options) []Row {
	entries := mergeDaily(feed)
	idx := indexRoster(employees)

	rows := make([]Row, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		seen[e.UID] = true
		row := baseRow(e.UID, e.Employee, idx.lookup(e.UID), opts)
		row.setMetrics(e.DailyMetrics)
		row.Status = classify(e.Punches)
		row.PunchCount = len(e.Punches)
		row.setTimes(latestPunch(e.Punches))
		rows = append(rows, row)
	}
	return append(rows, idx.absentRows(seen, opts)...)
}

// SynthesizeWeekly 合成周报行
//
// 状态取整周所有打卡；上下班时间取有打卡的最后一天中最晚的一条；指标为周合计。
func SynthesizeWeekly(feed []model.WeeklyEntry, employees []model.Employee, opts Options) []Row {
	entries := mergeWeekly(feed)
	idx := indexRoster(employees)

	rows := make([]Row, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		seen[e.UID] = true
		var all []model.FeedPunch
		for _, d := range e.Days {
			all = append(all, d.Punches...)
		}

		row := baseRow(e.UID, e.Employee, idx.lookup(e.UID), opts)
		row.setMetrics(e.Totals)
		row.Status = classify(all)
		row.PunchCount = len(all)
		if day := lastActiveDay(e.Days); day != nil {
			row.setTimes(latestPunch(day.Punches))
		}
		rows = append(rows, row)
	}
	return append(rows, idx.absentRows(seen, opts)...)
}

// lastActiveDay WorkDate 最大且有打卡的一天
func lastActiveDay(days []model.DailyEntry) *model.DailyEntry {
	var last *model.DailyEntry
	for i := range days {
		if len(days[i].Punches) == 0 {
			continue
		}
		if last == nil || days[i].WorkDate >= last.WorkDate {
			last = &days[i]
		}
	}
	return last
}

// ── 重复 uid 合并 ──

// mergeDaily 同一 uid 合并到第一次出现的位置：打卡拼接、指标相加
func mergeDaily(feed []model.DailyEntry) []model.DailyEntry {
	pos := make(map[string]int, len(feed))
	out := make([]model.DailyEntry, 0, len(feed))
	for _, e := range feed {
		if i, ok := pos[e.UID]; ok {
			out[i].Punches = append(out[i].Punches, e.Punches...)
			out[i].DailyMetrics = out[i].DailyMetrics.Add(e.DailyMetrics)
			continue
		}
		pos[e.UID] = len(out)
		e.Punches = append([]model.FeedPunch(nil), e.Punches...)
		out = append(out, e)
	}
	return out
}

func mergeWeekly(feed []model.WeeklyEntry) []model.WeeklyEntry {
	pos := make(map[string]int, len(feed))
	out := make([]model.WeeklyEntry, 0, len(feed))
	for _, e := range feed {
		if i, ok := pos[e.UID]; ok {
			out[i].Days = append(out[i].Days, e.Days...)
			out[i].Totals = out[i].Totals.Add(e.Totals)
			continue
		}
		pos[e.UID] = len(out)
		e.Days = append([]model.DailyEntry(nil), e.Days...)
		out = append(out, e)
	}
	return out
}
