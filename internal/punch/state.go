// Package punch 维护员工在岗/离岗两态及打卡日志文案。
package punch

import (
	"time"

	"punchdesk/internal/clock"
	"punchdesk/internal/model"
)

// State 在岗状态
type State string

const (
	StateClockedIn  State = "clocked-in"
	StateClockedOut State = "clocked-out"
)

// Action 下一步可执行的打卡动作
type Action string

const (
	ActionPunchIn  Action = "punch-in"
	ActionPunchOut Action = "punch-out"
)

// LogNotYet 当天尚未打卡
const LogNotYet = "Not yet punched today"

// Status 打卡状态快照
type Status struct {
	State State  `json:"state"`
	Next  Action `json:"next_action"`
	Log   string `json:"log"`
	// PunchID 在岗时为当前未结束的打卡记录
	PunchID string `json:"punch_id,omitempty"`
}

// ClockedIn 是否在岗
func (s Status) ClockedIn() bool { return s.State == StateClockedIn }

// Derive 根据最近一条打卡记录推导状态；latest 为 nil 时为离岗。
// 时间按员工时区 zone 渲染，"今天" 也按 zone 计算。
func Derive(latest *model.PunchRecord, zone string, now time.Time) Status {
	if latest == nil {
		return clockedOut(LogNotYet)
	}
	if latest.Open() {
		return Status{
			State:   StateClockedIn,
			Next:    ActionPunchOut,
			Log:     punchedInLog(latest.PunchIn, zone),
			PunchID: latest.ID,
		}
	}
	if clock.LocalDate(*latest.PunchOut, zone) == clock.LocalDate(now, zone) {
		return clockedOut(punchedOutLog(*latest.PunchOut, zone))
	}
	return clockedOut(LogNotYet)
}

// FromRemote 由外部服务的 /attendance/status 结果推导状态
func FromRemote(st *model.PunchStatus, zone string, now time.Time) Status {
	if st == nil {
		return Derive(nil, zone, now)
	}
	if st.IsPunchedIn && st.CurrentPunch != nil {
		open := *st.CurrentPunch
		open.PunchOut = nil
		return Derive(&open, zone, now)
	}
	return Derive(st.CurrentPunch, zone, now)
}

// Latest 取列表中 PunchIn 最晚的一条；空列表返回 nil
func Latest(records []model.PunchRecord) *model.PunchRecord {
	var latest *model.PunchRecord
	for i := range records {
		if latest == nil || records[i].PunchIn.After(latest.PunchIn) {
			latest = &records[i]
		}
	}
	return latest
}

func clockedOut(log string) Status {
	return Status{State: StateClockedOut, Next: ActionPunchIn, Log: log}
}

func punchedInLog(t time.Time, zone string) string {
	return "Punched in at " + clock.FormatHHMM(t, zone)
}

func punchedOutLog(t time.Time, zone string) string {
	return "Punched out at " + clock.FormatHHMM(t, zone)
}
