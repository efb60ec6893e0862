package dto

import "punchdesk/internal/model"

// ── 管理员修改打卡 ──

// EditSession 打开修改时的预填内容（员工时区 HH:MM）
type EditSession struct {
	PunchID          string `json:"punch_id"`
	UID              string `json:"uid"`
	Timezone         string `json:"timezone"`
	PunchIn          string `json:"punch_in"`
	PunchOut         string `json:"punch_out"`
	PunchOutEditable bool   `json:"punch_out_editable"`
}

// SavePunchEditRequest 保存修改；只提交实际填写的字段
type SavePunchEditRequest struct {
	PunchIn  *string `json:"punch_in"  binding:"omitempty,hhmm"`
	PunchOut *string `json:"punch_out" binding:"omitempty,hhmm"`
}

// SavePunchEditResponse 保存结果：外部服务返回的新指标 + 重新拉取的完整记录
// RefetchFailed 为 true 时修改已生效但 Punches 为空，需要重新加载
type SavePunchEditResponse struct {
	Punch         *model.PunchUpdateResult `json:"punch"`
	Punches       []PunchRecordResponse    `json:"punches"`
	RefetchFailed bool                     `json:"refetch_failed"`
}
