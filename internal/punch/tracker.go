package punch

import (
	"context"
	"sync"

	"punchdesk/internal/model"
	apperrors "punchdesk/pkg/errors"
)

// Puncher 外部打卡接口
type Puncher interface {
	PunchIn(ctx context.Context) (*model.PunchInResult, error)
	PunchOut(ctx context.Context) (*model.PunchOutResult, error)
}

// Tracker 两态打卡状态机
//
// 同一时刻只允许一个切换请求在途，重入直接返回 ErrActionInFlight；
// 状态和日志只在外部调用成功后更新，失败时保持原样并原样返回错误。
type Tracker struct {
	api  Puncher
	zone string

	mu       sync.Mutex
	status   Status
	inFlight bool
}

// NewTracker 以初始状态创建状态机
func NewTracker(api Puncher, initial Status, zone string) *Tracker {
	return &Tracker{api: api, zone: zone, status: initial}
}

// Status 当前状态
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// InFlight 是否有切换请求在途
func (t *Tracker) InFlight() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight
}

// Toggle 执行下一步打卡动作
func (t *Tracker) Toggle(ctx context.Context) (Status, error) {
	t.mu.Lock()
	if t.inFlight {
		t.mu.Unlock()
		return Status{}, apperrors.ErrActionInFlight
	}
	t.inFlight = true
	from := t.status
	t.mu.Unlock()

	next, err := t.call(ctx, from)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.inFlight = false
	if err != nil {
		return t.status, err
	}
	t.status = next
	return next, nil
}

func (t *Tracker) call(ctx context.Context, from Status) (Status, error) {
	if from.ClockedIn() {
		res, err := t.api.PunchOut(ctx)
		if err != nil {
			return Status{}, err
		}
		return clockedOut(punchedOutLog(res.PunchOut, t.zone)), nil
	}

	res, err := t.api.PunchIn(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{
		State:   StateClockedIn,
		Next:    ActionPunchOut,
		Log:     punchedInLog(res.PunchIn, t.zone),
		PunchID: res.ID,
	}, nil
}
